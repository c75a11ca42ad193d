package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/student"
	"github.com/trezcool/campus/core/teacher"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound    = core.NewNotFoundError("User")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id int64) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		SetUserPassword(ctx context.Context, id int64, hash []byte) error
		// CreateStudentAccount stores usr and its student profile in one transaction.
		CreateStudentAccount(ctx context.Context, usr User, stu student.Student) (User, error)
		// CreateTeacherAccount stores usr and its teacher profile in one transaction.
		CreateTeacherAccount(ctx context.Context, usr User, tch teacher.Teacher) (User, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, conf: conf}
}

// emailConflict turns a unique violation on users.email into ErrEmailExists.
func emailConflict(err error) error {
	if core.IsConflict(err) {
		return core.NewConflictError(ErrEmailExists)
	}
	return err
}

// Create stores a user without any profile (used for admins by the CLI).
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Email: nu.Email,
		Name:  nu.Name,
		Role:  nu.Role,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.CreateUser(ctx, usr)
	return usr, emailConflict(err)
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) ResetPassword(ctx context.Context, email, pwd string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	return svc.repo.SetUserPassword(ctx, usr.ID, usr.PasswordHash)
}

// RegisterStudent creates a student user and its profile, with a generated matricule.
func (svc *Service) RegisterStudent(ctx context.Context, reg StudentRegistration) (RegistrationResult, error) {
	usr := User{Email: reg.Email, Name: reg.FullName(), Role: RoleStudent}
	if err := usr.SetPassword(reg.Password); err != nil {
		return RegistrationResult{}, err
	}
	stu := student.Student{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Phone:     core.NullString(reg.Phone),
		Matricule: fmt.Sprintf("STU%d", NowFunc().UnixNano()/int64(time.Millisecond)),
		Status:    student.StatusActive,
	}

	usr, err := svc.repo.CreateStudentAccount(ctx, usr, stu)
	if err != nil {
		return RegistrationResult{}, pkgerrors.Wrap(emailConflict(err), "creating student account")
	}
	svc.sendWelcomeMail(usr)
	return RegistrationResult{
		UserID:    usr.ID,
		ProfileID: *usr.ProfileID,
		Matricule: stu.Matricule,
		Message:   "Student registered successfully",
	}, nil
}

// RegisterTeacher creates a teacher user and its profile.
func (svc *Service) RegisterTeacher(ctx context.Context, reg TeacherRegistration) (RegistrationResult, error) {
	usr := User{Email: reg.Email, Name: reg.FullName(), Role: RoleTeacher}
	if err := usr.SetPassword(reg.Password); err != nil {
		return RegistrationResult{}, err
	}
	tch := teacher.Teacher{
		FirstName:      reg.FirstName,
		LastName:       reg.LastName,
		Email:          reg.Email,
		Phone:          core.NullString(reg.Phone),
		Department:     core.NullString(reg.Department),
		Specialization: core.NullString(reg.Specialization),
		Office:         core.NullString(reg.Office),
	}

	usr, err := svc.repo.CreateTeacherAccount(ctx, usr, tch)
	if err != nil {
		return RegistrationResult{}, pkgerrors.Wrap(emailConflict(err), "creating teacher account")
	}
	svc.sendWelcomeMail(usr)
	return RegistrationResult{
		UserID:    usr.ID,
		ProfileID: *usr.ProfileID,
		Message:   "Teacher registered successfully",
	}, nil
}

func (svc *Service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      "Welcome",
		TemplateName: "welcome",
		TemplateData: map[string]string{
			"Name":  usr.Name,
			"Email": usr.Email,
			"Role":  usr.Role,
		},
	})
}
