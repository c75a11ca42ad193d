package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/campus/core"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent}

type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Name         string    `json:"name" db:"name"`
	Role         string    `json:"role" db:"role"`
	ProfileID    *int64    `json:"profileId" db:"profile_id"` // students.id or teachers.id, depending on Role
	PasswordHash []byte    `json:"-" db:"password"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser contains information needed to create a new User from the admin CLI.
type NewUser struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=admin teacher student"`
	Password string `json:"password" validate:"required"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
}

// Registration carries the self-service sign-up data shared by students and teachers.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Phone     string `json:"phone"`
}

func (r *Registration) Clean() {
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.FirstName = core.CleanString(r.FirstName)
	r.LastName = core.CleanString(r.LastName)
	r.Phone = core.CleanString(r.Phone)
}

func (r *Registration) FullName() string {
	return r.FirstName + " " + r.LastName
}

type StudentRegistration struct {
	Registration
}

type TeacherRegistration struct {
	Registration
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Office         string `json:"office"`
}

// RegistrationResult is returned once the user and its profile have been stored.
type RegistrationResult struct {
	UserID    int64  `json:"userId"`
	ProfileID int64  `json:"profileId"`
	Matricule string `json:"matricule,omitempty"`
	Message   string `json:"message"`
}
