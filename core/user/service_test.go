package user_test

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
	appfs "github.com/trezcool/campus/fs"
	emailsvc "github.com/trezcool/campus/services/email"
	logsvc "github.com/trezcool/campus/services/logger"
	inmemdb "github.com/trezcool/campus/storage/database/inmem"
)

func TestMain(m *testing.M) {
	if err := core.ParseEmailTemplates(appfs.FS); err != nil {
		log.Fatal(err)
	}
	os.Exit(m.Run())
}

func newService(t *testing.T) (*user.Service, *emailsvc.ConsoleService) {
	conf := core.NewTestConfig(":memory:")
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	return user.NewService(inmemdb.NewUserRepository(inmemdb.Open()), mailSvc, conf), mailSvc
}

func TestService_RegisterStudent(t *testing.T) {
	svc, mailSvc := newService(t)
	ctx := context.Background()
	reg := user.StudentRegistration{Registration: user.Registration{
		Email: "ana@test.cd", Password: "student-pass-01", FirstName: "Ana", LastName: "Kabila",
	}}

	res, err := svc.RegisterStudent(ctx, reg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Matricule, "STU"), res.Matricule)
	assert.Equal(t, "Student registered successfully", res.Message)

	usr, err := svc.GetByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.Equal(t, "Ana Kabila", usr.Name)
	require.NotNil(t, usr.ProfileID)
	assert.Equal(t, res.ProfileID, *usr.ProfileID)
	assert.NoError(t, usr.CheckPassword("student-pass-01"))

	sent := mailSvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@test.cd", sent[0].To[0].Address)
	assert.Contains(t, sent[0].HTMLContent, "<strong>ana@test.cd</strong>")

	_, err = svc.RegisterStudent(ctx, reg)
	assert.True(t, core.IsConflict(err))
	assert.Contains(t, err.Error(), user.ErrEmailExists.Error())
	assert.Len(t, mailSvc.Sent(), 1, "no mail for a failed registration")
}

func TestService_RegisterTeacher(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.RegisterTeacher(ctx, user.TeacherRegistration{Registration: user.Registration{
		Email: "john@test.cd", Password: "teacher-pass-01", FirstName: "John", LastName: "Smith",
	}})
	require.NoError(t, err)
	assert.Empty(t, res.Matricule)

	usr, err := svc.GetByEmail(ctx, " JOHN@test.cd ")
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, usr.Role)
	assert.Equal(t, res.UserID, usr.ID)
}

func TestService_ResetPassword(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	usr, err := svc.Create(ctx, user.NewUser{Name: "Boss", Email: "boss@test.cd", Role: user.RoleAdmin, Password: "old-pass-01"})
	require.NoError(t, err)
	assert.Nil(t, usr.ProfileID)

	assert.Equal(t, user.ErrNotFound, svc.ResetPassword(ctx, "nobody@test.cd", "new-pass-01"))
	require.NoError(t, svc.ResetPassword(ctx, "Boss@test.cd", "new-pass-01"))

	usr, err = svc.GetByID(ctx, usr.ID)
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("new-pass-01"))
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	tests := []struct {
		name    string
		pwd     string
		wantErr string
	}{
		{name: "too short", pwd: "ab1", wantErr: "password must contain at least 8 characters"},
		{name: "whitespace", pwd: "abc 12345", wantErr: "password must not contain whitespace"},
		{name: "numeric", pwd: "1234567890", wantErr: "password cannot be entirely numeric"},
		{name: "similar to name", pwd: "kabila-ana", wantErr: "password cannot be similar to user attributes"},
		{name: "valid", pwd: "student-pass-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := user.Registration{Email: "ana@test.cd", Password: tt.pwd, FirstName: "Ana", LastName: "Kabila"}
			err := core.ValidateStruct(validate, translator, reg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *core.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "invalid fields: password", vErr.Error())
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.wantErr, vErr.Fields[0].Error)
		})
	}
}
