package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
	appfs "github.com/trezcool/campus/fs"
	emailsvc "github.com/trezcool/campus/services/email"
	logsvc "github.com/trezcool/campus/services/logger"
	"github.com/trezcool/campus/storage/database"
	"github.com/trezcool/campus/storage/database/sqlxrepos"
)

func TestMain(m *testing.M) {
	if err := core.ParseEmailTemplates(appfs.FS); err != nil {
		log.Fatal(err)
	}
	os.Exit(m.Run())
}

func setup(t *testing.T) *commandLine {
	conf := core.NewTestConfig(filepath.Join(t.TempDir(), "campus.db"))
	conf.Database.Seed = false
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	db := database.NewManager(conf, logger)
	t.Cleanup(func() { _ = db.Close() })

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	return &commandLine{
		db:         db,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf, logger), conf),
		validate:   validate,
		translator: translator,
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type promptExtra struct {
	pwd string
}

func (tt cliTest) run(t *testing.T, cli *commandLine) error {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(promptExtra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
	err := cli.run(append([]string{"admin"}, tt.args...))
	switch {
	case tt.wantErr != nil:
		assert.Equal(t, tt.wantErr, err)
	case tt.wantErrStr != "":
		if assert.Error(t, err) {
			assert.Equal(t, tt.wantErrStr, err.Error())
		}
	default:
		assert.NoError(t, err)
	}
	return err
}

func Test_commandLine_usage(t *testing.T) {
	cli := setup(t)
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { _ = tt.run(t, cli) })
	}
}

func Test_commandLine_initDB(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	t.Run("without seed", func(t *testing.T) {
		_ = cliTest{args: []string{"initdb"}}.run(t, cli)
		var count int
		require.NoError(t, cli.db.Get(ctx, &count, `SELECT COUNT(*) FROM users`))
		assert.Zero(t, count)
	})

	for _, name := range []string{"seed", "seed again"} {
		t.Run(name, func(t *testing.T) {
			_ = cliTest{args: []string{"initdb", "-seed"}}.run(t, cli)
			var count int
			require.NoError(t, cli.db.Get(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = 'admin@example.com'`))
			assert.Equal(t, 1, count)
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no name", args: []string{"adduser", "-email", "boss@test.cd"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-email", "boss@test.cd", "-name", "Boss"}, wantErr: errHelp},
		{
			name:       "weak password",
			args:       []string{"adduser", "-email", "boss@test.cd", "-name", "Boss"},
			extra:      promptExtra{pwd: "12345678"},
			wantErrStr: "invalid fields: password",
		},
		{
			name:       "invalid email",
			args:       []string{"adduser", "-email", "boss", "-name", "Boss"},
			extra:      promptExtra{pwd: "st0ng-pass"},
			wantErrStr: "invalid fields: email",
		},
		{name: "create", args: []string{"adduser", "-email", " Boss@Test.cd ", "-name", "Boss"}, extra: promptExtra{pwd: "st0ng-pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { _ = tt.run(t, cli) })
	}

	usr, err := cli.usrSvc.GetByEmail(context.Background(), "boss@test.cd")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, usr.Role)
	assert.Nil(t, usr.ProfileID)
	assert.NoError(t, usr.CheckPassword("st0ng-pass"))

	t.Run("duplicate", func(t *testing.T) {
		err := cliTest{args: []string{"adduser", "-email", "boss@test.cd", "-name", "Boss"}, extra: promptExtra{pwd: "st0ng-pass"}, wantErrStr: "conflict: " + user.ErrEmailExists.Error()}.run(t, cli)
		assert.True(t, core.IsConflict(err))
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()
	_, err := cli.usrSvc.Create(ctx, user.NewUser{Name: "Boss", Email: "boss@test.cd", Role: user.RoleAdmin, Password: "old-pass-01"})
	require.NoError(t, err)

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: promptExtra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", "BOSS@test.cd"}, extra: promptExtra{pwd: "new-pass-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { _ = tt.run(t, cli) })
	}

	usr, err := cli.usrSvc.GetByEmail(ctx, "boss@test.cd")
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("new-pass-01"))
	assert.Error(t, usr.CheckPassword("old-pass-01"))
}
