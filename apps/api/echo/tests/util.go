package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/campus/apps/api/echo"
	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/attendance"
	"github.com/trezcool/campus/core/course"
	"github.com/trezcool/campus/core/messaging"
	"github.com/trezcool/campus/core/quiz"
	"github.com/trezcool/campus/core/student"
	"github.com/trezcool/campus/core/teacher"
	"github.com/trezcool/campus/core/user"
	emailsvc "github.com/trezcool/campus/services/email"
	logsvc "github.com/trezcool/campus/services/logger"
	"github.com/trezcool/campus/services/tokenstore"
	"github.com/trezcool/campus/storage/database"
	"github.com/trezcool/campus/storage/database/sqlxrepos"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt", Code: core.CodeUnauthorized}
	errForbidden    = httpErr{Error: "permission denied", Code: "forbidden"}
)

// testApp is a server wired to a fresh database file, along with what tests need to reach behind it.
type testApp struct {
	*echoapi.Server
	conf    *core.Config
	db      core.DB
	mailSvc *emailsvc.ConsoleService
	usrSvc  *user.Service
}

func setup(t *testing.T) *testApp {
	conf := core.NewTestConfig(filepath.Join(t.TempDir(), "campus.db"))
	conf.Database.Seed = false
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	// set up DB & repos
	db := database.NewManager(conf, logger)
	t.Cleanup(func() { _ = db.Close() })

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up server
	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		DB:             db,
		Tokens:         tokenstore.NewMemoryStore(),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,

		UserSvc:       usrSvc,
		StudentSvc:    student.NewService(sqlxrepos.NewStudentRepository(db)),
		TeacherSvc:    teacher.NewService(sqlxrepos.NewTeacherRepository(db), courseSvc),
		CourseSvc:     courseSvc,
		AssignmentSvc: assignment.NewService(sqlxrepos.NewAssignmentRepository(db)),
		QuizSvc:       quiz.NewService(sqlxrepos.NewQuizRepository(db)),
		AttendanceSvc: attendance.NewService(sqlxrepos.NewAttendanceRepository(db)),
		MessagingSvc:  messaging.NewService(sqlxrepos.NewMessagingRepository(db)),
	})
	return &testApp{Server: server, conf: conf, db: db, mailSvc: mailSvc, usrSvc: usrSvc}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// createAdmin stores an admin account, which has no profile.
func (app *testApp) createAdmin(t *testing.T, email string) user.User {
	usr, err := app.usrSvc.Create(context.Background(), user.NewUser{
		Name:     "Admin",
		Email:    email,
		Role:     user.RoleAdmin,
		Password: "admin-pass-01",
	})
	require.NoError(t, err)
	return usr
}

// registerStudent stores a student account and its profile.
func (app *testApp) registerStudent(t *testing.T, first, last, email string) user.User {
	reg := user.StudentRegistration{Registration: user.Registration{
		Email: email, Password: "student-pass-01", FirstName: first, LastName: last,
	}}
	res, err := app.usrSvc.RegisterStudent(context.Background(), reg)
	require.NoError(t, err)
	usr, err := app.usrSvc.GetByID(context.Background(), res.UserID)
	require.NoError(t, err)
	return usr
}

// registerTeacher stores a teacher account and its profile.
func (app *testApp) registerTeacher(t *testing.T, first, last, email string) user.User {
	reg := user.TeacherRegistration{Registration: user.Registration{
		Email: email, Password: "teacher-pass-01", FirstName: first, LastName: last,
	}}
	res, err := app.usrSvc.RegisterTeacher(context.Background(), reg)
	require.NoError(t, err)
	usr, err := app.usrSvc.GetByID(context.Background(), res.UserID)
	require.NoError(t, err)
	return usr
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := echoapi.GenerateToken(app.conf, echoapi.NewClaims(app.conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

// run serves one request and returns the recorder.
func (app *testApp) run(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

// runTests serves every test of the table and checks its code and data.
func (app *testApp) runTests(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := app.run(method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

type httpErr struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

// decode unmarshals the body of rec into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
