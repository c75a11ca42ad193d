package tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/campus/apps/api/echo"
	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

func Test_authApi_login(t *testing.T) {
	app := setup(t)
	stu := app.registerStudent(t, "Jane", "Doe", "jane@test.cd")

	invalidCreds := marchallObj(t, httpErr{Error: "invalid credentials", Code: core.CodeUnauthorized})
	app.runTests(t, []httpTest{
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "missing required fields: email, password",
				Code:   core.CodeValidation,
				Fields: map[string]string{"email": core.RequiredText, "password": core.RequiredText},
			}),
		},
		{
			name: "malformed body", method: http.MethodPost, path: "/v1/auth/login", body: []byte(`{"email":`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"nobody@test.cd","password":"student-pass-01"}`),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/auth/login",
			body:     []byte(`{"email":"jane@test.cd","password":"nope"}`),
			wantCode: http.StatusUnauthorized, wantData: invalidCreds,
		},
	})

	t.Run("success", func(t *testing.T) {
		rec := app.run(http.MethodPost, "/v1/auth/login", "", []byte(`{"email":" JANE@test.cd ","password":"student-pass-01"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res echoapi.LoginResponse
		decode(t, rec, &res)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, echoapi.SessionUser{
			ID: stu.ID, Email: "jane@test.cd", Name: "Jane Doe", Role: user.RoleStudent, ProfileID: stu.ProfileID,
		}, res.User)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, app.conf.Server.SessionCookie, cookies[0].Name)
		assert.Equal(t, res.Token, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})
}

func Test_authApi_me(t *testing.T) {
	app := setup(t)
	tch := app.registerTeacher(t, "John", "Smith", "john@test.cd")
	token := app.getToken(t, tch)

	app.runTests(t, []httpTest{
		{name: "auth required", path: "/v1/auth/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "invalid token", path: "/v1/auth/me", token: "not-a-token", wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt", Code: core.CodeUnauthorized}),
		},
		{
			name: "bearer token", path: "/v1/auth/me", token: token,
			wantData: marchallObj(t, echoapi.SessionUser{
				ID: tch.ID, Email: tch.Email, Name: "John Smith", Role: user.RoleTeacher, ProfileID: tch.ProfileID,
			}),
		},
	})

	t.Run("session cookie", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/auth/me", "")
		req.AddCookie(&http.Cookie{Name: app.conf.Server.SessionCookie, Value: token})
		app.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res echoapi.SessionUser
		decode(t, rec, &res)
		assert.Equal(t, tch.ID, res.ID)
	})
}

func Test_authApi_logout(t *testing.T) {
	app := setup(t)
	token := app.getToken(t, app.createAdmin(t, "admin@test.cd"))
	other := app.getToken(t, app.createAdmin(t, "root@test.cd"))

	rec := app.run(http.MethodPost, "/v1/auth/logout", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)

	app.runTests(t, []httpTest{
		{
			name: "revoked token", path: "/v1/auth/me", token: token, wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "session has been revoked", Code: core.CodeUnauthorized}),
		},
		{name: "other sessions live on", path: "/v1/auth/me", token: other},
	})
}

func Test_authApi_refreshToken(t *testing.T) {
	app := setup(t)
	token := app.getToken(t, app.createAdmin(t, "admin@test.cd"))

	rec := app.run(http.MethodPost, "/v1/auth/token-refresh", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res echoapi.TokenResponse
	decode(t, rec, &res)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, token, res.Token)

	app.conf.Server.JWTRefreshExpirationDelta = -1
	app.runTests(t, []httpTest{
		{
			name: "refresh expired", method: http.MethodPost, path: "/v1/auth/token-refresh", token: token,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "refresh has expired", Code: core.CodeUnauthorized}),
		},
	})
}

func Test_authApi_register(t *testing.T) {
	app := setup(t)

	t.Run("student", func(t *testing.T) {
		body := []byte(`{"email":"Ana@Test.cd","password":"kinshasa-2024","firstName":"Ana","lastName":"Kabila"}`)
		rec := app.run(http.MethodPost, "/v1/auth/register-student", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res user.RegistrationResult
		decode(t, rec, &res)
		assert.NotZero(t, res.UserID)
		assert.NotZero(t, res.ProfileID)
		assert.True(t, strings.HasPrefix(res.Matricule, "STU"), res.Matricule)
		assert.Equal(t, "Student registered successfully", res.Message)

		sent := app.mailSvc.Sent()
		require.Len(t, sent, 1)
		assert.Equal(t, "ana@test.cd", sent[0].To[0].Address)
		assert.Contains(t, sent[0].TextContent, "Ana Kabila")

		// the new account can log in
		rec = app.run(http.MethodPost, "/v1/auth/login", "", []byte(`{"email":"ana@test.cd","password":"kinshasa-2024"}`))
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("teacher", func(t *testing.T) {
		body := []byte(`{"email":"prof@test.cd","password":"lubumbashi-99","firstName":"Paul","lastName":"Mbuyi","department":"Math"}`)
		rec := app.run(http.MethodPost, "/v1/auth/register-teacher", "", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res user.RegistrationResult
		decode(t, rec, &res)
		assert.NotZero(t, res.ProfileID)
		assert.Empty(t, res.Matricule)
	})

	app.runTests(t, []httpTest{
		{
			name: "duplicate email", method: http.MethodPost, path: "/v1/auth/register-student",
			body:     []byte(`{"email":"ana@test.cd","password":"kinshasa-2024","firstName":"Ana","lastName":"Bis"}`),
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: user.ErrEmailExists.Error(), Code: core.CodeConflict}),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/auth/register-student", body: []byte(`{"email":"x@test.cd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error: "missing required fields: password, firstName, lastName",
				Code:  core.CodeValidation,
				Fields: map[string]string{
					"password":  core.RequiredText,
					"firstName": "this field cannot be blank",
					"lastName":  "this field cannot be blank",
				},
			}),
		},
		{
			name: "numeric password", method: http.MethodPost, path: "/v1/auth/register-teacher",
			body:     []byte(`{"email":"y@test.cd","password":"1234567890","firstName":"Yves","lastName":"Ilunga"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "invalid fields: password",
				Code:   core.CodeValidation,
				Fields: map[string]string{"password": "password cannot be entirely numeric"},
			}),
		},
	})
}
