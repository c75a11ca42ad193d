package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/messaging"
	"github.com/trezcool/campus/core/user"
)

func Test_messagingApi_messages(t *testing.T) {
	app := setup(t)
	tchUsr := app.registerTeacher(t, "John", "Smith", "john@test.cd")
	tchToken := app.getToken(t, tchUsr)
	stuUsr := app.registerStudent(t, "Jane", "Doe", "jane@test.cd")
	stuToken := app.getToken(t, stuUsr)
	tid := strconv.FormatInt(*tchUsr.ProfileID, 10)
	sid := strconv.FormatInt(*stuUsr.ProfileID, 10)

	app.runTests(t, []httpTest{
		{name: "mailbox owner required", path: "/v1/messages", token: stuToken, wantCode: http.StatusBadRequest},
		{
			name: "send", method: http.MethodPost, path: "/v1/messages", token: stuToken, wantCode: http.StatusCreated,
			body: []byte(`{"senderId":` + sid + `,"senderRole":"student","recipientId":` + tid + `,"recipientRole":"teacher","content":"Hello"}`),
		},
		{
			name: "bad role", method: http.MethodPost, path: "/v1/messages", token: stuToken, wantCode: http.StatusBadRequest,
			body: []byte(`{"senderId":` + sid + `,"senderRole":"parent","recipientId":` + tid + `,"recipientRole":"teacher","content":"Hi"}`),
		},
	})

	box := "/v1/messages?recipientId=" + tid + "&recipientRole=teacher"
	rec := app.run(http.MethodGet, box, tchToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var inbox []messaging.Message
	decode(t, rec, &inbox)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].IsRead)
	assert.Nil(t, inbox[0].Subject)

	// the sender sees it too
	rec = app.run(http.MethodGet, "/v1/messages?recipientId="+sid+"&recipientRole=student", stuToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outbox []messaging.Message
	decode(t, rec, &outbox)
	require.Len(t, outbox, 1)
	assert.Equal(t, "Hello", outbox[0].Content)
	assert.Equal(t, user.RoleStudent, outbox[0].SenderRole)

	rec = app.run(http.MethodPut, "/v1/messages", tchToken, []byte(`{"messageId":`+strconv.FormatInt(inbox[0].ID, 10)+`}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.run(http.MethodGet, box, tchToken)
	decode(t, rec, &inbox)
	assert.True(t, inbox[0].IsRead)
}

func Test_messagingApi_notifications(t *testing.T) {
	app := setup(t)
	tchToken := app.getToken(t, app.registerTeacher(t, "John", "Smith", "john@test.cd"))
	stuUsr := app.registerStudent(t, "Jane", "Doe", "jane@test.cd")
	stuToken := app.getToken(t, stuUsr)
	sid := strconv.FormatInt(*stuUsr.ProfileID, 10)
	cid := strconv.FormatInt(createCourse(t, app, "LANG101"), 10)

	for _, body := range []string{
		`{"studentId":` + sid + `,"title":"Grade","message":"Your lab was graded","courseId":` + cid + `}`,
		`{"studentId":` + sid + `,"title":"Welcome","message":"Hi","type":"Success"}`,
	} {
		rec := app.run(http.MethodPost, "/v1/notifications", tchToken, []byte(body))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	app.runTests(t, []httpTest{
		{
			name: "teacher required", method: http.MethodPost, path: "/v1/notifications", token: stuToken,
			body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
	})

	rec := app.run(http.MethodGet, "/v1/notifications?studentId="+sid, stuToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var notifications []messaging.Notification
	decode(t, rec, &notifications)
	require.Len(t, notifications, 2)
	byTitle := make(map[string]messaging.Notification)
	for _, n := range notifications {
		byTitle[n.Title] = n
	}
	assert.Equal(t, messaging.NotificationTypeInfo, byTitle["Grade"].Type)
	require.NotNil(t, byTitle["Grade"].CourseName)
	assert.Equal(t, "Course LANG101", *byTitle["Grade"].CourseName)
	assert.Equal(t, "success", byTitle["Welcome"].Type)
	assert.Nil(t, byTitle["Welcome"].CourseName)

	path := "/v1/notifications/" + strconv.FormatInt(byTitle["Grade"].ID, 10)
	rec = app.run(http.MethodPut, path, stuToken, []byte(`{"isRead":true}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = app.run(http.MethodGet, "/v1/notifications?studentId="+sid+"&unreadOnly=true", stuToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &notifications)
	require.Len(t, notifications, 1)
	assert.Equal(t, "Welcome", notifications[0].Title)

	app.runTests(t, []httpTest{
		{name: "not found", path: "/v1/notifications/999", token: stuToken, wantCode: http.StatusNotFound},
	})
}

func Test_server_probes(t *testing.T) {
	app := setup(t)
	app.runTests(t, []httpTest{
		{name: "home", path: "/", wantData: messageBodyJSON(t, "Welcome to the Campus API!")},
		{name: "healthz", path: "/healthz", wantData: []byte(`{"status":"ok"}`)},
		{name: "trailing slash", path: "/healthz/", wantData: []byte(`{"status":"ok"}`)},
		{name: "admin only users", path: "/v1/users", token: app.getToken(t, app.registerStudent(t, "A", "B", "ab@test.cd")), wantCode: http.StatusForbidden},
	})

	rec := app.run(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "campus_http_requests_total")
	assert.Contains(t, rec.Body.String(), "campus_db_queries_total")
}

func messageBodyJSON(t *testing.T, msg string) []byte {
	return marchallObj(t, messageBody(msg))
}
