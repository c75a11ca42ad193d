package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/course"
	"github.com/trezcool/campus/core/student"
)

func Test_courseApi_crud(t *testing.T) {
	app := setup(t)
	adminToken := app.getToken(t, app.createAdmin(t, "admin@test.cd"))
	tchToken := app.getToken(t, app.registerTeacher(t, "John", "Smith", "john@test.cd"))

	app.runTests(t, []httpTest{
		{name: "public list (empty)", path: "/v1/courses", wantData: marchallList(t)},
		{name: "public catalog (not seeded)", path: "/v1/available-courses", wantData: marchallList(t)},
		{name: "detail requires auth", path: "/v1/courses/1", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", method: http.MethodPost, path: "/v1/courses", token: tchToken,
			body: []byte(`{"code":"X1","name":"X"}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "missing fields", method: http.MethodPost, path: "/v1/courses", token: adminToken,
			body: []byte(`{"code":"  "}`), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{
				Error:  "missing required fields: code, name",
				Code:   core.CodeValidation,
				Fields: map[string]string{"code": "this field cannot be blank", "name": "this field cannot be blank"},
			}),
		},
		{name: "nothing stored", path: "/v1/courses", wantData: marchallList(t)},
	})

	rec := app.run(http.MethodPost, "/v1/courses", adminToken, []byte(`{"code":"ARCH301","name":"Architecture","credits":4}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var crs course.Course
	decode(t, rec, &crs)
	assert.Equal(t, "ARCH301", crs.Code)
	assert.Nil(t, crs.TeacherID)
	path := "/v1/courses/" + strconv.FormatInt(crs.ID, 10)

	app.runTests(t, []httpTest{
		{name: "public list", path: "/v1/courses", wantData: marchallList(t, crs)},
		{name: "retrieve", path: path, token: tchToken, wantData: marchallObj(t, crs)},
		{
			name: "duplicate code", method: http.MethodPost, path: "/v1/courses", token: adminToken,
			body: []byte(`{"code":"ARCH301","name":"Again"}`), wantCode: http.StatusConflict,
		},
		{
			name: "update", method: http.MethodPut, path: path, token: adminToken,
			body:     []byte(`{"code":"ARCH301","name":"Computer Architecture"}`),
			wantData: marchallObj(t, messageBody("Course updated successfully")),
		},
		{
			name: "update of a missing row succeeds", method: http.MethodPut, path: "/v1/courses/999", token: adminToken,
			body: []byte(`{"code":"NOPE","name":"Nope"}`),
		},
		{name: "delete", method: http.MethodDelete, path: path, token: adminToken},
		{name: "delete again", method: http.MethodDelete, path: path, token: adminToken},
		{
			name: "gone", path: path, token: adminToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Course not found", Code: core.CodeNotFound}),
		},
	})
}

func Test_courseApi_enrollments(t *testing.T) {
	app := setup(t)
	stuUsr := app.registerStudent(t, "Jane", "Doe", "jane@test.cd")
	token := app.getToken(t, stuUsr)
	cid := createCourse(t, app, "ALGO101")
	sid := strconv.FormatInt(*stuUsr.ProfileID, 10)
	body := []byte(`{"studentId":` + sid + `,"courseId":` + strconv.FormatInt(cid, 10) + `}`)
	coursePath := "/v1/courses/" + strconv.FormatInt(cid, 10)

	app.runTests(t, []httpTest{
		{name: "enroll requires auth", method: http.MethodPost, path: "/v1/courses/enroll", body: body, wantCode: http.StatusUnauthorized},
		{name: "enroll", method: http.MethodPost, path: "/v1/courses/enroll", token: token, body: body, wantCode: http.StatusCreated},
		{
			name: "enroll twice", method: http.MethodPost, path: "/v1/courses/enroll", token: token, body: body,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Already enrolled in this course", Code: course.CodeAlreadyEnrolled}),
		},
	})

	rec := app.run(http.MethodGet, coursePath+"/enrollments", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var enrollments []course.Enrollment
	decode(t, rec, &enrollments)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "Jane", enrollments[0].FirstName)
	assert.Equal(t, "Course ALGO101", enrollments[0].CourseName)

	rec = app.run(http.MethodGet, "/v1/students/"+sid+"/courses", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var enrolled []student.EnrolledCourse
	decode(t, rec, &enrolled)
	require.Len(t, enrolled, 1)
	assert.Equal(t, "ALGO101", enrolled[0].Code)

	app.runTests(t, []httpTest{
		{
			name: "drop", method: http.MethodPost, path: coursePath + "/drop", token: token, body: []byte(`{"studentId":` + sid + `}`),
			wantData: marchallObj(t, messageBody("Course dropped successfully")),
		},
		{
			name: "drop when not enrolled", method: http.MethodPost, path: coursePath + "/drop", token: token,
			body: []byte(`{"studentId":` + sid + `}`), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "Enrollment not found", Code: core.CodeNotFound}),
		},
		{name: "no more enrollments", path: coursePath + "/enrollments", token: token, wantData: marchallList(t)},
	})
}

func Test_courseApi_announcementsAndMaterials(t *testing.T) {
	app := setup(t)
	tchUsr := app.registerTeacher(t, "John", "Smith", "john@test.cd")
	tchToken := app.getToken(t, tchUsr)
	stuToken := app.getToken(t, app.registerStudent(t, "Jane", "Doe", "jane@test.cd"))
	cid := strconv.FormatInt(createCourse(t, app, "LANG101"), 10)
	tid := strconv.FormatInt(*tchUsr.ProfileID, 10)

	app.runTests(t, []httpTest{
		{
			name: "teacher required", method: http.MethodPost, path: "/v1/announcements", token: stuToken,
			body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "announcement", method: http.MethodPost, path: "/v1/announcements", token: tchToken,
			body:     []byte(`{"title":"Exam","content":"Friday","courseId":` + cid + `,"teacherId":` + tid + `}`),
			wantCode: http.StatusCreated,
		},
		{
			name: "bad priority", method: http.MethodPost, path: "/v1/announcements", token: tchToken,
			body:     []byte(`{"title":"Exam","content":"Friday","courseId":` + cid + `,"teacherId":` + tid + `,"priority":"meh"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "material", method: http.MethodPost, path: "/v1/course-materials", token: tchToken,
			body:     []byte(`{"title":"Slides","fileName":"w1.pdf","courseId":` + cid + `,"teacherId":` + tid + `}`),
			wantCode: http.StatusCreated,
		},
	})

	rec := app.run(http.MethodGet, "/v1/announcements?courseId="+cid, stuToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var anns []course.Announcement
	decode(t, rec, &anns)
	require.Len(t, anns, 1)
	assert.Equal(t, course.PriorityNormal, anns[0].Priority)
	assert.Equal(t, "Smith", anns[0].LastName)

	rec = app.run(http.MethodGet, "/v1/course-materials?courseId="+cid, stuToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var mats []course.Material
	decode(t, rec, &mats)
	require.Len(t, mats, 1)
	assert.Equal(t, course.MaterialTypePDF, mats[0].Type)

	app.runTests(t, []httpTest{
		{name: "other course", path: "/v1/announcements?courseId=999", token: stuToken, wantData: marchallList(t)},
		{
			name: "delete material", method: http.MethodDelete, path: "/v1/course-materials/" + strconv.FormatInt(mats[0].ID, 10),
			token: tchToken,
		},
		{name: "no more materials", path: "/v1/course-materials", token: stuToken, wantData: marchallList(t)},
	})
}

func Test_teacherApi_courses(t *testing.T) {
	app := setup(t)
	tchUsr := app.registerTeacher(t, "John", "Smith", "john@test.cd")
	token := app.getToken(t, tchUsr)
	other := app.registerTeacher(t, "Eve", "Other", "eve@test.cd")
	base := "/v1/teachers/" + strconv.FormatInt(*tchUsr.ProfileID, 10) + "/courses"

	rec := app.run(http.MethodPost, base, token, []byte(`{"code":"BUREAU101","name":"Office"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var crs course.Course
	decode(t, rec, &crs)
	require.NotNil(t, crs.TeacherID)
	assert.Equal(t, *tchUsr.ProfileID, *crs.TeacherID)
	cid := strconv.FormatInt(crs.ID, 10)

	app.runTests(t, []httpTest{
		{name: "list", path: base, token: token, wantData: marchallList(t, crs)},
		{
			name: "someone else's profile", method: http.MethodPost,
			path:  "/v1/teachers/" + strconv.FormatInt(*other.ProfileID, 10) + "/courses",
			token: token, body: []byte(`{"code":"X","name":"X"}`),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "courseId required", method: http.MethodDelete, path: base, token: token, wantCode: http.StatusBadRequest},
		{name: "remove", method: http.MethodDelete, path: base + "?courseId=" + cid, token: token},
		{
			name: "remove again", method: http.MethodDelete, path: base + "?courseId=" + cid, token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Course not found", Code: core.CodeNotFound}),
		},
	})
}

func Test_teacherApi_grades(t *testing.T) {
	app := setup(t)
	tchUsr := app.registerTeacher(t, "John", "Smith", "john@test.cd")
	token := app.getToken(t, tchUsr)
	stuUsr := app.registerStudent(t, "Jane", "Doe", "jane@test.cd")
	tid := strconv.FormatInt(*tchUsr.ProfileID, 10)
	sid := strconv.FormatInt(*stuUsr.ProfileID, 10)

	app.runTests(t, []httpTest{
		{
			name: "student cannot read", path: "/v1/teachers/grades?teacherId=" + tid, token: app.getToken(t, stuUsr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "teacherId required", path: "/v1/teachers/grades", token: token, wantCode: http.StatusBadRequest},
	})

	// a second save of the same key overwrites the first
	for _, g := range []string{"12", "16.5"} {
		rec := app.run(http.MethodPost, "/v1/teachers/grades", token,
			[]byte(`{"teacherId":`+tid+`,"studentId":`+sid+`,"grade":`+g+`,"notes":"ok"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := app.run(http.MethodGet, "/v1/teachers/grades?teacherId="+tid, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var grades []struct {
		Grade     *float64 `json:"grade"`
		FirstName string   `json:"firstName"`
	}
	decode(t, rec, &grades)
	require.Len(t, grades, 1)
	require.NotNil(t, grades[0].Grade)
	assert.Equal(t, 16.5, *grades[0].Grade)
	assert.Equal(t, "Jane", grades[0].FirstName)
}

// messageBody is the body of the plain confirmation responses.
func messageBody(msg string) map[string]string {
	return map[string]string{"message": msg}
}
