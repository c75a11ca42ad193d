package sqlxrepos

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/assignment"
	"github.com/trezcool/campus/core/attendance"
	"github.com/trezcool/campus/core/course"
	"github.com/trezcool/campus/core/messaging"
	"github.com/trezcool/campus/core/quiz"
	"github.com/trezcool/campus/core/student"
	"github.com/trezcool/campus/core/teacher"
	"github.com/trezcool/campus/core/user"
	logsvc "github.com/trezcool/campus/services/logger"
	"github.com/trezcool/campus/storage/database"
)

var ctx = context.Background()

// openDB returns a manager on a fresh database file, without seed rows.
func openDB(t *testing.T) core.DB {
	conf := core.NewTestConfig(filepath.Join(t.TempDir(), "campus.db"))
	conf.Database.Seed = false
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	db := database.NewManager(conf, logger)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createStudent(t *testing.T, db core.DB, first, last, matricule string) student.Student {
	stu, err := NewStudentRepository(db).CreateStudent(ctx, student.Student{
		FirstName: first,
		LastName:  last,
		Email:     matricule + "@test.cd",
		Matricule: matricule,
	})
	require.NoError(t, err)
	return stu
}

func createTeacher(t *testing.T, db core.DB, first, last string) int64 {
	id, err := NewTeacherRepository(db).CreateTeacher(ctx, teacher.Teacher{FirstName: first, LastName: last, Email: first + "@test.cd"})
	require.NoError(t, err)
	return id
}

func createCourse(t *testing.T, db core.DB, code string, teacherID *int64) course.Course {
	crs, err := NewCourseRepository(db).CreateCourse(ctx, course.CourseInput{Code: code, Name: "Course " + code, TeacherID: teacherID})
	require.NoError(t, err)
	return crs
}

func count(t *testing.T, db core.DB, table string) int {
	var n int
	require.NoError(t, db.Get(ctx, &n, `SELECT COUNT(*) FROM `+table))
	return n
}

func TestUserRepository_accounts(t *testing.T) {
	db := openDB(t)
	repo := NewUserRepository(db)

	usr := user.User{Email: "jane@test.cd", Name: "Jane Doe", Role: user.RoleStudent}
	require.NoError(t, usr.SetPassword("s3cret-pass"))
	created, err := repo.CreateStudentAccount(ctx, usr, student.Student{FirstName: "Jane", LastName: "Doe", Email: "jane@test.cd", Matricule: "STU42"})
	require.NoError(t, err)
	require.NotNil(t, created.ProfileID)

	stu, err := NewStudentRepository(db).GetStudentByID(ctx, *created.ProfileID)
	require.NoError(t, err)
	assert.Equal(t, "STU42", stu.Matricule)
	assert.Equal(t, student.StatusActive, stu.Status)

	got, err := repo.GetUserByEmail(ctx, "jane@test.cd")
	require.NoError(t, err)
	assert.NoError(t, got.CheckPassword("s3cret-pass"))

	// the student row of a rejected account is rolled back
	_, err = repo.CreateStudentAccount(ctx, usr, student.Student{FirstName: "Jane", LastName: "Bis", Email: "other@test.cd", Matricule: "STU43"})
	assert.True(t, core.IsConflict(err), "got %v", err)
	assert.Equal(t, 1, count(t, db, "students"))

	_, err = repo.GetUserByID(ctx, 999)
	assert.Equal(t, user.ErrNotFound, err)
	assert.Equal(t, user.ErrNotFound, repo.SetUserPassword(ctx, 999, []byte("x")))
}

func TestStudentRepository_deleteKeepsOrphans(t *testing.T) {
	db := openDB(t)
	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	crs := createCourse(t, db, "C1", nil)
	crsRepo := NewCourseRepository(db)

	_, err := crsRepo.CreateEnrollment(ctx, stu.ID, crs.ID)
	require.NoError(t, err)

	repo := NewStudentRepository(db)
	require.NoError(t, repo.DeleteStudent(ctx, stu.ID))
	require.NoError(t, repo.DeleteStudent(ctx, stu.ID), "deletes are idempotent")

	_, err = repo.GetStudentByID(ctx, stu.ID)
	assert.Equal(t, student.ErrNotFound, err)

	enrollments, err := crsRepo.QueryEnrollments(ctx, crs.ID)
	require.NoError(t, err)
	require.Len(t, enrollments, 1, "enrollments are not cascaded")
	assert.Equal(t, "", enrollments[0].FirstName)
}

func TestStudentRepository_update(t *testing.T) {
	db := openDB(t)
	repo := NewStudentRepository(db)
	stu := createStudent(t, db, "Ana", "Kab", "STU1")

	city := "Goma"
	require.NoError(t, repo.UpdateStudent(ctx, stu.ID, student.Student{
		FirstName: "Anna", LastName: "Kab", Email: "anna@test.cd", Matricule: "STU1", City: &city, Status: student.StatusInactive,
	}))
	got, err := repo.GetStudentByID(ctx, stu.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
	assert.Equal(t, &city, got.City)
	assert.Equal(t, student.StatusInactive, got.Status)
	assert.Nil(t, got.Phone)

	assert.NoError(t, repo.UpdateStudent(ctx, 999, got), "no existence check on update")
}

func TestStudentRepository_schedule(t *testing.T) {
	db := openDB(t)
	repo := NewStudentRepository(db)
	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	crs := createCourse(t, db, "C1", nil)

	for _, e := range []struct{ day, start string }{
		{"Vendredi", "08:00"}, {"Lundi", "14:00"}, {"Monday", "08:00"}, {"Mercredi", "10:00"},
	} {
		_, err := repo.CreateScheduleEntry(ctx, student.NewScheduleEntry{
			StudentID: stu.ID, CourseID: crs.ID, DayOfWeek: e.day, StartTime: e.start, EndTime: "18:00",
		})
		require.NoError(t, err)
	}

	entries, err := repo.QuerySchedule(ctx, stu.ID)
	require.NoError(t, err)
	got := make([]string, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.DayOfWeek+" "+e.StartTime)
	}
	assert.Equal(t, []string{"Monday 08:00", "Lundi 14:00", "Mercredi 10:00", "Vendredi 08:00"}, got)
	assert.Equal(t, "C1", entries[0].CourseCode)

	empty, err := repo.QuerySchedule(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStudentRepository_gradedWork(t *testing.T) {
	db := openDB(t)
	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	tchID := createTeacher(t, db, "Tom", "Prof")
	crs := createCourse(t, db, "C1", &tchID)
	repo := NewAssignmentRepository(db)

	grades := []*float64{fPtr(15), fPtr(8), nil}
	for i, g := range grades {
		aID, err := repo.CreateAssignment(ctx, assignment.NewAssignment{
			Title: "A", CourseID: crs.ID, TeacherID: tchID, DueDate: "2024-03-2" + strconv.Itoa(i), MaxScore: 20,
		})
		require.NoError(t, err)
		subID, err := repo.CreateSubmission(ctx, assignment.NewSubmission{AssignmentID: aID, StudentID: stu.ID})
		require.NoError(t, err)
		require.NoError(t, repo.GradeSubmission(ctx, subID, assignment.GradeSubmission{Grade: g}))
	}

	works, err := NewStudentRepository(db).QueryGradedWork(ctx, stu.ID)
	require.NoError(t, err)
	require.Len(t, works, 2, "ungraded submissions are left out")

	b := student.NewBulletin(stu.ID, works)
	assert.Equal(t, 23.0, b.Earned)
	assert.Equal(t, 40.0, b.Total)
	assert.Equal(t, 11.5, b.Average)
	assert.Equal(t, 57.5, b.Percentage)
}

func TestCourseRepository_enrollments(t *testing.T) {
	db := openDB(t)
	svc := course.NewService(NewCourseRepository(db))
	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	crs := createCourse(t, db, "C1", nil)

	_, err := svc.Enroll(ctx, course.EnrollRequest{StudentID: stu.ID, CourseID: crs.ID})
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, course.EnrollRequest{StudentID: stu.ID, CourseID: crs.ID})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, course.CodeAlreadyEnrolled, vErr.Code)
	assert.Equal(t, "Already enrolled in this course", vErr.Error())

	courses, err := NewStudentRepository(db).QueryEnrolledCourses(ctx, stu.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "C1", courses[0].Code)

	require.NoError(t, svc.Drop(ctx, crs.ID, course.DropRequest{StudentID: stu.ID}))
	assert.Equal(t, course.ErrEnrollmentNotFound, svc.Drop(ctx, crs.ID, course.DropRequest{StudentID: stu.ID}))
}

func TestCourseRepository_ownedDelete(t *testing.T) {
	db := openDB(t)
	repo := NewCourseRepository(db)
	owner := createTeacher(t, db, "Tom", "Prof")
	other := createTeacher(t, db, "Kim", "Prof")
	crs := createCourse(t, db, "C1", &owner)

	owned, err := repo.QueryCourses(ctx, course.Filter{TeacherID: owner})
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	n, err := repo.DeleteCourse(ctx, crs.ID, &other)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	n, err = repo.DeleteCourse(ctx, crs.ID, &owner)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.CreateCourse(ctx, course.CourseInput{Code: "C2", Name: "X"})
	require.NoError(t, err)
	_, err = repo.CreateCourse(ctx, course.CourseInput{Code: "C2", Name: "Y"})
	assert.True(t, core.IsConflict(err))
}

func TestTeacherRepository_upsertGrade(t *testing.T) {
	db := openDB(t)
	repo := NewTeacherRepository(db)
	tchID := createTeacher(t, db, "Tom", "Prof")
	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	crs := createCourse(t, db, "C1", &tchID)

	id1, err := repo.UpsertGrade(ctx, teacher.GradeInput{TeacherID: tchID, StudentID: stu.ID, CourseID: crs.ID, Grade: fPtr(12)})
	require.NoError(t, err)
	id2, err := repo.UpsertGrade(ctx, teacher.GradeInput{TeacherID: tchID, StudentID: stu.ID, CourseID: crs.ID, Grade: fPtr(14)})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	general, err := repo.UpsertGrade(ctx, teacher.GradeInput{TeacherID: tchID, StudentID: stu.ID, Notes: sPtr("good")})
	require.NoError(t, err)
	assert.NotEqual(t, id1, general)

	grades, err := repo.QueryGrades(ctx, teacher.GradeFilter{TeacherID: tchID, CourseID: crs.ID})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, 14.0, *grades[0].Grade)
	assert.Equal(t, "Ana", grades[0].FirstName)
	assert.Equal(t, "Course C1", grades[0].CourseName)

	all, err := repo.QueryGrades(ctx, teacher.GradeFilter{TeacherID: tchID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQuizRepository(t *testing.T) {
	db := openDB(t)
	repo := NewQuizRepository(db)
	svc := quiz.NewService(repo)
	stu := createStudent(t, db, "Ana", "Kab", "STU1")

	in := quiz.NewQuiz{
		Title: "Q1", CourseID: 1, TeacherID: 1, DueDate: "2024-04-01",
		Questions: []quiz.NewQuestion{
			{QuestionText: "2+2?", Options: quiz.Options{"3", "4"}, CorrectAnswer: "4", Points: 2},
			{QuestionText: "Capital of DRC?", CorrectAnswer: "Kinshasa"},
		},
	}
	in.Clean()
	quizID, err := svc.Create(ctx, in)
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, quizID)
	require.NoError(t, err)
	assert.EqualValues(t, quiz.DefaultTimeLimit, detail.TimeLimit)
	require.Len(t, detail.Questions, 2)
	assert.Equal(t, quiz.Options{"3", "4"}, detail.Questions[0].Options)
	assert.Equal(t, quiz.Options{}, detail.Questions[1].Options)

	questions, err := svc.QueryQuestions(ctx, quizID)
	require.NoError(t, err)
	answers := quiz.Answers{
		itoa(questions[0].ID): "4",
		itoa(questions[1].ID): " kinshasa ",
	}

	id1, err := svc.SaveAnswers(ctx, quiz.SaveAnswers{QuizID: quizID, StudentID: stu.ID, Answers: answers})
	require.NoError(t, err)
	saved, err := svc.QueryAnswers(ctx, quiz.AnswerFilter{QuizID: quizID})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Nil(t, saved[0].Score, "drafts are not scored")

	id2, err := svc.SaveAnswers(ctx, quiz.SaveAnswers{QuizID: quizID, StudentID: stu.ID, Answers: answers, IsSubmitted: true})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
	saved, err = svc.QueryAnswers(ctx, quiz.AnswerFilter{StudentID: stu.ID})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.NotNil(t, saved[0].Score)
	assert.Equal(t, 3.0, *saved[0].Score)
	assert.True(t, saved[0].IsSubmitted)
	assert.Equal(t, "Q1", saved[0].QuizTitle)

	require.NoError(t, svc.Delete(ctx, quizID))
	assert.Equal(t, 0, count(t, db, "quizzes"))
	assert.Equal(t, 0, count(t, db, "quiz_questions"))
	assert.Equal(t, 0, count(t, db, "quiz_answers"))

	_, err = svc.GetDetail(ctx, quizID)
	assert.Equal(t, quiz.ErrNotFound, err)
}

func TestAttendanceRepository(t *testing.T) {
	db := openDB(t)
	repo := NewAttendanceRepository(db)
	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	crs := createCourse(t, db, "C1", nil)

	rec := attendance.NewRecord{CourseID: crs.ID, StudentID: stu.ID, SessionDate: "2024-03-18"}
	rec.Clean()
	id1, err := repo.UpsertRecord(ctx, rec)
	require.NoError(t, err)

	rec.Status = attendance.StatusLate
	id2, err := repo.UpsertRecord(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	_, err = repo.UpsertRecord(ctx, attendance.NewRecord{CourseID: crs.ID, StudentID: stu.ID, SessionDate: "2024-03-19", Status: attendance.StatusAbsent})
	require.NoError(t, err)

	records, err := repo.QueryRecords(ctx, attendance.Filter{CourseID: crs.ID, SessionDate: "2024-03-18"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, attendance.StatusLate, records[0].Status)
	assert.Equal(t, "Course C1", records[0].CourseName)

	records, err = repo.QueryRecords(ctx, attendance.Filter{StudentID: stu.ID})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-03-19", records[0].SessionDate)

	require.NoError(t, repo.UpdateRecord(ctx, id1, attendance.UpdateRecord{Status: attendance.StatusPresent, Notes: sPtr("traffic")}))
	got, err := repo.GetRecordByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got.Status)
	assert.Equal(t, "traffic", *got.Notes)

	_, err = repo.GetRecordByID(ctx, 999)
	assert.Equal(t, attendance.ErrNotFound, err)
}

func TestMessagingRepository(t *testing.T) {
	db := openDB(t)
	repo := NewMessagingRepository(db)

	sent, err := repo.CreateMessage(ctx, messaging.NewMessage{SenderID: 1, SenderRole: "student", RecipientID: 2, RecipientRole: "teacher", Content: "Hi"})
	require.NoError(t, err)
	_, err = repo.CreateMessage(ctx, messaging.NewMessage{SenderID: 2, SenderRole: "teacher", RecipientID: 1, RecipientRole: "student", Content: "Hello", Subject: sPtr("Re")})
	require.NoError(t, err)
	_, err = repo.CreateMessage(ctx, messaging.NewMessage{SenderID: 3, SenderRole: "student", RecipientID: 2, RecipientRole: "teacher", Content: "Other"})
	require.NoError(t, err)

	box, err := repo.QueryMailbox(ctx, messaging.Mailbox{RecipientID: 1, RecipientRole: "student"})
	require.NoError(t, err)
	assert.Len(t, box, 2, "sent and received")

	require.NoError(t, repo.MarkMessageRead(ctx, sent))
	box, err = repo.QueryMailbox(ctx, messaging.Mailbox{RecipientID: 2, RecipientRole: "teacher"})
	require.NoError(t, err)
	require.Len(t, box, 3)

	stu := createStudent(t, db, "Ana", "Kab", "STU1")
	crs := createCourse(t, db, "C1", nil)
	n1, err := repo.CreateNotification(ctx, messaging.NewNotification{StudentID: stu.ID, Title: "T", Message: "M", CourseID: &crs.ID, Type: "info"})
	require.NoError(t, err)
	_, err = repo.CreateNotification(ctx, messaging.NewNotification{StudentID: stu.ID, Title: "T2", Message: "M2", Type: "info"})
	require.NoError(t, err)
	require.NoError(t, repo.SetNotificationRead(ctx, n1, true))

	unread, err := repo.QueryNotifications(ctx, messaging.NotificationFilter{StudentID: stu.ID, UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "T2", unread[0].Title)
	assert.Nil(t, unread[0].CourseName)

	n, err := repo.GetNotificationByID(ctx, n1)
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	require.NotNil(t, n.CourseName)
	assert.Equal(t, "Course C1", *n.CourseName)
}

func fPtr(f float64) *float64 { return &f }
func sPtr(s string) *string   { return &s }
func itoa(i int64) string     { return strconv.FormatInt(i, 10) }
