package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/student"
)

const studentColumns = `id, first_name, last_name, email, phone, matricule, date_of_birth, address, city,
	zip_code, country, status, enrollment_date, created_at`

// weekdayRank orders schedule entries Monday first; French and English day names are both accepted.
const weekdayRank = `CASE lower(s.day_of_week)
		WHEN 'lundi' THEN 1 WHEN 'monday' THEN 1
		WHEN 'mardi' THEN 2 WHEN 'tuesday' THEN 2
		WHEN 'mercredi' THEN 3 WHEN 'wednesday' THEN 3
		WHEN 'jeudi' THEN 4 WHEN 'thursday' THEN 4
		WHEN 'vendredi' THEN 5 WHEN 'friday' THEN 5
		WHEN 'samedi' THEN 6 WHEN 'saturday' THEN 6
		WHEN 'dimanche' THEN 7 WHEN 'sunday' THEN 7
		ELSE 8 END`

type studentRepository struct {
	db core.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db core.DB) *studentRepository {
	return &studentRepository{db: db}
}

func insertStudent(ctx context.Context, exec core.DBExecutor, stu student.Student) (student.Student, error) {
	if stu.Status == "" {
		stu.Status = student.StatusActive
	}
	res, err := exec.Exec(
		ctx,
		`INSERT INTO students
			(first_name, last_name, email, phone, matricule, date_of_birth, address, city, zip_code, country, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stu.FirstName, stu.LastName, stu.Email, stu.Phone, stu.Matricule, stu.DateOfBirth,
		stu.Address, stu.City, stu.ZipCode, stu.Country, stu.Status,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	var created student.Student
	err = exec.Get(ctx, &created, `SELECT `+studentColumns+` FROM students WHERE id = ?`, res.LastInsertID)
	return created, trapNoRowsErr(err, student.ErrNotFound, "fetching created student")
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student) (student.Student, error) {
	return insertStudent(ctx, repo.db, stu)
}

func (repo studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := repo.db.Select(ctx, &students, `SELECT `+studentColumns+` FROM students ORDER BY last_name, first_name`)
	return students, errors.Wrap(err, "selecting students")
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id int64) (student.Student, error) {
	var stu student.Student
	err := repo.db.Get(ctx, &stu, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	return stu, trapNoRowsErr(err, student.ErrNotFound, "getting student by id")
}

func (repo studentRepository) UpdateStudent(ctx context.Context, id int64, stu student.Student) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE students SET
			first_name = ?, last_name = ?, email = ?, phone = ?, matricule = ?, date_of_birth = ?,
			address = ?, city = ?, zip_code = ?, country = ?, status = ?
		WHERE id = ?`,
		stu.FirstName, stu.LastName, stu.Email, stu.Phone, stu.Matricule, stu.DateOfBirth,
		stu.Address, stu.City, stu.ZipCode, stu.Country, stu.Status, id,
	)
	return errors.Wrap(err, "updating student")
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM students WHERE id = ?`, id)
	return errors.Wrap(err, "deleting student")
}

func (repo studentRepository) QueryEnrolledCourses(ctx context.Context, studentID int64) ([]student.EnrolledCourse, error) {
	courses := make([]student.EnrolledCourse, 0)
	err := repo.db.Select(
		ctx, &courses,
		`SELECT c.id, c.code, c.name, c.description, c.credits, c.semester, c.teacher_id,
			e.grade, e.enrollment_date
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.student_id = ?
		ORDER BY c.name`,
		studentID,
	)
	return courses, errors.Wrap(err, "selecting enrolled courses")
}

func (repo studentRepository) QueryGradedWork(ctx context.Context, studentID int64) ([]student.GradedWork, error) {
	works := make([]student.GradedWork, 0)
	err := repo.db.Select(
		ctx, &works,
		`SELECT a.id AS assignment_id, a.title AS assignment_title, a.course_id,
			COALESCE(c.name, '') AS course_name,
			CAST(s.grade AS REAL) AS grade, CAST(a.max_score AS REAL) AS max_score,
			NULLIF(s.feedback, '') AS feedback, s.submitted_at
		FROM submissions s
		JOIN assignments a ON a.id = s.assignment_id
		LEFT JOIN courses c ON c.id = a.course_id
		WHERE s.student_id = ? AND s.grade IS NOT NULL
		ORDER BY s.submitted_at DESC, s.id DESC`,
		studentID,
	)
	return works, errors.Wrap(err, "selecting graded work")
}

func (repo studentRepository) CreateNote(ctx context.Context, note student.NewNote) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO student_notes (student_id, course_id, title, content) VALUES (?, ?, ?, ?)`,
		note.StudentID, note.CourseID, note.Title, note.Content,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting note")
}

func (repo studentRepository) QueryNotes(ctx context.Context, studentID int64) ([]student.Note, error) {
	notes := make([]student.Note, 0)
	err := repo.db.Select(
		ctx, &notes,
		`SELECT n.id, n.student_id, n.course_id, n.title, n.content, n.created_at, n.updated_at,
			COALESCE(c.name, '') AS course_name, COALESCE(c.code, '') AS course_code
		FROM student_notes n
		LEFT JOIN courses c ON c.id = n.course_id
		WHERE n.student_id = ?
		ORDER BY n.updated_at DESC, n.id DESC`,
		studentID,
	)
	return notes, errors.Wrap(err, "selecting notes")
}

func (repo studentRepository) UpdateNote(ctx context.Context, id int64, note student.UpdateNote) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE student_notes SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		note.Title, note.Content, id,
	)
	return errors.Wrap(err, "updating note")
}

func (repo studentRepository) DeleteNote(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM student_notes WHERE id = ?`, id)
	return errors.Wrap(err, "deleting note")
}

func (repo studentRepository) CreateScheduleEntry(ctx context.Context, entry student.NewScheduleEntry) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO student_schedule (student_id, course_id, day_of_week, start_time, end_time, room, instructor)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.StudentID, entry.CourseID, entry.DayOfWeek, entry.StartTime, entry.EndTime, entry.Room, entry.Instructor,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting schedule entry")
}

func (repo studentRepository) QuerySchedule(ctx context.Context, studentID int64) ([]student.ScheduleEntry, error) {
	entries := make([]student.ScheduleEntry, 0)
	err := repo.db.Select(
		ctx, &entries,
		`SELECT s.id, s.student_id, s.course_id, s.day_of_week, s.start_time, s.end_time, s.room, s.instructor,
			s.created_at, s.updated_at,
			COALESCE(c.name, '') AS course_name, COALESCE(c.code, '') AS course_code
		FROM student_schedule s
		LEFT JOIN courses c ON c.id = s.course_id
		WHERE s.student_id = ?
		ORDER BY `+weekdayRank+`, s.start_time`,
		studentID,
	)
	return entries, errors.Wrap(err, "selecting schedule")
}

func (repo studentRepository) UpdateScheduleEntry(ctx context.Context, id int64, entry student.UpdateScheduleEntry) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE student_schedule SET
			day_of_week = ?, start_time = ?, end_time = ?, room = ?, instructor = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		entry.DayOfWeek, entry.StartTime, entry.EndTime, entry.Room, entry.Instructor, id,
	)
	return errors.Wrap(err, "updating schedule entry")
}

func (repo studentRepository) DeleteScheduleEntry(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM student_schedule WHERE id = ?`, id)
	return errors.Wrap(err, "deleting schedule entry")
}
