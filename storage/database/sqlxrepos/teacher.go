package sqlxrepos

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/teacher"
)

const teacherColumns = `id, first_name, last_name, email, phone, department, specialization, office, created_at`

type teacherRepository struct {
	db core.DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db core.DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func insertTeacher(ctx context.Context, exec core.DBExecutor, tch teacher.Teacher) (int64, error) {
	res, err := exec.Exec(
		ctx,
		`INSERT INTO teachers (first_name, last_name, email, phone, department, specialization, office)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tch.FirstName, tch.LastName, tch.Email, tch.Phone, tch.Department, tch.Specialization, tch.Office,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting teacher")
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (int64, error) {
	return insertTeacher(ctx, repo.db, tch)
}

func (repo teacherRepository) QueryAllTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	teachers := make([]teacher.Teacher, 0)
	err := repo.db.Select(ctx, &teachers, `SELECT `+teacherColumns+` FROM teachers ORDER BY last_name, first_name`)
	return teachers, errors.Wrap(err, "selecting teachers")
}

func (repo teacherRepository) GetTeacherByID(ctx context.Context, id int64) (teacher.Teacher, error) {
	var tch teacher.Teacher
	err := repo.db.Get(ctx, &tch, `SELECT `+teacherColumns+` FROM teachers WHERE id = ?`, id)
	return tch, trapNoRowsErr(err, teacher.ErrNotFound, "getting teacher by id")
}

func (repo teacherRepository) UpsertGrade(ctx context.Context, in teacher.GradeInput) (int64, error) {
	var id int64
	err := repo.db.Get(
		ctx, &id,
		`INSERT INTO teacher_notes (teacher_id, student_id, course_id, grade, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(teacher_id, student_id, course_id) DO UPDATE SET
			grade = excluded.grade, notes = excluded.notes, updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		in.TeacherID, in.StudentID, in.CourseID, in.Grade, in.Notes,
	)
	return id, errors.Wrap(err, "upserting grade")
}

func (repo teacherRepository) QueryGrades(ctx context.Context, filter teacher.GradeFilter) ([]teacher.Grade, error) {
	query := `SELECT n.id, n.teacher_id, n.student_id, n.course_id, n.grade, n.notes, n.created_at, n.updated_at,
			COALESCE(s.first_name, '') AS first_name, COALESCE(s.last_name, '') AS last_name,
			COALESCE(c.name, '') AS course_name
		FROM teacher_notes n
		LEFT JOIN students s ON s.id = n.student_id
		LEFT JOIN courses c ON c.id = n.course_id
		WHERE n.teacher_id = ?`
	args := []interface{}{filter.TeacherID}
	if filter.CourseID != 0 {
		query += ` AND n.course_id = ?`
		args = append(args, filter.CourseID)
	}
	query = fmt.Sprintf("%s ORDER BY s.last_name, s.first_name, n.id", query)

	grades := make([]teacher.Grade, 0)
	err := repo.db.Select(ctx, &grades, query, args...)
	return grades, errors.Wrap(err, "selecting grades")
}
