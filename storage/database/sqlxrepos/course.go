package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/course"
)

const courseColumns = `id, code, name, description, credits, semester, teacher_id, created_at`

type courseRepository struct {
	db core.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db core.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, in course.CourseInput) (course.Course, error) {
	var crs course.Course
	err := repo.db.Get(
		ctx, &crs,
		`INSERT INTO courses (code, name, description, credits, semester, teacher_id)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+courseColumns,
		in.Code, in.Name, in.Description, in.Credits, in.Semester, in.TeacherID,
	)
	return crs, errors.Wrap(err, "inserting course")
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter course.Filter) ([]course.Course, error) {
	var f filters
	if filter.TeacherID != 0 {
		f.add("teacher_id = ?", filter.TeacherID)
	}
	courses := make([]course.Course, 0)
	err := repo.db.Select(ctx, &courses, `SELECT `+courseColumns+` FROM courses`+f.where()+` ORDER BY code`, f.args...)
	return courses, errors.Wrap(err, "selecting courses")
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id int64) (course.Course, error) {
	var crs course.Course
	err := repo.db.Get(ctx, &crs, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	return crs, trapNoRowsErr(err, course.ErrNotFound, "getting course by id")
}

func (repo courseRepository) UpdateCourse(ctx context.Context, id int64, in course.CourseInput) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE courses SET code = ?, name = ?, description = ?, credits = ?, semester = ?, teacher_id = ?
		WHERE id = ?`,
		in.Code, in.Name, in.Description, in.Credits, in.Semester, in.TeacherID, id,
	)
	return errors.Wrap(err, "updating course")
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id int64, ownerID *int64) (int64, error) {
	query, args := `DELETE FROM courses WHERE id = ?`, []interface{}{id}
	if ownerID != nil {
		query += ` AND teacher_id = ?`
		args = append(args, *ownerID)
	}
	res, err := repo.db.Exec(ctx, query, args...)
	return res.RowsAffected, errors.Wrap(err, "deleting course")
}

func (repo courseRepository) QueryAvailableCourses(ctx context.Context) ([]course.AvailableCourse, error) {
	courses := make([]course.AvailableCourse, 0)
	err := repo.db.Select(
		ctx, &courses,
		`SELECT id, code, name, description, credits, category FROM available_courses ORDER BY name`,
	)
	return courses, errors.Wrap(err, "selecting available courses")
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, studentID, courseID int64) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO enrollments (student_id, course_id) VALUES (?, ?)`,
		studentID, courseID,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting enrollment")
}

func (repo courseRepository) DeleteEnrollment(ctx context.Context, studentID, courseID int64) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`DELETE FROM enrollments WHERE student_id = ? AND course_id = ?`,
		studentID, courseID,
	)
	return res.RowsAffected, errors.Wrap(err, "deleting enrollment")
}

func (repo courseRepository) QueryEnrollments(ctx context.Context, courseID int64) ([]course.Enrollment, error) {
	enrollments := make([]course.Enrollment, 0)
	err := repo.db.Select(
		ctx, &enrollments,
		`SELECT e.id, e.student_id, e.course_id, e.grade, e.enrollment_date,
			COALESCE(s.first_name, '') AS first_name, COALESCE(s.last_name, '') AS last_name,
			COALESCE(c.name, '') AS course_name
		FROM enrollments e
		LEFT JOIN students s ON s.id = e.student_id
		LEFT JOIN courses c ON c.id = e.course_id
		WHERE e.course_id = ?
		ORDER BY s.last_name, s.first_name, e.id`,
		courseID,
	)
	return enrollments, errors.Wrap(err, "selecting enrollments")
}

const announcementSelect = `SELECT a.id, a.course_id, a.teacher_id, a.title, a.content, a.priority, a.created_at,
		COALESCE(t.first_name, '') AS first_name, COALESCE(t.last_name, '') AS last_name,
		COALESCE(c.name, '') AS course_name
	FROM announcements a
	LEFT JOIN teachers t ON t.id = a.teacher_id
	LEFT JOIN courses c ON c.id = a.course_id`

func (repo courseRepository) CreateAnnouncement(ctx context.Context, in course.NewAnnouncement) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO announcements (course_id, teacher_id, title, content, priority) VALUES (?, ?, ?, ?, ?)`,
		in.CourseID, in.TeacherID, in.Title, in.Content, in.Priority,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting announcement")
}

func (repo courseRepository) QueryAnnouncements(ctx context.Context, filter course.ListFilter) ([]course.Announcement, error) {
	var f filters
	if filter.CourseID != 0 {
		f.add("a.course_id = ?", filter.CourseID)
	}
	announcements := make([]course.Announcement, 0)
	err := repo.db.Select(
		ctx, &announcements,
		announcementSelect+f.where()+` ORDER BY a.created_at DESC, a.id DESC`,
		f.args...,
	)
	return announcements, errors.Wrap(err, "selecting announcements")
}

func (repo courseRepository) GetAnnouncementByID(ctx context.Context, id int64) (course.Announcement, error) {
	var ann course.Announcement
	err := repo.db.Get(ctx, &ann, announcementSelect+` WHERE a.id = ?`, id)
	return ann, trapNoRowsErr(err, course.ErrAnnouncementNotFound, "getting announcement by id")
}

func (repo courseRepository) UpdateAnnouncement(ctx context.Context, id int64, in course.UpdateAnnouncement) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE announcements SET title = ?, content = ?, priority = ? WHERE id = ?`,
		in.Title, in.Content, in.Priority, id,
	)
	return errors.Wrap(err, "updating announcement")
}

func (repo courseRepository) DeleteAnnouncement(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM announcements WHERE id = ?`, id)
	return errors.Wrap(err, "deleting announcement")
}

const materialSelect = `SELECT m.id, m.course_id, m.teacher_id, m.title, m.description, m.type, m.file_name,
		m.file_url, m.file_size, m.duration, m.created_at,
		COALESCE(t.first_name, '') AS first_name, COALESCE(t.last_name, '') AS last_name,
		COALESCE(c.name, '') AS course_name
	FROM course_materials m
	LEFT JOIN teachers t ON t.id = m.teacher_id
	LEFT JOIN courses c ON c.id = m.course_id`

func (repo courseRepository) CreateMaterial(ctx context.Context, in course.NewMaterial) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO course_materials
			(course_id, teacher_id, title, description, type, file_name, file_url, file_size, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.CourseID, in.TeacherID, in.Title, in.Description, in.Type, in.FileName, in.FileURL, in.FileSize, in.Duration,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting material")
}

func (repo courseRepository) QueryMaterials(ctx context.Context, filter course.ListFilter) ([]course.Material, error) {
	var f filters
	if filter.CourseID != 0 {
		f.add("m.course_id = ?", filter.CourseID)
	}
	materials := make([]course.Material, 0)
	err := repo.db.Select(ctx, &materials, materialSelect+f.where()+` ORDER BY m.created_at DESC, m.id DESC`, f.args...)
	return materials, errors.Wrap(err, "selecting materials")
}

func (repo courseRepository) GetMaterialByID(ctx context.Context, id int64) (course.Material, error) {
	var mat course.Material
	err := repo.db.Get(ctx, &mat, materialSelect+` WHERE m.id = ?`, id)
	return mat, trapNoRowsErr(err, course.ErrMaterialNotFound, "getting material by id")
}

func (repo courseRepository) DeleteMaterial(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM course_materials WHERE id = ?`, id)
	return errors.Wrap(err, "deleting material")
}
