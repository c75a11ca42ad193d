package teacher

import (
	"context"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/course"
)

var ErrNotFound = core.NewNotFoundError("Teacher")

type (
	Repository interface {
		CreateTeacher(ctx context.Context, tch Teacher) (int64, error)
		QueryAllTeachers(ctx context.Context) ([]Teacher, error)
		GetTeacherByID(ctx context.Context, id int64) (Teacher, error)

		// UpsertGrade inserts or overwrites the note of (teacherId, studentId, courseId) in one statement.
		UpsertGrade(ctx context.Context, in GradeInput) (int64, error)
		QueryGrades(ctx context.Context, filter GradeFilter) ([]Grade, error)
	}

	Service struct {
		repo      Repository
		courseSvc *course.Service
	}
)

func NewService(repo Repository, courseSvc *course.Service) *Service {
	return &Service{repo: repo, courseSvc: courseSvc}
}

func (svc *Service) Create(ctx context.Context, in TeacherInput) (int64, error) {
	return svc.repo.CreateTeacher(ctx, in.Teacher())
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAllTeachers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) QueryCourses(ctx context.Context, teacherID int64) ([]course.Course, error) {
	return svc.courseSvc.Query(ctx, course.Filter{TeacherID: teacherID})
}

// AddCourse creates a course owned by the teacher.
func (svc *Service) AddCourse(ctx context.Context, teacherID int64, in course.CourseInput) (course.Course, error) {
	in.TeacherID = &teacherID
	return svc.courseSvc.Create(ctx, in)
}

// RemoveCourse deletes one of the teacher's courses; courses owned by someone else are left untouched.
func (svc *Service) RemoveCourse(ctx context.Context, teacherID, courseID int64) error {
	n, err := svc.courseSvc.DeleteOwned(ctx, courseID, teacherID)
	if err != nil {
		return err
	}
	if n == 0 {
		return course.ErrNotFound
	}
	return nil
}

func (svc *Service) SaveGrade(ctx context.Context, in GradeInput) (int64, error) {
	return svc.repo.UpsertGrade(ctx, in)
}

func (svc *Service) QueryGrades(ctx context.Context, filter GradeFilter) ([]Grade, error) {
	return svc.repo.QueryGrades(ctx, filter)
}
