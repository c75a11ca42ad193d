package student

import (
	"context"
	"math"

	"github.com/trezcool/campus/core"
)

var ErrNotFound = core.NewNotFoundError("Student")

type (
	Repository interface {
		CreateStudent(ctx context.Context, stu Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id int64) (Student, error)
		UpdateStudent(ctx context.Context, id int64, stu Student) error
		DeleteStudent(ctx context.Context, id int64) error
		QueryEnrolledCourses(ctx context.Context, studentID int64) ([]EnrolledCourse, error)
		QueryGradedWork(ctx context.Context, studentID int64) ([]GradedWork, error)

		CreateNote(ctx context.Context, note NewNote) (int64, error)
		QueryNotes(ctx context.Context, studentID int64) ([]Note, error)
		UpdateNote(ctx context.Context, id int64, note UpdateNote) error
		DeleteNote(ctx context.Context, id int64) error

		CreateScheduleEntry(ctx context.Context, entry NewScheduleEntry) (int64, error)
		// QuerySchedule orders entries by weekday (Monday first) then start time.
		QuerySchedule(ctx context.Context, studentID int64) ([]ScheduleEntry, error)
		UpdateScheduleEntry(ctx context.Context, id int64, entry UpdateScheduleEntry) error
		DeleteScheduleEntry(ctx context.Context, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, in StudentInput) (Student, error) {
	return svc.repo.CreateStudent(ctx, in.Student())
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

// Update overwrites every mutable field, then reads the row back.
func (svc *Service) Update(ctx context.Context, id int64, in StudentInput) (Student, error) {
	if err := svc.repo.UpdateStudent(ctx, id, in.Student()); err != nil {
		return Student{}, err
	}
	return svc.repo.GetStudentByID(ctx, id)
}

// Delete removes the student row only: enrollments, submissions, etc. are kept as they are.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteStudent(ctx, id)
}

func (svc *Service) QueryCourses(ctx context.Context, studentID int64) ([]EnrolledCourse, error) {
	return svc.repo.QueryEnrolledCourses(ctx, studentID)
}

// Bulletin gathers the graded submissions of a student and computes their average on /20.
func (svc *Service) Bulletin(ctx context.Context, studentID int64) (Bulletin, error) {
	works, err := svc.repo.QueryGradedWork(ctx, studentID)
	if err != nil {
		return Bulletin{}, err
	}
	return NewBulletin(studentID, works), nil
}

func NewBulletin(studentID int64, works []GradedWork) Bulletin {
	b := Bulletin{StudentID: studentID, Grades: works}
	if b.Grades == nil {
		b.Grades = []GradedWork{}
	}
	for _, w := range works {
		b.Earned += w.Grade
		b.Total += w.MaxScore
	}
	if b.Total > 0 {
		b.Average = round2(b.Earned / b.Total * 20)
		b.Percentage = round2(b.Earned / b.Total * 100)
	}
	return b
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (svc *Service) CreateNote(ctx context.Context, note NewNote) (int64, error) {
	return svc.repo.CreateNote(ctx, note)
}

func (svc *Service) QueryNotes(ctx context.Context, studentID int64) ([]Note, error) {
	return svc.repo.QueryNotes(ctx, studentID)
}

func (svc *Service) UpdateNote(ctx context.Context, id int64, note UpdateNote) error {
	return svc.repo.UpdateNote(ctx, id, note)
}

func (svc *Service) DeleteNote(ctx context.Context, id int64) error {
	return svc.repo.DeleteNote(ctx, id)
}

func (svc *Service) CreateScheduleEntry(ctx context.Context, entry NewScheduleEntry) (int64, error) {
	return svc.repo.CreateScheduleEntry(ctx, entry)
}

func (svc *Service) QuerySchedule(ctx context.Context, studentID int64) ([]ScheduleEntry, error) {
	return svc.repo.QuerySchedule(ctx, studentID)
}

func (svc *Service) UpdateScheduleEntry(ctx context.Context, id int64, entry UpdateScheduleEntry) error {
	return svc.repo.UpdateScheduleEntry(ctx, id, entry)
}

func (svc *Service) DeleteScheduleEntry(ctx context.Context, id int64) error {
	return svc.repo.DeleteScheduleEntry(ctx, id)
}
