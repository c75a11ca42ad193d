package course

import (
	"context"
	"errors"

	"github.com/trezcool/campus/core"
)

var (
	ErrNotFound             = core.NewNotFoundError("Course")
	ErrEnrollmentNotFound   = core.NewNotFoundError("Enrollment")
	ErrAnnouncementNotFound = core.NewNotFoundError("Announcement")
	ErrMaterialNotFound     = core.NewNotFoundError("Material")

	ErrAlreadyEnrolled = errors.New("Already enrolled in this course")
)

const CodeAlreadyEnrolled = "already_enrolled"

type (
	Repository interface {
		CreateCourse(ctx context.Context, in CourseInput) (Course, error)
		QueryCourses(ctx context.Context, filter Filter) ([]Course, error)
		GetCourseByID(ctx context.Context, id int64) (Course, error)
		UpdateCourse(ctx context.Context, id int64, in CourseInput) error
		// DeleteCourse removes the course; when ownerID is not nil, only if it belongs to that teacher.
		DeleteCourse(ctx context.Context, id int64, ownerID *int64) (int64, error)
		QueryAvailableCourses(ctx context.Context) ([]AvailableCourse, error)

		CreateEnrollment(ctx context.Context, studentID, courseID int64) (int64, error)
		DeleteEnrollment(ctx context.Context, studentID, courseID int64) (int64, error)
		QueryEnrollments(ctx context.Context, courseID int64) ([]Enrollment, error)

		CreateAnnouncement(ctx context.Context, in NewAnnouncement) (int64, error)
		QueryAnnouncements(ctx context.Context, filter ListFilter) ([]Announcement, error)
		GetAnnouncementByID(ctx context.Context, id int64) (Announcement, error)
		UpdateAnnouncement(ctx context.Context, id int64, in UpdateAnnouncement) error
		DeleteAnnouncement(ctx context.Context, id int64) error

		CreateMaterial(ctx context.Context, in NewMaterial) (int64, error)
		QueryMaterials(ctx context.Context, filter ListFilter) ([]Material, error)
		GetMaterialByID(ctx context.Context, id int64) (Material, error)
		DeleteMaterial(ctx context.Context, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, in CourseInput) (Course, error) {
	return svc.repo.CreateCourse(ctx, in)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int64, in CourseInput) error {
	return svc.repo.UpdateCourse(ctx, id, in)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	_, err := svc.repo.DeleteCourse(ctx, id, nil)
	return err
}

// DeleteOwned deletes the course only if ownerID teaches it, and reports how many rows were removed.
func (svc *Service) DeleteOwned(ctx context.Context, id, ownerID int64) (int64, error) {
	return svc.repo.DeleteCourse(ctx, id, &ownerID)
}

func (svc *Service) QueryAvailable(ctx context.Context) ([]AvailableCourse, error) {
	return svc.repo.QueryAvailableCourses(ctx)
}

// Enroll adds the (student, course) pair; a second enrollment of the same pair is a validation error.
func (svc *Service) Enroll(ctx context.Context, req EnrollRequest) (int64, error) {
	id, err := svc.repo.CreateEnrollment(ctx, req.StudentID, req.CourseID)
	if core.IsConflict(err) {
		return 0, core.NewCodedValidationError(CodeAlreadyEnrolled, ErrAlreadyEnrolled)
	}
	return id, err
}

func (svc *Service) Drop(ctx context.Context, courseID int64, req DropRequest) error {
	n, err := svc.repo.DeleteEnrollment(ctx, req.StudentID, courseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (svc *Service) QueryEnrollments(ctx context.Context, courseID int64) ([]Enrollment, error) {
	return svc.repo.QueryEnrollments(ctx, courseID)
}

func (svc *Service) CreateAnnouncement(ctx context.Context, in NewAnnouncement) (int64, error) {
	return svc.repo.CreateAnnouncement(ctx, in)
}

func (svc *Service) QueryAnnouncements(ctx context.Context, filter ListFilter) ([]Announcement, error) {
	return svc.repo.QueryAnnouncements(ctx, filter)
}

func (svc *Service) GetAnnouncement(ctx context.Context, id int64) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(ctx, id)
}

func (svc *Service) UpdateAnnouncement(ctx context.Context, id int64, in UpdateAnnouncement) error {
	return svc.repo.UpdateAnnouncement(ctx, id, in)
}

func (svc *Service) DeleteAnnouncement(ctx context.Context, id int64) error {
	return svc.repo.DeleteAnnouncement(ctx, id)
}

func (svc *Service) CreateMaterial(ctx context.Context, in NewMaterial) (int64, error) {
	return svc.repo.CreateMaterial(ctx, in)
}

func (svc *Service) QueryMaterials(ctx context.Context, filter ListFilter) ([]Material, error) {
	return svc.repo.QueryMaterials(ctx, filter)
}

func (svc *Service) GetMaterial(ctx context.Context, id int64) (Material, error) {
	return svc.repo.GetMaterialByID(ctx, id)
}

func (svc *Service) DeleteMaterial(ctx context.Context, id int64) error {
	return svc.repo.DeleteMaterial(ctx, id)
}
