package assignment

import (
	"context"

	"github.com/trezcool/campus/core"
)

var (
	ErrNotFound           = core.NewNotFoundError("Assignment")
	ErrSubmissionNotFound = core.NewNotFoundError("Submission")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, in NewAssignment) (int64, error)
		// QueryAssignments orders by due date, latest first.
		QueryAssignments(ctx context.Context, filter Filter) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id int64) (Assignment, error)
		UpdateAssignment(ctx context.Context, id int64, in UpdateAssignment) error
		DeleteAssignment(ctx context.Context, id int64) error

		CreateSubmission(ctx context.Context, in NewSubmission) (int64, error)
		// QuerySubmissions orders by submission time, latest first.
		QuerySubmissions(ctx context.Context, filter SubmissionFilter) ([]Submission, error)
		GetSubmissionByID(ctx context.Context, id int64) (Submission, error)
		GradeSubmission(ctx context.Context, id int64, in GradeSubmission) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, in NewAssignment) (int64, error) {
	return svc.repo.CreateAssignment(ctx, in)
}

func (svc *Service) Query(ctx context.Context, filter Filter) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int64, in UpdateAssignment) error {
	return svc.repo.UpdateAssignment(ctx, id, in)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	return svc.repo.DeleteAssignment(ctx, id)
}

func (svc *Service) Submit(ctx context.Context, in NewSubmission) (int64, error) {
	return svc.repo.CreateSubmission(ctx, in)
}

func (svc *Service) QuerySubmissions(ctx context.Context, filter SubmissionFilter) ([]Submission, error) {
	return svc.repo.QuerySubmissions(ctx, filter)
}

func (svc *Service) GetSubmission(ctx context.Context, id int64) (Submission, error) {
	return svc.repo.GetSubmissionByID(ctx, id)
}

func (svc *Service) Grade(ctx context.Context, id int64, in GradeSubmission) error {
	return svc.repo.GradeSubmission(ctx, id, in)
}
