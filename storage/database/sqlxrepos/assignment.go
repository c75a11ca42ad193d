package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/assignment"
)

const assignmentSelect = `SELECT a.id, a.title, a.description, a.course_id, a.teacher_id, a.due_date, a.max_score,
		a.created_at,
		COALESCE(t.first_name, '') AS first_name, COALESCE(t.last_name, '') AS last_name,
		COALESCE(c.name, '') AS course_name
	FROM assignments a
	LEFT JOIN teachers t ON t.id = a.teacher_id
	LEFT JOIN courses c ON c.id = a.course_id`

const submissionSelect = `SELECT s.id, s.assignment_id, s.student_id, s.file_name, s.file_content, s.grade,
		s.feedback, s.submitted_at,
		COALESCE(a.title, '') AS assignment_title,
		COALESCE(st.first_name, '') AS first_name, COALESCE(st.last_name, '') AS last_name,
		COALESCE(st.email, '') AS email
	FROM submissions s
	LEFT JOIN assignments a ON a.id = s.assignment_id
	LEFT JOIN students st ON st.id = s.student_id`

type assignmentRepository struct {
	db core.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db core.DB) *assignmentRepository {
	return &assignmentRepository{db: db}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, in assignment.NewAssignment) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO assignments (title, description, course_id, teacher_id, due_date, max_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.CourseID, in.TeacherID, in.DueDate, in.MaxScore,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting assignment")
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.Filter) ([]assignment.Assignment, error) {
	var f filters
	if filter.CourseID != 0 {
		f.add("a.course_id = ?", filter.CourseID)
	}
	assignments := make([]assignment.Assignment, 0)
	err := repo.db.Select(ctx, &assignments, assignmentSelect+f.where()+` ORDER BY a.due_date DESC, a.id DESC`, f.args...)
	return assignments, errors.Wrap(err, "selecting assignments")
}

func (repo assignmentRepository) GetAssignmentByID(ctx context.Context, id int64) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := repo.db.Get(ctx, &a, assignmentSelect+` WHERE a.id = ?`, id)
	return a, trapNoRowsErr(err, assignment.ErrNotFound, "getting assignment by id")
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, id int64, in assignment.UpdateAssignment) error {
	_, err := repo.db.Exec(
		ctx,
		`UPDATE assignments SET title = ?, description = ?, due_date = ?, max_score = ? WHERE id = ?`,
		in.Title, in.Description, in.DueDate, in.MaxScore, id,
	)
	return errors.Wrap(err, "updating assignment")
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `DELETE FROM assignments WHERE id = ?`, id)
	return errors.Wrap(err, "deleting assignment")
}

func (repo assignmentRepository) CreateSubmission(ctx context.Context, in assignment.NewSubmission) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO submissions (assignment_id, student_id, file_name, file_content) VALUES (?, ?, ?, ?)`,
		in.AssignmentID, in.StudentID, in.FileName, in.FileContent,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting submission")
}

func (repo assignmentRepository) QuerySubmissions(ctx context.Context, filter assignment.SubmissionFilter) ([]assignment.Submission, error) {
	var f filters
	if filter.AssignmentID != 0 {
		f.add("s.assignment_id = ?", filter.AssignmentID)
	}
	if filter.StudentID != 0 {
		f.add("s.student_id = ?", filter.StudentID)
	}
	submissions := make([]assignment.Submission, 0)
	err := repo.db.Select(ctx, &submissions, submissionSelect+f.where()+` ORDER BY s.submitted_at DESC, s.id DESC`, f.args...)
	return submissions, errors.Wrap(err, "selecting submissions")
}

func (repo assignmentRepository) GetSubmissionByID(ctx context.Context, id int64) (assignment.Submission, error) {
	var sub assignment.Submission
	err := repo.db.Get(ctx, &sub, submissionSelect+` WHERE s.id = ?`, id)
	return sub, trapNoRowsErr(err, assignment.ErrSubmissionNotFound, "getting submission by id")
}

func (repo assignmentRepository) GradeSubmission(ctx context.Context, id int64, in assignment.GradeSubmission) error {
	_, err := repo.db.Exec(ctx, `UPDATE submissions SET grade = ?, feedback = ? WHERE id = ?`, in.Grade, in.Feedback, id)
	return errors.Wrap(err, "grading submission")
}
