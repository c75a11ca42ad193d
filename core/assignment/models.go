package assignment

import "time"

const DefaultMaxScore = 20

type Assignment struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	TeacherID   int64     `json:"teacherId" db:"teacher_id"`
	DueDate     string    `json:"dueDate" db:"due_date"`
	MaxScore    int64     `json:"maxScore" db:"max_score"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	CourseName string `json:"courseName" db:"course_name"`
}

type NewAssignment struct {
	Title       string `json:"title" validate:"notblank"`
	CourseID    int64  `json:"courseId" validate:"required"`
	TeacherID   int64  `json:"teacherId" validate:"required"`
	DueDate     string `json:"dueDate" validate:"notblank"`
	Description string `json:"description"`
	MaxScore    int64  `json:"maxScore" validate:"gte=0"`
}

func (in *NewAssignment) Clean() {
	if in.MaxScore == 0 {
		in.MaxScore = DefaultMaxScore
	}
}

type UpdateAssignment struct {
	Title       string `json:"title" validate:"notblank"`
	DueDate     string `json:"dueDate" validate:"notblank"`
	Description string `json:"description"`
	MaxScore    int64  `json:"maxScore" validate:"gte=0"`
}

func (in *UpdateAssignment) Clean() {
	if in.MaxScore == 0 {
		in.MaxScore = DefaultMaxScore
	}
}

type Filter struct {
	CourseID int64 `query:"courseId"`
}

type Submission struct {
	ID           int64     `json:"id" db:"id"`
	AssignmentID int64     `json:"assignmentId" db:"assignment_id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	FileName     string    `json:"fileName" db:"file_name"`
	FileContent  string    `json:"fileContent" db:"file_content"`
	Grade        *float64  `json:"grade" db:"grade"`
	Feedback     string    `json:"feedback" db:"feedback"`
	SubmittedAt  time.Time `json:"submittedAt" db:"submitted_at"`

	AssignmentTitle string `json:"assignmentTitle" db:"assignment_title"`
	FirstName       string `json:"firstName" db:"first_name"`
	LastName        string `json:"lastName" db:"last_name"`
	Email           string `json:"email" db:"email"`
}

type NewSubmission struct {
	AssignmentID int64  `json:"assignmentId" validate:"required"`
	StudentID    int64  `json:"studentId" validate:"required"`
	FileName     string `json:"fileName"`
	FileContent  string `json:"fileContent"`
}

// GradeSubmission overwrites the grade and feedback of a submission; a nil Grade clears it.
type GradeSubmission struct {
	Grade    *float64 `json:"grade" validate:"omitempty,gte=0"`
	Feedback string   `json:"feedback"`
}

type SubmissionFilter struct {
	AssignmentID int64 `query:"assignmentId"`
	StudentID    int64 `query:"studentId"`
}
