package student

import (
	"time"

	"github.com/trezcool/campus/core"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Student struct {
	ID             int64     `json:"id" db:"id"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"phone" db:"phone"`
	Matricule      string    `json:"matricule" db:"matricule"`
	DateOfBirth    *string   `json:"dateOfBirth" db:"date_of_birth"`
	Address        *string   `json:"address" db:"address"`
	City           *string   `json:"city" db:"city"`
	ZipCode        *string   `json:"zipCode" db:"zip_code"`
	Country        *string   `json:"country" db:"country"`
	Status         string    `json:"status" db:"status"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// StudentInput is the full set of mutable Student fields, used both to create and to overwrite a Student.
type StudentInput struct {
	FirstName   string  `json:"firstName" validate:"notblank"`
	LastName    string  `json:"lastName" validate:"notblank"`
	Email       string  `json:"email" validate:"required,email"`
	Matricule   string  `json:"matricule" validate:"notblank"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	ZipCode     *string `json:"zipCode"`
	Country     *string `json:"country"`
	Status      string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (in *StudentInput) Clean() {
	in.FirstName = core.CleanString(in.FirstName)
	in.LastName = core.CleanString(in.LastName)
	in.Email = core.CleanString(in.Email, true /* lower */)
	in.Matricule = core.CleanString(in.Matricule)
	in.Status = core.CleanString(in.Status, true /* lower */)
	if in.Status == "" {
		in.Status = StatusActive
	}
}

func (in StudentInput) Student() Student {
	return Student{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Matricule:   in.Matricule,
		DateOfBirth: in.DateOfBirth,
		Address:     in.Address,
		City:        in.City,
		ZipCode:     in.ZipCode,
		Country:     in.Country,
		Status:      in.Status,
	}
}

// EnrolledCourse is a course seen from the enrollments of one student.
type EnrolledCourse struct {
	ID             int64     `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	Name           string    `json:"name" db:"name"`
	Description    *string   `json:"description" db:"description"`
	Credits        *int64    `json:"credits" db:"credits"`
	Semester       *int64    `json:"semester" db:"semester"`
	TeacherID      *int64    `json:"teacherId" db:"teacher_id"`
	Grade          *string   `json:"grade" db:"grade"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`
}

type Note struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	CourseName string    `json:"courseName" db:"course_name"`
	CourseCode string    `json:"courseCode" db:"course_code"`
}

type NewNote struct {
	StudentID int64  `json:"studentId" validate:"required"`
	CourseID  int64  `json:"courseId" validate:"required"`
	Title     string `json:"title" validate:"notblank"`
	Content   string `json:"content"`
}

type UpdateNote struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content"`
}

type ScheduleEntry struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	DayOfWeek  string    `json:"dayOfWeek" db:"day_of_week"`
	StartTime  string    `json:"startTime" db:"start_time"`
	EndTime    string    `json:"endTime" db:"end_time"`
	Room       string    `json:"room" db:"room"`
	Instructor string    `json:"instructor" db:"instructor"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
	CourseName string    `json:"courseName" db:"course_name"`
	CourseCode string    `json:"courseCode" db:"course_code"`
}

type NewScheduleEntry struct {
	StudentID  int64  `json:"studentId" validate:"required"`
	CourseID   int64  `json:"courseId" validate:"required"`
	DayOfWeek  string `json:"dayOfWeek" validate:"notblank"`
	StartTime  string `json:"startTime" validate:"notblank"`
	EndTime    string `json:"endTime" validate:"notblank"`
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

func (in *NewScheduleEntry) Clean() {
	in.DayOfWeek = core.CleanString(in.DayOfWeek)
	in.StartTime = core.CleanString(in.StartTime)
	in.EndTime = core.CleanString(in.EndTime)
}

type UpdateScheduleEntry struct {
	DayOfWeek  string `json:"dayOfWeek" validate:"notblank"`
	StartTime  string `json:"startTime" validate:"notblank"`
	EndTime    string `json:"endTime" validate:"notblank"`
	Room       string `json:"room"`
	Instructor string `json:"instructor"`
}

func (in *UpdateScheduleEntry) Clean() {
	in.DayOfWeek = core.CleanString(in.DayOfWeek)
	in.StartTime = core.CleanString(in.StartTime)
	in.EndTime = core.CleanString(in.EndTime)
}

// GradedWork is one graded submission of a student, with the scale of its assignment.
type GradedWork struct {
	AssignmentID    int64     `json:"assignmentId" db:"assignment_id"`
	AssignmentTitle string    `json:"assignmentTitle" db:"assignment_title"`
	CourseID        int64     `json:"courseId" db:"course_id"`
	CourseName      string    `json:"courseName" db:"course_name"`
	Grade           float64   `json:"grade" db:"grade"`
	MaxScore        float64   `json:"maxScore" db:"max_score"`
	Feedback        *string   `json:"feedback" db:"feedback"`
	SubmittedAt     time.Time `json:"submittedAt" db:"submitted_at"`
}

// Bulletin summarizes the graded work of a student.
type Bulletin struct {
	StudentID  int64        `json:"studentId"`
	Grades     []GradedWork `json:"grades"`
	Earned     float64      `json:"earned"`
	Total      float64      `json:"total"`
	Average    float64      `json:"average"`    // on a /20 scale
	Percentage float64      `json:"percentage"` // 0-100
}
