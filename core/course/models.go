package course

import (
	"time"

	"github.com/trezcool/campus/core"
)

// Announcement priorities
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const MaterialTypePDF = "pdf"

type Course struct {
	ID          int64     `json:"id" db:"id"`
	Code        string    `json:"code" db:"code"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Credits     *int64    `json:"credits" db:"credits"`
	Semester    *int64    `json:"semester" db:"semester"`
	TeacherID   *int64    `json:"teacherId" db:"teacher_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type CourseInput struct {
	Code        string  `json:"code" validate:"notblank"`
	Name        string  `json:"name" validate:"notblank"`
	Description *string `json:"description"`
	Credits     *int64  `json:"credits" validate:"omitempty,gte=0"`
	Semester    *int64  `json:"semester" validate:"omitempty,gte=0"`
	TeacherID   *int64  `json:"teacherId"`
}

func (in *CourseInput) Clean() {
	in.Code = core.CleanString(in.Code)
	in.Name = core.CleanString(in.Name)
}

type Filter struct {
	TeacherID int64 `query:"teacherId"`
}

// AvailableCourse is an entry of the read-only course catalog.
type AvailableCourse struct {
	ID          int64   `json:"id" db:"id"`
	Code        string  `json:"code" db:"code"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Credits     *int64  `json:"credits" db:"credits"`
	Category    *string `json:"category" db:"category"`
}

type Enrollment struct {
	ID             int64     `json:"id" db:"id"`
	StudentID      int64     `json:"studentId" db:"student_id"`
	CourseID       int64     `json:"courseId" db:"course_id"`
	Grade          *string   `json:"grade" db:"grade"`
	EnrollmentDate time.Time `json:"enrollmentDate" db:"enrollment_date"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	CourseName string `json:"courseName" db:"course_name"`
}

type EnrollRequest struct {
	StudentID int64 `json:"studentId" validate:"required"`
	CourseID  int64 `json:"courseId" validate:"required"`
}

type DropRequest struct {
	StudentID int64 `json:"studentId" validate:"required"`
}

type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Priority  string    `json:"priority" db:"priority"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	CourseName string `json:"courseName" db:"course_name"`
}

type NewAnnouncement struct {
	Title     string `json:"title" validate:"notblank"`
	Content   string `json:"content" validate:"notblank"`
	CourseID  int64  `json:"courseId" validate:"required"`
	TeacherID int64  `json:"teacherId" validate:"required"`
	Priority  string `json:"priority" validate:"omitempty,oneof=normal high urgent"`
}

func (in *NewAnnouncement) Clean() {
	in.Priority = core.CleanString(in.Priority, true /* lower */)
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
}

type UpdateAnnouncement struct {
	Title    string `json:"title" validate:"notblank"`
	Content  string `json:"content" validate:"notblank"`
	Priority string `json:"priority" validate:"omitempty,oneof=normal high urgent"`
}

func (in *UpdateAnnouncement) Clean() {
	in.Priority = core.CleanString(in.Priority, true /* lower */)
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
}

type Material struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	TeacherID   int64     `json:"teacherId" db:"teacher_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Type        string    `json:"type" db:"type"`
	FileName    string    `json:"fileName" db:"file_name"`
	FileURL     string    `json:"fileUrl" db:"file_url"`
	FileSize    int64     `json:"fileSize" db:"file_size"`
	Duration    int64     `json:"duration" db:"duration"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	CourseName string `json:"courseName" db:"course_name"`
}

type NewMaterial struct {
	CourseID    int64  `json:"courseId" validate:"required"`
	TeacherID   int64  `json:"teacherId" validate:"required"`
	Title       string `json:"title" validate:"notblank"`
	FileName    string `json:"fileName" validate:"notblank"`
	Description string `json:"description"`
	Type        string `json:"type"`
	FileURL     string `json:"fileUrl"`
	FileSize    int64  `json:"fileSize" validate:"gte=0"`
	Duration    int64  `json:"duration" validate:"gte=0"`
}

func (in *NewMaterial) Clean() {
	in.Type = core.CleanString(in.Type, true /* lower */)
	if in.Type == "" {
		in.Type = MaterialTypePDF
	}
}

// ListFilter narrows announcements and materials to one course.
type ListFilter struct {
	CourseID int64 `query:"courseId"`
}
