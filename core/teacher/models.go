package teacher

import (
	"time"

	"github.com/trezcool/campus/core"
)

type Teacher struct {
	ID             int64     `json:"id" db:"id"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"phone" db:"phone"`
	Department     *string   `json:"department" db:"department"`
	Specialization *string   `json:"specialization" db:"specialization"`
	Office         *string   `json:"office" db:"office"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type TeacherInput struct {
	FirstName      string  `json:"firstName" validate:"notblank"`
	LastName       string  `json:"lastName" validate:"notblank"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone"`
	Department     *string `json:"department"`
	Specialization *string `json:"specialization"`
	Office         *string `json:"office"`
}

func (in *TeacherInput) Clean() {
	in.FirstName = core.CleanString(in.FirstName)
	in.LastName = core.CleanString(in.LastName)
	in.Email = core.CleanString(in.Email, true /* lower */)
}

func (in TeacherInput) Teacher() Teacher {
	return Teacher{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		Department:     in.Department,
		Specialization: in.Specialization,
		Office:         in.Office,
	}
}

// Grade is a note a teacher keeps about a student, optionally tied to a course (CourseID 0 otherwise).
type Grade struct {
	ID        int64     `json:"id" db:"id"`
	TeacherID int64     `json:"teacherId" db:"teacher_id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Grade     *float64  `json:"grade" db:"grade"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	CourseName string `json:"courseName" db:"course_name"`
}

type GradeInput struct {
	TeacherID int64    `json:"teacherId" validate:"required"`
	StudentID int64    `json:"studentId" validate:"required"`
	CourseID  int64    `json:"courseId" validate:"gte=0"`
	Grade     *float64 `json:"grade" validate:"omitempty,gte=0"`
	Notes     *string  `json:"notes"`
}

type GradeFilter struct {
	TeacherID int64 `query:"teacherId" json:"teacherId" validate:"required"`
	CourseID  int64 `query:"courseId" json:"courseId"`
}
