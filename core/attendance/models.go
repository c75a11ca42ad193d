package attendance

import (
	"time"

	"github.com/trezcool/campus/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

type Record struct {
	ID            int64     `json:"id" db:"id"`
	CourseID      int64     `json:"courseId" db:"course_id"`
	StudentID     int64     `json:"studentId" db:"student_id"`
	SessionDate   string    `json:"sessionDate" db:"session_date"`
	Status        string    `json:"status" db:"status"`
	QRCodeScanned bool      `json:"qrCodeScanned" db:"qr_code_scanned"`
	Notes         *string   `json:"notes" db:"notes"`
	MarkedAt      time.Time `json:"markedAt" db:"marked_at"`

	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	Email      string `json:"email" db:"email"`
	CourseName string `json:"courseName" db:"course_name"`
}

type NewRecord struct {
	CourseID      int64   `json:"courseId" validate:"required"`
	StudentID     int64   `json:"studentId" validate:"required"`
	SessionDate   string  `json:"sessionDate" validate:"notblank"`
	Status        string  `json:"status" validate:"omitempty,oneof=present absent late"`
	QRCodeScanned bool    `json:"qrCodeScanned"`
	Notes         *string `json:"notes"`
}

func (in *NewRecord) Clean() {
	in.SessionDate = core.CleanString(in.SessionDate)
	in.Status = core.CleanString(in.Status, true /* lower */)
	if in.Status == "" {
		in.Status = StatusPresent
	}
}

type UpdateRecord struct {
	Status string  `json:"status" validate:"required,oneof=present absent late"`
	Notes  *string `json:"notes"`
}

func (in *UpdateRecord) Clean() {
	in.Status = core.CleanString(in.Status, true /* lower */)
}

// Filter matches records on every non-zero field; SessionDate is compared on its calendar day.
type Filter struct {
	CourseID    int64  `query:"courseId"`
	StudentID   int64  `query:"studentId"`
	SessionDate string `query:"sessionDate"`
}

type SessionRequest struct {
	CourseID int64  `query:"courseId" json:"courseId" validate:"required"`
	Date     string `query:"date" json:"date"`
}

// Session is the label a teacher displays so students can mark themselves present.
// It is a display value only, never verified on scan.
type Session struct {
	CourseID int64  `json:"courseId"`
	Date     string `json:"date"`
	Token    string `json:"token"`
}
