package messaging

import (
	"time"

	"github.com/trezcool/campus/core"
)

const NotificationTypeInfo = "info"

type Message struct {
	ID            int64     `json:"id" db:"id"`
	SenderID      int64     `json:"senderId" db:"sender_id"`
	SenderRole    string    `json:"senderRole" db:"sender_role"`
	RecipientID   int64     `json:"recipientId" db:"recipient_id"`
	RecipientRole string    `json:"recipientRole" db:"recipient_role"`
	Subject       *string   `json:"subject" db:"subject"`
	Content       string    `json:"content" db:"content"`
	IsRead        bool      `json:"isRead" db:"is_read"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

type NewMessage struct {
	SenderID      int64   `json:"senderId" validate:"required"`
	SenderRole    string  `json:"senderRole" validate:"required,oneof=student teacher admin"`
	RecipientID   int64   `json:"recipientId" validate:"required"`
	RecipientRole string  `json:"recipientRole" validate:"required,oneof=student teacher admin"`
	Subject       *string `json:"subject"`
	Content       string  `json:"content" validate:"notblank"`
}

func (in *NewMessage) Clean() {
	in.SenderRole = core.CleanString(in.SenderRole, true /* lower */)
	in.RecipientRole = core.CleanString(in.RecipientRole, true /* lower */)
}

// Mailbox selects every message a participant sent or received.
type Mailbox struct {
	RecipientID   int64  `query:"recipientId" json:"recipientId" validate:"required"`
	RecipientRole string `query:"recipientRole" json:"recipientRole" validate:"required"`
}

type MarkRead struct {
	MessageID int64 `json:"messageId" validate:"required"`
}

type Notification struct {
	ID        int64     `json:"id" db:"id"`
	StudentID int64     `json:"studentId" db:"student_id"`
	CourseID  *int64    `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	ActionURL *string   `json:"actionUrl" db:"action_url"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	CourseName *string `json:"courseName" db:"course_name"`
}

type NewNotification struct {
	StudentID int64   `json:"studentId" validate:"required"`
	Title     string  `json:"title" validate:"notblank"`
	Message   string  `json:"message" validate:"notblank"`
	CourseID  *int64  `json:"courseId"`
	Type      string  `json:"type"`
	ActionURL *string `json:"actionUrl"`
}

func (in *NewNotification) Clean() {
	in.Type = core.CleanString(in.Type, true /* lower */)
	if in.Type == "" {
		in.Type = NotificationTypeInfo
	}
}

type UpdateNotification struct {
	IsRead bool `json:"isRead"`
}

type NotificationFilter struct {
	StudentID  int64 `query:"studentId"`
	UnreadOnly bool  `query:"unreadOnly"`
}
