package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/messaging"
)

const notificationSelect = `SELECT n.id, n.student_id, n.course_id, n.title, n.message, n.type, n.action_url,
		n.is_read, n.created_at, c.name AS course_name
	FROM notifications n
	LEFT JOIN courses c ON c.id = n.course_id`

type messagingRepository struct {
	db core.DB
}

var _ messaging.Repository = (*messagingRepository)(nil) // interface compliance check

func NewMessagingRepository(db core.DB) *messagingRepository {
	return &messagingRepository{db: db}
}

func (repo messagingRepository) CreateMessage(ctx context.Context, in messaging.NewMessage) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO messages (sender_id, sender_role, recipient_id, recipient_role, subject, content)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.SenderID, in.SenderRole, in.RecipientID, in.RecipientRole, in.Subject, in.Content,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting message")
}

func (repo messagingRepository) QueryMailbox(ctx context.Context, box messaging.Mailbox) ([]messaging.Message, error) {
	messages := make([]messaging.Message, 0)
	err := repo.db.Select(
		ctx, &messages,
		`SELECT id, sender_id, sender_role, recipient_id, recipient_role, subject, content, is_read, created_at
		FROM messages
		WHERE (recipient_id = ? AND recipient_role = ?) OR (sender_id = ? AND sender_role = ?)
		ORDER BY created_at DESC, id DESC`,
		box.RecipientID, box.RecipientRole, box.RecipientID, box.RecipientRole,
	)
	return messages, errors.Wrap(err, "selecting mailbox")
}

func (repo messagingRepository) MarkMessageRead(ctx context.Context, id int64) error {
	_, err := repo.db.Exec(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id)
	return errors.Wrap(err, "marking message read")
}

func (repo messagingRepository) CreateNotification(ctx context.Context, in messaging.NewNotification) (int64, error) {
	res, err := repo.db.Exec(
		ctx,
		`INSERT INTO notifications (student_id, course_id, title, message, type, action_url) VALUES (?, ?, ?, ?, ?, ?)`,
		in.StudentID, in.CourseID, in.Title, in.Message, in.Type, in.ActionURL,
	)
	return res.LastInsertID, errors.Wrap(err, "inserting notification")
}

func (repo messagingRepository) QueryNotifications(ctx context.Context, filter messaging.NotificationFilter) ([]messaging.Notification, error) {
	var f filters
	if filter.StudentID != 0 {
		f.add("n.student_id = ?", filter.StudentID)
	}
	if filter.UnreadOnly {
		f.add("n.is_read = ?", false)
	}
	notifications := make([]messaging.Notification, 0)
	err := repo.db.Select(
		ctx, &notifications,
		notificationSelect+f.where()+` ORDER BY n.created_at DESC, n.id DESC`,
		f.args...,
	)
	return notifications, errors.Wrap(err, "selecting notifications")
}

func (repo messagingRepository) GetNotificationByID(ctx context.Context, id int64) (messaging.Notification, error) {
	var n messaging.Notification
	err := repo.db.Get(ctx, &n, notificationSelect+` WHERE n.id = ?`, id)
	return n, trapNoRowsErr(err, messaging.ErrNotificationNotFound, "getting notification by id")
}

func (repo messagingRepository) SetNotificationRead(ctx context.Context, id int64, read bool) error {
	_, err := repo.db.Exec(ctx, `UPDATE notifications SET is_read = ? WHERE id = ?`, read, id)
	return errors.Wrap(err, "updating notification")
}
