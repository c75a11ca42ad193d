package messaging

import (
	"context"

	"github.com/trezcool/campus/core"
)

var ErrNotificationNotFound = core.NewNotFoundError("Notification")

type (
	Repository interface {
		CreateMessage(ctx context.Context, in NewMessage) (int64, error)
		// QueryMailbox returns the messages received or sent by the participant, latest first.
		QueryMailbox(ctx context.Context, box Mailbox) ([]Message, error)
		MarkMessageRead(ctx context.Context, id int64) error

		CreateNotification(ctx context.Context, in NewNotification) (int64, error)
		// QueryNotifications orders by creation time, latest first.
		QueryNotifications(ctx context.Context, filter NotificationFilter) ([]Notification, error)
		GetNotificationByID(ctx context.Context, id int64) (Notification, error)
		SetNotificationRead(ctx context.Context, id int64, read bool) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Send(ctx context.Context, in NewMessage) (int64, error) {
	return svc.repo.CreateMessage(ctx, in)
}

func (svc *Service) Mailbox(ctx context.Context, box Mailbox) ([]Message, error) {
	return svc.repo.QueryMailbox(ctx, box)
}

func (svc *Service) MarkRead(ctx context.Context, in MarkRead) error {
	return svc.repo.MarkMessageRead(ctx, in.MessageID)
}

func (svc *Service) Notify(ctx context.Context, in NewNotification) (int64, error) {
	return svc.repo.CreateNotification(ctx, in)
}

func (svc *Service) QueryNotifications(ctx context.Context, filter NotificationFilter) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, filter)
}

func (svc *Service) GetNotification(ctx context.Context, id int64) (Notification, error) {
	return svc.repo.GetNotificationByID(ctx, id)
}

func (svc *Service) UpdateNotification(ctx context.Context, id int64, in UpdateNotification) error {
	return svc.repo.SetNotificationRead(ctx, id, in.IsRead)
}
