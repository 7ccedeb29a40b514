package commands

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"
)

var ErrNotificationNotFound = errs.New("notification not found")

// NotificationCommands manages the staff notification feed: rows are written
// by the fanout dispatcher, staff mark them read or clear the feed here.
type NotificationCommands interface {
	MarkRead(ctx context.Context, id int64) (*queries.NotificationView, error)
	MarkAllRead(ctx context.Context) error
	DeleteAll(ctx context.Context) error
}

type notificationCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationCommands(uow shared.UnitOfWork) NotificationCommands {
	return &notificationCommandsImpl{uow: uow}
}

func (c *notificationCommandsImpl) MarkRead(ctx context.Context, id int64) (*queries.NotificationView, error) {
	var view *queries.NotificationView
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, markErr := tx.Notifications().MarkRead(ctx, id)
		if markErr != nil {
			if infra.IsKind(markErr, infra.KindNotFound) {
				return ErrNotificationNotFound
			}
			return errs.Mark(markErr, ErrDatabaseOperationFailed)
		}
		view = notificationView(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (c *notificationCommandsImpl) MarkAllRead(ctx context.Context) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Notifications().MarkAllRead(ctx); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *notificationCommandsImpl) DeleteAll(ctx context.Context) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Notifications().DeleteAll(ctx); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func notificationView(rec *shared.NotificationRecord) *queries.NotificationView {
	return &queries.NotificationView{
		ID:        rec.ID,
		Title:     rec.Title,
		Content:   rec.Content,
		IsRead:    rec.IsRead,
		CreatedAt: rec.CreatedAt,
	}
}
