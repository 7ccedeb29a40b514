package queries

import (
	"context"
	"time"
)

type NotificationView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationQueries interface {
	List(ctx context.Context) ([]*NotificationView, error)
}

type NotificationViewRepo interface {
	FindAll(ctx context.Context) ([]*NotificationView, error)
}

type notificationQueriesImpl struct {
	repo NotificationViewRepo
}

func NewNotificationQueries(repo NotificationViewRepo) NotificationQueries {
	return &notificationQueriesImpl{repo: repo}
}

func (q *notificationQueriesImpl) List(ctx context.Context) ([]*NotificationView, error) {
	return q.repo.FindAll(ctx)
}
