package repository

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"
	"tableside/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

// Record appends one feed row. Called from the fanout dispatcher outside any
// request transaction; failures are the caller's to log and drop.
func (r *NotificationRepository) Record(ctx context.Context, title, content string) error {
	const q = `
		INSERT INTO notifications (title, content)
		VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, q, title, content); err != nil {
		return infra.WrapRepoErr("failed to record notification", err)
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) (*shared.NotificationRecord, error) {
	const q = `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1
		RETURNING id, title, content, is_read, created_at`

	var (
		rec       shared.NotificationRecord
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&rec.ID, &rec.Title, &rec.Content, &rec.IsRead, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("notification not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to mark notification read", err)
	}
	rec.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &rec, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	const q = `UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`

	if _, err := r.db.Exec(ctx, q); err != nil {
		return infra.WrapRepoErr("failed to mark notifications read", err)
	}
	return nil
}

func (r *NotificationRepository) DeleteAll(ctx context.Context) error {
	const q = `DELETE FROM notifications`

	if _, err := r.db.Exec(ctx, q); err != nil {
		return infra.WrapRepoErr("failed to delete notifications", err)
	}
	return nil
}
