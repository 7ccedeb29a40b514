package readstore

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"
	"tableside/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationReadStore struct {
	db db.DBTX
}

func NewNotificationReadStore(dbtx db.DBTX) *NotificationReadStore {
	return &NotificationReadStore{db: dbtx}
}

func (r *NotificationReadStore) FindAll(ctx context.Context) ([]*queries.NotificationView, error) {
	const q = `
		SELECT id, title, content, is_read, created_at
		FROM notifications
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	defer rows.Close()

	var views []*queries.NotificationView
	for rows.Next() {
		var (
			v         queries.NotificationView
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&v.ID, &v.Title, &v.Content, &v.IsRead, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification", err)
		}
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate notifications", err)
	}
	return views, nil
}
