package repository

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"

	"github.com/google/uuid"
)

type ConnectionRepository struct {
	db db.DBTX
}

func NewConnectionRepository(dbtx db.DBTX) *ConnectionRepository {
	return &ConnectionRepository{db: dbtx}
}

// Upsert binds a subject to its single live connection; reconnects overwrite
// the previous binding.
func (r *ConnectionRepository) Upsert(ctx context.Context, subjectID uuid.UUID, connectionID string) error {
	const q = `
		INSERT INTO connections (subject_id, connection_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (subject_id)
		DO UPDATE SET connection_id = EXCLUDED.connection_id, updated_at = now()`

	if _, err := r.db.Exec(ctx, q, subjectID, connectionID); err != nil {
		return infra.WrapRepoErr("failed to upsert connection", err)
	}
	return nil
}
