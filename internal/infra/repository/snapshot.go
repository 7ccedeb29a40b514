package repository

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

type SnapshotRepository struct {
	db db.DBTX
}

func NewSnapshotRepository(dbtx db.DBTX) *SnapshotRepository {
	return &SnapshotRepository{db: dbtx}
}

// Capture inserts a new immutable copy of the dish's sellable attributes.
// There is deliberately no update or dedup path: one snapshot per order line
// keeps historical orders untouched by later menu edits.
func (r *SnapshotRepository) Capture(ctx context.Context, d *shared.DishRecord) (uuid.UUID, error) {
	const q = `
		INSERT INTO dish_snapshots (id, dish_id, name, description, image, price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, q,
		uuid.New(), d.ID, d.Name, d.Description, d.Image, d.Price, d.Status.String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to capture dish snapshot", err)
	}
	return id, nil
}
