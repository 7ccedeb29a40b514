package readstore

import (
	"context"

	"tableside/internal/domain/dish"
	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type DishReadStore struct {
	db db.DBTX
}

func NewDishReadStore(dbtx db.DBTX) *DishReadStore {
	return &DishReadStore{db: dbtx}
}

func (r *DishReadStore) List(ctx context.Context) ([]*queries.DishView, error) {
	const q = `
		SELECT id, name, description, image, price, status, created_at, updated_at
		FROM dishes
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list dishes", err)
	}
	defer rows.Close()

	var views []*queries.DishView
	for rows.Next() {
		var (
			v         queries.DishView
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Image, &v.Price, &v.Status, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan dish", err)
		}
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate dishes", err)
	}
	return views, nil
}

// FindRecordByID is the write-side lookup used when snapshotting a dish into
// an order line.
func (r *DishReadStore) FindRecordByID(ctx context.Context, id uuid.UUID) (*shared.DishRecord, error) {
	const q = `
		SELECT id, name, description, image, price, status
		FROM dishes
		WHERE id = $1`

	var (
		rec    shared.DishRecord
		status string
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Image, &rec.Price, &status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("dish not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find dish", err)
	}
	rec.Status = dish.Status(status)
	return &rec, nil
}
