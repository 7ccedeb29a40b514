package readstore

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type GuestReadStore struct {
	db db.DBTX
}

func NewGuestReadStore(dbtx db.DBTX) *GuestReadStore {
	return &GuestReadStore{db: dbtx}
}

func (r *GuestReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.GuestSnapshot, error) {
	const q = `SELECT id, name, table_number FROM guests WHERE id = $1`

	var (
		snap        shared.GuestSnapshot
		tableNumber pgtype.Int4
	)
	err := r.db.QueryRow(ctx, q, id).Scan(&snap.ID, &snap.Name, &tableNumber)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("guest not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find guest", err)
	}
	snap.TableNumber = pgconv.Int32PtrFromPgtype(tableNumber)
	return &snap, nil
}
