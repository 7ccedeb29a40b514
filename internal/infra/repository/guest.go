package repository

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"
)

type GuestRepository struct {
	db db.DBTX
}

func NewGuestRepository(dbtx db.DBTX) *GuestRepository {
	return &GuestRepository{db: dbtx}
}

// RevokeSessionsByTable clears the session credentials of every guest bound to
// the table. Runs inside the same transaction as a table token rotation.
func (r *GuestRepository) RevokeSessionsByTable(ctx context.Context, number int32) error {
	const q = `
		UPDATE guests
		SET refresh_token = NULL, refresh_token_expires_at = NULL, updated_at = now()
		WHERE table_number = $1`

	if _, err := r.db.Exec(ctx, q, number); err != nil {
		return infra.WrapRepoErr("failed to revoke guest sessions", err)
	}
	return nil
}
