package readstore

import (
	"context"

	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ConnectionReadStore struct {
	db db.DBTX
}

func NewConnectionReadStore(dbtx db.DBTX) *ConnectionReadStore {
	return &ConnectionReadStore{db: dbtx}
}

// FindBySubject returns nil without error when the subject has no live
// connection; delivery simply skips the direct channel in that case.
func (r *ConnectionReadStore) FindBySubject(ctx context.Context, subjectID uuid.UUID) (*string, error) {
	const q = `SELECT connection_id FROM connections WHERE subject_id = $1`

	var connectionID string
	err := r.db.QueryRow(ctx, q, subjectID).Scan(&connectionID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find connection", err)
	}
	return &connectionID, nil
}
