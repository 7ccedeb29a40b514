package readstore

import (
	"context"

	"tableside/internal/domain/table"
	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type TableReadStore struct {
	db db.DBTX
}

func NewTableReadStore(dbtx db.DBTX) *TableReadStore {
	return &TableReadStore{db: dbtx}
}

func (r *TableReadStore) FindAll(ctx context.Context) ([]*queries.TableView, error) {
	const q = `
		SELECT number, capacity, status, token, created_at, updated_at
		FROM tables
		ORDER BY number`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tables", err)
	}
	defer rows.Close()

	var views []*queries.TableView
	for rows.Next() {
		var (
			v         queries.TableView
			createdAt pgtype.Timestamptz
			updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&v.Number, &v.Capacity, &v.Status, &v.Token, &createdAt, &updatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan table", err)
		}
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate tables", err)
	}
	return views, nil
}

func (r *TableReadStore) FindByNumber(ctx context.Context, number int32) (*queries.TableView, error) {
	const q = `
		SELECT number, capacity, status, token, created_at, updated_at
		FROM tables
		WHERE number = $1`

	var (
		v         queries.TableView
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, number).Scan(&v.Number, &v.Capacity, &v.Status, &v.Token, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table", err)
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}

func (r *TableReadStore) FindSnapshotByNumber(ctx context.Context, number int32) (*shared.TableSnapshot, error) {
	const q = `
		SELECT number, capacity, status, token
		FROM tables
		WHERE number = $1`

	var (
		snap   shared.TableSnapshot
		status string
	)
	err := r.db.QueryRow(ctx, q, number).Scan(&snap.Number, &snap.Capacity, &status, &snap.Token)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find table", err)
	}
	snap.Status = table.Status(status)
	return &snap, nil
}
