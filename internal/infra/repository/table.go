package repository

import (
	"context"

	"tableside/internal/domain/table"
	"tableside/internal/infra"
	"tableside/internal/infra/db"
)

type TableRepository struct {
	db db.DBTX
}

func NewTableRepository(dbtx db.DBTX) *TableRepository {
	return &TableRepository{db: dbtx}
}

func (r *TableRepository) Insert(ctx context.Context, number int32, capacity int32, status table.Status, token string) error {
	const q = `
		INSERT INTO tables (number, capacity, status, token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())`

	if _, err := r.db.Exec(ctx, q, number, capacity, status.String(), token); err != nil {
		return infra.WrapRepoErr("failed to insert table", err)
	}
	return nil
}

func (r *TableRepository) Update(ctx context.Context, number int32, capacity int32, status table.Status) error {
	const q = `
		UPDATE tables
		SET capacity = $2, status = $3, updated_at = now()
		WHERE number = $1`

	tag, err := r.db.Exec(ctx, q, number, capacity, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *TableRepository) RotateToken(ctx context.Context, number int32, token string) error {
	const q = `
		UPDATE tables
		SET token = $2, updated_at = now()
		WHERE number = $1`

	tag, err := r.db.Exec(ctx, q, number, token)
	if err != nil {
		return infra.WrapRepoErr("failed to rotate table token", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *TableRepository) Delete(ctx context.Context, number int32) error {
	const q = `DELETE FROM tables WHERE number = $1`

	tag, err := r.db.Exec(ctx, q, number)
	if err != nil {
		return infra.WrapRepoErr("failed to delete table", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("table not found", nil, infra.KindNotFound)
	}
	return nil
}
