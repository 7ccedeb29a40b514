package repository

import (
	"context"

	"tableside/internal/domain/order"
	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

// Statuses a settlement may transition out of; Paid and Rejected never move again.
var eligibleStatuses = []string{
	order.StatusPending.String(),
	order.StatusProcessing.String(),
	order.StatusDelivered.String(),
}

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Insert(ctx context.Context, o *order.Order) (uuid.UUID, error) {
	const q = `
		INSERT INTO orders (id, dish_snapshot_id, guest_id, table_number, quantity, status, handler_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, q,
		o.ID(), o.SnapshotID(), o.GuestID(), o.TableNumber(), o.Quantity(), o.Status().String(), o.HandlerID(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert order", err)
	}
	return id, nil
}

func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, patch shared.OrderUpdate) error {
	const q = `
		UPDATE orders
		SET status = $2, dish_snapshot_id = $3, quantity = $4, handler_id = $5, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, q, id, patch.Status.String(), patch.SnapshotID, patch.Quantity, patch.HandlerID)
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

// MarkPaidByIDs applies the bulk cash settlement. The status predicate makes
// the update conditional: an order concurrently settled elsewhere is skipped
// instead of paid twice.
func (r *OrderRepository) MarkPaidByIDs(ctx context.Context, ids []uuid.UUID, handlerID uuid.UUID) (int64, error) {
	const q = `
		UPDATE orders
		SET status = $3, handler_id = $2, updated_at = now()
		WHERE id = ANY($1) AND status = ANY($4)`

	tag, err := r.db.Exec(ctx, q, ids, handlerID, order.StatusPaid.String(), eligibleStatuses)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark orders paid", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OrderRepository) StampTransaction(ctx context.Context, ids []uuid.UUID, transactionID string) error {
	const q = `
		UPDATE orders
		SET transaction_id = $2, updated_at = now()
		WHERE id = ANY($1)`

	if _, err := r.db.Exec(ctx, q, ids, transactionID); err != nil {
		return infra.WrapRepoErr("failed to stamp transaction id", err)
	}
	return nil
}

// MarkPaidByTransaction settles every order carrying the gateway transaction
// id. Replaying the same callback finds zero eligible rows and is a no-op.
func (r *OrderRepository) MarkPaidByTransaction(ctx context.Context, transactionID string) (int64, error) {
	const q = `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE transaction_id = $1 AND status = ANY($3)`

	tag, err := r.db.Exec(ctx, q, transactionID, order.StatusPaid.String(), eligibleStatuses)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to settle orders by transaction id", err)
	}
	return tag.RowsAffected(), nil
}
