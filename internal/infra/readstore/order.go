package readstore

import (
	"context"

	"tableside/internal/domain/order"
	"tableside/internal/infra"
	"tableside/internal/infra/db"
	"tableside/internal/pkg/pgconv"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderViewColumns = `
	o.id, o.guest_id, g.name, o.table_number, o.quantity, o.status, o.transaction_id,
	s.id, s.dish_id, s.name, s.description, s.image, s.price, s.status,
	o.handler_id, a.name,
	o.created_at, o.updated_at`

const orderViewFrom = `
	FROM orders o
	JOIN dish_snapshots s ON s.id = o.dish_snapshot_id
	LEFT JOIN guests g ON g.id = o.guest_id
	LEFT JOIN accounts a ON a.id = o.handler_id`

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	q := `SELECT` + orderViewColumns + orderViewFrom + ` WHERE o.id = $1`

	row := r.db.QueryRow(ctx, q, id)
	view, err := scanOrderView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by id", err)
	}
	return view, nil
}

func (r *OrderReadStore) FindByDateRange(ctx context.Context, rng queries.DateRange) ([]*queries.OrderView, error) {
	q := `SELECT` + orderViewColumns + orderViewFrom + `
	WHERE ($1::timestamptz IS NULL OR o.created_at >= $1)
	  AND ($2::timestamptz IS NULL OR o.created_at <= $2)
	ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ctx, q, rng.From, rng.To)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	return collectOrderViews(rows)
}

func (r *OrderReadStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*queries.OrderView, error) {
	q := `SELECT` + orderViewColumns + orderViewFrom + `
	WHERE o.id = ANY($1)
	ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ctx, q, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find orders by ids", err)
	}
	defer rows.Close()

	return collectOrderViews(rows)
}

func (r *OrderReadStore) FindByTransactionID(ctx context.Context, transactionID string) ([]*queries.OrderView, error) {
	q := `SELECT` + orderViewColumns + orderViewFrom + `
	WHERE o.transaction_id = $1
	ORDER BY o.created_at DESC`

	rows, err := r.db.Query(ctx, q, transactionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find orders by transaction id", err)
	}
	defer rows.Close()

	return collectOrderViews(rows)
}

// FindSnapshotByID is the write-side lookup used before mutating a single order.
func (r *OrderReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.OrderSnapshot, error) {
	const q = `
		SELECT o.id, o.guest_id, o.dish_snapshot_id, s.dish_id, o.quantity, o.status, o.table_number, o.transaction_id, o.created_at
		FROM orders o
		JOIN dish_snapshots s ON s.id = o.dish_snapshot_id
		WHERE o.id = $1`

	var (
		snap          shared.OrderSnapshot
		guestID       pgtype.UUID
		dishID        pgtype.UUID
		status        string
		tableNumber   pgtype.Int4
		transactionID pgtype.Text
		createdAt     pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, q, id).Scan(
		&snap.ID, &guestID, &snap.SnapshotID, &dishID, &snap.Quantity, &status, &tableNumber, &transactionID, &createdAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order snapshot", err)
	}

	snap.GuestID = pgconv.UUIDPtrFromPgtype(guestID)
	snap.SnapshotDishID = pgconv.UUIDPtrFromPgtype(dishID)
	snap.Status = order.Status(status)
	snap.TableNumber = pgconv.Int32PtrFromPgtype(tableNumber)
	snap.TransactionID = pgconv.StringPtrFromPgtype(transactionID)
	snap.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	return &snap, nil
}

// FindEligibleByGuest selects the settleable set: Pending, Processing or
// Delivered orders of the guest, with the snapshot fields settlement needs.
func (r *OrderReadStore) FindEligibleByGuest(ctx context.Context, guestID uuid.UUID) ([]shared.EligibleOrder, error) {
	const q = `
		SELECT o.id, s.name, s.price, o.quantity, o.status
		FROM orders o
		JOIN dish_snapshots s ON s.id = o.dish_snapshot_id
		WHERE o.guest_id = $1 AND o.status = ANY($2)
		ORDER BY o.created_at`

	eligible := []string{
		order.StatusPending.String(),
		order.StatusProcessing.String(),
		order.StatusDelivered.String(),
	}
	rows, err := r.db.Query(ctx, q, guestID, eligible)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find eligible orders", err)
	}
	defer rows.Close()

	var result []shared.EligibleOrder
	for rows.Next() {
		var (
			e      shared.EligibleOrder
			status string
		)
		if err := rows.Scan(&e.ID, &e.SnapshotName, &e.SnapshotPrice, &e.Quantity, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan eligible order", err)
		}
		e.Status = order.Status(status)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate eligible orders", err)
	}
	return result, nil
}

func (r *OrderReadStore) FindIDsByTransaction(ctx context.Context, transactionID string) ([]uuid.UUID, error) {
	const q = `SELECT id FROM orders WHERE transaction_id = $1`

	rows, err := r.db.Query(ctx, q, transactionID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find orders by transaction", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order ids", err)
	}
	return ids, nil
}

func collectOrderViews(rows pgx.Rows) ([]*queries.OrderView, error) {
	var views []*queries.OrderView
	for rows.Next() {
		view, err := scanOrderView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order views", err)
	}
	return views, nil
}

func scanOrderView(row pgx.Row) (*queries.OrderView, error) {
	var (
		v             queries.OrderView
		guestID       pgtype.UUID
		guestName     pgtype.Text
		tableNumber   pgtype.Int4
		transactionID pgtype.Text
		dishID        pgtype.UUID
		handlerID     pgtype.UUID
		handlerName   pgtype.Text
		createdAt     pgtype.Timestamptz
		updatedAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&v.ID, &guestID, &guestName, &tableNumber, &v.Quantity, &v.Status, &transactionID,
		&v.Snapshot.ID, &dishID, &v.Snapshot.Name, &v.Snapshot.Description, &v.Snapshot.Image, &v.Snapshot.Price, &v.Snapshot.Status,
		&handlerID, &handlerName,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.GuestID = pgconv.UUIDPtrFromPgtype(guestID)
	v.GuestName = pgconv.StringPtrFromPgtype(guestName)
	v.TableNumber = pgconv.Int32PtrFromPgtype(tableNumber)
	v.TransactionID = pgconv.StringPtrFromPgtype(transactionID)
	v.Snapshot.DishID = pgconv.UUIDPtrFromPgtype(dishID)
	if id := pgconv.UUIDPtrFromPgtype(handlerID); id != nil {
		v.Handler = &queries.HandlerView{ID: *id}
		if name := pgconv.StringPtrFromPgtype(handlerName); name != nil {
			v.Handler.Name = *name
		}
	}
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}
