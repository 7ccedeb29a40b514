package shared

import (
	"context"

	"tableside/internal/domain/order"
	"tableside/internal/domain/table"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Direct access to command reads for validation outside transactions
	Reads() CommandReads
}

type Tx interface {
	Orders() OrderRepository
	Snapshots() SnapshotRepository
	Tables() TableRepository
	Guests() GuestRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

// CommandReads are the write-side lookups commands need before mutating.
// They intentionally return minimal snapshots, not read-model views.
type CommandReads interface {
	GuestByID(ctx context.Context, id uuid.UUID) (*GuestSnapshot, error)
	TableByNumber(ctx context.Context, number int32) (*TableSnapshot, error)
	DishByID(ctx context.Context, id uuid.UUID) (*DishRecord, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	// EligibleOrdersByGuest returns the guest's orders in
	// {Pending, Processing, Delivered}, the only set settlement may touch.
	EligibleOrdersByGuest(ctx context.Context, guestID uuid.UUID) ([]EligibleOrder, error)
	OrdersByTransactionID(ctx context.Context, transactionID string) ([]uuid.UUID, error)
	ConnectionBySubject(ctx context.Context, subjectID uuid.UUID) (*string, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, o *order.Order) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, patch OrderUpdate) error
	// MarkPaidByIDs transitions the given orders to Paid, guarded by a
	// conditional WHERE on the eligible statuses so two racing settlements
	// cannot both apply. Returns the number of rows actually transitioned.
	MarkPaidByIDs(ctx context.Context, ids []uuid.UUID, handlerID uuid.UUID) (int64, error)
	StampTransaction(ctx context.Context, ids []uuid.UUID, transactionID string) error
	// MarkPaidByTransaction is the callback-side bulk transition; re-applying
	// it for an already-paid transaction is a no-op (idempotent).
	MarkPaidByTransaction(ctx context.Context, transactionID string) (int64, error)
}

type SnapshotRepository interface {
	// Capture copies the dish's sellable attributes into a new immutable
	// snapshot row; existing snapshots are never updated or deduplicated.
	Capture(ctx context.Context, d *DishRecord) (uuid.UUID, error)
}

type TableRepository interface {
	Insert(ctx context.Context, number int32, capacity int32, status table.Status, token string) error
	Update(ctx context.Context, number int32, capacity int32, status table.Status) error
	RotateToken(ctx context.Context, number int32, token string) error
	Delete(ctx context.Context, number int32) error
}

type GuestRepository interface {
	// RevokeSessionsByTable clears the refresh tokens of every guest seated at
	// the table; called in the same transaction as a token rotation.
	RevokeSessionsByTable(ctx context.Context, number int32) error
}

type NotificationRepository interface {
	// MarkRead flips the read flag and returns the updated row; a missing id
	// surfaces as a not-found repository error.
	MarkRead(ctx context.Context, id int64) (*NotificationRecord, error)
	MarkAllRead(ctx context.Context) error
	DeleteAll(ctx context.Context) error
}

type ConnectionRepository interface {
	Upsert(ctx context.Context, subjectID uuid.UUID, connectionID string) error
}

type OrderUpdate struct {
	Status     order.Status
	SnapshotID uuid.UUID
	Quantity   int32
	HandlerID  uuid.UUID
}
