package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type OrderView struct {
	ID            uuid.UUID     `json:"id"`
	GuestID       *uuid.UUID    `json:"guest_id,omitempty"`
	GuestName     *string       `json:"guest_name,omitempty"`
	TableNumber   *int32        `json:"table_number,omitempty"`
	Quantity      int32         `json:"quantity"`
	Status        string        `json:"status"`
	TransactionID *string       `json:"transaction_id,omitempty"`
	Snapshot      SnapshotView  `json:"dish_snapshot"`
	Handler       *HandlerView  `json:"order_handler,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SnapshotView is the immutable dish capture joined onto every order line.
type SnapshotView struct {
	ID          uuid.UUID  `json:"id"`
	DishID      *uuid.UUID `json:"dish_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	Price       int64      `json:"price"`
	Status      string     `json:"status"`
}

type HandlerView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DishView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Price       int64     `json:"price"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DateRange filters on creation time; either bound may be absent.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type OrderQueries interface {
	List(ctx context.Context, rng DateRange) ([]*OrderView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*OrderView, error)
	GetByTransactionID(ctx context.Context, transactionID string) ([]*OrderView, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByDateRange(ctx context.Context, rng DateRange) ([]*OrderView, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*OrderView, error)
	FindByTransactionID(ctx context.Context, transactionID string) ([]*OrderView, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) List(ctx context.Context, rng DateRange) ([]*OrderView, error) {
	return q.repo.FindByDateRange(ctx, rng)
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	return q.repo.FindByID(ctx, id)
}

func (q *orderQueriesImpl) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*OrderView, error) {
	return q.repo.FindByIDs(ctx, ids)
}

func (q *orderQueriesImpl) GetByTransactionID(ctx context.Context, transactionID string) ([]*OrderView, error) {
	return q.repo.FindByTransactionID(ctx, transactionID)
}
