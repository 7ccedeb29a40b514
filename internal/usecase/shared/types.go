package shared

import (
	"time"

	"tableside/internal/domain/dish"
	"tableside/internal/domain/order"
	"tableside/internal/domain/table"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type GuestSnapshot struct {
	ID          uuid.UUID
	Name        string
	TableNumber *int32
}

type TableSnapshot struct {
	Number   int32
	Capacity int32
	Status   table.Status
	Token    string
}

type DishRecord struct {
	ID          uuid.UUID
	Name        string
	Description string
	Image       string
	Price       int64
	Status      dish.Status
}

type OrderSnapshot struct {
	ID             uuid.UUID
	GuestID        *uuid.UUID
	SnapshotID     uuid.UUID
	SnapshotDishID *uuid.UUID
	Quantity       int32
	Status         order.Status
	TableNumber    *int32
	TransactionID  *string
	CreatedAt      time.Time
}

type NotificationRecord struct {
	ID        int64
	Title     string
	Content   string
	IsRead    bool
	CreatedAt time.Time
}

type EligibleOrder struct {
	ID            uuid.UUID
	SnapshotName  string
	SnapshotPrice int64
	Quantity      int32
	Status        order.Status
}
