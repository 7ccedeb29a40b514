package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrAlreadyPaid        = errors.New("order is already paid")
	ErrMissingTableNumber = errors.New("order requires a table number")
)

// Order is a single dish line placed by a guest. Each line carries its own
// immutable dish snapshot; repeated dishes are never merged.
type Order struct {
	id            uuid.UUID
	snapshotID    uuid.UUID
	guestID       uuid.UUID
	tableNumber   int32
	quantity      int32
	status        Status
	handlerID     uuid.UUID
	transactionID *string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOrder(snapshotID, guestID uuid.UUID, tableNumber int32, quantity int32, handlerID uuid.UUID) (*Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if tableNumber <= 0 {
		return nil, ErrMissingTableNumber
	}
	return &Order{
		id:          uuid.New(),
		snapshotID:  snapshotID,
		guestID:     guestID,
		tableNumber: tableNumber,
		quantity:    quantity,
		status:      StatusPending,
		handlerID:   handlerID,
	}, nil
}

func ReconstructOrder(
	id, snapshotID, guestID uuid.UUID,
	tableNumber, quantity int32,
	status Status,
	handlerID uuid.UUID,
	transactionID *string,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		snapshotID:    snapshotID,
		guestID:       guestID,
		tableNumber:   tableNumber,
		quantity:      quantity,
		status:        status,
		handlerID:     handlerID,
		transactionID: transactionID,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Transition validates and applies a status change. Paid and Rejected are
// terminal; mutating a Paid order must fail loudly, never silently succeed.
func (o *Order) Transition(next Status) error {
	if o.status == StatusPaid {
		return ErrAlreadyPaid
	}
	if !o.status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	o.status = next
	return nil
}

func (o *Order) ID() uuid.UUID          { return o.id }
func (o *Order) SnapshotID() uuid.UUID  { return o.snapshotID }
func (o *Order) GuestID() uuid.UUID     { return o.guestID }
func (o *Order) TableNumber() int32     { return o.tableNumber }
func (o *Order) Quantity() int32        { return o.quantity }
func (o *Order) Status() Status         { return o.status }
func (o *Order) HandlerID() uuid.UUID   { return o.handlerID }
func (o *Order) TransactionID() *string { return o.transactionID }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }
