package commands

import (
	"context"
	"fmt"

	"tableside/internal/domain/order"
	"tableside/internal/domain/table"
	"tableside/internal/infra"
	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrGuestNotFound           = errs.New("guest not found")
	ErrGuestTableRemoved       = errs.New("guest table removed")
	ErrTableNotFound           = errs.New("table not found")
	ErrTableHidden             = errs.New("table hidden")
	ErrDishNotFound            = errs.New("dish not found")
	ErrDishUnavailable         = errs.New("dish unavailable")
	ErrOrderNotFound           = errs.New("order not found")
	ErrOrderAlreadyPaid        = errs.New("order already paid")
	ErrIllegalStatusTransition = errs.New("illegal status transition")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type OrderLine struct {
	DishID   uuid.UUID
	Quantity int32
}

type UpdateOrderParams struct {
	Status   order.Status
	DishID   uuid.UUID
	Quantity int32
}

type CreateOrdersResult struct {
	Orders       []*queries.OrderView
	ConnectionID *string
}

type UpdateOrderResult struct {
	Order        *queries.OrderView
	ConnectionID *string
}

type OrderCommands interface {
	CreateOrders(ctx context.Context, handlerID, guestID uuid.UUID, lines []OrderLine) (*CreateOrdersResult, error)
	UpdateOrder(ctx context.Context, orderID uuid.UUID, params UpdateOrderParams, handlerID uuid.UUID) (*UpdateOrderResult, error)
}

type orderCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
}

func NewOrderCommands(uow shared.UnitOfWork, orderQueries queries.OrderQueries) OrderCommands {
	return &orderCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
	}
}

// CreateOrders places one order line per dish entry, each with its own freshly
// captured snapshot. The whole batch commits or none of it does.
func (c *orderCommandsImpl) CreateOrders(
	ctx context.Context,
	handlerID, guestID uuid.UUID,
	lines []OrderLine,
) (*CreateOrdersResult, error) {
	if len(lines) == 0 {
		return nil, errs.Mark(errs.New("order batch is empty"), ErrDomainValidation)
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, errs.Mark(order.ErrInvalidQuantity, ErrDomainValidation)
		}
	}

	guest, err := c.uow.Reads().GuestByID(ctx, guestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if guest.TableNumber == nil {
		return nil, ErrGuestTableRemoved
	}

	tbl, err := c.uow.Reads().TableByNumber(ctx, *guest.TableNumber)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if tbl.Status == table.StatusHidden {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("table %d is hidden, pick another guest", tbl.Number)),
			ErrTableHidden,
		)
	}

	orderIDs := make([]uuid.UUID, 0, len(lines))
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		orderIDs = orderIDs[:0]
		for _, line := range lines {
			// Availability is re-checked inside the transaction so a dish
			// sold out mid-request rolls back the whole batch.
			d, dishErr := tx.Reads().DishByID(ctx, line.DishID)
			if dishErr != nil {
				if infra.IsKind(dishErr, infra.KindNotFound) {
					return ErrDishNotFound
				}
				return errs.Mark(dishErr, ErrDatabaseOperationFailed)
			}
			if !d.Status.IsOrderable() {
				return errs.Mark(
					errs.New(fmt.Sprintf("dish %q cannot be ordered (%s)", d.Name, d.Status)),
					ErrDishUnavailable,
				)
			}

			snapshotID, snapErr := tx.Snapshots().Capture(ctx, d)
			if snapErr != nil {
				return errs.Mark(snapErr, ErrDatabaseOperationFailed)
			}

			o, domainErr := order.NewOrder(snapshotID, guestID, *guest.TableNumber, line.Quantity, handlerID)
			if domainErr != nil {
				return errs.Mark(domainErr, ErrDomainValidation)
			}

			orderID, insertErr := tx.Orders().Insert(ctx, o)
			if insertErr != nil {
				return errs.Mark(insertErr, ErrDatabaseOperationFailed)
			}
			orderIDs = append(orderIDs, orderID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	views, err := c.orderQueries.GetByIDs(ctx, orderIDs)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	connectionID := c.lookupConnection(ctx, guestID)
	return &CreateOrdersResult{Orders: views, ConnectionID: connectionID}, nil
}

// UpdateOrder edits a single line. Paid orders are rejected before any write;
// changing the dish swaps in a new snapshot while the old one stays as
// history. Quantity-only changes never re-snapshot. Role gating on the status
// field is the caller's responsibility.
func (c *orderCommandsImpl) UpdateOrder(
	ctx context.Context,
	orderID uuid.UUID,
	params UpdateOrderParams,
	handlerID uuid.UUID,
) (*UpdateOrderResult, error) {
	if params.Quantity <= 0 {
		return nil, errs.Mark(order.ErrInvalidQuantity, ErrDomainValidation)
	}
	if !params.Status.IsValid() {
		return nil, errs.Mark(order.ErrInvalidStatus, ErrDomainValidation)
	}

	var guestID *uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, readErr := tx.Reads().OrderByID(ctx, orderID)
		if readErr != nil {
			if infra.IsKind(readErr, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(readErr, ErrDatabaseOperationFailed)
		}
		if current.Status == order.StatusPaid {
			return ErrOrderAlreadyPaid
		}
		if !current.Status.CanTransitionTo(params.Status) {
			return errs.Mark(
				errs.New(fmt.Sprintf("cannot move order from %s to %s", current.Status, params.Status)),
				ErrIllegalStatusTransition,
			)
		}
		guestID = current.GuestID

		snapshotID := current.SnapshotID
		if current.SnapshotDishID == nil || *current.SnapshotDishID != params.DishID {
			d, dishErr := tx.Reads().DishByID(ctx, params.DishID)
			if dishErr != nil {
				if infra.IsKind(dishErr, infra.KindNotFound) {
					return ErrDishNotFound
				}
				return errs.Mark(dishErr, ErrDatabaseOperationFailed)
			}
			newSnapID, snapErr := tx.Snapshots().Capture(ctx, d)
			if snapErr != nil {
				return errs.Mark(snapErr, ErrDatabaseOperationFailed)
			}
			snapshotID = newSnapID
		}

		updateErr := tx.Orders().Update(ctx, orderID, shared.OrderUpdate{
			Status:     params.Status,
			SnapshotID: snapshotID,
			Quantity:   params.Quantity,
			HandlerID:  handlerID,
		})
		if updateErr != nil {
			return errs.Mark(updateErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := c.orderQueries.GetByID(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var connectionID *string
	if guestID != nil {
		connectionID = c.lookupConnection(ctx, *guestID)
	}
	return &UpdateOrderResult{Order: view, ConnectionID: connectionID}, nil
}

// Connection lookup is addressing only; a failure just means broadcast-only fanout.
func (c *orderCommandsImpl) lookupConnection(ctx context.Context, subjectID uuid.UUID) *string {
	connectionID, err := c.uow.Reads().ConnectionBySubject(ctx, subjectID)
	if err != nil {
		return nil
	}
	return connectionID
}
