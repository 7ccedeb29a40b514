package commands

import (
	"context"
	"log/slog"

	"tableside/internal/pkg/errs"
	"tableside/internal/usecase/queries"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrNothingToSettle = errs.New("nothing to settle")

type PayOrdersResult struct {
	Orders       []*queries.OrderView
	ConnectionID *string
}

// SettlementCommands is the in-person settlement path; it never touches the
// payment gateway.
type SettlementCommands interface {
	PayOrders(ctx context.Context, guestID, handlerID uuid.UUID) (*PayOrdersResult, error)
}

type settlementCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
}

func NewSettlementCommands(uow shared.UnitOfWork, orderQueries queries.OrderQueries) SettlementCommands {
	return &settlementCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
	}
}

// PayOrders batches every eligible order of the guest into one cash
// settlement. The bulk transition is guarded by a conditional update on the
// eligible statuses, so a racing settlement or gateway callback cannot pay the
// same order twice.
func (c *settlementCommandsImpl) PayOrders(ctx context.Context, guestID, handlerID uuid.UUID) (*PayOrdersResult, error) {
	eligible, err := c.uow.Reads().EligibleOrdersByGuest(ctx, guestID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(eligible) == 0 {
		return nil, ErrNothingToSettle
	}

	ids := make([]uuid.UUID, len(eligible))
	for i, o := range eligible {
		ids[i] = o.ID
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		updated, txErr := tx.Orders().MarkPaidByIDs(ctx, ids, handlerID)
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		if updated == 0 {
			// Everything was settled by a concurrent payment between our read
			// and this update.
			return ErrNothingToSettle
		}
		if updated != int64(len(ids)) {
			slog.Warn("partial settlement: some orders were already settled concurrently",
				"guest_id", guestID.String(),
				"selected", len(ids),
				"updated", updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	views, err := c.orderQueries.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	var connectionID *string
	if conn, connErr := c.uow.Reads().ConnectionBySubject(ctx, guestID); connErr == nil {
		connectionID = conn
	}
	return &PayOrdersResult{Orders: views, ConnectionID: connectionID}, nil
}
