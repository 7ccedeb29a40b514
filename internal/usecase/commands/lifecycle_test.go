//go:build unit

package commands_test

import (
	"context"
	"testing"

	"tableside/internal/domain/dish"
	"tableside/internal/domain/order"
	"tableside/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks one table visit end to end: orders placed, moved through the kitchen
// states, settled in person, and then locked against further edits.
func TestOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	handlerID := uuid.New()

	uow := newFakeUoW()
	oq := &fakeOrderQueries{uow: uow}
	orders := commands.NewOrderCommands(uow, oq)
	settle := commands.NewSettlementCommands(uow, oq)

	guestID := seatedGuest(uow, 4)
	pho := seedDish(uow, "Pho", 10, dish.StatusAvailable)
	bun := seedDish(uow, "Bun cha", 12, dish.StatusAvailable)

	created, err := orders.CreateOrders(ctx, handlerID, guestID, []commands.OrderLine{
		{DishID: pho, Quantity: 2},
		{DishID: bun, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, created.Orders, 2)

	advance := func(to order.Status) {
		for _, o := range created.Orders {
			rec := uow.state.orders[o.ID]
			_, err := orders.UpdateOrder(ctx, o.ID, commands.UpdateOrderParams{
				Status:   to,
				DishID:   uow.state.snapshots[rec.SnapshotID].ID,
				Quantity: rec.Quantity,
			}, handlerID)
			require.NoError(t, err)
		}
	}

	advance(order.StatusProcessing)
	advance(order.StatusDelivered)

	result, err := settle.PayOrders(ctx, guestID, handlerID)
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)
	for _, o := range created.Orders {
		assert.Equal(t, order.StatusPaid, uow.state.orders[o.ID].Status)
	}

	// The visit is closed: edits conflict and a second settlement finds nothing.
	_, err = orders.UpdateOrder(ctx, created.Orders[0].ID, commands.UpdateOrderParams{
		Status:   order.StatusRejected,
		DishID:   pho,
		Quantity: 1,
	}, handlerID)
	require.ErrorIs(t, err, commands.ErrOrderAlreadyPaid)

	_, err = settle.PayOrders(ctx, guestID, handlerID)
	require.ErrorIs(t, err, commands.ErrNothingToSettle)
}
