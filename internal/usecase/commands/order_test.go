//go:build unit

package commands_test

import (
	"context"
	"testing"

	"tableside/internal/domain/dish"
	"tableside/internal/domain/order"
	"tableside/internal/domain/table"
	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTable(uow *fakeUoW, number int32, status table.Status) {
	uow.state.tables[number] = shared.TableSnapshot{
		Number: number, Capacity: 4, Status: status, Token: "token",
	}
}

func seedGuest(uow *fakeUoW, tableNumber *int32) uuid.UUID {
	id := uuid.New()
	uow.state.guests[id] = shared.GuestSnapshot{ID: id, Name: "guest", TableNumber: tableNumber}
	return id
}

func seedDish(uow *fakeUoW, name string, price int64, status dish.Status) uuid.UUID {
	id := uuid.New()
	uow.state.dishes[id] = shared.DishRecord{
		ID: id, Name: name, Price: price, Status: status,
	}
	return id
}

func seatedGuest(uow *fakeUoW, number int32) uuid.UUID {
	seedTable(uow, number, table.StatusAvailable)
	n := number
	return seedGuest(uow, &n)
}

func TestCreateOrders(t *testing.T) {
	ctx := context.Background()
	handlerID := uuid.New()

	setup := func() (*fakeUoW, commands.OrderCommands) {
		uow := newFakeUoW()
		return uow, commands.NewOrderCommands(uow, &fakeOrderQueries{uow: uow})
	}

	t.Run("creates one pending order per line with its own snapshot", func(t *testing.T) {
		uow, cmd := setup()
		guestID := seatedGuest(uow, 5)
		pho := seedDish(uow, "Pho", 10, dish.StatusAvailable)
		uow.state.connections[guestID] = "conn-1"

		result, err := cmd.CreateOrders(ctx, handlerID, guestID, []commands.OrderLine{
			{DishID: pho, Quantity: 2},
			{DishID: pho, Quantity: 1},
		})
		require.NoError(t, err)
		require.Len(t, result.Orders, 2)

		require.NotNil(t, result.ConnectionID)
		assert.Equal(t, "conn-1", *result.ConnectionID)

		// Repeated dishes are separate lines with distinct snapshots.
		assert.Len(t, uow.state.orders, 2)
		assert.Len(t, uow.state.snapshots, 2)
		for _, o := range uow.state.orders {
			assert.Equal(t, order.StatusPending, o.Status)
		}
	})

	t.Run("unavailable dish mid batch rolls back everything", func(t *testing.T) {
		uow, cmd := setup()
		guestID := seatedGuest(uow, 5)
		pho := seedDish(uow, "Pho", 10, dish.StatusAvailable)
		soldOut := seedDish(uow, "Bun cha", 12, dish.StatusUnavailable)

		_, err := cmd.CreateOrders(ctx, handlerID, guestID, []commands.OrderLine{
			{DishID: pho, Quantity: 1},
			{DishID: soldOut, Quantity: 1},
		})
		require.ErrorIs(t, err, commands.ErrDishUnavailable)

		assert.Empty(t, uow.state.orders)
		assert.Empty(t, uow.state.snapshots)
	})

	t.Run("hidden table rejects the batch", func(t *testing.T) {
		uow, cmd := setup()
		seedTable(uow, 9, table.StatusHidden)
		n := int32(9)
		guestID := seedGuest(uow, &n)
		pho := seedDish(uow, "Pho", 10, dish.StatusAvailable)

		_, err := cmd.CreateOrders(ctx, handlerID, guestID, []commands.OrderLine{{DishID: pho, Quantity: 1}})
		require.ErrorIs(t, err, commands.ErrTableHidden)
		assert.Empty(t, uow.state.orders)
	})

	t.Run("guest without a table", func(t *testing.T) {
		uow, cmd := setup()
		guestID := seedGuest(uow, nil)
		pho := seedDish(uow, "Pho", 10, dish.StatusAvailable)

		_, err := cmd.CreateOrders(ctx, handlerID, guestID, []commands.OrderLine{{DishID: pho, Quantity: 1}})
		require.ErrorIs(t, err, commands.ErrGuestTableRemoved)
	})

	t.Run("unknown guest", func(t *testing.T) {
		_, cmd := setup()
		_, err := cmd.CreateOrders(ctx, handlerID, uuid.New(), []commands.OrderLine{{DishID: uuid.New(), Quantity: 1}})
		require.ErrorIs(t, err, commands.ErrGuestNotFound)
	})

	t.Run("empty batch", func(t *testing.T) {
		_, cmd := setup()
		_, err := cmd.CreateOrders(ctx, handlerID, uuid.New(), nil)
		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		_, cmd := setup()
		_, err := cmd.CreateOrders(ctx, handlerID, uuid.New(), []commands.OrderLine{{DishID: uuid.New(), Quantity: 0}})
		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})
}

func TestUpdateOrder(t *testing.T) {
	ctx := context.Background()
	handlerID := uuid.New()

	setup := func(t *testing.T) (*fakeUoW, commands.OrderCommands, uuid.UUID, uuid.UUID) {
		t.Helper()
		uow := newFakeUoW()
		cmd := commands.NewOrderCommands(uow, &fakeOrderQueries{uow: uow})
		guestID := seatedGuest(uow, 3)
		dishID := seedDish(uow, "Pho", 10, dish.StatusAvailable)

		result, err := cmd.CreateOrders(ctx, handlerID, guestID, []commands.OrderLine{{DishID: dishID, Quantity: 1}})
		require.NoError(t, err)
		return uow, cmd, result.Orders[0].ID, dishID
	}

	t.Run("moves status forward", func(t *testing.T) {
		uow, cmd, orderID, dishID := setup(t)

		result, err := cmd.UpdateOrder(ctx, orderID, commands.UpdateOrderParams{
			Status:   order.StatusProcessing,
			DishID:   dishID,
			Quantity: 1,
		}, handlerID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusProcessing.String(), result.Order.Status)
		assert.Equal(t, order.StatusProcessing, uow.state.orders[orderID].Status)
	})

	t.Run("quantity change keeps the snapshot", func(t *testing.T) {
		uow, cmd, orderID, dishID := setup(t)
		before := uow.state.orders[orderID].SnapshotID

		_, err := cmd.UpdateOrder(ctx, orderID, commands.UpdateOrderParams{
			Status:   order.StatusPending,
			DishID:   dishID,
			Quantity: 5,
		}, handlerID)
		require.NoError(t, err)

		after := uow.state.orders[orderID]
		assert.Equal(t, before, after.SnapshotID)
		assert.Equal(t, int32(5), after.Quantity)
		assert.Len(t, uow.state.snapshots, 1)
	})

	t.Run("dish change swaps in a fresh snapshot", func(t *testing.T) {
		uow, cmd, orderID, _ := setup(t)
		before := uow.state.orders[orderID].SnapshotID
		other := seedDish(uow, "Bun cha", 12, dish.StatusAvailable)

		_, err := cmd.UpdateOrder(ctx, orderID, commands.UpdateOrderParams{
			Status:   order.StatusPending,
			DishID:   other,
			Quantity: 1,
		}, handlerID)
		require.NoError(t, err)

		after := uow.state.orders[orderID]
		assert.NotEqual(t, before, after.SnapshotID)
		// The replaced snapshot stays behind as history.
		assert.Len(t, uow.state.snapshots, 2)
	})

	t.Run("paid order conflicts before any write", func(t *testing.T) {
		uow, cmd, orderID, dishID := setup(t)
		rec := uow.state.orders[orderID]
		rec.Status = order.StatusPaid
		uow.state.orders[orderID] = rec

		_, err := cmd.UpdateOrder(ctx, orderID, commands.UpdateOrderParams{
			Status:   order.StatusRejected,
			DishID:   dishID,
			Quantity: 1,
		}, handlerID)
		require.ErrorIs(t, err, commands.ErrOrderAlreadyPaid)
		assert.Equal(t, order.StatusPaid, uow.state.orders[orderID].Status)
	})

	t.Run("backward transition is illegal", func(t *testing.T) {
		uow, cmd, orderID, dishID := setup(t)
		rec := uow.state.orders[orderID]
		rec.Status = order.StatusDelivered
		uow.state.orders[orderID] = rec

		_, err := cmd.UpdateOrder(ctx, orderID, commands.UpdateOrderParams{
			Status:   order.StatusProcessing,
			DishID:   dishID,
			Quantity: 1,
		}, handlerID)
		require.ErrorIs(t, err, commands.ErrIllegalStatusTransition)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, cmd, _, dishID := setup(t)
		_, err := cmd.UpdateOrder(ctx, uuid.New(), commands.UpdateOrderParams{
			Status:   order.StatusPending,
			DishID:   dishID,
			Quantity: 1,
		}, handlerID)
		require.ErrorIs(t, err, commands.ErrOrderNotFound)
	})
}
