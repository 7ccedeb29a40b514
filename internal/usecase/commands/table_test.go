//go:build unit

package commands_test

import (
	"context"
	"testing"

	"tableside/internal/domain/table"
	"tableside/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableCommands(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeUoW, commands.TableCommands) {
		uow := newFakeUoW()
		return uow, commands.NewTableCommands(uow, &fakeTableQueries{uow: uow})
	}

	t.Run("create assigns a fresh token", func(t *testing.T) {
		uow, cmd := setup()

		view, err := cmd.CreateTable(ctx, commands.CreateTableParams{
			Number: 12, Capacity: 4, Status: table.StatusAvailable,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(12), view.Number)
		assert.NotEmpty(t, view.Token)
		assert.Len(t, uow.state.tables, 1)
	})

	t.Run("duplicate number maps to a validation error", func(t *testing.T) {
		_, cmd := setup()

		_, err := cmd.CreateTable(ctx, commands.CreateTableParams{
			Number: 12, Capacity: 4, Status: table.StatusAvailable,
		})
		require.NoError(t, err)

		_, err = cmd.CreateTable(ctx, commands.CreateTableParams{
			Number: 12, Capacity: 2, Status: table.StatusAvailable,
		})
		require.ErrorIs(t, err, commands.ErrDuplicateTableNumber)
	})

	t.Run("number outside the 32-bit range", func(t *testing.T) {
		_, cmd := setup()

		_, err := cmd.CreateTable(ctx, commands.CreateTableParams{
			Number: int64(1) << 40, Capacity: 4, Status: table.StatusAvailable,
		})
		require.ErrorIs(t, err, commands.ErrInvalidTableNumber)

		_, err = cmd.CreateTable(ctx, commands.CreateTableParams{
			Number: 0, Capacity: 4, Status: table.StatusAvailable,
		})
		require.ErrorIs(t, err, commands.ErrInvalidTableNumber)
	})

	t.Run("update without token change keeps guests seated", func(t *testing.T) {
		uow, cmd := setup()
		seedTable(uow, 7, table.StatusAvailable)
		before := uow.state.tables[7].Token

		view, err := cmd.UpdateTable(ctx, 7, commands.UpdateTableParams{
			Capacity: 6, Status: table.StatusReserved,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(6), view.Capacity)
		assert.Equal(t, before, uow.state.tables[7].Token)
		assert.Empty(t, uow.state.revoked)
	})

	t.Run("token rotation revokes seated guests in the same transaction", func(t *testing.T) {
		uow, cmd := setup()
		seedTable(uow, 7, table.StatusAvailable)
		before := uow.state.tables[7].Token

		view, err := cmd.UpdateTable(ctx, 7, commands.UpdateTableParams{
			Capacity: 4, Status: table.StatusAvailable, ChangeToken: true,
		})
		require.NoError(t, err)
		assert.NotEqual(t, before, view.Token)
		assert.Equal(t, []int32{7}, uow.state.revoked)
	})

	t.Run("update unknown table", func(t *testing.T) {
		_, cmd := setup()
		_, err := cmd.UpdateTable(ctx, 99, commands.UpdateTableParams{
			Capacity: 4, Status: table.StatusAvailable,
		})
		require.ErrorIs(t, err, commands.ErrTableNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		uow, cmd := setup()
		seedTable(uow, 7, table.StatusAvailable)

		require.NoError(t, cmd.DeleteTable(ctx, 7))
		assert.Empty(t, uow.state.tables)

		require.ErrorIs(t, cmd.DeleteTable(ctx, 7), commands.ErrTableNotFound)
	})
}
