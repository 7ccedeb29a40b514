//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"tableside/internal/usecase/commands"
	"tableside/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(uow *fakeUoW, id int64, title string, read bool) {
	uow.state.notifications[id] = shared.NotificationRecord{
		ID: id, Title: title, Content: "content", IsRead: read,
		CreatedAt: time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
	}
}

func TestNotificationCommands(t *testing.T) {
	ctx := context.Background()

	setup := func() (*fakeUoW, commands.NotificationCommands) {
		uow := newFakeUoW()
		return uow, commands.NewNotificationCommands(uow)
	}

	t.Run("mark read flips the flag and returns the row", func(t *testing.T) {
		uow, cmd := setup()
		seedNotification(uow, 1, "New order", false)

		view, err := cmd.MarkRead(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), view.ID)
		assert.Equal(t, "New order", view.Title)
		assert.True(t, view.IsRead)
		assert.True(t, uow.state.notifications[1].IsRead)
	})

	t.Run("unknown notification", func(t *testing.T) {
		_, cmd := setup()
		_, err := cmd.MarkRead(ctx, 99)
		require.ErrorIs(t, err, commands.ErrNotificationNotFound)
	})

	t.Run("mark all read", func(t *testing.T) {
		uow, cmd := setup()
		seedNotification(uow, 1, "New order", false)
		seedNotification(uow, 2, "Payment received", false)
		seedNotification(uow, 3, "Order updated", true)

		require.NoError(t, cmd.MarkAllRead(ctx))
		for id, n := range uow.state.notifications {
			assert.True(t, n.IsRead, "notification %d", id)
		}
	})

	t.Run("delete all clears the feed", func(t *testing.T) {
		uow, cmd := setup()
		seedNotification(uow, 1, "New order", false)
		seedNotification(uow, 2, "Payment received", true)

		require.NoError(t, cmd.DeleteAll(ctx))
		assert.Empty(t, uow.state.notifications)
	})
}
