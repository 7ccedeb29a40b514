//go:build unit

package notify_test

import (
	"context"
	"sync"
	"testing"

	"tableside/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publish struct {
	Channel string
	Event   string
	Payload any
}

type captureEmitter struct {
	mu        sync.Mutex
	published []publish
}

func (e *captureEmitter) Publish(_ context.Context, channel, event string, payload any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, publish{Channel: channel, Event: event, Payload: payload})
	return nil
}

func (e *captureEmitter) all() []publish {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]publish(nil), e.published...)
}

type captureRecorder struct {
	mu       sync.Mutex
	recorded []notify.Notice
}

func (r *captureRecorder) Record(_ context.Context, title, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, notify.Notice{Title: title, Content: content})
	return nil
}

func (r *captureRecorder) all() []notify.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notice(nil), r.recorded...)
}

func TestNotifierDelivery(t *testing.T) {
	setup := func() (*captureEmitter, *captureRecorder, *notify.Notifier) {
		emitter := &captureEmitter{}
		recorder := &captureRecorder{}
		return emitter, recorder, notify.NewNotifier(emitter, recorder)
	}

	t.Run("direct events reach the guest channel and the manager room", func(t *testing.T) {
		emitter, _, notifier := setup()
		notifier.Start()

		connID := "abc123"
		notifier.Dispatch(notify.Event{
			Name:         notify.EventNewOrder,
			ConnectionID: &connID,
			Payload:      map[string]any{"order": 1},
		})
		notifier.Stop()

		got := emitter.all()
		require.Len(t, got, 2)
		assert.Equal(t, "conn:abc123", got[0].Channel)
		assert.Equal(t, notify.EventNewOrder, got[0].Event)
		assert.Equal(t, notify.ManagerRoom, got[1].Channel)
		assert.Equal(t, notify.EventNewOrder, got[1].Event)
	})

	t.Run("events without a connection go to the manager room only", func(t *testing.T) {
		emitter, _, notifier := setup()
		notifier.Start()

		notifier.Dispatch(notify.Event{Name: notify.EventUpdateOrder, Payload: "payload"})
		notifier.Stop()

		got := emitter.all()
		require.Len(t, got, 1)
		assert.Equal(t, notify.ManagerRoom, got[0].Channel)
	})

	t.Run("events with a notice land in the feed", func(t *testing.T) {
		_, recorder, notifier := setup()
		notifier.Start()

		notifier.Dispatch(notify.Event{
			Name:    notify.EventPayment,
			Payload: "payload",
			Notice:  &notify.Notice{Title: "Payment received", Content: "2 orders settled online"},
		})
		notifier.Dispatch(notify.Event{Name: notify.EventUpdateOrder, Payload: "no notice"})
		notifier.Stop()

		got := recorder.all()
		require.Len(t, got, 1)
		assert.Equal(t, "Payment received", got[0].Title)
		assert.Equal(t, "2 orders settled online", got[0].Content)
	})

	t.Run("stop drains everything already queued", func(t *testing.T) {
		emitter, _, notifier := setup()

		// Queue before the dispatcher starts so nothing is consumed early.
		for range 10 {
			notifier.Dispatch(notify.Event{Name: notify.EventPayment})
		}
		notifier.Start()
		notifier.Stop()

		assert.Len(t, emitter.all(), 10)
	})
}
