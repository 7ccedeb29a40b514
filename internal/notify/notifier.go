package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	EventNewOrder    = "new-order"
	EventUpdateOrder = "update-order"
	EventPayment     = "payment"

	// ManagerRoom is the broadcast channel every staff dashboard subscribes to.
	ManagerRoom = "manager"

	directChannelPrefix = "conn:"
)

// Notice is the persisted form of an event: what the staff notification feed
// shows after the live broadcast is gone.
type Notice struct {
	Title   string
	Content string
}

// Event is one fanout unit. When ConnectionID is set the event is delivered
// both to that guest's direct channel and to the manager room; otherwise only
// the manager room receives it. When Notice is set the event is also recorded
// in the notification feed.
type Event struct {
	Name         string
	ConnectionID *string
	Payload      any
	Notice       *Notice
}

// Emitter is the transport the dispatcher publishes through.
type Emitter interface {
	Publish(ctx context.Context, channel string, event string, payload any) error
}

// Recorder persists notices for the staff notification feed.
type Recorder interface {
	Record(ctx context.Context, title, content string) error
}

// Notifier drains a buffered queue on a single goroutine so request handlers
// never block on the fanout transport. Delivery is fire-and-forget: a publish
// or record failure is logged and dropped, never surfaced to the request that
// caused it.
type Notifier struct {
	emitter  Emitter
	recorder Recorder
	queue    chan Event
	done     chan struct{}
	once     sync.Once
}

func NewNotifier(emitter Emitter, recorder Recorder) *Notifier {
	return &Notifier{
		emitter:  emitter,
		recorder: recorder,
		queue:    make(chan Event, 256),
		done:     make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	go n.run()
}

// Stop closes the queue and waits for the dispatcher to drain it.
func (n *Notifier) Stop() {
	n.once.Do(func() { close(n.queue) })
	<-n.done
}

// Dispatch enqueues without blocking; when the queue is full the event is
// dropped with a warning rather than stalling the caller.
func (n *Notifier) Dispatch(event Event) {
	select {
	case n.queue <- event:
	default:
		slog.Warn("notification queue full, dropping event", "event", event.Name)
	}
}

func (n *Notifier) run() {
	defer close(n.done)
	for event := range n.queue {
		n.deliver(event)
	}
}

func (n *Notifier) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if event.ConnectionID != nil && *event.ConnectionID != "" {
		channel := directChannelPrefix + *event.ConnectionID
		if err := n.emitter.Publish(ctx, channel, event.Name, event.Payload); err != nil {
			slog.Warn("direct notification failed", "event", event.Name, "channel", channel, "error", err.Error())
		}
	}

	if err := n.emitter.Publish(ctx, ManagerRoom, event.Name, event.Payload); err != nil {
		slog.Warn("manager notification failed", "event", event.Name, "error", err.Error())
	}

	if event.Notice != nil {
		if err := n.recorder.Record(ctx, event.Notice.Title, event.Notice.Content); err != nil {
			slog.Warn("notification record failed", "event", event.Name, "error", err.Error())
		}
	}
}
