package order

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusDelivered  Status = "Delivered"
	StatusPaid       Status = "Paid"
	StatusRejected   Status = "Rejected"
)

// rank orders the forward path Pending -> Processing -> Delivered -> Paid.
// Rejected sits outside the path and is reachable from any non-terminal state.
var rank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusDelivered:  2,
	StatusPaid:       3,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusPaid, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusRejected
}

// CanTransitionTo enforces the monotonic state machine: status only moves
// forward along the path, or to Rejected from any non-terminal state.
func (s Status) CanTransitionTo(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusRejected {
		return true
	}
	from, okFrom := rank[s]
	to, okTo := rank[next]
	return okFrom && okTo && to >= from
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
