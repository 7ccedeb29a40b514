package dish

import "errors"

var ErrInvalidStatus = errors.New("invalid dish status")

type Status string

const (
	StatusAvailable   Status = "Available"
	StatusUnavailable Status = "Unavailable"
	StatusHidden      Status = "Hidden"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable, StatusHidden:
		return true
	default:
		return false
	}
}

// IsOrderable reports whether new order lines may reference the dish.
func (s Status) IsOrderable() bool {
	return s == StatusAvailable
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
