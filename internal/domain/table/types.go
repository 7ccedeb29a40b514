package table

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math"
)

var (
	ErrInvalidStatus = errors.New("invalid table status")
	ErrInvalidNumber = errors.New("invalid table number")
)

type Status string

const (
	StatusAvailable Status = "Available"
	StatusHidden    Status = "Hidden"
	StatusReserved  Status = "Reserved"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusHidden, StatusReserved:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// ValidateNumber bounds table numbers to a positive 32-bit signed range so the
// store column and the QR payload agree.
func ValidateNumber(number int64) error {
	if number <= 0 || number > math.MaxInt32 {
		return ErrInvalidNumber
	}
	return nil
}

// NewToken returns a fresh rotating access token. Rotation revokes every guest
// seated at the table, so the token must be unpredictable.
func NewToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
