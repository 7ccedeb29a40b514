package staff

import "errors"

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleOwner    Role = "Owner"
	RoleEmployee Role = "Employee"
	RoleGuest    Role = "Guest"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleEmployee, RoleGuest:
		return true
	default:
		return false
	}
}

// CanChangeOrderStatus gates status edits: employees may edit order contents
// but only owners may move an order through the state machine.
func (r Role) CanChangeOrderStatus() bool {
	return r == RoleOwner
}

// CanSettle gates the in-person settlement path.
func (r Role) CanSettle() bool {
	return r == RoleOwner
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
