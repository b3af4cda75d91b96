package models

import (
	"fmt"

	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
)

// Status is the lifecycle state of an invoice. The set is closed: no other
// value is ever persisted. Any state may transition to any other via an
// explicit manual update — the sweep is the only automatic writer and it only
// moves pending → overdue.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
	StatusVoided  Status = "voided"
)

// ParseStatus validates s against the closed status set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusOverdue, StatusVoided:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: must be one of pending, paid, overdue, voided (got %q)", invoicedomain.ErrInvalidStatus, s)
}

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// String returns the underlying string value.
func (s Status) String() string {
	return string(s)
}
