package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
)

const maxLabelLength = 255

// Invoice is the core aggregate for this bounded context.
type Invoice struct {
	ID      uuid.UUID
	OwnerID uuid.UUID // tenant scope — always filter by this in queries
	Label   string
	Amount  decimal.Decimal
	DueDate time.Time
	// PaidDate is meaningful when Status is paid but is not forcibly cleared
	// on other transitions; manual override is permitted.
	PaidDate  *time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // soft-delete tombstone; set records never surface in queries
}

// NewInvoice constructs a valid Invoice aggregate with a generated ID.
// An empty status defaults to pending. The amount is normalized to two
// decimal places.
func NewInvoice(ownerID uuid.UUID, label string, amount decimal.Decimal, dueDate time.Time, status Status, paidDate *time.Time) (*Invoice, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("owner id must be set")
	}
	if err := ValidateLabel(label); err != nil {
		return nil, err
	}
	normalized, err := NormalizeAmount(amount)
	if err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", invoicedomain.ErrInvalidDueDate)
	}
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", invoicedomain.ErrInvalidStatus, status)
	}

	now := time.Now().UTC()
	return &Invoice{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Label:     label,
		Amount:    normalized,
		DueDate:   dueDate,
		PaidDate:  paidDate,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateLabel enforces the label constraints: non-empty after trimming,
// at most 255 characters.
func ValidateLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label must not be empty", invoicedomain.ErrInvalidLabel)
	}
	if len(label) > maxLabelLength {
		return fmt.Errorf("%w: label must not exceed %d characters", invoicedomain.ErrInvalidLabel, maxLabelLength)
	}
	return nil
}

// NormalizeAmount validates that amount is non-negative and rounds it to the
// fixed two-decimal precision invoices carry.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount cannot be negative (got %s)", invoicedomain.ErrInvalidAmount, amount)
	}
	return amount.Round(2), nil
}
