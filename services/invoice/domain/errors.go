package domain

import "errors"

// Sentinel errors for the invoice domain. Use errors.Is() to check these.
var (
	// ErrInvoiceNotFound indicates the requested invoice does not exist for the
	// caller. Cross-owner access reports this same error so record existence
	// never leaks across tenants.
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvalidStatus indicates a status value outside the closed
	// pending/paid/overdue/voided set.
	ErrInvalidStatus = errors.New("invalid invoice status")

	// ErrInvalidLabel indicates an empty or malformed invoice label.
	ErrInvalidLabel = errors.New("invalid invoice label")

	// ErrInvalidAmount indicates a negative or non-numeric amount.
	ErrInvalidAmount = errors.New("invalid invoice amount")

	// ErrInvalidDueDate indicates a missing or malformed due date.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrStoreUnavailable indicates the backing store failed or timed out.
	ErrStoreUnavailable = errors.New("invoice store unavailable")
)
