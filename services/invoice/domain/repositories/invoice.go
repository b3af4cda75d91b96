package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/services/invoice/domain/models"
	"github.com/ghuser/paycontrol/services/invoice/domain/query"
)

// Stats holds the per-owner dashboard aggregates. Sums with no matching rows
// report as zero, never null.
type Stats struct {
	TotalPaid    decimal.Decimal
	TotalPending decimal.Decimal
	OverdueCount int64
}

// DueInvoice pairs an invoice with its owner's contact details for the
// due-today notification sweep.
type DueInvoice struct {
	Invoice    *models.Invoice
	OwnerEmail string
	OwnerName  string
}

// PromotedInvoice identifies a row changed by the overdue promotion sweep so
// callers can evict derived read models.
type PromotedInvoice struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}

// InvoiceRepository is the persistence interface for the Invoice aggregate.
// The domain layer owns this interface; infrastructure implements it.
//
// Every owner-scoped method treats a record belonging to another owner
// exactly like an absent record (ErrInvoiceNotFound). Soft-deleted records
// are invisible to every method except the physical store itself.
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error)

	// List retrieves a filtered, sorted, paginated slice of the owner's
	// invoices plus the unpaginated match count.
	List(ctx context.Context, ownerID uuid.UUID, params query.ListParams) ([]*models.Invoice, int, error)

	// Update persists all mutable fields of an existing invoice in one write.
	Update(ctx context.Context, invoice *models.Invoice) error

	// SoftDelete tombstones an invoice by ID scoped to the given owner.
	SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error

	// Stats computes the owner's paid/pending sums and overdue count.
	Stats(ctx context.Context, ownerID uuid.UUID) (Stats, error)

	// PromoteOverdue bulk-updates every pending invoice due strictly before
	// the given instant to overdue, across all owners. Returns the changed
	// rows so callers can invalidate cached read models; re-running with no
	// newly qualifying rows returns an empty slice.
	PromoteOverdue(ctx context.Context, before time.Time) ([]PromotedInvoice, error)

	// FindDueBetween returns every pending invoice whose due date falls in
	// [from, to], joined to its owner's contact address, across all owners.
	FindDueBetween(ctx context.Context, from, to time.Time) ([]DueInvoice, error)
}
