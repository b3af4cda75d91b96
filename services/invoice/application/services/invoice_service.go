package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgcache "github.com/ghuser/paycontrol/pkg/cache"
	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
	"github.com/ghuser/paycontrol/services/invoice/domain/query"
	"github.com/ghuser/paycontrol/services/invoice/domain/repositories"
)

// UpdateInvoiceInput carries the optional fields of a full or partial update.
// Nil fields are left untouched — never nulled. All supplied fields are
// applied together once the owner-scoped record is confirmed to exist.
type UpdateInvoiceInput struct {
	Label    *string
	Amount   *decimal.Decimal
	DueDate  *time.Time
	Status   *models.Status
	PaidDate *time.Time
}

// InvoiceCache is the read-model cache surface the invoice services depend
// on. *pkgcache.InvoiceCache satisfies it; nil disables caching.
type InvoiceCache interface {
	Get(ctx context.Context, ownerID, invoiceID uuid.UUID) (*pkgcache.CachedInvoice, error)
	Set(ctx context.Context, inv *pkgcache.CachedInvoice) error
	Delete(ctx context.Context, ownerID, invoiceID uuid.UUID) error
}

// InvoiceService owns the invoice lifecycle: it validates and applies manual
// status transitions and enforces owner scoping on every mutation path.
// Event publishing happens in the repository layer (outbox pattern); reads
// are served from the Redis cache when available.
type InvoiceService struct {
	repo  repositories.InvoiceRepository
	cache InvoiceCache
}

// NewInvoiceService returns an InvoiceService wired with the given repository and cache.
func NewInvoiceService(repo repositories.InvoiceRepository, cache InvoiceCache) *InvoiceService {
	return &InvoiceService{repo: repo, cache: cache}
}

// Create validates and persists a new invoice for the owner. Status defaults
// to pending when empty.
func (s *InvoiceService) Create(ctx context.Context, ownerID uuid.UUID, label string, amount decimal.Decimal, dueDate time.Time, status models.Status, paidDate *time.Time) (*models.Invoice, error) {
	invoice, err := models.NewInvoice(ownerID, label, amount, dueDate, status, paidDate)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, invoice); err != nil {
		return nil, fmt.Errorf("save invoice: %w", err)
	}
	return invoice, nil
}

// GetByID retrieves an owner-scoped invoice using a read-through cache:
// check Redis first, fall back to Postgres, warm the cache before returning.
// The warm is synchronous so a concurrent Update/Delete cannot re-cache a
// snapshot taken before its eviction.
func (s *InvoiceService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, ownerID, id); err == nil {
			return cached.ToInvoice(), nil
		}
		// Cache miss or fault, fall through to Postgres.
	}

	invoice, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, pkgcache.FromInvoice(invoice))
	}

	return invoice, nil
}

// List returns a filtered, paginated page of the owner's invoices plus the
// unpaginated match count.
func (s *InvoiceService) List(ctx context.Context, ownerID uuid.UUID, params query.ListParams) ([]*models.Invoice, int, error) {
	invoices, total, err := s.repo.List(ctx, ownerID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, total, nil
}

// Update applies the supplied fields to an owner-scoped invoice. The status
// state machine is deliberately permissive: any state may move to any other
// via an explicit update, and paid date is never force-cleared.
func (s *InvoiceService) Update(ctx context.Context, ownerID, id uuid.UUID, input UpdateInvoiceInput) (*models.Invoice, error) {
	invoice, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	if input.Label != nil {
		if err := models.ValidateLabel(*input.Label); err != nil {
			return nil, err
		}
		invoice.Label = *input.Label
	}
	if input.Amount != nil {
		amount, err := models.NormalizeAmount(*input.Amount)
		if err != nil {
			return nil, err
		}
		invoice.Amount = amount
	}
	if input.DueDate != nil {
		if input.DueDate.IsZero() {
			return nil, fmt.Errorf("%w: due date is required", invoicedomain.ErrInvalidDueDate)
		}
		invoice.DueDate = *input.DueDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", invoicedomain.ErrInvalidStatus, *input.Status)
		}
		invoice.Status = *input.Status
	}
	if input.PaidDate != nil {
		invoice.PaidDate = input.PaidDate
	}

	// The repository scans the stored updated_at back into the invoice.
	if err := s.repo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), ownerID, id)
	}
	return invoice, nil
}

// PatchStatus applies a partial status update: only supplied fields are
// touched. It is the manual counterpart of the sweep's pending → overdue
// promotion and carries no transition guards.
func (s *InvoiceService) PatchStatus(ctx context.Context, ownerID, id uuid.UUID, status *models.Status, paidDate *time.Time) (*models.Invoice, error) {
	return s.Update(ctx, ownerID, id, UpdateInvoiceInput{Status: status, PaidDate: paidDate})
}

// Delete soft-deletes an owner-scoped invoice.
func (s *InvoiceService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(context.Background(), ownerID, id)
	}
	return nil
}

// Stats returns the owner's paid/pending totals and overdue count.
// Sums report zero when no rows match, never null.
func (s *InvoiceService) Stats(ctx context.Context, ownerID uuid.UUID) (repositories.Stats, error) {
	stats, err := s.repo.Stats(ctx, ownerID)
	if err != nil {
		return repositories.Stats{}, fmt.Errorf("invoice stats: %w", err)
	}
	return stats, nil
}
