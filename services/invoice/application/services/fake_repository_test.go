package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
	"github.com/ghuser/paycontrol/services/invoice/domain/query"
	"github.com/ghuser/paycontrol/services/invoice/domain/repositories"
)

// fakeInvoiceRepository is an in-memory InvoiceRepository with the same
// owner-scoping and soft-delete semantics as the Postgres implementation.
type fakeInvoiceRepository struct {
	invoices map[uuid.UUID]*models.Invoice
	emails   map[uuid.UUID]string // ownerID → email, for FindDueBetween

	saveErr error
}

func newFakeInvoiceRepository() *fakeInvoiceRepository {
	return &fakeInvoiceRepository{
		invoices: make(map[uuid.UUID]*models.Invoice),
		emails:   make(map[uuid.UUID]string),
	}
}

func (f *fakeInvoiceRepository) Save(_ context.Context, invoice *models.Invoice) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *invoice
	f.invoices[invoice.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepository) GetByID(_ context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID || inv.DeletedAt != nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvoiceRepository) List(_ context.Context, ownerID uuid.UUID, params query.ListParams) ([]*models.Invoice, int, error) {
	var matched []*models.Invoice
	for _, inv := range f.invoices {
		if inv.OwnerID != ownerID || inv.DeletedAt != nil {
			continue
		}
		if params.Status != nil && inv.Status != *params.Status {
			continue
		}
		if params.Label != nil && inv.Label != *params.Label {
			continue
		}
		if params.DueFrom != nil && inv.DueDate.Before(*params.DueFrom) {
			continue
		}
		if params.DueTo != nil && inv.DueDate.After(*params.DueTo) {
			continue
		}
		cp := *inv
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeInvoiceRepository) Update(_ context.Context, invoice *models.Invoice) error {
	existing, ok := f.invoices[invoice.ID]
	if !ok || existing.OwnerID != invoice.OwnerID || existing.DeletedAt != nil {
		return invoicedomain.ErrInvoiceNotFound
	}
	cp := *invoice
	cp.UpdatedAt = time.Now().UTC()
	f.invoices[invoice.ID] = &cp
	// Mirror the stored timestamp back, like RETURNING updated_at.
	invoice.UpdatedAt = cp.UpdatedAt
	return nil
}

func (f *fakeInvoiceRepository) SoftDelete(_ context.Context, ownerID, id uuid.UUID) error {
	inv, ok := f.invoices[id]
	if !ok || inv.OwnerID != ownerID || inv.DeletedAt != nil {
		return invoicedomain.ErrInvoiceNotFound
	}
	now := time.Now().UTC()
	inv.DeletedAt = &now
	return nil
}

func (f *fakeInvoiceRepository) Stats(_ context.Context, ownerID uuid.UUID) (repositories.Stats, error) {
	stats := repositories.Stats{TotalPaid: decimal.Zero, TotalPending: decimal.Zero}
	for _, inv := range f.invoices {
		if inv.OwnerID != ownerID || inv.DeletedAt != nil {
			continue
		}
		switch inv.Status {
		case models.StatusPaid:
			stats.TotalPaid = stats.TotalPaid.Add(inv.Amount)
		case models.StatusPending:
			stats.TotalPending = stats.TotalPending.Add(inv.Amount)
		case models.StatusOverdue:
			stats.OverdueCount++
		}
	}
	return stats, nil
}

func (f *fakeInvoiceRepository) PromoteOverdue(_ context.Context, before time.Time) ([]repositories.PromotedInvoice, error) {
	var promoted []repositories.PromotedInvoice
	for _, inv := range f.invoices {
		if inv.DeletedAt != nil || inv.Status != models.StatusPending {
			continue
		}
		if inv.DueDate.Before(before) {
			inv.Status = models.StatusOverdue
			inv.UpdatedAt = time.Now().UTC()
			promoted = append(promoted, repositories.PromotedInvoice{ID: inv.ID, OwnerID: inv.OwnerID})
		}
	}
	return promoted, nil
}

func (f *fakeInvoiceRepository) FindDueBetween(_ context.Context, from, to time.Time) ([]repositories.DueInvoice, error) {
	var due []repositories.DueInvoice
	for _, inv := range f.invoices {
		if inv.DeletedAt != nil || inv.Status != models.StatusPending {
			continue
		}
		if inv.DueDate.Before(from) || inv.DueDate.After(to) {
			continue
		}
		cp := *inv
		due = append(due, repositories.DueInvoice{
			Invoice:    &cp,
			OwnerEmail: f.emails[inv.OwnerID],
		})
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].Invoice.DueDate.Before(due[j].Invoice.DueDate)
	})
	return due, nil
}
