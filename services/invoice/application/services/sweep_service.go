package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/paycontrol/pkg/logger"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
	"github.com/ghuser/paycontrol/services/invoice/domain/repositories"
)

// Notifier delivers a due-today reminder to an address. Implementations must
// never let a delivery fault escape: they report success with the boolean and
// log failures themselves.
type Notifier interface {
	SendInvoiceDueToday(ctx context.Context, address string, invoice *models.Invoice) bool
}

// CacheInvalidator evicts cached invoice read models after the sweep writes
// around them. *pkgcache.InvoiceCache satisfies it; nil disables eviction.
type CacheInvalidator interface {
	Delete(ctx context.Context, ownerID, invoiceID uuid.UUID) error
}

// SweepService runs the two unattended jobs that advance invoice state on
// wall-clock boundaries. Unlike the request-scoped InvoiceService it operates
// across all owners. Both jobs are idempotent and safe to re-run: promotion
// changes status so promoted rows stop qualifying, and notification is
// accepted at-least-once within a day.
type SweepService struct {
	repo     repositories.InvoiceRepository
	notifier Notifier
	cache    CacheInvalidator
	log      logger.Logger
	now      func() time.Time
}

// NewSweepService returns a SweepService on the given repository, notifier,
// and read-model cache.
func NewSweepService(repo repositories.InvoiceRepository, notifier Notifier, cache CacheInvalidator, log logger.Logger) *SweepService {
	return &SweepService{
		repo:     repo,
		notifier: notifier,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// PromoteOverdue moves every pending invoice due strictly before the start of
// today to overdue in one bulk update, then evicts the promoted records from
// the read-model cache so single-invoice reads do not keep serving the old
// status for the rest of the TTL. Due dates are compared at day granularity:
// an invoice due any time today is not yet overdue.
func (s *SweepService) PromoteOverdue(ctx context.Context) (int64, error) {
	startOfToday := startOfDay(s.now())

	promoted, err := s.repo.PromoteOverdue(ctx, startOfToday)
	if err != nil {
		return 0, fmt.Errorf("promote overdue invoices: %w", err)
	}

	if s.cache != nil {
		for _, p := range promoted {
			if err := s.cache.Delete(ctx, p.OwnerID, p.ID); err != nil {
				s.log.WarnContext(ctx, "cache evict failed for promoted invoice",
					"invoice_id", p.ID,
					"owner_id", p.OwnerID,
					"error", err,
				)
			}
		}
	}

	n := int64(len(promoted))
	if n > 0 {
		s.log.InfoContext(ctx, "overdue sweep promoted invoices", "count", n)
	} else {
		s.log.InfoContext(ctx, "overdue sweep found nothing to promote")
	}
	return n, nil
}

// NotifyDueToday sends one reminder per pending invoice whose due date falls
// within today, joined to the owner's contact address. A failed delivery is
// logged and skipped so it never blocks the remaining records. Returns the
// number of reminders delivered.
func (s *SweepService) NotifyDueToday(ctx context.Context) (int, error) {
	start := startOfDay(s.now())
	end := endOfDay(start)

	due, err := s.repo.FindDueBetween(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("find invoices due today: %w", err)
	}
	if len(due) == 0 {
		s.log.InfoContext(ctx, "no pending invoices due today")
		return 0, nil
	}

	s.log.InfoContext(ctx, "sending due-today reminders", "count", len(due))

	sent := 0
	for _, d := range due {
		if d.OwnerEmail == "" {
			s.log.WarnContext(ctx, "due-today reminder skipped, owner has no contact address",
				"invoice_id", d.Invoice.ID,
				"owner_id", d.Invoice.OwnerID,
			)
			continue
		}
		if !s.notifier.SendInvoiceDueToday(ctx, d.OwnerEmail, d.Invoice) {
			s.log.WarnContext(ctx, "due-today reminder failed",
				"invoice_id", d.Invoice.ID,
				"owner_id", d.Invoice.OwnerID,
			)
			continue
		}
		sent++
	}
	return sent, nil
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last represented instant of the day beginning at start.
func endOfDay(start time.Time) time.Time {
	return start.AddDate(0, 0, 1).Add(-time.Millisecond)
}
