package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/pkg/config"
	"github.com/ghuser/paycontrol/pkg/logger"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// fakeNotifier records deliveries and can be told to fail specific addresses.
type fakeNotifier struct {
	sent    []string // addresses in delivery order
	failFor map[string]bool
}

func (f *fakeNotifier) SendInvoiceDueToday(_ context.Context, address string, _ *models.Invoice) bool {
	if f.failFor[address] {
		return false
	}
	f.sent = append(f.sent, address)
	return true
}

func sweepTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// addInvoice seeds the fake repository directly, bypassing service validation.
func addInvoice(repo *fakeInvoiceRepository, ownerID uuid.UUID, status models.Status, dueDate time.Time) *models.Invoice {
	inv := &models.Invoice{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Label:     "Seeded",
		Amount:    decimal.NewFromInt(100),
		DueDate:   dueDate,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	repo.invoices[inv.ID] = inv
	return inv
}

func newSweepHarness(now time.Time) (*SweepService, *fakeInvoiceRepository, *fakeNotifier, *fakeInvoiceCache) {
	repo := newFakeInvoiceRepository()
	notifier := &fakeNotifier{failFor: make(map[string]bool)}
	invCache := newFakeInvoiceCache()
	sweep := NewSweepService(repo, notifier, invCache, sweepTestLogger())
	sweep.now = func() time.Time { return now }
	return sweep, repo, notifier, invCache
}

func TestPromoteOverdue(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sweep, repo, _, _ := newSweepHarness(now)
	owner := uuid.New()

	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -7)
	todayNoon := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)

	pastDue1 := addInvoice(repo, owner, models.StatusPending, yesterday)
	pastDue2 := addInvoice(repo, owner, models.StatusPending, lastWeek)
	dueToday := addInvoice(repo, owner, models.StatusPending, todayNoon)
	future := addInvoice(repo, owner, models.StatusPending, tomorrow)
	alreadyPaid := addInvoice(repo, owner, models.StatusPaid, lastWeek)
	alreadyVoided := addInvoice(repo, owner, models.StatusVoided, lastWeek)

	n, err := sweep.PromoteOverdue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 promotions, got %d", n)
	}

	for _, inv := range []*models.Invoice{pastDue1, pastDue2} {
		if repo.invoices[inv.ID].Status != models.StatusOverdue {
			t.Fatalf("invoice due %v: expected overdue, got %s", inv.DueDate, repo.invoices[inv.ID].Status)
		}
	}
	// Due-today invoices are not overdue yet; day granularity.
	if repo.invoices[dueToday.ID].Status != models.StatusPending {
		t.Fatalf("due-today invoice promoted early: %s", repo.invoices[dueToday.ID].Status)
	}
	if repo.invoices[future.ID].Status != models.StatusPending {
		t.Fatalf("future invoice promoted: %s", repo.invoices[future.ID].Status)
	}
	// Only pending rows qualify.
	if repo.invoices[alreadyPaid.ID].Status != models.StatusPaid {
		t.Fatalf("paid invoice touched: %s", repo.invoices[alreadyPaid.ID].Status)
	}
	if repo.invoices[alreadyVoided.ID].Status != models.StatusVoided {
		t.Fatalf("voided invoice touched: %s", repo.invoices[alreadyVoided.ID].Status)
	}
}

func TestPromoteOverdue_Idempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 30, 0, 0, time.UTC)
	sweep, repo, _, _ := newSweepHarness(now)
	addInvoice(repo, uuid.New(), models.StatusPending, now.AddDate(0, 0, -3))

	first, err := sweep.PromoteOverdue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected 1 promotion, got %d", first)
	}

	second, err := sweep.PromoteOverdue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != 0 {
		t.Fatalf("re-run promoted %d invoices, expected 0", second)
	}
}

func TestPromoteOverdue_SkipsDeleted(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	sweep, repo, _, _ := newSweepHarness(now)

	inv := addInvoice(repo, uuid.New(), models.StatusPending, now.AddDate(0, 0, -2))
	deletedAt := now
	inv.DeletedAt = &deletedAt

	n, err := sweep.PromoteOverdue(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected deleted invoice to be skipped, promoted %d", n)
	}
}

func TestPromoteOverdue_EvictsCachedReadModel(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 5, 0, 0, time.UTC)
	sweep, repo, _, invCache := newSweepHarness(now)
	svc := NewInvoiceService(repo, invCache)
	owner := uuid.New()

	pastDue := addInvoice(repo, owner, models.StatusPending, now.AddDate(0, 0, -2))
	current := addInvoice(repo, owner, models.StatusPending, now.AddDate(0, 0, 2))

	// Warm the cache with both invoices still pending.
	for _, inv := range []*models.Invoice{pastDue, current} {
		if _, err := svc.GetByID(context.Background(), owner, inv.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := sweep.PromoteOverdue(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The promoted invoice must not keep serving its cached pending status.
	got, err := svc.GetByID(context.Background(), owner, pastDue.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusOverdue {
		t.Fatalf("post-sweep read returned %s, expected overdue", got.Status)
	}

	// Untouched invoices keep their cache entry.
	if len(invCache.deleted) != 1 || invCache.deleted[0] != pastDue.ID {
		t.Fatalf("expected only the promoted invoice evicted, got %v", invCache.deleted)
	}
}

func TestNotifyDueToday(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	sweep, repo, notifier, _ := newSweepHarness(now)

	ownerA := uuid.New()
	ownerB := uuid.New()
	repo.emails[ownerA] = "a@example.com"
	repo.emails[ownerB] = "b@example.com"

	addInvoice(repo, ownerA, models.StatusPending, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	addInvoice(repo, ownerB, models.StatusPending, time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC))
	addInvoice(repo, ownerA, models.StatusPending, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) // tomorrow
	addInvoice(repo, ownerA, models.StatusPending, time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)) // yesterday
	addInvoice(repo, ownerB, models.StatusPaid, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))    // not pending

	sent, err := sweep.NotifyDueToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 reminders, got %d", sent)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 deliveries, got %v", notifier.sent)
	}
}

func TestNotifyDueToday_FailureIsolation(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	sweep, repo, notifier, _ := newSweepHarness(now)

	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	emails := []string{"first@example.com", "broken@example.com", "third@example.com"}
	for i, owner := range owners {
		repo.emails[owner] = emails[i]
		addInvoice(repo, owner, models.StatusPending, time.Date(2026, 8, 30, 9+i, 0, 0, 0, time.UTC))
	}
	notifier.failFor["broken@example.com"] = true

	sent, err := sweep.NotifyDueToday(context.Background())
	if err != nil {
		t.Fatalf("one failed delivery must not fail the sweep: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 successful reminders, got %d", sent)
	}
}

// warnCapturingLogger records WarnContext messages, delegating everything
// else to a real logger.
type warnCapturingLogger struct {
	logger.Logger
	warnings []string
}

func (l *warnCapturingLogger) WarnContext(_ context.Context, msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}

func TestNotifyDueToday_SkipsMissingEmail(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	repo := newFakeInvoiceRepository()
	notifier := &fakeNotifier{failFor: make(map[string]bool)}
	log := &warnCapturingLogger{Logger: sweepTestLogger()}
	sweep := NewSweepService(repo, notifier, nil, log)
	sweep.now = func() time.Time { return now }

	// Owner has no known address.
	addInvoice(repo, uuid.New(), models.StatusPending, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	sent, err := sweep.NotifyDueToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 0 || len(notifier.sent) != 0 {
		t.Fatalf("expected no deliveries without an address, got %d", sent)
	}
	// The skip is observable, not silent.
	if len(log.warnings) != 1 {
		t.Fatalf("expected 1 warning for the unnotified invoice, got %d", len(log.warnings))
	}
}

func TestNotifyDueToday_AtLeastOnce(t *testing.T) {
	now := time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC)
	sweep, repo, notifier, _ := newSweepHarness(now)

	owner := uuid.New()
	repo.emails[owner] = "a@example.com"
	addInvoice(repo, owner, models.StatusPending, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 2; i++ {
		if _, err := sweep.NotifyDueToday(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Re-running within the same day re-sends; delivery is at-least-once.
	if len(notifier.sent) != 2 {
		t.Fatalf("expected 2 deliveries across 2 runs, got %d", len(notifier.sent))
	}
}
