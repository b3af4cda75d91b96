package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/paycontrol/pkg/database"
	"github.com/ghuser/paycontrol/pkg/events"
	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
	domainevents "github.com/ghuser/paycontrol/services/invoice/domain/events"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
	"github.com/ghuser/paycontrol/services/invoice/domain/query"
	"github.com/ghuser/paycontrol/services/invoice/domain/repositories"
)

// invoiceColumns is the select list shared by every read. deleted_at is
// never selected: tombstoned rows are filtered out of every query by
// notDeleted, so a loaded invoice always has DeletedAt == nil.
const invoiceColumns = "id, owner_id, label, amount, due_date, paid_date, status, created_at, updated_at"

// notDeleted is anded into every WHERE clause so soft-deleted rows are
// invisible by construction, not by convention at each call site.
const notDeleted = "deleted_at IS NULL"

// sortColumns maps API sort field names to SQL columns. The query layer
// already rejects anything outside this set; the map is the second fence
// against ORDER BY injection.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"paidDate":  "paid_date",
	"amount":    "amount",
	"label":     "label",
	"status":    "status",
}

// InvoiceRepository implements repositories.InvoiceRepository against PostgreSQL.
type InvoiceRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewInvoiceRepository returns an InvoiceRepository backed by the given pool
// and event bus. The bus is used to publish InvoiceCreatedEvents after a
// successful save; pass nil to disable publishing.
func NewInvoiceRepository(db *database.Database, bus *events.EventBus) *InvoiceRepository {
	return &InvoiceRepository{db: db, bus: bus}
}

// Save persists a new invoice and publishes an InvoiceCreatedEvent within the
// same transaction (outbox pattern).
func (r *InvoiceRepository) Save(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (id, owner_id, label, amount, due_date, paid_date, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			invoice.ID,
			invoice.OwnerID,
			invoice.Label,
			invoice.Amount,
			invoice.DueDate,
			nullTime(invoice.PaidDate),
			invoice.Status.String(),
			invoice.CreatedAt,
			invoice.UpdatedAt,
		)
		if err != nil {
			return storeErr("insert invoice", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(tx, invoice); err != nil {
				return fmt.Errorf("publish invoice created: %w", err)
			}
		}
		return nil
	})
}

// GetByID retrieves an invoice by ID scoped to the given owner. A record
// owned by someone else is reported as ErrInvoiceNotFound, identical to a
// genuinely absent id.
func (r *InvoiceRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	row := r.db.DB().QueryRowContext(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1 AND owner_id = $2 AND "+notDeleted,
		id, ownerID,
	)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoicedomain.ErrInvoiceNotFound
		}
		return nil, storeErr("query invoice", err)
	}
	return invoice, nil
}

// List retrieves a filtered, sorted, paginated page of the owner's invoices
// plus the unpaginated match count.
func (r *InvoiceRepository) List(ctx context.Context, ownerID uuid.UUID, params query.ListParams) ([]*models.Invoice, int, error) {
	where := []string{"owner_id = $1", notDeleted}
	args := []any{ownerID}

	if params.Status != nil {
		args = append(args, params.Status.String())
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Label != nil {
		args = append(args, *params.Label)
		where = append(where, fmt.Sprintf("label = $%d", len(args)))
	}
	if params.DueFrom != nil && params.DueTo != nil {
		args = append(args, *params.DueFrom)
		where = append(where, fmt.Sprintf("due_date >= $%d", len(args)))
		args = append(args, *params.DueTo)
		where = append(where, fmt.Sprintf("due_date <= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := r.db.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM invoices WHERE "+whereClause, args...,
	).Scan(&total); err != nil {
		return nil, 0, storeErr("count invoices", err)
	}

	sortCol, ok := sortColumns[params.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if params.Order == query.OrderAsc {
		dir = "ASC"
	}

	args = append(args, params.Limit, params.Offset())
	rows, err := r.db.DB().QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM invoices WHERE %s ORDER BY %s %s, id DESC LIMIT $%d OFFSET $%d",
		invoiceColumns, whereClause, sortCol, dir, len(args)-1, len(args),
	), args...)
	if err != nil {
		return nil, 0, storeErr("query invoices", err)
	}
	defer rows.Close() //nolint:errcheck

	var invoices []*models.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, storeErr("scan invoice", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("iterate invoices", err)
	}
	return invoices, total, nil
}

// Update persists all mutable fields in a single write, scoped to the
// invoice's owner, and scans the row's updated_at back into the invoice so
// the caller returns the stored timestamp, not an approximation. Returns
// ErrInvoiceNotFound when no live row matches.
func (r *InvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	err := r.db.DB().QueryRowContext(ctx, `
		UPDATE invoices
		SET label = $3, amount = $4, due_date = $5, paid_date = $6, status = $7, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND `+notDeleted+`
		RETURNING updated_at`,
		invoice.ID,
		invoice.OwnerID,
		invoice.Label,
		invoice.Amount,
		invoice.DueDate,
		nullTime(invoice.PaidDate),
		invoice.Status.String(),
	).Scan(&invoice.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoicedomain.ErrInvoiceNotFound
		}
		return storeErr("update invoice", err)
	}
	return nil
}

// SoftDelete tombstones an invoice by ID scoped to the given owner.
func (r *InvoiceRepository) SoftDelete(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := r.db.DB().ExecContext(ctx,
		"UPDATE invoices SET deleted_at = now(), updated_at = now() WHERE id = $1 AND owner_id = $2 AND "+notDeleted,
		id, ownerID,
	)
	if err != nil {
		return storeErr("soft delete invoice", err)
	}
	return requireRow(res)
}

// Stats computes the owner's dashboard aggregates in one pass.
// COALESCE guarantees zero sums for owners with no matching rows.
func (r *InvoiceRepository) Stats(ctx context.Context, ownerID uuid.UUID) (repositories.Stats, error) {
	var stats repositories.Stats
	err := r.db.DB().QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0),
			COUNT(*) FILTER (WHERE status = 'overdue')
		FROM invoices
		WHERE owner_id = $1 AND `+notDeleted,
		ownerID,
	).Scan(&stats.TotalPaid, &stats.TotalPending, &stats.OverdueCount)
	if err != nil {
		return repositories.Stats{}, storeErr("query invoice stats", err)
	}
	return stats, nil
}

// PromoteOverdue bulk-updates every pending invoice due strictly before the
// given instant to overdue, returning the changed (id, owner) pairs so the
// caller can evict cached read models. The status predicate makes the sweep
// naturally idempotent: promoted rows stop qualifying.
func (r *InvoiceRepository) PromoteOverdue(ctx context.Context, before time.Time) ([]repositories.PromotedInvoice, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		"UPDATE invoices SET status = $1, updated_at = now() WHERE status = $2 AND due_date < $3 AND "+notDeleted+" RETURNING id, owner_id",
		models.StatusOverdue.String(), models.StatusPending.String(), before,
	)
	if err != nil {
		return nil, storeErr("promote overdue invoices", err)
	}
	defer rows.Close() //nolint:errcheck

	var promoted []repositories.PromotedInvoice
	for rows.Next() {
		var p repositories.PromotedInvoice
		if err := rows.Scan(&p.ID, &p.OwnerID); err != nil {
			return nil, storeErr("scan promoted invoice", err)
		}
		promoted = append(promoted, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate promoted invoices", err)
	}
	return promoted, nil
}

// FindDueBetween returns every pending invoice due within [from, to] joined
// to its owner's contact address, across all owners.
func (r *InvoiceRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]repositories.DueInvoice, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT i.id, i.owner_id, i.label, i.amount, i.due_date, i.paid_date, i.status, i.created_at, i.updated_at,
		       u.email, u.first_name
		FROM invoices i
		JOIN users u ON u.id = i.owner_id
		WHERE i.status = $1 AND i.due_date >= $2 AND i.due_date <= $3 AND i.`+notDeleted+`
		ORDER BY i.due_date, i.id`,
		models.StatusPending.String(), from, to,
	)
	if err != nil {
		return nil, storeErr("query due invoices", err)
	}
	defer rows.Close() //nolint:errcheck

	var due []repositories.DueInvoice
	for rows.Next() {
		var (
			invoice  models.Invoice
			paidDate sql.NullTime
			email    string
			name     string
		)
		if err := rows.Scan(
			&invoice.ID, &invoice.OwnerID, &invoice.Label, &invoice.Amount,
			&invoice.DueDate, &paidDate, &invoice.Status,
			&invoice.CreatedAt, &invoice.UpdatedAt,
			&email, &name,
		); err != nil {
			return nil, storeErr("scan due invoice", err)
		}
		if paidDate.Valid {
			t := paidDate.Time
			invoice.PaidDate = &t
		}
		due = append(due, repositories.DueInvoice{
			Invoice:    &invoice,
			OwnerEmail: email,
			OwnerName:  name,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate due invoices", err)
	}
	return due, nil
}

func (r *InvoiceRepository) publishCreated(tx *sql.Tx, invoice *models.Invoice) error {
	event := domainevents.InvoiceCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		InvoiceID:  invoice.ID,
		OwnerID:    invoice.OwnerID,
		Label:      invoice.Label,
		Amount:     invoice.Amount.StringFixed(2),
		DueDate:    invoice.DueDate,
		Status:     invoice.Status.String(),
		OccurredAt: invoice.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(domainevents.TopicInvoiceCreated, msg)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*models.Invoice, error) {
	var (
		invoice  models.Invoice
		paidDate sql.NullTime
	)
	if err := row.Scan(
		&invoice.ID, &invoice.OwnerID, &invoice.Label, &invoice.Amount,
		&invoice.DueDate, &paidDate, &invoice.Status,
		&invoice.CreatedAt, &invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if paidDate.Valid {
		t := paidDate.Time
		invoice.PaidDate = &t
	}
	return &invoice, nil
}

// requireRow translates a zero-row update into ErrInvoiceNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("rows affected", err)
	}
	if n == 0 {
		return invoicedomain.ErrInvoiceNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// storeErr wraps an underlying store fault in ErrStoreUnavailable so callers
// surface a generic failure without leaking driver details.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", invoicedomain.ErrStoreUnavailable, op, err)
}
