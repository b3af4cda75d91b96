package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

const (
	// InvoiceCacheTTL is the time-to-live for cached invoices.
	InvoiceCacheTTL = 24 * time.Hour

	invoiceCacheKeyPrefix = "invoice"
)

// CachedInvoice is the denormalized read model stored in Redis as a hash.
type CachedInvoice struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Label     string
	Amount    decimal.Decimal
	DueDate   time.Time
	PaidDate  *time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FromInvoice builds the cache entry for a domain invoice.
func FromInvoice(inv *models.Invoice) *CachedInvoice {
	return &CachedInvoice{
		ID:        inv.ID,
		OwnerID:   inv.OwnerID,
		Label:     inv.Label,
		Amount:    inv.Amount,
		DueDate:   inv.DueDate,
		PaidDate:  inv.PaidDate,
		Status:    inv.Status.String(),
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// ToInvoice rehydrates the domain invoice from a cache entry.
func (c *CachedInvoice) ToInvoice() *models.Invoice {
	return &models.Invoice{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Label:     c.Label,
		Amount:    c.Amount,
		DueDate:   c.DueDate,
		PaidDate:  c.PaidDate,
		Status:    models.Status(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// InvoiceCache provides structured read/write operations for invoice cache
// entries. Keys are scoped by owner to prevent cross-tenant data leakage.
// Key format: "invoice:{ownerID}:{invoiceID}"
type InvoiceCache struct {
	client *RedisClient
}

// NewInvoiceCache creates a new InvoiceCache backed by the given RedisClient.
func NewInvoiceCache(r *RedisClient) *InvoiceCache {
	return &InvoiceCache{client: r}
}

// Get retrieves a cached invoice by owner + invoice ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *InvoiceCache) Get(ctx context.Context, ownerID, invoiceID uuid.UUID) (*CachedInvoice, error) {
	key := c.key(ownerID, invoiceID)
	vals, err := c.client.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	id, err := uuid.Parse(vals["id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	oid, err := uuid.Parse(vals["owner_id"])
	if err != nil {
		return nil, fmt.Errorf("cache parse owner_id: %w", err)
	}
	amount, err := decimal.NewFromString(vals["amount"])
	if err != nil {
		return nil, fmt.Errorf("cache parse amount: %w", err)
	}
	dueDate, err := time.Parse(time.RFC3339Nano, vals["due_date"])
	if err != nil {
		return nil, fmt.Errorf("cache parse due_date: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, vals["created_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, vals["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("cache parse updated_at: %w", err)
	}

	var paidDate *time.Time
	if raw := vals["paid_date"]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("cache parse paid_date: %w", err)
		}
		paidDate = &t
	}

	return &CachedInvoice{
		ID:        id,
		OwnerID:   oid,
		Label:     vals["label"],
		Amount:    amount,
		DueDate:   dueDate,
		PaidDate:  paidDate,
		Status:    vals["status"],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Set writes a cached invoice as a Redis hash with a 24-hour TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *InvoiceCache) Set(ctx context.Context, inv *CachedInvoice) error {
	key := c.key(inv.OwnerID, inv.ID)
	paidDate := ""
	if inv.PaidDate != nil {
		paidDate = inv.PaidDate.UTC().Format(time.RFC3339Nano)
	}

	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, key,
		"id", inv.ID.String(),
		"owner_id", inv.OwnerID.String(),
		"label", inv.Label,
		"amount", inv.Amount.StringFixed(2),
		"due_date", inv.DueDate.UTC().Format(time.RFC3339Nano),
		"paid_date", paidDate,
		"status", inv.Status,
		"created_at", inv.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", inv.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, InvoiceCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached invoice.
func (c *InvoiceCache) Delete(ctx context.Context, ownerID, invoiceID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, c.key(ownerID, invoiceID)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "invoice:{ownerID}:{invoiceID}"
func (c *InvoiceCache) key(ownerID, invoiceID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", invoiceCacheKeyPrefix, ownerID, invoiceID)
}
