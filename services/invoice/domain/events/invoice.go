package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicInvoiceCreated is the Watermill topic published when an invoice is created.
const TopicInvoiceCreated = "invoice.created"

// InvoiceCreatedEvent is published after a new invoice is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicInvoiceCreated).
type InvoiceCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	InvoiceID  uuid.UUID `json:"invoice_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Label      string    `json:"label"`
	Amount     string    `json:"amount"` // fixed 2-dp decimal string
	DueDate    time.Time `json:"due_date"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
