package services

import (
	"github.com/ghuser/paycontrol/pkg/app"
	"github.com/ghuser/paycontrol/pkg/cache"
	"github.com/ghuser/paycontrol/services/invoice/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Invoice *InvoiceService
}

// New wires all invoice application services with infrastructure from the
// Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewInvoiceRepository(a.Db, a.EventBus)
	invoiceCache := cache.NewInvoiceCache(a.Redis)
	return &Services{
		Invoice: NewInvoiceService(repo, invoiceCache),
	}
}
