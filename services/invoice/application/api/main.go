package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/paycontrol/pkg/app"
	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/services/invoice/application/handlers"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
)

// InvoiceRoutes registers invoice endpoints on the provided chi router.
// Every endpoint requires a session; all reads and writes are scoped to the
// authenticated owner.
func InvoiceRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", handlers.NewPostInvoiceHandler(svcs).Execute)
			r.Get("/", handlers.NewGetInvoicesHandler(svcs).Execute)
			r.Get("/stats", handlers.NewGetInvoiceStatsHandler(svcs).Execute)

			r.Route("/{invoiceID}", func(r chi.Router) {
				r.Get("/", handlers.NewGetInvoiceHandler(svcs).Execute)
				r.Put("/", handlers.NewPutInvoiceHandler(svcs).Execute)
				r.Patch("/status", handlers.NewPatchInvoiceStatusHandler(svcs).Execute)
				r.Delete("/", handlers.NewDeleteInvoiceHandler(svcs).Execute)
				r.Get("/document", handlers.NewGetInvoiceDocumentHandler(svcs).Execute)
			})
		})
	})
}
