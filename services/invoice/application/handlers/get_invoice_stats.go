package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
)

// StatsResponse is the dashboard aggregate for GET /invoices/stats.
// Totals are zero, never null, when no invoices match.
type StatsResponse struct {
	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPending decimal.Decimal `json:"total_pending"`
	OverdueCount int64           `json:"overdue_count"`
}

// GetInvoiceStatsHandler handles GET /invoices/stats requests.
type GetInvoiceStatsHandler struct {
	svc *appsvcs.Services
}

// NewGetInvoiceStatsHandler returns a GetInvoiceStatsHandler backed by the given services.
func NewGetInvoiceStatsHandler(svc *appsvcs.Services) *GetInvoiceStatsHandler {
	return &GetInvoiceStatsHandler{svc: svc}
}

// Execute returns the caller's paid/pending totals and overdue count.
func (h *GetInvoiceStatsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.svc.Invoice.Stats(r.Context(), ownerID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, StatsResponse{
		TotalPaid:    stats.TotalPaid,
		TotalPending: stats.TotalPending,
		OverdueCount: stats.OverdueCount,
	})
}
