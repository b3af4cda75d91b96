package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
	"github.com/ghuser/paycontrol/services/invoice/domain/query"
)

// ListInvoicesResponse is the paginated envelope for GET /invoices.
// TotalPages derives from the unpaginated match count, not the page size.
type ListInvoicesResponse struct {
	Invoices    []InvoiceResponse `json:"invoices"`
	Total       int               `json:"total"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
}

// GetInvoicesHandler handles GET /invoices requests.
type GetInvoicesHandler struct {
	svc *appsvcs.Services
}

// NewGetInvoicesHandler returns a GetInvoicesHandler backed by the given services.
func NewGetInvoicesHandler(svc *appsvcs.Services) *GetInvoicesHandler {
	return &GetInvoicesHandler{svc: svc}
}

// Execute lists the caller's invoices with filtering, sorting and pagination.
func (h *GetInvoicesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	params, err := query.ParseListParams(r.URL.Query(), time.Now())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	invoices, total, err := h.svc.Invoice.List(r.Context(), ownerID, params)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items := make([]InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		items = append(items, newInvoiceResponse(invoice))
	}

	httpx.JSON(w, http.StatusOK, ListInvoicesResponse{
		Invoices:    items,
		Total:       total,
		TotalPages:  query.TotalPages(total, params.Limit),
		CurrentPage: params.Page,
	})
}
