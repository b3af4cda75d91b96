package handlers

import (
	"net/http"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
)

// GetInvoiceHandler handles GET /invoices/{invoiceID} requests.
type GetInvoiceHandler struct {
	svc *appsvcs.Services
}

// NewGetInvoiceHandler returns a GetInvoiceHandler backed by the given services.
func NewGetInvoiceHandler(svc *appsvcs.Services) *GetInvoiceHandler {
	return &GetInvoiceHandler{svc: svc}
}

// Execute retrieves one of the caller's invoices. Invoices owned by another
// user read as not found.
func (h *GetInvoiceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := invoiceIDParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	invoice, err := h.svc.Invoice.GetByID(r.Context(), ownerID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, newInvoiceResponse(invoice))
}
