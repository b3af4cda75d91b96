package handlers

import (
	"net/http"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
)

// DeleteInvoiceHandler handles DELETE /invoices/{invoiceID} requests.
type DeleteInvoiceHandler struct {
	svc *appsvcs.Services
}

// NewDeleteInvoiceHandler returns a DeleteInvoiceHandler backed by the given services.
func NewDeleteInvoiceHandler(svc *appsvcs.Services) *DeleteInvoiceHandler {
	return &DeleteInvoiceHandler{svc: svc}
}

// Execute soft-deletes one of the caller's invoices. The record stays in the
// store but stops surfacing in reads.
func (h *DeleteInvoiceHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Invoice.Delete(r.Context(), ownerID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
