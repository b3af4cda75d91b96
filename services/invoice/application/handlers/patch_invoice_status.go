package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	pkgvalidator "github.com/ghuser/paycontrol/pkg/validator"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// PatchStatusRequest is the request body for PATCH /invoices/{invoiceID}/status.
// Any status may be set from any current status; there are no transition guards.
type PatchStatusRequest struct {
	Status   string     `json:"status"    validate:"required,oneof=pending paid overdue voided"`
	PaidDate *time.Time `json:"paid_date"`
}

// PatchInvoiceStatusHandler handles PATCH /invoices/{invoiceID}/status requests.
type PatchInvoiceStatusHandler struct {
	svc *appsvcs.Services
}

// NewPatchInvoiceStatusHandler returns a PatchInvoiceStatusHandler backed by the given services.
func NewPatchInvoiceStatusHandler(svc *appsvcs.Services) *PatchInvoiceStatusHandler {
	return &PatchInvoiceStatusHandler{svc: svc}
}

// Execute applies a manual status transition to one of the caller's invoices.
func (h *PatchInvoiceStatusHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	req, ok := pkgvalidator.ValidateRequest[PatchStatusRequest](w, r)
	if !ok {
		return
	}

	status := models.Status(req.Status)
	invoice, err := h.svc.Invoice.PatchStatus(r.Context(), ownerID, id, &status, req.PaidDate)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, newInvoiceResponse(invoice))
}
