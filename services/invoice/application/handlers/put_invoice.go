package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	pkgvalidator "github.com/ghuser/paycontrol/pkg/validator"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// UpdateInvoiceRequest is the request body for PUT /invoices/{invoiceID}.
// Absent fields are left untouched; there is no way to null a field out
// through this endpoint.
type UpdateInvoiceRequest struct {
	Label    *string          `json:"label"     validate:"omitempty,min=1,max=255"`
	Amount   *decimal.Decimal `json:"amount"`
	DueDate  *time.Time       `json:"due_date"`
	Status   *string          `json:"status"    validate:"omitempty,oneof=pending paid overdue voided"`
	PaidDate *time.Time       `json:"paid_date"`
}

// PutInvoiceHandler handles PUT /invoices/{invoiceID} requests.
type PutInvoiceHandler struct {
	svc *appsvcs.Services
}

// NewPutInvoiceHandler returns a PutInvoiceHandler backed by the given services.
func NewPutInvoiceHandler(svc *appsvcs.Services) *PutInvoiceHandler {
	return &PutInvoiceHandler{svc: svc}
}

// Execute updates the supplied fields of one of the caller's invoices.
func (h *PutInvoiceHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	req, ok := pkgvalidator.ValidateRequest[UpdateInvoiceRequest](w, r)
	if !ok {
		return
	}

	input := appsvcs.UpdateInvoiceInput{
		Label:    req.Label,
		Amount:   req.Amount,
		DueDate:  req.DueDate,
		PaidDate: req.PaidDate,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		input.Status = &status
	}

	invoice, err := h.svc.Invoice.Update(r.Context(), ownerID, id, input)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, newInvoiceResponse(invoice))
}
