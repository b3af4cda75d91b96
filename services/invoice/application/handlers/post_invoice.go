package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	pkgvalidator "github.com/ghuser/paycontrol/pkg/validator"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// CreateInvoiceRequest is the request body for POST /invoices.
// Status is optional and defaults to pending.
type CreateInvoiceRequest struct {
	Label    string          `json:"label"     validate:"required,min=1,max=255"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"  validate:"required"`
	Status   string          `json:"status"    validate:"omitempty,oneof=pending paid overdue voided"`
	PaidDate *time.Time      `json:"paid_date"`
}

// InvoiceResponse is the public representation of an invoice.
type InvoiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	PaidDate  *time.Time      `json:"paid_date"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newInvoiceResponse(invoice *models.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:        invoice.ID,
		OwnerID:   invoice.OwnerID,
		Label:     invoice.Label,
		Amount:    invoice.Amount,
		DueDate:   invoice.DueDate,
		PaidDate:  invoice.PaidDate,
		Status:    invoice.Status.String(),
		CreatedAt: invoice.CreatedAt,
		UpdatedAt: invoice.UpdatedAt,
	}
}

// invoiceIDParam extracts and parses the {invoiceID} path parameter.
func invoiceIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	return id, err == nil
}

// PostInvoiceHandler handles POST /invoices requests.
type PostInvoiceHandler struct {
	svc *appsvcs.Services
}

// NewPostInvoiceHandler returns a PostInvoiceHandler backed by the given services.
func NewPostInvoiceHandler(svc *appsvcs.Services) *PostInvoiceHandler {
	return &PostInvoiceHandler{svc: svc}
}

// Execute creates a new invoice owned by the authenticated caller.
func (h *PostInvoiceHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req, ok := pkgvalidator.ValidateRequest[CreateInvoiceRequest](w, r)
	if !ok {
		return
	}

	invoice, err := h.svc.Invoice.Create(r.Context(), ownerID, req.Label, req.Amount, req.DueDate, models.Status(req.Status), req.PaidDate)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, newInvoiceResponse(invoice))
}
