package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	appsvcs "github.com/ghuser/paycontrol/services/invoice/application/services"
	"github.com/ghuser/paycontrol/services/invoice/domain/models"
)

// GetInvoiceDocumentHandler handles GET /invoices/{invoiceID}/document
// requests: a plain-text printable rendering of the invoice.
type GetInvoiceDocumentHandler struct {
	svc *appsvcs.Services
}

// NewGetInvoiceDocumentHandler returns a GetInvoiceDocumentHandler backed by the given services.
func NewGetInvoiceDocumentHandler(svc *appsvcs.Services) *GetInvoiceDocumentHandler {
	return &GetInvoiceDocumentHandler{svc: svc}
}

// Execute renders one of the caller's invoices as a downloadable text document.
func (h *GetInvoiceDocumentHandler) Execute(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+invoice.ID.String()+".txt"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(renderDocument(invoice)))
}

func renderDocument(invoice *models.Invoice) string {
	var b strings.Builder
	fmt.Fprintln(&b, "PayControl — Invoice")
	fmt.Fprintln(&b, strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Invoice ID: %s\n", invoice.ID)
	fmt.Fprintf(&b, "Label:      %s\n", invoice.Label)
	fmt.Fprintf(&b, "Amount:     $%s\n", invoice.Amount.StringFixed(2))
	fmt.Fprintf(&b, "Due date:   %s\n", invoice.DueDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Status:     %s\n", invoice.Status)
	if invoice.PaidDate != nil {
		fmt.Fprintf(&b, "Paid on:    %s\n", invoice.PaidDate.Format("2006-01-02"))
	}
	fmt.Fprintln(&b, strings.Repeat("=", 40))
	fmt.Fprintf(&b, "Generated:  %s\n", invoice.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	return b.String()
}
