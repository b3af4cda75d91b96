// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/paycontrol/pkg/httpx"
	invoicedomain "github.com/ghuser/paycontrol/services/invoice/domain"
	userdomain "github.com/ghuser/paycontrol/services/user/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors.
func WriteError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, mapErrorToStatus(err), err.Error())
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrInvalidLabel),
		errors.Is(err, invoicedomain.ErrInvalidAmount),
		errors.Is(err, invoicedomain.ErrInvalidDueDate):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, userdomain.ErrEmailTaken):
		return http.StatusConflict // 409
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized // 401
	case errors.Is(err, invoicedomain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
