package handlers

import (
	"net/http"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	appsvcs "github.com/ghuser/paycontrol/services/user/application/services"
)

// GetMeHandler handles GET /auth/me requests.
type GetMeHandler struct {
	svc *appsvcs.Services
}

// NewGetMeHandler returns a GetMeHandler backed by the given services.
func NewGetMeHandler(svc *appsvcs.Services) *GetMeHandler {
	return &GetMeHandler{svc: svc}
}

// Execute returns the authenticated caller's profile.
func (h *GetMeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.svc.User.GetByID(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}
