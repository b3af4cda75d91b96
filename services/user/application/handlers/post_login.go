package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	pkgvalidator "github.com/ghuser/paycontrol/pkg/validator"
	appsvcs "github.com/ghuser/paycontrol/services/user/application/services"
)

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PostLoginHandler handles POST /auth/login requests.
type PostLoginHandler struct {
	svc   *appsvcs.Services
	store sessions.Store
}

// NewPostLoginHandler returns a PostLoginHandler backed by the given services.
func NewPostLoginHandler(svc *appsvcs.Services, store sessions.Store) *PostLoginHandler {
	return &PostLoginHandler{svc: svc, store: store}
}

// Execute verifies credentials and establishes a session.
func (h *PostLoginHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[LoginRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.User.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if err := auth.SignIn(w, r, h.store, user.ID, user.Role); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}
