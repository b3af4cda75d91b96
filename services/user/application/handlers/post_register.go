package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
	"github.com/ghuser/paycontrol/pkg/httpx"
	pkgvalidator "github.com/ghuser/paycontrol/pkg/validator"
	appsvcs "github.com/ghuser/paycontrol/services/user/application/services"
	usermodels "github.com/ghuser/paycontrol/services/user/domain/models"
)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
}

// UserResponse is the public representation of a user. The password hash
// never appears here.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newUserResponse(user *usermodels.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

// PostRegisterHandler handles POST /auth/register requests.
type PostRegisterHandler struct {
	svc   *appsvcs.Services
	store sessions.Store
}

// NewPostRegisterHandler returns a PostRegisterHandler backed by the given services.
func NewPostRegisterHandler(svc *appsvcs.Services, store sessions.Store) *PostRegisterHandler {
	return &PostRegisterHandler{svc: svc, store: store}
}

// Execute creates a new account and signs the caller in.
func (h *PostRegisterHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[RegisterRequest](w, r)
	if !ok {
		return
	}

	user, err := h.svc.User.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	if err := auth.SignIn(w, r, h.store, user.ID, user.Role); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, newUserResponse(user))
}
