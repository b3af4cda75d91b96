package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/paycontrol/pkg/auth"
	"github.com/ghuser/paycontrol/pkg/errhttp"
)

// PostLogoutHandler handles POST /auth/logout requests.
type PostLogoutHandler struct {
	store sessions.Store
}

// NewPostLogoutHandler returns a PostLogoutHandler using the given session store.
func NewPostLogoutHandler(store sessions.Store) *PostLogoutHandler {
	return &PostLogoutHandler{store: store}
}

// Execute destroys the caller's session.
func (h *PostLogoutHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r, h.store); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
