package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/ghuser/paycontrol/pkg/httpx"
	"github.com/ghuser/paycontrol/pkg/logger"
)

const (
	sessionName      = "paycontrol_session"
	sessionUserIDKey = "user_id"
	sessionRoleKey   = "role"
)

// RequireAuth is a chi middleware that enforces authentication via session cookies.
// It reads the session cookie, extracts the user ID and role, and injects them
// into the request context. Returns 401 Unauthorized if the session is missing,
// invalid, or lacks a valid user_id.
//
// After this middleware, handlers can safely call auth.UserIDFromCtx(r.Context()).
func RequireAuth(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			userIDStr, ok := session.Values[sessionUserIDKey].(string)
			if !ok || userIDStr == "" {
				log.WarnContext(r.Context(), "session missing user_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				log.WarnContext(r.Context(), "invalid user_id in session", "user_id", userIDStr, "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid session data"})
				return
			}

			role, _ := session.Values[sessionRoleKey].(string)

			ctx := WithPrincipal(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SignIn establishes a session for the given user and writes the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, store sessions.Store, userID uuid.UUID, role string) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		// A tampered or expired cookie yields a fresh session; that is fine here.
		session, _ = store.New(r, sessionName)
	}
	session.Values[sessionUserIDKey] = userID.String()
	session.Values[sessionRoleKey] = role
	return session.Save(r, w)
}

// SignOut destroys the caller's session and expires the cookie.
func SignOut(w http.ResponseWriter, r *http.Request, store sessions.Store) error {
	session, err := store.Get(r, sessionName)
	if err != nil {
		return nil // nothing to destroy
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
