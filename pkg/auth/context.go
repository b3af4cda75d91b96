package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// ErrUserIDNotFound is returned when no authenticated user exists in the
// request context. Handlers should return 401 when this error occurs.
var ErrUserIDNotFound = errors.New("user_id not found in context")

// UserIDFromCtx extracts the authenticated user ID from the request context.
// Returns uuid.Nil and ErrUserIDNotFound if none is set (unauthenticated request).
func UserIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, ErrUserIDNotFound
	}
	return userID, nil
}

// RoleFromCtx extracts the authenticated user's role from the request context.
// Returns "" when no role is set.
func RoleFromCtx(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// WithPrincipal returns a new context carrying the authenticated user ID and role.
// Used by authentication middleware after validating the session.
func WithPrincipal(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
