package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/paycontrol/services/user/domain/models"
)

// UserRepository is the persistence interface for the User aggregate.
// The domain layer owns this interface; infrastructure implements it.
type UserRepository interface {
	// Save persists a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Save(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID. Returns ErrUserNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
