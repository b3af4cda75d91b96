package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	userdomain "github.com/ghuser/paycontrol/services/user/domain"
	"github.com/ghuser/paycontrol/services/user/domain/models"
	"github.com/ghuser/paycontrol/services/user/domain/repositories"
)

// UserService owns registration and credential verification. Passwords are
// bcrypt-hashed on the way in and never leave this layer in plaintext.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService returns a UserService wired with the given repository.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new account. Emails are normalized to lowercase so the
// unique index catches case-variant duplicates. Returns ErrEmailTaken when
// the email is already registered.
func (s *UserService) Register(ctx context.Context, firstName, lastName, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.NewUser(firstName, lastName, normalizeEmail(email), string(hash))
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the email/password pair. Both an unknown email and a wrong
// password map to ErrInvalidCredentials so the response never reveals which
// half failed.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, userdomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, userdomain.ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
