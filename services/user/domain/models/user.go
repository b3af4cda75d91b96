package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user may hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the authenticated principal owning invoices. Invoices reference it
// by ID only; the invoice context never reads anything beyond id and email.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser constructs a User with a generated ID and the default role.
// The password must already be hashed; this layer never sees plaintext.
func NewUser(firstName, lastName, email, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
