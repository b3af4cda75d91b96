package domain

import "errors"

// Sentinel errors for the user domain. Use errors.Is() to check these.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates a user with the same email already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates the email/password pair did not match.
	// Deliberately vague: it never reveals which half was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
