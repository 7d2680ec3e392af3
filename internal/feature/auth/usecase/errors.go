// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with
	// an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is the uniform failure for login: unknown email,
	// OAuth-only account without a password hash, or password mismatch.
	// Callers must not distinguish the three cases.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrOAuthVerification is the uniform failure reported when an OAuth
	// code exchange or profile fetch fails. The upstream cause is never
	// surfaced to clients.
	ErrOAuthVerification = errors.New("oauth verification failed")
)
