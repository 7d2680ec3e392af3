// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	// ProviderLocal marks accounts created with email and password.
	ProviderLocal AuthProvider = "local"
	// ProviderGoogle marks accounts created or linked via Google OAuth.
	ProviderGoogle AuthProvider = "google"
	// ProviderGitHub marks accounts created or linked via GitHub OAuth.
	ProviderGitHub AuthProvider = "github"
)

// User represents a registered user. It supports local (email/password)
// authentication and OAuth (Google/GitHub) accounts.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password. It is nil for
	// accounts that only ever authenticated through an OAuth provider.
	Password *string `gorm:"size:255"`

	// Provider records the current authentication provider for the account.
	Provider AuthProvider `gorm:"size:16;not null;default:local"`

	// OAuthID is the provider-assigned subject id. Nil for local accounts.
	OAuthID *string `gorm:"size:255"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
