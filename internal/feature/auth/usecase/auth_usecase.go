package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"finance_backend/internal/feature/auth/domain/entity"
)

// dummyHash keeps bcrypt comparison running when the user is unknown or has
// no password hash, so login latency does not reveal account existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention, interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type UserRepository interface {
	// CreateWithDefaults persists a new user together with their default
	// category set as one atomic unit. Either both commit or neither does.
	// It returns ErrEmailAlreadyExists when a user with the same email is
	// already stored.
	CreateWithDefaults(ctx context.Context, user *entity.User) error

	// FindByEmail retrieves a user matching the email address, or
	// ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID retrieves a user matching the ID, or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *entity.User) error
}

// TokenIssuer creates signed session tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID uint, email string) (string, error)
}

// AuthUsecase implements registration, login, current-user resolution and
// OAuth identity resolution.
type AuthUsecase struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthUsecase creates an AuthUsecase.
func NewAuthUsecase(users UserRepository, tokens TokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, tokens: tokens}
}

// Register creates a local account with a bcrypt-hashed password. The store
// provisions the default categories in the same commit, so a failed account
// never leaves its email taken. Returns ErrEmailAlreadyExists on duplicate
// email.
func (u *AuthUsecase) Register(ctx context.Context, email, password string) (*entity.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hash := string(hashed)
	user := &entity.User{
		Email:    email,
		Password: &hash,
		Provider: entity.ProviderLocal,
	}
	if err := u.users.CreateWithDefaults(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns a signed token on success.
// A bcrypt comparison always runs, even for unknown emails or OAuth-only
// accounts, to keep response timing uniform.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, email)

	passwordHash := dummyHash
	if err == nil && user.Password != nil {
		passwordHash = *user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	if err != nil || user.Password == nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, tokenErr := u.tokens.GenerateToken(user.ID, user.Email)
	if tokenErr != nil {
		return "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}
	return token, nil
}

// CurrentUser re-resolves a token's subject against the store. A
// cryptographically valid token whose user no longer exists yields
// ErrUserNotFound, which transports translate to an authentication failure.
func (u *AuthUsecase) CurrentUser(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// ResolveOAuthIdentity maps an external OAuth identity to a local user and
// issues a fresh token for it.
//
// An existing local account with the same email is linked in place: provider
// and external id are set to the OAuth values while the password hash stays
// untouched, so the account accepts both login paths afterwards. An account
// already on an OAuth provider is overwritten silently when the provider
// differs; email claims are therefore trusted only from providers that
// attest verification. When no account exists one is created with a nil
// password hash, with its default categories provisioned in the same
// commit.
func (u *AuthUsecase) ResolveOAuthIdentity(ctx context.Context, provider entity.AuthProvider, externalID, email string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Provider != provider || user.OAuthID == nil || *user.OAuthID != externalID {
			user.Provider = provider
			user.OAuthID = &externalID
			if err := u.users.Update(ctx, user); err != nil {
				return nil, "", err
			}
		}
	case errors.Is(err, ErrUserNotFound):
		user = &entity.User{
			Email:    email,
			Provider: provider,
			OAuthID:  &externalID,
		}
		if err := u.users.CreateWithDefaults(ctx, user); err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}
