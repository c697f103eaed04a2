package repositories

import (
	"context"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// PendingUser carries the fields written by the registration flows before verification.
// Empty Username or PasswordHash means "keep the existing value" for an existing row
// and "use a placeholder" for a new one.
type PendingUser struct {
	Email               string
	Username            string
	PasswordHash        string
	VerificationCode    string
	VerificationExpires time.Time
}

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// FindUserByEmail retrieves a user by their unique email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsername retrieves a user by their unique username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// CreateUser inserts a new user, filling in its ID and audit fields.
	// A unique violation is reported as *apperrors.DuplicateError.
	CreateUser(ctx context.Context, user *domain.User) error

	// UpsertPendingUser looks up the row by email inside a transaction and either inserts an
	// unverified row or updates the existing unverified row. It returns apperrors.ErrAlreadyVerified
	// without writing when the row is already verified.
	UpsertPendingUser(ctx context.Context, pending PendingUser) (*domain.User, error)

	// UpdateUser persists identity fields (username, password, role, verification state, google id, picture).
	UpdateUser(ctx context.Context, user *domain.User) error
}

// UserCredentialManager defines the atomic credential state transitions.
type UserCredentialManager interface {
	// ConsumeVerificationCode atomically compares the stored code for email with code and,
	// when it matches and has not expired at now, marks the user verified and clears the code.
	ConsumeVerificationCode(ctx context.Context, email, code string, now time.Time) (*domain.User, domain.VerificationOutcome, error)

	// SetRefreshToken overwrites the stored refresh token. A nil token clears it.
	SetRefreshToken(ctx context.Context, userID int64, token *string) error

	// RotateRefreshToken replaces presented with next only if presented is the stored token.
	// It returns apperrors.ErrNotFound when the user is missing or the token does not match.
	RotateRefreshToken(ctx context.Context, userID int64, presented, next string) (*domain.User, error)
}

// UserRepositoryFacade combines all user-related repository interfaces
// This is a facade for clients that need access to all operations
type UserRepositoryFacade interface {
	UserReader
	UserWriter
	UserCredentialManager
}
