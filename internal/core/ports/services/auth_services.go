package services

import (
	"context"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// Issue signs payload as a token of the given kind.
	Issue(ctx context.Context, payload domain.TokenPayload, kind domain.TokenKind) (string, time.Time, error)
	// IssuePair signs an access and a refresh token for payload.
	IssuePair(ctx context.Context, payload domain.TokenPayload) (*domain.TokenPair, error)
	// Verify checks signature, expiry and kind and returns the payload.
	// Every failure is reported as apperrors.ErrInvalidToken.
	Verify(ctx context.Context, token string, kind domain.TokenKind) (*domain.TokenPayload, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// OTPGenerator produces one-time verification codes.
type OTPGenerator interface {
	// Generate returns a 6-digit code and its absolute expiry relative to now.
	Generate(now time.Time) (string, time.Time, error)
}

// NotificationSender dispatches transactional emails.
type NotificationSender interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
	SendWelcomeEmail(ctx context.Context, email, username string) error
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// GetUserInfo uses the access token to get user information from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
	// ValidateGoogleIDToken validates an ID token string from Google and returns its payload.
	ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error)
	// ResolveIdentity turns a Google token response into a verified identity assertion.
	ResolveIdentity(ctx context.Context, token *oauth2.Token) (*domain.ExternalIdentity, error)
}

// RegistrationSvc covers the account creation flows.
type RegistrationSvc interface {
	// SendVerificationCode creates or refreshes a pending verification for email.
	SendVerificationCode(ctx context.Context, email string) (*domain.PendingRegistration, error)
	// Register stores credentials on an unverified row and sends a verification code.
	Register(ctx context.Context, email, username, password string) (*domain.PendingRegistration, error)
	// RegisterDirect creates an active account and starts a session immediately.
	RegisterDirect(ctx context.Context, email, username, password string) (*domain.AuthResult, error)
	// VerifyEmail consumes a verification code and starts a session.
	VerifyEmail(ctx context.Context, email, code string) (*domain.AuthResult, error)
}

// SessionSvc covers session issuance and rotation.
type SessionSvc interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	Logout(ctx context.Context, userID int64) error
	Me(ctx context.Context, userID int64) (*domain.SanitizedUser, error)
}

// FederatedLoginSvc bridges external identity providers.
type FederatedLoginSvc interface {
	// ExternalLogin signs in (provisioning if needed) the owner of a verified external identity.
	ExternalLogin(ctx context.Context, identity *domain.ExternalIdentity) (*domain.AuthResult, error)
}

// AuthSvcFacade combines all auth-related service interfaces
type AuthSvcFacade interface {
	RegistrationSvc
	SessionSvc
	FederatedLoginSvc
}
