package domain

import "time"

// TokenKind distinguishes the two classes of signed tokens.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenPayload is the ephemeral content signed into every token.
type TokenPayload struct {
	Subject int64  `json:"sub"`
	Email   string `json:"email"`
}

// TokenPair is a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// AuthResult is returned by every flow that ends with a session.
type AuthResult struct {
	TokenPair
	User SanitizedUser `json:"user"`
}

// PendingRegistration acknowledges a registration awaiting email verification.
type PendingRegistration struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// AuthProvider identifies an external identity provider.
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "google"
)

// ExternalIdentity is a verified identity assertion from an upstream identity provider.
type ExternalIdentity struct {
	Provider      AuthProvider
	ExternalID    string
	Email         string
	EmailVerified bool
	Name          string
	GivenName     string
	Picture       string
}

// GoogleUserInfo mirrors the Google userinfo v2 endpoint response.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// ToIdentity converts userinfo into an ExternalIdentity.
func (g GoogleUserInfo) ToIdentity() ExternalIdentity {
	return ExternalIdentity{
		Provider:      ProviderGoogle,
		ExternalID:    g.ID,
		Email:         g.Email,
		EmailVerified: g.VerifiedEmail,
		Name:          g.Name,
		GivenName:     g.GivenName,
		Picture:       g.Picture,
	}
}
