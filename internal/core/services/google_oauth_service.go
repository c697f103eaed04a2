package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// idTokenValidator matches idtoken.Validate.
type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
type googleOAuthHandlerService struct {
	cfg *config.Config
	// oauth2Config is configured at initialization time
	oauth2Config    *oauth2.Config
	userInfoURL     string
	validateIDToken idTokenValidator
}

// GoogleOAuthOption configures the Google OAuth service.
type GoogleOAuthOption func(*googleOAuthHandlerService)

// WithGoogleEndpoints overrides the OAuth and userinfo endpoints.
func WithGoogleEndpoints(endpoint oauth2.Endpoint, userInfoURL string) GoogleOAuthOption {
	return func(s *googleOAuthHandlerService) {
		s.oauth2Config.Endpoint = endpoint
		s.userInfoURL = userInfoURL
	}
}

// WithIDTokenValidator replaces the Google ID token validator.
func WithIDTokenValidator(v func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)) GoogleOAuthOption {
	return func(s *googleOAuthHandlerService) {
		s.validateIDToken = v
	}
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config, opts ...GoogleOAuthOption) portssvc.GoogleOAuthHandlerSvcFacade {
	s := &googleOAuthHandlerService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL:     googleUserInfoURL,
		validateIDToken: idtoken.Validate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	// 16 bytes -> 32 char hex string
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state string for OAuth: %w", err)
	}
	return state, nil
}

// GetGoogleLoginURL returns the URL to redirect the user to for Google login.
func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// GetUserInfo uses the access token to get user information from Google.
func (s *googleOAuthHandlerService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	client := s.oauth2Config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info from google: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned non-200 status for userinfo: %s", resp.Status)
	}

	var userInfo domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info from google: %w", err)
	}

	return &userInfo, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and returns the payload if valid.
func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := s.validateIDToken(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}

// ResolveIdentity prefers the signed ID token from the token response and
// falls back to the userinfo endpoint when none was returned.
func (s *googleOAuthHandlerService) ResolveIdentity(ctx context.Context, token *oauth2.Token) (*domain.ExternalIdentity, error) {
	if token == nil {
		return nil, errors.New("no oauth token")
	}

	if raw, ok := token.Extra("id_token").(string); ok && raw != "" {
		payload, err := s.ValidateGoogleIDToken(ctx, raw)
		if err != nil {
			return nil, err
		}
		identity := identityFromIDToken(payload)
		return &identity, nil
	}

	info, err := s.GetUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	identity := info.ToIdentity()
	return &identity, nil
}

func identityFromIDToken(payload *idtoken.Payload) domain.ExternalIdentity {
	claim := func(key string) string {
		v, _ := payload.Claims[key].(string)
		return v
	}
	verified, _ := payload.Claims["email_verified"].(bool)
	return domain.ExternalIdentity{
		Provider:      domain.ProviderGoogle,
		ExternalID:    payload.Subject,
		Email:         claim("email"),
		EmailVerified: verified,
		Name:          claim("name"),
		GivenName:     claim("given_name"),
		Picture:       claim("picture"),
	}
}
