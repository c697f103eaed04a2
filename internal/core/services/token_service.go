package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/internal/utils"
)

// tokenService implements the TokenSvcFacade for signing and verifying JWTs.
// Access and refresh tokens use separate secrets and lifetimes from configuration.
type tokenService struct {
	cfg *config.Config
	now func() time.Time
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, now: time.Now}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) settings(kind domain.TokenKind) (string, time.Duration, error) {
	switch kind {
	case domain.AccessToken:
		return s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, nil
	case domain.RefreshToken:
		return s.cfg.RefreshTokenSecret, s.cfg.RefreshTokenExpiryDuration, nil
	default:
		return "", 0, fmt.Errorf("unknown token kind %q", kind)
	}
}

// Issue signs payload as a token of the given kind.
func (s *tokenService) Issue(ctx context.Context, payload domain.TokenPayload, kind domain.TokenKind) (string, time.Time, error) {
	secret, ttl, err := s.settings(kind)
	if err != nil {
		return "", time.Time{}, err
	}
	return utils.GenerateJWT(strconv.FormatInt(payload.Subject, 10), payload.Email, string(kind), secret, ttl, s.cfg.JWTIssuer, s.now())
}

// IssuePair signs an access and a refresh token for payload.
func (s *tokenService) IssuePair(ctx context.Context, payload domain.TokenPayload) (*domain.TokenPair, error) {
	access, accessExp, err := s.Issue(ctx, payload, domain.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, refreshExp, err := s.Issue(ctx, payload, domain.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &domain.TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

// Verify checks signature, expiry and kind. Every failure wraps apperrors.ErrInvalidToken.
func (s *tokenService) Verify(ctx context.Context, token string, kind domain.TokenKind) (*domain.TokenPayload, error) {
	secret, _, err := s.settings(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	claims, err := utils.ParseAndValidateJWT(token, secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	if claims.Type != string(kind) {
		return nil, fmt.Errorf("%w: expected %s token, got %q", apperrors.ErrInvalidToken, kind, claims.Type)
	}
	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subject <= 0 {
		return nil, fmt.Errorf("%w: malformed subject", apperrors.ErrInvalidToken)
	}
	return &domain.TokenPayload{Subject: subject, Email: claims.Email}, nil
}
