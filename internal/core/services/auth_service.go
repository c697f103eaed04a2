package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/platform/metrics"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	usernameAttempts   = 5
	usernameSuffixSize = 4
)

// Analytics event names.
const (
	EventUserRegistered = "user_registered"
	EventUserVerified   = "user_verified"
	EventUserLoggedIn   = "user_logged_in"
)

// authService orchestrates registration, verification, login, rotation and federated login.
// It holds no per-user state; every transition is an atomic store operation.
type authService struct {
	BaseService
	users    portsrepo.UserRepositoryFacade
	tokens   portssvc.TokenSvcFacade
	hasher   portssvc.PasswordHasher
	otp      portssvc.OTPGenerator
	notifier portssvc.NotificationSender
	events   portssvc.EventTracker
	now      func() time.Time

	dummyHashOnce sync.Once
	dummyHash     string
}

// AuthServiceOption is a functional option for configuring the auth service
type AuthServiceOption func(*authService)

// WithPasswordHasher overrides the bcrypt hasher.
func WithPasswordHasher(h portssvc.PasswordHasher) AuthServiceOption {
	return func(s *authService) {
		s.hasher = h
	}
}

// WithOTPGenerator overrides the verification code generator.
func WithOTPGenerator(g portssvc.OTPGenerator) AuthServiceOption {
	return func(s *authService) {
		s.otp = g
	}
}

// WithEventTracker adds an analytics sink.
func WithEventTracker(t portssvc.EventTracker) AuthServiceOption {
	return func(s *authService) {
		s.events = t
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) AuthServiceOption {
	return func(s *authService) {
		s.now = now
	}
}

// NewAuthService creates the auth orchestrator with the provided options
func NewAuthService(users portsrepo.UserRepositoryFacade, tokens portssvc.TokenSvcFacade, notifier portssvc.NotificationSender, options ...AuthServiceOption) portssvc.AuthSvcFacade {
	svc := &authService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		hasher:   utils.NewBcryptHasher(),
		otp:      utils.OTPGenerator{},
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SendVerificationCode creates or refreshes the pending verification for email.
func (s *authService) SendVerificationCode(ctx context.Context, email string) (_ *domain.PendingRegistration, err error) {
	defer func() { recordFlow("send_verification", err) }()
	email = normalizeEmail(email)

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		return nil, apperrors.NewConflictError(apperrors.CodeEmailAlreadyVerified)
	}

	code, expires, err := s.otp.Generate(s.now())
	if err != nil {
		return nil, apperrors.NewInternalServerError(err)
	}

	if _, err := s.users.UpsertPendingUser(ctx, portsrepo.PendingUser{
		Email:               email,
		VerificationCode:    code,
		VerificationExpires: expires,
	}); err != nil {
		return nil, s.mapPendingWriteError(ctx, err, email)
	}

	if err := s.notifier.SendVerificationEmail(ctx, email, code); err != nil {
		s.LogError(ctx, err, "Failed to send verification email", slog.String("email", email))
		return nil, apperrors.NewInternalServerError(fmt.Errorf("send verification email: %w", err))
	}

	s.LogInfo(ctx, "Verification code sent", slog.String("email", email))
	return &domain.PendingRegistration{Email: email}, nil
}

// Register stores credentials on an unverified row and mails a verification code.
func (s *authService) Register(ctx context.Context, email, username, password string) (_ *domain.PendingRegistration, err error) {
	defer func() { recordFlow("register", err) }()
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsVerified {
		return nil, apperrors.NewConflictError(apperrors.CodeEmailAlreadyVerified)
	}

	owner, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if owner != nil && (existing == nil || owner.ID != existing.ID) {
		return nil, usernameTaken()
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}
	code, expires, err := s.otp.Generate(s.now())
	if err != nil {
		return nil, apperrors.NewInternalServerError(err)
	}

	user, err := s.users.UpsertPendingUser(ctx, portsrepo.PendingUser{
		Email:               email,
		Username:            username,
		PasswordHash:        hash,
		VerificationCode:    code,
		VerificationExpires: expires,
	})
	if err != nil {
		return nil, s.mapPendingWriteError(ctx, err, email)
	}

	if err := s.notifier.SendVerificationEmail(ctx, email, code); err != nil {
		s.LogError(ctx, err, "Failed to send verification email", slog.String("email", email))
		return nil, apperrors.NewInternalServerError(fmt.Errorf("send verification email: %w", err))
	}

	s.track(user.ID, EventUserRegistered, map[string]any{"method": "email", "verified": false})
	s.LogInfo(ctx, "Registration pending verification", slog.Int64("user_id", user.ID))
	return &domain.PendingRegistration{Email: email, Username: username}, nil
}

// RegisterDirect creates an active account and starts a session without email verification.
func (s *authService) RegisterDirect(ctx context.Context, email, username, password string) (_ *domain.AuthResult, err error) {
	defer func() { recordFlow("register_direct", err) }()
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError(apperrors.CodeEmailAlreadyUsed)
	}
	owner, err := s.findByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		return nil, usernameTaken()
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleBuyer,
		IsVerified:   true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		var dup *apperrors.DuplicateError
		if errors.As(err, &dup) {
			if dup.Field == "username" {
				return nil, usernameTaken()
			}
			return nil, apperrors.NewConflictError(apperrors.CodeEmailAlreadyUsed)
		}
		s.LogError(ctx, err, "Failed to create user", slog.String("email", email))
		return nil, apperrors.NewInternalServerError(err)
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.track(user.ID, EventUserRegistered, map[string]any{"method": "email", "verified": true})
	return result, nil
}

// VerifyEmail consumes the code for email and starts a session.
func (s *authService) VerifyEmail(ctx context.Context, email, code string) (_ *domain.AuthResult, err error) {
	defer func() { recordFlow("verify_email", err) }()
	email = normalizeEmail(email)

	user, outcome, err := s.users.ConsumeVerificationCode(ctx, email, code, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError(apperrors.CodeInvalidVerificationCode)
		}
		s.LogError(ctx, err, "Failed to consume verification code", slog.String("email", email))
		return nil, apperrors.NewInternalServerError(err)
	}
	switch outcome {
	case domain.VerificationMismatch:
		return nil, apperrors.NewUnauthorizedError(apperrors.CodeInvalidVerificationCode)
	case domain.VerificationExpired:
		return nil, apperrors.NewUnauthorizedError(apperrors.CodeVerificationExpired)
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendWelcomeEmail(ctx, user.Email, user.Username); err != nil {
		s.LogError(ctx, err, "Failed to send welcome email", slog.Int64("user_id", user.ID))
		return nil, apperrors.NewInternalServerError(fmt.Errorf("send welcome email: %w", err))
	}

	s.track(user.ID, EventUserVerified, nil)
	s.LogInfo(ctx, "Email verified", slog.Int64("user_id", user.ID))
	return result, nil
}

// Login authenticates with email and password. Every rejection is INVALID_CREDENTIALS.
func (s *authService) Login(ctx context.Context, email, password string) (_ *domain.AuthResult, err error) {
	defer func() { recordFlow("login", err) }()
	email = normalizeEmail(email)

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		// Match the cost of the known-user path.
		s.hasher.Compare(s.getDummyHash(), password)
		return nil, apperrors.NewUnauthorizedError(apperrors.CodeInvalidCredentials)
	}
	if !s.hasher.Compare(user.PasswordHash, password) || !user.IsVerified {
		s.LogDebug(ctx, "Login rejected", slog.Int64("user_id", user.ID))
		return nil, apperrors.NewUnauthorizedError(apperrors.CodeInvalidCredentials)
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.track(user.ID, EventUserLoggedIn, map[string]any{"method": "password"})
	return result, nil
}

// Refresh rotates a refresh token. Only the currently stored token is accepted,
// so concurrent refreshes with the same token yield exactly one success.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (_ *domain.AuthResult, err error) {
	defer func() { recordFlow("refresh", err) }()

	payload, err := s.tokens.Verify(ctx, refreshToken, domain.RefreshToken)
	if err != nil {
		s.LogDebug(ctx, "Refresh token rejected", slog.String("error", err.Error()))
		return nil, apperrors.NewUnauthorizedError(apperrors.CodeInvalidRefreshToken)
	}

	pair, err := s.tokens.IssuePair(ctx, *payload)
	if err != nil {
		return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeTokenGenerationFailed, err)
	}

	user, err := s.users.RotateRefreshToken(ctx, payload.Subject, utils.HashRefreshToken(refreshToken), utils.HashRefreshToken(pair.RefreshToken))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Refresh token is not the current token", slog.Int64("user_id", payload.Subject))
			return nil, apperrors.NewUnauthorizedError(apperrors.CodeInvalidRefreshToken)
		}
		s.LogError(ctx, err, "Failed to rotate refresh token", slog.Int64("user_id", payload.Subject))
		return nil, apperrors.NewInternalServerError(err)
	}

	return &domain.AuthResult{TokenPair: *pair, User: user.Sanitize()}, nil
}

// Logout clears the stored refresh token. Access tokens expire on their own.
func (s *authService) Logout(ctx context.Context, userID int64) (err error) {
	defer func() { recordFlow("logout", err) }()

	if err := s.users.SetRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("User")
		}
		s.LogError(ctx, err, "Failed to clear refresh token", slog.Int64("user_id", userID))
		return apperrors.NewInternalServerError(err)
	}
	s.LogInfo(ctx, "User logged out", slog.Int64("user_id", userID))
	return nil
}

// Me returns the sanitized current user.
func (s *authService) Me(ctx context.Context, userID int64) (*domain.SanitizedUser, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User")
		}
		s.LogError(ctx, err, "Failed to load current user", slog.Int64("user_id", userID))
		return nil, apperrors.NewInternalServerError(err)
	}
	sanitized := user.Sanitize()
	return &sanitized, nil
}

// ExternalLogin signs in the owner of a verified external identity, provisioning or merging as needed.
func (s *authService) ExternalLogin(ctx context.Context, identity *domain.ExternalIdentity) (_ *domain.AuthResult, err error) {
	defer func() { recordFlow("external_login", err) }()

	if identity == nil || identity.Email == "" || identity.ExternalID == "" || !identity.EmailVerified {
		return nil, apperrors.NewUnauthorizedError(apperrors.CodeGoogleAuthFailed)
	}
	email := normalizeEmail(identity.Email)

	user, err := s.users.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		user, err = s.provisionExternalUser(ctx, email, identity)
		if err != nil {
			return nil, err
		}
		s.track(user.ID, EventUserRegistered, map[string]any{"method": string(identity.Provider), "verified": true})
	case err != nil:
		s.LogError(ctx, err, "Failed to look up user for external login", slog.String("email", email))
		return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
	default:
		if err := s.mergeExternalIdentity(ctx, user, identity); err != nil {
			return nil, err
		}
	}

	result, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.track(user.ID, EventUserLoggedIn, map[string]any{"method": string(identity.Provider)})
	return result, nil
}

// provisionExternalUser creates a verified BUYER for identity, retrying on username collisions.
// An email collision means another request provisioned the row first; that row is merged instead.
func (s *authService) provisionExternalUser(ctx context.Context, email string, identity *domain.ExternalIdentity) (*domain.User, error) {
	base := usernameBase(identity, email)
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		username, err := candidateUsername(base)
		if err != nil {
			return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
		}
		user := &domain.User{
			Email:      email,
			Username:   username,
			Role:       domain.RoleBuyer,
			IsVerified: true,
			GoogleID:   strPtr(identity.ExternalID),
			Picture:    optionalStr(identity.Picture),
		}
		err = s.users.CreateUser(ctx, user)
		if err == nil {
			s.LogInfo(ctx, "Provisioned user from external identity", slog.Int64("user_id", user.ID), slog.String("provider", string(identity.Provider)))
			return user, nil
		}

		var dup *apperrors.DuplicateError
		if !errors.As(err, &dup) {
			s.LogError(ctx, err, "Failed to provision external user", slog.String("email", email))
			return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
		}
		if dup.Field == "email" {
			existing, err := s.users.FindUserByEmail(ctx, email)
			if err != nil {
				return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
			}
			if err := s.mergeExternalIdentity(ctx, existing, identity); err != nil {
				return nil, err
			}
			return existing, nil
		}
		if dup.Field == "google_id" {
			s.LogWarn(ctx, "External account is linked to another user", slog.String("email", email))
			return nil, apperrors.NewUnauthorizedError(apperrors.CodeGoogleAuthFailed)
		}
		s.LogDebug(ctx, "Generated username collided, retrying", slog.String("username", username))
	}
	return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError,
		fmt.Errorf("no free username for base %q after %d attempts", base, usernameAttempts))
}

// mergeExternalIdentity links identity to an existing row. An unverified row is promoted:
// its pending code and any unconfirmed password are discarded and a placeholder username is replaced.
func (s *authService) mergeExternalIdentity(ctx context.Context, user *domain.User, identity *domain.ExternalIdentity) error {
	if user.GoogleID != nil && *user.GoogleID != identity.ExternalID {
		s.LogWarn(ctx, "Email is linked to a different external account", slog.Int64("user_id", user.ID))
		return apperrors.NewUnauthorizedError(apperrors.CodeGoogleAuthFailed)
	}

	changed := false
	if user.GoogleID == nil {
		user.GoogleID = strPtr(identity.ExternalID)
		changed = true
	}
	if user.Picture == nil && identity.Picture != "" {
		user.Picture = strPtr(identity.Picture)
		changed = true
	}
	if !user.IsVerified {
		user.IsVerified = true
		user.VerificationCode = nil
		user.VerificationExpires = nil
		user.PasswordHash = ""
		changed = true
	}
	if !changed {
		return nil
	}

	if !user.HasPlaceholderUsername() {
		if err := s.users.UpdateUser(ctx, user); err != nil {
			s.LogError(ctx, err, "Failed to link external identity", slog.Int64("user_id", user.ID))
			return apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
		}
		return nil
	}

	base := usernameBase(identity, user.Email)
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		username, err := candidateUsername(base)
		if err != nil {
			return apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
		}
		user.Username = username
		err = s.users.UpdateUser(ctx, user)
		if err == nil {
			s.LogInfo(ctx, "Promoted pending user through external identity", slog.Int64("user_id", user.ID))
			return nil
		}
		var dup *apperrors.DuplicateError
		if !errors.As(err, &dup) || dup.Field != "username" {
			s.LogError(ctx, err, "Failed to promote pending user", slog.Int64("user_id", user.ID))
			return apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError, err)
		}
	}
	return apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeGoogleAuthError,
		fmt.Errorf("no free username for base %q after %d attempts", base, usernameAttempts))
}

// startSession issues a token pair and persists the refresh token hash for user.
func (s *authService) startSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	pair, err := s.tokens.IssuePair(ctx, domain.TokenPayload{Subject: user.ID, Email: user.Email})
	if err != nil {
		s.LogError(ctx, err, "Failed to issue tokens", slog.Int64("user_id", user.ID))
		return nil, apperrors.Wrap(http.StatusInternalServerError, apperrors.CodeTokenGenerationFailed, err)
	}
	hash := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.users.SetRefreshToken(ctx, user.ID, &hash); err != nil {
		s.LogError(ctx, err, "Failed to persist refresh token", slog.Int64("user_id", user.ID))
		return nil, apperrors.NewInternalServerError(err)
	}
	return &domain.AuthResult{TokenPair: *pair, User: user.Sanitize()}, nil
}

// findByEmail returns (nil, nil) when no user owns email.
func (s *authService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to find user by email", slog.String("email", email))
		return nil, apperrors.NewInternalServerError(err)
	}
	return user, nil
}

// findByUsername returns (nil, nil) when no user owns username.
func (s *authService) findByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to find user by username", slog.String("username", username))
		return nil, apperrors.NewInternalServerError(err)
	}
	return user, nil
}

func (s *authService) mapPendingWriteError(ctx context.Context, err error, email string) error {
	if errors.Is(err, apperrors.ErrAlreadyVerified) {
		return apperrors.NewConflictError(apperrors.CodeEmailAlreadyVerified)
	}
	var dup *apperrors.DuplicateError
	if errors.As(err, &dup) {
		if dup.Field == "username" {
			return usernameTaken()
		}
		return apperrors.NewConflictError(apperrors.CodeEmailAlreadyUsed)
	}
	s.LogError(ctx, err, "Failed to store pending registration", slog.String("email", email))
	return apperrors.NewInternalServerError(err)
}

// hashPassword rejects passwords bcrypt cannot take as a validation error.
func (s *authService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewBadRequestError(apperrors.MessageFor(apperrors.CodeValidationError)).
			WithDetails(map[string]any{"fields": map[string]any{"password": "max"}})
	}
	if err != nil {
		return "", apperrors.NewInternalServerError(fmt.Errorf("hash password: %w", err))
	}
	return hash, nil
}

// getDummyHash lazily creates a hash used to equalize timing for unknown emails.
func (s *authService) getDummyHash() string {
	s.dummyHashOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyHash
}

func (s *authService) track(userID int64, event string, props map[string]any) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(strconv.FormatInt(userID, 10), event, props)
}

func recordFlow(flow string, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Status < http.StatusInternalServerError {
			outcome = metrics.OutcomeRejected
		}
	}
	metrics.RecordAuthFlow(flow, outcome)
}

func usernameTaken() *apperrors.AppError {
	return apperrors.NewConflictError(apperrors.CodeUsernameTaken).WithDetails(map[string]any{"field": "username"})
}

func usernameBase(identity *domain.ExternalIdentity, email string) string {
	switch {
	case identity.GivenName != "":
		return utils.SanitizeUsernameBase(identity.GivenName)
	case identity.Name != "":
		return utils.SanitizeUsernameBase(identity.Name)
	default:
		local, _, _ := strings.Cut(email, "@")
		return utils.SanitizeUsernameBase(local)
	}
}

func candidateUsername(base string) (string, error) {
	suffix, err := utils.GenerateBase36Suffix(usernameSuffixSize)
	if err != nil {
		return "", err
	}
	return base + suffix, nil
}

func strPtr(s string) *string {
	return &s
}

func optionalStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
