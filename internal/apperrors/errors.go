package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadyVerified indicates that a pending-registration write targeted an already verified user.
var ErrAlreadyVerified = errors.New("user already verified")

// ErrInvalidToken indicates a token that is malformed, tampered, expired or of the wrong kind.
var ErrInvalidToken = errors.New("invalid token")

// Stable machine-readable error codes. Clients branch on these, never on messages.
const (
	CodeAppServerError          = "APP_SERVER_ERROR"
	CodeValidationError         = "VALIDATION_ERROR"
	CodeRateLimitExceeded       = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeNotFound                = "NOT_FOUND"
	CodeConflict                = "CONFLICT"
	CodeGatewayTimeout          = "GATEWAY_TIMEOUT"
	CodeInvalidCredentials      = "INVALID_CREDENTIALS"
	CodeInvalidRefreshToken     = "INVALID_REFRESH_TOKEN"
	CodeInvalidVerificationCode = "INVALID_VERIFICATION_CODE"
	CodeVerificationExpired     = "VERIFICATION_EXPIRED"
	CodeEmailAlreadyVerified    = "EMAIL_ALREADY_VERIFIED"
	CodeEmailAlreadyUsed        = "EMAIL_ALREADY_USED"
	CodeUsernameTaken           = "USERNAME_TAKEN"
	CodeTokenGenerationFailed   = "TOKEN_GENERATION_FAILED"
	CodeGoogleAuthFailed        = "GOOGLE_AUTH_FAILED"
	CodeGoogleAuthError         = "GOOGLE_AUTH_ERROR"
)

// defaultMessages holds the human readable message for each code.
var defaultMessages = map[string]string{
	CodeAppServerError:          "App Server Error, try again later.",
	CodeValidationError:         "Validation Error",
	CodeRateLimitExceeded:       "Rate Limit Exceeded",
	CodeUnauthorized:            "Unauthorized access, please authenticate",
	CodeForbidden:               "You are not authorized to access this resource",
	CodeNotFound:                "Resource not found",
	CodeConflict:                "Data already exists",
	CodeGatewayTimeout:          "Upstream service did not respond in time",
	CodeInvalidCredentials:      "Invalid credentials",
	CodeInvalidRefreshToken:     "Invalid refresh token",
	CodeInvalidVerificationCode: "Invalid verification code",
	CodeVerificationExpired:     "Verification code has expired",
	CodeEmailAlreadyVerified:    "Email already verified",
	CodeEmailAlreadyUsed:        "Email already registered",
	CodeUsernameTaken:           "Username already exists",
	CodeTokenGenerationFailed:   "Failed to generate authentication tokens",
	CodeGoogleAuthFailed:        "Google authentication failed",
	CodeGoogleAuthError:         "Error while processing Google login",
}

// MessageFor returns the default message for a code, or the server error message for unknown codes.
func MessageFor(code string) string {
	if msg, ok := defaultMessages[code]; ok {
		return msg
	}
	return defaultMessages[CodeAppServerError]
}

// AppError is an error carrying an HTTP status, a stable code and a client-safe message.
// The wrapped Err is for logs only and is never rendered to clients.
type AppError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"error_message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the given details attached.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// NewAppError creates an AppError for the given status with a free-text message.
// The code is derived from the status.
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    codeForStatus(status),
		Message: message,
		Err:     err,
	}
}

// New creates an AppError with an explicit status and code, using the code's default message.
func New(status int, code string) *AppError {
	return &AppError{Status: status, Code: code, Message: MessageFor(code)}
}

// Wrap creates an AppError with an explicit status and code wrapping a cause.
func Wrap(status int, code string, err error) *AppError {
	return &AppError{Status: status, Code: code, Message: MessageFor(code), Err: err}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: CodeValidationError, Message: message}
}

func NewUnauthorizedError(code string) *AppError {
	return New(http.StatusUnauthorized, code)
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func NewNotFoundError(entity string) *AppError {
	return &AppError{Status: http.StatusNotFound, Code: CodeNotFound, Message: entity + " not found"}
}

func NewConflictError(code string) *AppError {
	return New(http.StatusConflict, code)
}

// NewInternalServerError hides the cause behind the generic server error code.
func NewInternalServerError(err error) *AppError {
	return Wrap(http.StatusInternalServerError, CodeAppServerError, err)
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Status: http.StatusGatewayTimeout, Code: CodeGatewayTimeout, Message: message}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// DuplicateError reports which unique field was violated.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// Is lets errors.Is(err, ErrDuplicate) match any DuplicateError.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidationError
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusTooManyRequests:
		return CodeRateLimitExceeded
	case http.StatusGatewayTimeout:
		return CodeGatewayTimeout
	default:
		return CodeAppServerError
	}
}
