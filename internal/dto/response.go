package dto

import "time"

// Response is the success envelope shared by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success      bool           `json:"success"`
	Code         string         `json:"code"`
	ErrorMessage string         `json:"error_message"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Success response codes.
const (
	CodeSuccess             = "SUCCESS"
	CodeCreated             = "CREATED"
	CodeUpdated             = "UPDATED"
	CodeDeleted             = "DELETED"
	CodeRegistrationPending = "REGISTRATION_PENDING"
	CodeRegistrationSuccess = "REGISTRATION_SUCCESS"
	CodeVerificationSent    = "VERIFICATION_SENT"
	CodeEmailVerified       = "EMAIL_VERIFIED"
	CodeLoginSuccess        = "LOGIN_SUCCESS"
	CodeTokenRefreshed      = "TOKEN_REFRESHED"
	CodeLogoutSuccess       = "LOGOUT_SUCCESS"
)

var successMessages = map[string]string{
	CodeSuccess:             "Operation successful",
	CodeCreated:             "Resource created successfully",
	CodeUpdated:             "Resource updated successfully",
	CodeDeleted:             "Resource deleted successfully",
	CodeRegistrationPending: "Registration pending, please verify your email",
	CodeRegistrationSuccess: "Registration successful",
	CodeVerificationSent:    "Verification code sent to your email",
	CodeEmailVerified:       "Email verified successfully",
	CodeLoginSuccess:        "Login successful",
	CodeTokenRefreshed:      "Token refreshed successfully",
	CodeLogoutSuccess:       "Logout successful",
}

// NewResponse wraps data in the success envelope for code.
func NewResponse(code string, data any) Response {
	msg, ok := successMessages[code]
	if !ok {
		msg = successMessages[CodeSuccess]
	}
	return Response{Success: true, Code: code, Message: msg, Data: data}
}
