package dto

import (
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// RegisterRequest defines the data needed to register a new account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,strongpassword"`
}

// SendVerificationRequest asks for a fresh verification code to be mailed.
type SendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyEmailRequest carries the code a user received by email.
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

// LoginRequest represents the request body for email/password login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the request body for rotating a session.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ExchangeCodeRequest defines the structure for the exchange code request.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// PendingRegistrationResponse acknowledges a registration awaiting email verification.
type PendingRegistrationResponse struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// ToPendingRegistrationResponse converts a domain.PendingRegistration to its response DTO.
func ToPendingRegistrationResponse(p *domain.PendingRegistration) PendingRegistrationResponse {
	return PendingRegistrationResponse{
		Email:    p.Email,
		Username: p.Username,
	}
}
