package dto

import (
	"time"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// UserResponse is the sanitized user returned to clients.
type UserResponse struct {
	ID         int64       `json:"id"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	IsVerified bool        `json:"isVerified"`
	Picture    *string     `json:"picture,omitempty"`
}

// AuthResponse is returned by every endpoint that starts a session.
type AuthResponse struct {
	AccessToken           string       `json:"accessToken"`
	RefreshToken          string       `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time    `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time    `json:"refreshTokenExpiresAt"`
	User                  UserResponse `json:"user"`
}

func ToUserResponse(user domain.SanitizedUser) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		Picture:    user.Picture,
	}
}

// ToAuthResponse converts a domain.AuthResult to AuthResponse DTO
func ToAuthResponse(result *domain.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		User:                  ToUserResponse(result.User),
	}
}
