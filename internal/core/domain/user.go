package domain

import (
	"strings"
	"time"
)

// PlaceholderUsernamePrefix marks usernames generated for rows created by a bare verification-code request.
const PlaceholderUsernamePrefix = "pending_"

// Role is the enumerated authorization role of a user.
type Role string

const (
	RoleBuyer      Role = "BUYER"
	RoleSeller     Role = "SELLER"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents an identity record in the credential store.
type User struct {
	ID                  int64      `json:"id"`
	Email               string     `json:"email"`
	Username            string     `json:"username"`
	PasswordHash        string     `json:"-"`
	Role                Role       `json:"role"`
	IsVerified          bool       `json:"isVerified"`
	VerificationCode    *string    `json:"-"`
	VerificationExpires *time.Time `json:"-"`
	RefreshToken        *string    `json:"-"`
	GoogleID            *string    `json:"-"`
	Picture             *string    `json:"picture,omitempty"`
	AuditFields
}

// IsShell reports whether the row is an unverified placeholder created by a verification-code request.
func (u *User) IsShell() bool {
	return !u.IsVerified && u.PasswordHash == ""
}

// HasPlaceholderUsername reports whether the username was generated rather than chosen.
func (u *User) HasPlaceholderUsername() bool {
	return strings.HasPrefix(u.Username, PlaceholderUsernamePrefix)
}

// SanitizedUser is the only user shape returned to clients.
type SanitizedUser struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Role       Role    `json:"role"`
	IsVerified bool    `json:"isVerified"`
	Picture    *string `json:"picture,omitempty"`
}

// Sanitize strips credentials, codes and tokens from the user.
func (u *User) Sanitize() SanitizedUser {
	return SanitizedUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		Picture:    u.Picture,
	}
}

// VerificationOutcome is the result of an atomic compare-and-clear of a verification code.
type VerificationOutcome int

const (
	VerificationOK VerificationOutcome = iota
	VerificationMismatch
	VerificationExpired
)
