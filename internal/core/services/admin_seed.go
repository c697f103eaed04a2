package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
)

// SuperAdminUsername is the username given to the seeded administrator.
const SuperAdminUsername = "superadmin"

// SeedSuperAdmin creates a verified SUPER_ADMIN for email. An existing user with that
// email is returned untouched and created is false.
func SeedSuperAdmin(ctx context.Context, users portsrepo.UserRepositoryFacade, hasher portssvc.PasswordHasher, email, password string) (_ *domain.User, created bool, err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, errors.New("admin email and password are required")
	}

	existing, err := users.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up admin %s: %w", email, err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &domain.User{
		Email:        email,
		Username:     SuperAdminUsername,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		IsVerified:   true,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return nil, false, fmt.Errorf("failed to create admin %s: %w", email, err)
	}
	return admin, true, nil
}
