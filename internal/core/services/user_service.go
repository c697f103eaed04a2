package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
)

// userService resolves users for request authorization.
type userService struct {
	BaseService
	userRepo portsrepo.UserReader
}

func NewUserService(userRepo portsrepo.UserReader) portssvc.UserLookupSvc {
	return &userService{userRepo: userRepo}
}

var _ portssvc.UserLookupSvc = (*userService)(nil)

// GetUserByID returns apperrors.ErrNotFound unwrapped so callers can branch on it.
func (s *userService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID", slog.Int64("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}
