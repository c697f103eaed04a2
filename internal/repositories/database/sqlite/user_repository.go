package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/models"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"github.com/tokokita/ecommerce_backend/internal/utils/mapping"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func newGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

var _ portsrepo.UserRepositoryFacade = (*GormUserRepository)(nil)

func findUser(tx *gorm.DB, query string, args ...any) (*domain.User, error) {
	var m models.User
	if err := tx.Where(query, args...).First(&m).Error; err != nil {
		return nil, mapGormError(err)
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *GormUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "id = ?", userID)
}

func (r *GormUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "email = ?", email)
}

func (r *GormUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), "username = ?", username)
}

func (r *GormUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleBuyer
	}
	m := mapping.ToModelUser(*user)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", mapGormError(err))
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GormUserRepository) UpsertPendingUser(ctx context.Context, pending portsrepo.PendingUser) (*domain.User, error) {
	var result *domain.User
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			user, txErr := upsertPendingTx(tx, pending)
			result = user
			return txErr
		})
		var dup *apperrors.DuplicateError
		if !errors.As(err, &dup) || dup.Field != "email" {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func upsertPendingTx(tx *gorm.DB, pending portsrepo.PendingUser) (*domain.User, error) {
	code := pending.VerificationCode
	expires := pending.VerificationExpires.UTC()

	var m models.User
	err := tx.Where("email = ?", pending.Email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		username := pending.Username
		if username == "" {
			suffix, err := utils.GenerateSecureRandomString(8)
			if err != nil {
				return nil, err
			}
			username = domain.PlaceholderUsernamePrefix + suffix
		}
		m = mapping.ToModelUser(domain.User{
			Email:               pending.Email,
			Username:            username,
			PasswordHash:        pending.PasswordHash,
			Role:                domain.RoleBuyer,
			VerificationCode:    &code,
			VerificationExpires: &expires,
		})
		if err := tx.Create(&m).Error; err != nil {
			return nil, fmt.Errorf("failed to insert pending user: %w", mapGormError(err))
		}
		user := mapping.ToDomainUser(m)
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending user: %w", err)
	}
	if m.IsVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	updates := map[string]any{
		"verification_code":    code,
		"verification_expires": expires,
	}
	if pending.Username != "" {
		updates["username"] = pending.Username
	}
	if pending.PasswordHash != "" {
		updates["password"] = pending.PasswordHash
	}
	if err := tx.Model(&m).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update pending user: %w", mapGormError(err))
	}
	return findUser(tx, "id = ?", m.ID)
}

func (r *GormUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	m := mapping.ToModelUser(*user)
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"username":             m.Username,
		"password":             m.PasswordHash,
		"role":                 m.Role,
		"is_verified":          m.IsVerified,
		"verification_code":    m.VerificationCode,
		"verification_expires": m.VerificationExpires,
		"google_id":            m.GoogleID,
		"picture":              m.Picture,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", user.ID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ConsumeVerificationCode reads the row, checks expiry, then clears the code with a
// compare-and-swap on its current value so only one concurrent caller succeeds.
func (r *GormUserRepository) ConsumeVerificationCode(ctx context.Context, email, code string, now time.Time) (*domain.User, domain.VerificationOutcome, error) {
	var (
		user    *domain.User
		outcome = domain.VerificationMismatch
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findUser(tx, "email = ?", email)
		if err != nil {
			return err
		}
		if current.VerificationCode == nil || *current.VerificationCode != code {
			return nil
		}
		if current.VerificationExpires != nil && utils.IsOTPExpired(*current.VerificationExpires, now) {
			outcome = domain.VerificationExpired
			return nil
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND verification_code = ?", current.ID, code).
			Updates(map[string]any{
				"is_verified":          true,
				"verification_code":    nil,
				"verification_expires": nil,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		user, err = findUser(tx, "id = ?", current.ID)
		if err != nil {
			return err
		}
		outcome = domain.VerificationOK
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.VerificationMismatch, err
		}
		return nil, domain.VerificationMismatch, fmt.Errorf("failed to consume verification code: %w", err)
	}
	return user, outcome, nil
}

func (r *GormUserRepository) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token", mapping.ToNullString(token))
	if res.Error != nil {
		return fmt.Errorf("failed to set refresh token for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) RotateRefreshToken(ctx context.Context, userID int64, presented, next string) (*domain.User, error) {
	var user *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND refresh_token = ?", userID, presented).
			Update("refresh_token", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		var err error
		user, err = findUser(tx, "id = ?", userID)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to rotate refresh token for user %d: %w", userID, err)
	}
	return user, nil
}
