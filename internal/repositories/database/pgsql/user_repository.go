package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/models"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"github.com/tokokita/ecommerce_backend/internal/utils/mapping"
)

const userColumns = `id, email, username, password, role, is_verified, verification_code, verification_expires, refresh_token, google_id, picture, created_at, updated_at`

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db DBPool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (*domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.Username,
		&m.PasswordHash,
		&m.Role,
		&m.IsVerified,
		&m.VerificationCode,
		&m.VerificationExpires,
		&m.RefreshToken,
		&m.GoogleID,
		&m.Picture,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	user := mapping.ToDomainUser(m)
	return &user, nil
}

func (r *PgxUserRepository) findOne(ctx context.Context, column string, value any) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1;`, userColumns, column)
	user, err := scanUser(r.Pool.QueryRow(ctx, query, value))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}
	return user, err
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return r.findOne(ctx, "id", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *PgxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleBuyer
	}
	m := mapping.ToModelUser(*user)
	query := `
		INSERT INTO users (email, username, password, role, is_verified, verification_code,
			verification_expires, refresh_token, google_id, picture)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.Email,
		m.Username,
		m.PasswordHash,
		m.Role,
		m.IsVerified,
		m.VerificationCode,
		m.VerificationExpires,
		m.RefreshToken,
		m.GoogleID,
		m.Picture,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapPgError(err))
	}
	return nil
}

// UpsertPendingUser locks the row for email, then inserts or updates it. An insert that loses a
// race on the email constraint is retried once as an update.
func (r *PgxUserRepository) UpsertPendingUser(ctx context.Context, pending portsrepo.PendingUser) (*domain.User, error) {
	var result *domain.User
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.WithTx(ctx, func(tx pgx.Tx) error {
			user, txErr := r.upsertPendingTx(ctx, tx, pending)
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

func (r *PgxUserRepository) upsertPendingTx(ctx context.Context, tx pgx.Tx, pending portsrepo.PendingUser) (*domain.User, error) {
	selectQuery := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 FOR UPDATE;`, userColumns)
	existing, err := scanUser(tx.QueryRow(ctx, selectQuery, pending.Email))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to lock pending user: %w", err)
	}

	if existing == nil {
		username := pending.Username
		if username == "" {
			suffix, err := utils.GenerateSecureRandomString(8)
			if err != nil {
				return nil, err
			}
			username = domain.PlaceholderUsernamePrefix + suffix
		}
		insertQuery := fmt.Sprintf(`
			INSERT INTO users (email, username, password, role, is_verified, verification_code, verification_expires)
			VALUES ($1, $2, $3, $4, FALSE, $5, $6)
			RETURNING %s;`, userColumns)
		user, err := scanUser(tx.QueryRow(ctx, insertQuery,
			pending.Email,
			username,
			pending.PasswordHash,
			string(domain.RoleBuyer),
			pending.VerificationCode,
			pending.VerificationExpires,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert pending user: %w", mapPgError(err))
		}
		return user, nil
	}

	if existing.IsVerified {
		return nil, apperrors.ErrAlreadyVerified
	}

	username := existing.Username
	if pending.Username != "" {
		username = pending.Username
	}
	passwordHash := existing.PasswordHash
	if pending.PasswordHash != "" {
		passwordHash = pending.PasswordHash
	}
	updateQuery := fmt.Sprintf(`
		UPDATE users
		SET username = $2, password = $3, verification_code = $4, verification_expires = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING %s;`, userColumns)
	user, err := scanUser(tx.QueryRow(ctx, updateQuery,
		existing.ID,
		username,
		passwordHash,
		pending.VerificationCode,
		pending.VerificationExpires,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update pending user: %w", mapPgError(err))
	}
	return user, nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	m := mapping.ToModelUser(*user)
	query := `
		UPDATE users
		SET username = $2, password = $3, role = $4, is_verified = $5, verification_code = $6,
			verification_expires = $7, google_id = $8, picture = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.ID,
		m.Username,
		m.PasswordHash,
		m.Role,
		m.IsVerified,
		m.VerificationCode,
		m.VerificationExpires,
		m.GoogleID,
		m.Picture,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update user %d: %w", user.ID, mapPgError(err))
	}
	return nil
}

// ConsumeVerificationCode clears a matching, unexpired code in one conditional UPDATE.
// When nothing was updated a follow-up read distinguishes an expired code from a mismatch.
func (r *PgxUserRepository) ConsumeVerificationCode(ctx context.Context, email, code string, now time.Time) (*domain.User, domain.VerificationOutcome, error) {
	consumeQuery := fmt.Sprintf(`
		UPDATE users
		SET is_verified = TRUE, verification_code = NULL, verification_expires = NULL, updated_at = NOW()
		WHERE email = $1
			AND verification_code = $2
			AND (verification_expires IS NULL OR verification_expires >= $3)
		RETURNING %s;`, userColumns)
	user, err := scanUser(r.Pool.QueryRow(ctx, consumeQuery, email, code, now))
	if err == nil {
		return user, domain.VerificationOK, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, domain.VerificationMismatch, fmt.Errorf("failed to consume verification code: %w", err)
	}

	var m models.User
	err = r.Pool.QueryRow(ctx,
		`SELECT verification_code, verification_expires FROM users WHERE email = $1;`, email,
	).Scan(&m.VerificationCode, &m.VerificationExpires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.VerificationMismatch, apperrors.ErrNotFound
		}
		return nil, domain.VerificationMismatch, fmt.Errorf("failed to read verification state: %w", err)
	}
	if !m.VerificationCode.Valid || m.VerificationCode.String != code {
		return nil, domain.VerificationMismatch, nil
	}
	return nil, domain.VerificationExpired, nil
}

func (r *PgxUserRepository) SetRefreshToken(ctx context.Context, userID int64, token *string) error {
	tag, err := r.Pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1;`,
		userID, mapping.ToNullString(token),
	)
	if err != nil {
		return fmt.Errorf("failed to set refresh token for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RotateRefreshToken is a compare-and-swap on the stored token.
func (r *PgxUserRepository) RotateRefreshToken(ctx context.Context, userID int64, presented, next string) (*domain.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET refresh_token = $3, updated_at = NOW()
		WHERE id = $1 AND refresh_token = $2
		RETURNING %s;`, userColumns)
	user, err := scanUser(r.Pool.QueryRow(ctx, query, userID, presented, next))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to rotate refresh token for user %d: %w", userID, err)
	}
	return user, nil
}
