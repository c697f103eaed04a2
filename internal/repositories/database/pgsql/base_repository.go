package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
)

// DBPool is the subset of *pgxpool.Pool the repositories use. pgxmock.PgxPoolIface satisfies it.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool DBPool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = r.Rollback(ctx, tx)
		return err
	}
	return r.Commit(ctx, tx)
}

// constraintFields maps unique constraint names to the field reported in DuplicateError.
var constraintFields = map[string]string{
	"users_email_key":                       "email",
	"users_username_key":                    "username",
	"users_google_id_key":                   "google_id",
	"store_categories_name_key":             "name",
	"store_categories_slug_key":             "slug",
	"product_categories_name_key":           "name",
	"product_categories_slug_key":           "slug",
	"stores_slug_key":                       "slug",
	"stores_user_id_key":                    "user_id",
	"store_operational_hours_store_day_key": "day",
	"products_slug_key":                     "slug",
}

// mapPgError translates constraint violations into repository sentinel errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return &apperrors.DuplicateError{Field: field}
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, foreignKeyMessage(pgErr.ConstraintName))
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, pgErr.Message)
	}
	return err
}

var foreignKeyMessages = map[string]string{
	"store_category_relations_category_id_fkey": "store category is used by stores or does not exist",
	"products_category_id_fkey":                 "product category is used by products or does not exist",
	"products_store_id_fkey":                    "store does not exist",
	"stores_user_id_fkey":                       "store owner does not exist",
}

func foreignKeyMessage(constraint string) string {
	if msg, ok := foreignKeyMessages[constraint]; ok {
		return msg
	}
	return "referenced record does not exist or is still in use"
}
