package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"gorm.io/gorm"
)

const (
	uniqueViolationPrefix = "UNIQUE constraint failed: "
	foreignKeyViolation   = "FOREIGN KEY constraint failed"
)

// mapGormError translates SQLite constraint failures into repository sentinel errors.
func mapGormError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	msg := err.Error()
	if idx := strings.Index(msg, uniqueViolationPrefix); idx >= 0 {
		// "UNIQUE constraint failed: users.email" (possibly several comma separated columns)
		target := strings.SplitN(msg[idx+len(uniqueViolationPrefix):], ",", 2)[0]
		_, column, found := strings.Cut(strings.TrimSpace(target), ".")
		if !found {
			column = target
		}
		return &apperrors.DuplicateError{Field: column}
	}
	if strings.Contains(msg, foreignKeyViolation) {
		return fmt.Errorf("%w: referenced record does not exist or is still in use", apperrors.ErrValidation)
	}
	return err
}
