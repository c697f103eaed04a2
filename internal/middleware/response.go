package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/dto"
)

// AbortWithError renders err in the error envelope and stops the handler chain.
// Errors that are not *apperrors.AppError are logged and rendered as APP_SERVER_ERROR.
func AbortWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalServerError(err)
	}

	logger := GetLoggerFromCtx(c.Request.Context())
	if appErr.Status >= http.StatusInternalServerError {
		cause := "<nil>"
		if appErr.Err != nil {
			cause = appErr.Err.Error()
		}
		logger.Error("Request failed", slog.String("code", appErr.Code), slog.String("error", cause))
	} else {
		logger.Debug("Request rejected", slog.String("code", appErr.Code), slog.Int("status", appErr.Status))
	}

	c.AbortWithStatusJSON(appErr.Status, dto.ErrorResponse{
		Success:      false,
		Code:         appErr.Code,
		ErrorMessage: appErr.Message,
		Details:      appErr.Details,
		Timestamp:    time.Now().UTC(),
	})
}
