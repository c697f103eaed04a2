package middleware

import (
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/core/ports/services"
)

// AuthMiddleware creates a Gin middleware handler that validates access tokens
// and loads the caller's current role.
func AuthMiddleware(tokenSvc services.TokenSvcFacade, users services.UserLookupSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := GetLoggerFromCtx(ctx)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			AbortWithError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			logger.Warn("Authorization header format invalid")
			AbortWithError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
			return
		}

		payload, err := tokenSvc.Verify(ctx, parts[1], domain.AccessToken)
		if err != nil {
			logger.Warn("Invalid access token", slog.String("error", err.Error()))
			AbortWithError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
			return
		}

		user, err := users.GetUserByID(ctx, payload.Subject)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Token subject no longer exists", slog.Int64("user_id", payload.Subject))
				AbortWithError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
				return
			}
			AbortWithError(c, err)
			return
		}

		enrichedLogger := logger.With(slog.Int64("user_id", user.ID))
		c.Set(string(userIDKey), user.ID)
		c.Set(string(userRoleKey), user.Role)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is not in roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			AbortWithError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
			return
		}
		if !slices.Contains(roles, role) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted", slog.String("role", string(role)))
			AbortWithError(c, apperrors.NewForbiddenError(apperrors.MessageFor(apperrors.CodeForbidden)))
			return
		}
		c.Next()
	}
}
