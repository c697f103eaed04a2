package handlers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
)

// respond writes the success envelope.
func respond(c *gin.Context, status int, code string, data any) {
	c.JSON(status, dto.NewResponse(code, data))
}

// respondError renders err through the shared error envelope.
func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindJSON binds the request body into req and renders a VALIDATION_ERROR on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Invalid request body", slog.String("error", err.Error()))
		respondError(c, validationError(err))
		return false
	}
	return true
}

// bindQuery binds query parameters into req and renders a VALIDATION_ERROR on failure.
func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondError(c, validationError(err))
		return false
	}
	return true
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperrors.NewBadRequestError("Invalid "+name))
		return 0, false
	}
	return id, true
}

// currentActor reads the authenticated caller set by AuthMiddleware and renders a 401 when absent.
func currentActor(c *gin.Context) (domain.Actor, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	role, hasRole := middleware.GetUserRoleFromContext(c)
	if !ok || !hasRole {
		respondError(c, apperrors.NewUnauthorizedError(apperrors.CodeUnauthorized))
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: userID, Role: role}, true
}

// validationError turns binding failures into a 400 listing each failed field and rule.
func validationError(err error) *apperrors.AppError {
	appErr := apperrors.NewBadRequestError(apperrors.MessageFor(apperrors.CodeValidationError))

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr.WithDetails(map[string]any{"body": "malformed request"})
	}
	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		fields[lowerFirst(fe.Field())] = fe.Tag()
	}
	return appErr.WithDetails(map[string]any{"fields": fields})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
