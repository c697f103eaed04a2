package services

import (
	"context"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// UserLookupSvc resolves the current state of a user for request authorization.
type UserLookupSvc interface {
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)
}

// EventTracker records product analytics events. Implementations must not block.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Auth               AuthSvcFacade
	Users              UserLookupSvc
	Catalog            CatalogSvcFacade
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
}
