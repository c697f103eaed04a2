package services

import (
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, notifier portssvc.NotificationSender, events portssvc.EventTracker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.TokenService = NewTokenService(cfg)
	container.Users = NewUserService(repos.UserRepo)
	container.Auth = NewAuthService(
		repos.UserRepo,
		container.TokenService,
		notifier,
		WithEventTracker(events),
	)
	container.Catalog = NewCatalogService(repos.StoreCategoryRepo, repos.ProductCategoryRepo, repos.StoreRepo, repos.ProductRepo)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
