package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo            UserRepositoryFacade
	StoreCategoryRepo   StoreCategoryRepository
	ProductCategoryRepo ProductCategoryRepository
	StoreRepo           StoreRepository
	ProductRepo         ProductRepository
	// Close releases the underlying store handle.
	Close func()
}
