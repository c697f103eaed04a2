package pgsql

import (
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	provider := newRepositoryProvider(dbPool)
	provider.Close = dbPool.Close
	return provider
}

func newRepositoryProvider(db DBPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:            newPgxUserRepository(db),
		StoreCategoryRepo:   newPgxStoreCategoryRepository(db),
		ProductCategoryRepo: newPgxProductCategoryRepository(db),
		StoreRepo:           newPgxStoreRepository(db),
		ProductRepo:         newPgxProductRepository(db),
		Close:               func() {},
	}
}
