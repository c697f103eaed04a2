package sqlite

import (
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/pkg/database"
	"gorm.io/gorm"
)

func NewRepositoryProvider(db *gorm.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:            newGormUserRepository(db),
		StoreCategoryRepo:   newGormStoreCategoryRepository(db),
		ProductCategoryRepo: newGormProductCategoryRepository(db),
		StoreRepo:           newGormStoreRepository(db),
		ProductRepo:         newGormProductRepository(db),
		Close:               func() { database.CloseSQLiteDB(db) },
	}
}
