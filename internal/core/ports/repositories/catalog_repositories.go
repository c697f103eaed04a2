package repositories

import (
	"context"
	"time"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// StoreCategoryRepository defines persistence operations for store categories.
type StoreCategoryRepository interface {
	CreateStoreCategory(ctx context.Context, category *domain.StoreCategory) error
	FindStoreCategoryByID(ctx context.Context, categoryID int64) (*domain.StoreCategory, error)
	// FindStoreCategoriesByIDs returns the categories that exist among ids, in no particular order.
	FindStoreCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.StoreCategory, error)
	ListStoreCategories(ctx context.Context, includeInactive bool) ([]domain.StoreCategory, error)
	UpdateStoreCategory(ctx context.Context, category *domain.StoreCategory) error
	DeleteStoreCategory(ctx context.Context, categoryID int64) error
}

// ProductCategoryRepository defines persistence operations for product categories.
type ProductCategoryRepository interface {
	CreateProductCategory(ctx context.Context, category *domain.ProductCategory) error
	FindProductCategoryByID(ctx context.Context, categoryID int64) (*domain.ProductCategory, error)
	ListProductCategories(ctx context.Context, includeInactive bool) ([]domain.ProductCategory, error)
	UpdateProductCategory(ctx context.Context, category *domain.ProductCategory) error
	DeleteProductCategory(ctx context.Context, categoryID int64) error
}

// StoreRepository defines persistence operations for stores and their owned rows.
type StoreRepository interface {
	// CreateStore inserts the store, its category relations and operational hours, and promotes
	// a BUYER owner to SELLER, all in one transaction.
	CreateStore(ctx context.Context, store *domain.Store) error
	// FindStoreByID loads the store with its categories and operational hours.
	FindStoreByID(ctx context.Context, storeID int64) (*domain.Store, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
	// UpdateStore rewrites the store row and replaces its category relations and operational hours
	// in one transaction.
	UpdateStore(ctx context.Context, store *domain.Store) error
	// DeleteStore removes the store with everything it owns and returns a SELLER owner to BUYER.
	DeleteStore(ctx context.Context, storeID int64) error
}

// ProductFilter selects a page of products ordered by created_at DESC, id DESC.
// When AfterCreatedAt is set only rows strictly after the (AfterCreatedAt, AfterID) cursor are returned.
type ProductFilter struct {
	StoreID        *int64
	CategoryID     *int64
	AfterCreatedAt *time.Time
	AfterID        int64
	Limit          int
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	FindProductByID(ctx context.Context, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, productID int64) error
}
