package services

import (
	"context"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/dto"
)

// StoreCategorySvc defines CRUD operations for store categories
type StoreCategorySvc interface {
	CreateStoreCategory(ctx context.Context, req dto.CreateStoreCategoryRequest) (*domain.StoreCategory, error)
	GetStoreCategory(ctx context.Context, categoryID int64) (*domain.StoreCategory, error)
	ListStoreCategories(ctx context.Context, includeInactive bool) ([]domain.StoreCategory, error)
	UpdateStoreCategory(ctx context.Context, categoryID int64, req dto.UpdateStoreCategoryRequest) (*domain.StoreCategory, error)
	DeleteStoreCategory(ctx context.Context, categoryID int64) error
}

// ProductCategorySvc defines CRUD operations for product categories
type ProductCategorySvc interface {
	CreateProductCategory(ctx context.Context, req dto.CreateProductCategoryRequest) (*domain.ProductCategory, error)
	GetProductCategory(ctx context.Context, categoryID int64) (*domain.ProductCategory, error)
	ListProductCategories(ctx context.Context, includeInactive bool) ([]domain.ProductCategory, error)
	UpdateProductCategory(ctx context.Context, categoryID int64, req dto.UpdateProductCategoryRequest) (*domain.ProductCategory, error)
	DeleteProductCategory(ctx context.Context, categoryID int64) error
}

// StoreSvc manages seller stores. Writes are limited to the owner or a SUPER_ADMIN.
type StoreSvc interface {
	CreateStore(ctx context.Context, actor domain.Actor, req dto.CreateStoreRequest) (*domain.Store, error)
	GetStore(ctx context.Context, storeID int64) (*domain.Store, error)
	ListStores(ctx context.Context) ([]domain.Store, error)
	UpdateStore(ctx context.Context, actor domain.Actor, storeID int64, req dto.UpdateStoreRequest) (*domain.Store, error)
	DeleteStore(ctx context.Context, actor domain.Actor, storeID int64) error
	ListStoreProducts(ctx context.Context, storeID int64, params dto.ListProductsParams) (*dto.ListProductsResponse, error)
}

// ProductSvc defines CRUD operations for products. Writes are limited to the store owner or a SUPER_ADMIN.
type ProductSvc interface {
	CreateProduct(ctx context.Context, actor domain.Actor, req dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, productID int64, req dto.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, productID int64) error
}

// CatalogSvcFacade combines the catalog service interfaces
type CatalogSvcFacade interface {
	StoreCategorySvc
	ProductCategorySvc
	StoreSvc
	ProductSvc
}
