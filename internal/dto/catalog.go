package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// CreateStoreCategoryRequest defines the data needed to create a store category.
type CreateStoreCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateStoreCategoryRequest uses pointers to distinguish omitted fields from zero values.
type UpdateStoreCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

// StoreCategoryResponse defines the data returned for a store category.
type StoreCategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProductCategoryRequest defines the data needed to create a product category.
type CreateProductCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateProductCategoryRequest uses pointers to distinguish omitted fields from zero values.
type UpdateProductCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"isActive"`
}

// ProductCategoryResponse defines the data returned for a product category.
type ProductCategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateProductRequest defines the data needed to create a product.
type CreateProductRequest struct {
	StoreID     int64           `json:"storeId" binding:"required,gt=0"`
	CategoryID  int64           `json:"categoryId" binding:"required,gt=0"`
	Name        string          `json:"name" binding:"required,min=2,max=200"`
	Description *string         `json:"description" binding:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
}

// UpdateProductRequest uses pointers to distinguish omitted fields from zero values.
// A product cannot move to another store.
type UpdateProductRequest struct {
	CategoryID  *int64           `json:"categoryId" binding:"omitempty,gt=0"`
	Name        *string          `json:"name" binding:"omitempty,min=2,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ID          int64           `json:"id"`
	StoreID     int64           `json:"storeId"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ListProductsParams defines query parameters for listing products.
type ListProductsParams struct {
	StoreID    *int64 `form:"storeId"`
	CategoryID *int64 `form:"categoryId"`
	Limit      int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  string `form:"nextToken"`
}

// ListProductsResponse wraps a page of products with the cursor for the next page.
type ListProductsResponse struct {
	Products  []ProductResponse `json:"products"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToStoreCategoryResponse converts a domain.StoreCategory to StoreCategoryResponse DTO
func ToStoreCategoryResponse(c *domain.StoreCategory) StoreCategoryResponse {
	return StoreCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToListStoreCategoryResponse converts a slice of domain.StoreCategory to response DTOs
func ToListStoreCategoryResponse(categories []domain.StoreCategory) []StoreCategoryResponse {
	res := make([]StoreCategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToStoreCategoryResponse(&categories[i])
	}
	return res
}

// ToProductCategoryResponse converts a domain.ProductCategory to ProductCategoryResponse DTO
func ToProductCategoryResponse(c *domain.ProductCategory) ProductCategoryResponse {
	return ProductCategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToListProductCategoryResponse(categories []domain.ProductCategory) []ProductCategoryResponse {
	res := make([]ProductCategoryResponse, len(categories))
	for i := range categories {
		res[i] = ToProductCategoryResponse(&categories[i])
	}
	return res
}

// ToProductResponse converts a domain.Product to ProductResponse DTO
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		StoreID:     p.StoreID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToListProductResponse converts a slice of domain.Product to response DTOs
func ToListProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, len(products))
	for i := range products {
		res[i] = ToProductResponse(&products[i])
	}
	return res
}
