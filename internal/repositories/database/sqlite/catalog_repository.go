package sqlite

import (
	"context"
	"fmt"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/models"
	"github.com/tokokita/ecommerce_backend/internal/utils/mapping"
	"gorm.io/gorm"
)

type GormStoreCategoryRepository struct {
	db *gorm.DB
}

func newGormStoreCategoryRepository(db *gorm.DB) *GormStoreCategoryRepository {
	return &GormStoreCategoryRepository{db: db}
}

var _ portsrepo.StoreCategoryRepository = (*GormStoreCategoryRepository)(nil)

func (r *GormStoreCategoryRepository) CreateStoreCategory(ctx context.Context, category *domain.StoreCategory) error {
	m := mapping.ToModelStoreCategory(*category)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create store category: %w", mapGormError(err))
	}
	category.ID = m.ID
	category.CreatedAt = m.CreatedAt
	category.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GormStoreCategoryRepository) FindStoreCategoryByID(ctx context.Context, categoryID int64) (*domain.StoreCategory, error) {
	var m models.StoreCategory
	if err := r.db.WithContext(ctx).First(&m, categoryID).Error; err != nil {
		return nil, mapGormError(err)
	}
	category := mapping.ToDomainStoreCategory(m)
	return &category, nil
}

func (r *GormStoreCategoryRepository) FindStoreCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.StoreCategory, error) {
	if len(ids) == 0 {
		return []domain.StoreCategory{}, nil
	}
	var ms []models.StoreCategory
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to find store categories: %w", err)
	}
	return mapping.ToDomainStoreCategorySlice(ms), nil
}

func (r *GormStoreCategoryRepository) ListStoreCategories(ctx context.Context, includeInactive bool) ([]domain.StoreCategory, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var ms []models.StoreCategory
	if err := q.Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list store categories: %w", err)
	}
	return mapping.ToDomainStoreCategorySlice(ms), nil
}

func (r *GormStoreCategoryRepository) UpdateStoreCategory(ctx context.Context, category *domain.StoreCategory) error {
	m := mapping.ToModelStoreCategory(*category)
	res := r.db.WithContext(ctx).Model(&models.StoreCategory{}).Where("id = ?", category.ID).Updates(map[string]any{
		"name":        m.Name,
		"slug":        m.Slug,
		"description": m.Description,
		"is_active":   m.IsActive,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update store category %d: %w", category.ID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *GormStoreCategoryRepository) DeleteStoreCategory(ctx context.Context, categoryID int64) error {
	res := r.db.WithContext(ctx).Delete(&models.StoreCategory{}, categoryID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete store category %d: %w", categoryID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type GormProductCategoryRepository struct {
	db *gorm.DB
}

func newGormProductCategoryRepository(db *gorm.DB) *GormProductCategoryRepository {
	return &GormProductCategoryRepository{db: db}
}

var _ portsrepo.ProductCategoryRepository = (*GormProductCategoryRepository)(nil)

func (r *GormProductCategoryRepository) CreateProductCategory(ctx context.Context, category *domain.ProductCategory) error {
	m := mapping.ToModelProductCategory(*category)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create product category: %w", mapGormError(err))
	}
	category.ID = m.ID
	category.CreatedAt = m.CreatedAt
	category.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GormProductCategoryRepository) FindProductCategoryByID(ctx context.Context, categoryID int64) (*domain.ProductCategory, error) {
	var m models.ProductCategory
	if err := r.db.WithContext(ctx).First(&m, categoryID).Error; err != nil {
		return nil, mapGormError(err)
	}
	category := mapping.ToDomainProductCategory(m)
	return &category, nil
}

func (r *GormProductCategoryRepository) ListProductCategories(ctx context.Context, includeInactive bool) ([]domain.ProductCategory, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var ms []models.ProductCategory
	if err := q.Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list product categories: %w", err)
	}
	return mapping.ToDomainProductCategorySlice(ms), nil
}

func (r *GormProductCategoryRepository) UpdateProductCategory(ctx context.Context, category *domain.ProductCategory) error {
	m := mapping.ToModelProductCategory(*category)
	res := r.db.WithContext(ctx).Model(&models.ProductCategory{}).Where("id = ?", category.ID).Updates(map[string]any{
		"name":        m.Name,
		"slug":        m.Slug,
		"description": m.Description,
		"is_active":   m.IsActive,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product category %d: %w", category.ID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *GormProductCategoryRepository) DeleteProductCategory(ctx context.Context, categoryID int64) error {
	res := r.db.WithContext(ctx).Delete(&models.ProductCategory{}, categoryID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product category %d: %w", categoryID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type GormProductRepository struct {
	db *gorm.DB
}

func newGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ portsrepo.ProductRepository = (*GormProductRepository)(nil)

func (r *GormProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	m := mapping.ToModelProduct(*product)
	if err := r.db.WithContext(ctx).Omit("Store", "Category").Create(&m).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", mapGormError(err))
	}
	product.ID = m.ID
	product.CreatedAt = m.CreatedAt
	product.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GormProductRepository) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	var m models.Product
	if err := r.db.WithContext(ctx).First(&m, productID).Error; err != nil {
		return nil, mapGormError(err)
	}
	product := mapping.ToDomainProduct(m)
	return &product, nil
}

func (r *GormProductRepository) ListProducts(ctx context.Context, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.StoreID != nil {
		q = q.Where("store_id = ?", *filter.StoreID)
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AfterCreatedAt != nil {
		after := filter.AfterCreatedAt.UTC()
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", after, after, filter.AfterID)
	}
	var ms []models.Product
	if err := q.Order("created_at DESC").Order("id DESC").Limit(filter.Limit).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return mapping.ToDomainProductSlice(ms), nil
}

func (r *GormProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	m := mapping.ToModelProduct(*product)
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
		"category_id": m.CategoryID,
		"name":        m.Name,
		"slug":        m.Slug,
		"description": m.Description,
		"price":       m.Price,
		"stock":       m.Stock,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) DeleteProduct(ctx context.Context, productID int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, mapGormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
