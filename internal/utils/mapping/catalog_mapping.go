package mapping

import (
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/models"
)

func ToModelStoreCategory(d domain.StoreCategory) models.StoreCategory {
	return models.StoreCategory{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: ToNullString(d.Description),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainStoreCategory(m models.StoreCategory) domain.StoreCategory {
	return domain.StoreCategory{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: FromNullString(m.Description),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStoreCategorySlice converts a slice of model categories to domain categories
func ToDomainStoreCategorySlice(ms []models.StoreCategory) []domain.StoreCategory {
	ds := make([]domain.StoreCategory, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStoreCategory(m)
	}
	return ds
}

func ToModelProductCategory(d domain.ProductCategory) models.ProductCategory {
	return models.ProductCategory{
		ID:          d.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: ToNullString(d.Description),
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainProductCategory(m models.ProductCategory) domain.ProductCategory {
	return domain.ProductCategory{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: FromNullString(m.Description),
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToDomainProductCategorySlice(ms []models.ProductCategory) []domain.ProductCategory {
	ds := make([]domain.ProductCategory, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProductCategory(m)
	}
	return ds
}

func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ID:          d.ID,
		StoreID:     d.StoreID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: ToNullString(d.Description),
		Price:       d.Price,
		Stock:       d.Stock,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ID:          m.ID,
		StoreID:     m.StoreID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: FromNullString(m.Description),
		Price:       m.Price,
		Stock:       m.Stock,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductSlice converts a slice of model products to domain products
func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}
