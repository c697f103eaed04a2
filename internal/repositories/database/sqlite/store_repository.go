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

type GormStoreRepository struct {
	db *gorm.DB
}

func newGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

var _ portsrepo.StoreRepository = (*GormStoreRepository)(nil)

func (r *GormStoreRepository) CreateStore(ctx context.Context, store *domain.Store) error {
	m := mapping.ToModelStore(*store)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(&m).Error; err != nil {
			return fmt.Errorf("failed to create store: %w", mapGormError(err))
		}
		if err := replaceStoreChildren(tx, m.ID, store); err != nil {
			return err
		}
		err := tx.Model(&models.User{}).
			Where("id = ? AND role = ?", store.UserID, string(domain.RoleBuyer)).
			Update("role", string(domain.RoleSeller)).Error
		if err != nil {
			return fmt.Errorf("failed to promote store owner %d: %w", store.UserID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	store.ID = m.ID
	store.CreatedAt = m.CreatedAt
	store.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *GormStoreRepository) FindStoreByID(ctx context.Context, storeID int64) (*domain.Store, error) {
	var m models.Store
	if err := r.db.WithContext(ctx).First(&m, storeID).Error; err != nil {
		return nil, mapGormError(err)
	}
	stores, err := r.withChildren(ctx, []models.Store{m})
	if err != nil {
		return nil, err
	}
	return &stores[0], nil
}

func (r *GormStoreRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	var ms []models.Store
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return r.withChildren(ctx, ms)
}

func (r *GormStoreRepository) UpdateStore(ctx context.Context, store *domain.Store) error {
	m := mapping.ToModelStore(*store)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Store{}).Where("id = ?", store.ID).Updates(map[string]any{
			"store_name":      m.StoreName,
			"slug":            m.Slug,
			"description":     m.Description,
			"address":         m.Address,
			"province":        m.Province,
			"city":            m.City,
			"postal_code":     m.PostalCode,
			"phone_number":    m.PhoneNumber,
			"email":           m.Email,
			"is_open":         m.IsOpen,
			"return_policy":   m.ReturnPolicy,
			"shipping_policy": m.ShippingPolicy,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update store %d: %w", store.ID, mapGormError(res.Error))
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if err := tx.Where("store_id = ?", store.ID).Delete(&models.StoreCategoryRelation{}).Error; err != nil {
			return fmt.Errorf("failed to clear store categories: %w", err)
		}
		if err := tx.Where("store_id = ?", store.ID).Delete(&models.OperationalHour{}).Error; err != nil {
			return fmt.Errorf("failed to clear operational hours: %w", err)
		}
		return replaceStoreChildren(tx, store.ID, store)
	})
}

func (r *GormStoreRepository) DeleteStore(ctx context.Context, storeID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Store
		if err := tx.Select("id", "user_id").First(&m, storeID).Error; err != nil {
			return mapGormError(err)
		}
		if err := tx.Delete(&models.Store{}, storeID).Error; err != nil {
			return fmt.Errorf("failed to delete store %d: %w", storeID, mapGormError(err))
		}
		err := tx.Model(&models.User{}).
			Where("id = ? AND role = ?", m.UserID, string(domain.RoleSeller)).
			Update("role", string(domain.RoleBuyer)).Error
		if err != nil {
			return fmt.Errorf("failed to demote store owner %d: %w", m.UserID, err)
		}
		return nil
	})
}

// replaceStoreChildren inserts the category relations and operational hours of store.
func replaceStoreChildren(tx *gorm.DB, storeID int64, store *domain.Store) error {
	if len(store.CategoryIDs) > 0 {
		relations := make([]models.StoreCategoryRelation, len(store.CategoryIDs))
		for i, id := range store.CategoryIDs {
			relations[i] = models.StoreCategoryRelation{StoreID: storeID, CategoryID: id}
		}
		if err := tx.Omit("Store", "Category").Create(&relations).Error; err != nil {
			return fmt.Errorf("failed to link store categories: %w", mapGormError(err))
		}
	}
	if len(store.OperationalHours) > 0 {
		hours := mapping.ToModelOperationalHours(storeID, store.OperationalHours)
		if err := tx.Omit("Store").Create(&hours).Error; err != nil {
			return fmt.Errorf("failed to store operational hours: %w", mapGormError(err))
		}
	}
	return nil
}

// withChildren loads categories and hours for ms with one query each.
func (r *GormStoreRepository) withChildren(ctx context.Context, ms []models.Store) ([]domain.Store, error) {
	stores := make([]domain.Store, len(ms))
	index := make(map[int64]int, len(ms))
	ids := make([]int64, len(ms))
	for i, m := range ms {
		stores[i] = mapping.ToDomainStore(m)
		index[m.ID] = i
		ids[i] = m.ID
	}
	if len(ids) == 0 {
		return stores, nil
	}

	var relations []models.StoreCategoryRelation
	err := r.db.WithContext(ctx).Preload("Category").
		Where("store_id IN ?", ids).
		Order("category_id ASC").
		Find(&relations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load store categories: %w", err)
	}
	for _, rel := range relations {
		if rel.Category == nil {
			continue
		}
		s := &stores[index[rel.StoreID]]
		s.Categories = append(s.Categories, mapping.ToDomainStoreCategory(*rel.Category))
		s.CategoryIDs = append(s.CategoryIDs, rel.CategoryID)
	}

	var hours []models.OperationalHour
	if err := r.db.WithContext(ctx).Where("store_id IN ?", ids).Order("id ASC").Find(&hours).Error; err != nil {
		return nil, fmt.Errorf("failed to load operational hours: %w", err)
	}
	for _, h := range hours {
		s := &stores[index[h.StoreID]]
		s.OperationalHours = append(s.OperationalHours, mapping.ToDomainOperationalHour(h))
	}
	return stores, nil
}
