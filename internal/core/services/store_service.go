package services

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/utils"
)

const invalidStoreCategoriesMessage = "Some category IDs are invalid or inactive"

// CreateStore opens a store owned by the actor and promotes a BUYER owner to SELLER.
// A SUPER_ADMIN may open a store on behalf of req.UserID.
func (s *catalogService) CreateStore(ctx context.Context, actor domain.Actor, req dto.CreateStoreRequest) (*domain.Store, error) {
	ownerID := actor.UserID
	if req.UserID != nil && *req.UserID != actor.UserID {
		if actor.Role != domain.RoleSuperAdmin {
			return nil, apperrors.NewForbiddenError("only a SUPER_ADMIN can open a store for another user")
		}
		ownerID = *req.UserID
	}

	slug := utils.GenerateSlug(req.StoreName)
	if slug == "" {
		return nil, apperrors.NewBadRequestError("storeName must contain letters or digits")
	}
	categories, err := s.activeStoreCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}
	hours, err := operationalHours(req.OperationalHours)
	if err != nil {
		return nil, err
	}

	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}
	store := &domain.Store{
		UserID:           ownerID,
		StoreName:        req.StoreName,
		Description:      req.Description,
		Address:          req.Address,
		Province:         req.Province,
		City:             req.City,
		PostalCode:       req.PostalCode,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		IsOpen:           isOpen,
		ReturnPolicy:     req.ReturnPolicy,
		ShippingPolicy:   req.ShippingPolicy,
		CategoryIDs:      categoryIDs(categories),
		Categories:       categories,
		OperationalHours: hours,
	}
	err = withUniqueSlug(slug, func(candidate string) error {
		store.Slug = candidate
		return s.storeRepo.CreateStore(ctx, store)
	})
	if err != nil {
		var dup *apperrors.DuplicateError
		if errors.As(err, &dup) && dup.Field == "user_id" {
			return nil, apperrors.NewConflictError(apperrors.CodeConflict).WithDetails(map[string]any{"field": "userId"})
		}
		return nil, s.mapCatalogError(ctx, err, "Store")
	}

	s.LogInfo(ctx, "Store created", slog.Int64("store_id", store.ID), slog.Int64("user_id", ownerID), slog.String("slug", store.Slug))
	return store, nil
}

func (s *catalogService) GetStore(ctx context.Context, storeID int64) (*domain.Store, error) {
	store, err := s.storeRepo.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store")
	}
	return store, nil
}

func (s *catalogService) ListStores(ctx context.Context) ([]domain.Store, error) {
	stores, err := s.storeRepo.ListStores(ctx)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store")
	}
	return stores, nil
}

// UpdateStore applies req to a store the actor manages. A new name regenerates the slug.
func (s *catalogService) UpdateStore(ctx context.Context, actor domain.Actor, storeID int64, req dto.UpdateStoreRequest) (*domain.Store, error) {
	store, err := s.managedStore(ctx, actor, storeID)
	if err != nil {
		return nil, err
	}

	if req.CategoryIDs != nil {
		categories, err := s.activeStoreCategories(ctx, req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		store.Categories = categories
	}
	store.CategoryIDs = categoryIDs(store.Categories)
	if req.OperationalHours != nil {
		hours, err := operationalHours(req.OperationalHours)
		if err != nil {
			return nil, err
		}
		store.OperationalHours = hours
	}

	setIfPresent(&store.Address, req.Address)
	setIfPresent(&store.Province, req.Province)
	setIfPresent(&store.City, req.City)
	setIfPresent(&store.PostalCode, req.PostalCode)
	setIfPresent(&store.PhoneNumber, req.PhoneNumber)
	setIfPresent(&store.IsOpen, req.IsOpen)
	if req.Description != nil {
		store.Description = req.Description
	}
	if req.Email != nil {
		store.Email = req.Email
	}
	if req.ReturnPolicy != nil {
		store.ReturnPolicy = req.ReturnPolicy
	}
	if req.ShippingPolicy != nil {
		store.ShippingPolicy = req.ShippingPolicy
	}

	if req.StoreName == nil || *req.StoreName == store.StoreName {
		err = s.storeRepo.UpdateStore(ctx, store)
	} else {
		store.StoreName = *req.StoreName
		slug := utils.GenerateSlug(store.StoreName)
		if slug == "" {
			return nil, apperrors.NewBadRequestError("storeName must contain letters or digits")
		}
		err = withUniqueSlug(slug, func(candidate string) error {
			store.Slug = candidate
			return s.storeRepo.UpdateStore(ctx, store)
		})
	}
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store")
	}

	s.LogInfo(ctx, "Store updated", slog.Int64("store_id", store.ID))
	return store, nil
}

// DeleteStore removes a store the actor manages together with its products.
func (s *catalogService) DeleteStore(ctx context.Context, actor domain.Actor, storeID int64) error {
	if _, err := s.managedStore(ctx, actor, storeID); err != nil {
		return err
	}
	if err := s.storeRepo.DeleteStore(ctx, storeID); err != nil {
		return s.mapCatalogError(ctx, err, "Store")
	}
	s.LogInfo(ctx, "Store deleted", slog.Int64("store_id", storeID))
	return nil
}

// ListStoreProducts pages through one store's products. An unknown store is a 404, not an empty page.
func (s *catalogService) ListStoreProducts(ctx context.Context, storeID int64, params dto.ListProductsParams) (*dto.ListProductsResponse, error) {
	if _, err := s.storeRepo.FindStoreByID(ctx, storeID); err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store")
	}
	params.StoreID = &storeID
	return s.ListProducts(ctx, params)
}

// managedStore loads the store and checks that the actor owns it or is a SUPER_ADMIN.
func (s *catalogService) managedStore(ctx context.Context, actor domain.Actor, storeID int64) (*domain.Store, error) {
	store, err := s.storeRepo.FindStoreByID(ctx, storeID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store")
	}
	if !actor.CanManage(store.UserID) {
		s.LogWarn(ctx, "Store write by non-owner", slog.Int64("store_id", storeID), slog.Int64("user_id", actor.UserID))
		return nil, apperrors.NewForbiddenError("You do not manage this store")
	}
	return store, nil
}

// activeStoreCategories resolves ids, rejecting the whole set when any id is unknown or inactive.
func (s *catalogService) activeStoreCategories(ctx context.Context, ids []int64) ([]domain.StoreCategory, error) {
	unique := slices.Clone(ids)
	slices.Sort(unique)
	unique = slices.Compact(unique)

	found, err := s.categoryRepo.FindStoreCategoriesByIDs(ctx, unique)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store category")
	}
	active := 0
	for _, c := range found {
		if c.IsActive {
			active++
		}
	}
	if active != len(unique) {
		return nil, apperrors.NewBadRequestError(invalidStoreCategoriesMessage)
	}
	slices.SortFunc(found, func(a, b domain.StoreCategory) int { return cmp.Compare(a.ID, b.ID) })
	return found, nil
}

// operationalHours converts the schedule, allowing each day at most once.
func operationalHours(reqs []dto.OperationalHourRequest) ([]domain.OperationalHour, error) {
	hours := dto.ToOperationalHours(reqs)
	seen := make(map[domain.Weekday]bool, len(hours))
	for _, h := range hours {
		if seen[h.Day] {
			return nil, apperrors.NewBadRequestError("operationalHours lists " + string(h.Day) + " more than once")
		}
		seen[h.Day] = true
	}
	return hours, nil
}

func categoryIDs(categories []domain.StoreCategory) []int64 {
	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
