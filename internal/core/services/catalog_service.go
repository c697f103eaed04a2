package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"github.com/tokokita/ecommerce_backend/internal/utils/pagination"
)

const (
	slugAttempts      = 3
	slugSuffixSize    = 4
	defaultPageSize   = 20
	maxProductPageLen = 100
)

// catalogService implements the CatalogSvcFacade interface
type catalogService struct {
	BaseService
	categoryRepo        portsrepo.StoreCategoryRepository
	productCategoryRepo portsrepo.ProductCategoryRepository
	storeRepo           portsrepo.StoreRepository
	productRepo         portsrepo.ProductRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	categoryRepo portsrepo.StoreCategoryRepository,
	productCategoryRepo portsrepo.ProductCategoryRepository,
	storeRepo portsrepo.StoreRepository,
	productRepo portsrepo.ProductRepository,
) portssvc.CatalogSvcFacade {
	return &catalogService{
		categoryRepo:        categoryRepo,
		productCategoryRepo: productCategoryRepo,
		storeRepo:           storeRepo,
		productRepo:         productRepo,
	}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) CreateStoreCategory(ctx context.Context, req dto.CreateStoreCategoryRequest) (*domain.StoreCategory, error) {
	slug := utils.GenerateSlug(req.Name)
	if slug == "" {
		return nil, apperrors.NewBadRequestError("name must contain letters or digits")
	}

	category := &domain.StoreCategory{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	err := withUniqueSlug(slug, func(candidate string) error {
		category.Slug = candidate
		return s.categoryRepo.CreateStoreCategory(ctx, category)
	})
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store category")
	}

	s.LogInfo(ctx, "Store category created", slog.Int64("store_category_id", category.ID), slog.String("slug", category.Slug))
	return category, nil
}

func (s *catalogService) GetStoreCategory(ctx context.Context, categoryID int64) (*domain.StoreCategory, error) {
	category, err := s.categoryRepo.FindStoreCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store category")
	}
	return category, nil
}

func (s *catalogService) ListStoreCategories(ctx context.Context, includeInactive bool) ([]domain.StoreCategory, error) {
	categories, err := s.categoryRepo.ListStoreCategories(ctx, includeInactive)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store category")
	}
	return categories, nil
}

func (s *catalogService) UpdateStoreCategory(ctx context.Context, categoryID int64, req dto.UpdateStoreCategoryRequest) (*domain.StoreCategory, error) {
	category, err := s.categoryRepo.FindStoreCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store category")
	}

	renamed := false
	if req.Name != nil && *req.Name != category.Name {
		category.Name = *req.Name
		renamed = true
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if !renamed {
		err = s.categoryRepo.UpdateStoreCategory(ctx, category)
	} else {
		slug := utils.GenerateSlug(category.Name)
		if slug == "" {
			return nil, apperrors.NewBadRequestError("name must contain letters or digits")
		}
		err = withUniqueSlug(slug, func(candidate string) error {
			category.Slug = candidate
			return s.categoryRepo.UpdateStoreCategory(ctx, category)
		})
	}
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Store category")
	}
	return category, nil
}

func (s *catalogService) DeleteStoreCategory(ctx context.Context, categoryID int64) error {
	if err := s.categoryRepo.DeleteStoreCategory(ctx, categoryID); err != nil {
		return s.mapCatalogError(ctx, err, "Store category")
	}
	s.LogInfo(ctx, "Store category deleted", slog.Int64("store_category_id", categoryID))
	return nil
}

func (s *catalogService) CreateProductCategory(ctx context.Context, req dto.CreateProductCategoryRequest) (*domain.ProductCategory, error) {
	slug := utils.GenerateSlug(req.Name)
	if slug == "" {
		return nil, apperrors.NewBadRequestError("name must contain letters or digits")
	}

	category := &domain.ProductCategory{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	err := withUniqueSlug(slug, func(candidate string) error {
		category.Slug = candidate
		return s.productCategoryRepo.CreateProductCategory(ctx, category)
	})
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product category")
	}

	s.LogInfo(ctx, "Product category created", slog.Int64("product_category_id", category.ID), slog.String("slug", category.Slug))
	return category, nil
}

func (s *catalogService) GetProductCategory(ctx context.Context, categoryID int64) (*domain.ProductCategory, error) {
	category, err := s.productCategoryRepo.FindProductCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product category")
	}
	return category, nil
}

func (s *catalogService) ListProductCategories(ctx context.Context, includeInactive bool) ([]domain.ProductCategory, error) {
	categories, err := s.productCategoryRepo.ListProductCategories(ctx, includeInactive)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product category")
	}
	return categories, nil
}

func (s *catalogService) UpdateProductCategory(ctx context.Context, categoryID int64, req dto.UpdateProductCategoryRequest) (*domain.ProductCategory, error) {
	category, err := s.productCategoryRepo.FindProductCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product category")
	}

	if req.Description != nil {
		category.Description = req.Description
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if req.Name == nil || *req.Name == category.Name {
		err = s.productCategoryRepo.UpdateProductCategory(ctx, category)
	} else {
		category.Name = *req.Name
		slug := utils.GenerateSlug(category.Name)
		if slug == "" {
			return nil, apperrors.NewBadRequestError("name must contain letters or digits")
		}
		err = withUniqueSlug(slug, func(candidate string) error {
			category.Slug = candidate
			return s.productCategoryRepo.UpdateProductCategory(ctx, category)
		})
	}
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product category")
	}
	return category, nil
}

func (s *catalogService) DeleteProductCategory(ctx context.Context, categoryID int64) error {
	if err := s.productCategoryRepo.DeleteProductCategory(ctx, categoryID); err != nil {
		return s.mapCatalogError(ctx, err, "Product category")
	}
	s.LogInfo(ctx, "Product category deleted", slog.Int64("product_category_id", categoryID))
	return nil
}

// CreateProduct adds a product to a store the actor manages.
func (s *catalogService) CreateProduct(ctx context.Context, actor domain.Actor, req dto.CreateProductRequest) (*domain.Product, error) {
	if req.Price.IsNegative() {
		return nil, apperrors.NewBadRequestError("price must not be negative")
	}
	slug := utils.GenerateSlug(req.Name)
	if slug == "" {
		return nil, apperrors.NewBadRequestError("name must contain letters or digits")
	}
	if _, err := s.managedStore(ctx, actor, req.StoreID); err != nil {
		return nil, err
	}
	if err := s.requireActiveProductCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product := &domain.Product{
		StoreID:     req.StoreID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	err := withUniqueSlug(slug, func(candidate string) error {
		product.Slug = candidate
		return s.productRepo.CreateProduct(ctx, product)
	})
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product")
	}

	s.LogInfo(ctx, "Product created", slog.Int64("product_id", product.ID), slog.Int64("store_id", product.StoreID), slog.String("slug", product.Slug))
	return product, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product")
	}
	return product, nil
}

// ListProducts returns one page ordered newest first. NextToken is set only when more rows exist.
func (s *catalogService) ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxProductPageLen {
		limit = maxProductPageLen
	}

	filter := portsrepo.ProductFilter{
		StoreID:    params.StoreID,
		CategoryID: params.CategoryID,
		Limit:      limit + 1,
	}
	if params.NextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(params.NextToken)
		if err != nil {
			return nil, apperrors.NewBadRequestError("invalid nextToken")
		}
		filter.AfterCreatedAt = &createdAt
		filter.AfterID = id
	}

	products, err := s.productRepo.ListProducts(ctx, filter)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product")
	}

	resp := &dto.ListProductsResponse{}
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		next := pagination.EncodeCursor(last.CreatedAt, last.ID)
		resp.NextToken = &next
	}
	resp.Products = dto.ToListProductResponse(products)
	return resp, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, actor domain.Actor, productID int64, req dto.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product")
	}
	if _, err := s.managedStore(ctx, actor, product.StoreID); err != nil {
		return nil, err
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.requireActiveProductCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.NewBadRequestError("price must not be negative")
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Description != nil {
		product.Description = req.Description
	}

	if req.Name == nil || *req.Name == product.Name {
		err = s.productRepo.UpdateProduct(ctx, product)
	} else {
		product.Name = *req.Name
		slug := utils.GenerateSlug(product.Name)
		if slug == "" {
			return nil, apperrors.NewBadRequestError("name must contain letters or digits")
		}
		err = withUniqueSlug(slug, func(candidate string) error {
			product.Slug = candidate
			return s.productRepo.UpdateProduct(ctx, product)
		})
	}
	if err != nil {
		return nil, s.mapCatalogError(ctx, err, "Product")
	}
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, actor domain.Actor, productID int64) error {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return s.mapCatalogError(ctx, err, "Product")
	}
	if _, err := s.managedStore(ctx, actor, product.StoreID); err != nil {
		return err
	}
	if err := s.productRepo.DeleteProduct(ctx, productID); err != nil {
		return s.mapCatalogError(ctx, err, "Product")
	}
	s.LogInfo(ctx, "Product deleted", slog.Int64("product_id", productID))
	return nil
}

// requireActiveProductCategory rejects unknown categories with 404 and inactive ones with 400.
func (s *catalogService) requireActiveProductCategory(ctx context.Context, categoryID int64) error {
	category, err := s.productCategoryRepo.FindProductCategoryByID(ctx, categoryID)
	if err != nil {
		return s.mapCatalogError(ctx, err, "Product category")
	}
	if !category.IsActive {
		return apperrors.NewBadRequestError("product category is inactive")
	}
	return nil
}

// withUniqueSlug calls write with slug, then with random suffixes while the slug collides.
func withUniqueSlug(slug string, write func(candidate string) error) error {
	candidate := slug
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		err = write(candidate)
		var dup *apperrors.DuplicateError
		if !errors.As(err, &dup) || dup.Field != "slug" {
			return err
		}
		suffix, serr := utils.GenerateBase36Suffix(slugSuffixSize)
		if serr != nil {
			return serr
		}
		candidate = fmt.Sprintf("%s-%s", slug, suffix)
	}
	return err
}

func (s *catalogService) mapCatalogError(ctx context.Context, err error, entity string) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewNotFoundError(entity)
	case errors.Is(err, apperrors.ErrDuplicate):
		return apperrors.NewConflictError(apperrors.CodeConflict)
	case errors.Is(err, apperrors.ErrValidation):
		return apperrors.NewBadRequestError(err.Error())
	default:
		s.LogError(ctx, err, "Catalog operation failed", slog.String("entity", entity))
		return apperrors.NewInternalServerError(err)
	}
}
