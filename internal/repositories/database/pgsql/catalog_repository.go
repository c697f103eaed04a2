package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/models"
	"github.com/tokokita/ecommerce_backend/internal/utils/mapping"
)

const (
	storeCategoryColumns   = `id, name, slug, description, is_active, created_at, updated_at`
	productCategoryColumns = `id, name, slug, description, is_active, created_at, updated_at`
	productColumns         = `id, store_id, category_id, name, slug, description, price, stock, created_at, updated_at`
)

type PgxStoreCategoryRepository struct {
	BaseRepository
}

func newPgxStoreCategoryRepository(db DBPool) *PgxStoreCategoryRepository {
	return &PgxStoreCategoryRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.StoreCategoryRepository = (*PgxStoreCategoryRepository)(nil)

func scanStoreCategory(row pgx.Row) (*domain.StoreCategory, error) {
	var m models.StoreCategory
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	category := mapping.ToDomainStoreCategory(m)
	return &category, nil
}

func (r *PgxStoreCategoryRepository) CreateStoreCategory(ctx context.Context, category *domain.StoreCategory) error {
	m := mapping.ToModelStoreCategory(*category)
	query := `
		INSERT INTO store_categories (name, slug, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.Name, m.Slug, m.Description, m.IsActive).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create store category: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxStoreCategoryRepository) FindStoreCategoryByID(ctx context.Context, categoryID int64) (*domain.StoreCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM store_categories WHERE id = $1;`, storeCategoryColumns)
	category, err := scanStoreCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find store category %d: %w", categoryID, err)
	}
	return category, err
}

func (r *PgxStoreCategoryRepository) FindStoreCategoriesByIDs(ctx context.Context, ids []int64) ([]domain.StoreCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM store_categories WHERE id = ANY($1);`, storeCategoryColumns)
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query store categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.StoreCategory{}
	for rows.Next() {
		category, err := scanStoreCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating store categories: %w", err)
	}
	return categories, nil
}

func (r *PgxStoreCategoryRepository) ListStoreCategories(ctx context.Context, includeInactive bool) ([]domain.StoreCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM store_categories`, storeCategoryColumns)
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query store categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.StoreCategory{}
	for rows.Next() {
		category, err := scanStoreCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating store categories: %w", err)
	}
	return categories, nil
}

func (r *PgxStoreCategoryRepository) UpdateStoreCategory(ctx context.Context, category *domain.StoreCategory) error {
	m := mapping.ToModelStoreCategory(*category)
	query := `
		UPDATE store_categories
		SET name = $2, slug = $3, description = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.ID, m.Name, m.Slug, m.Description, m.IsActive).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update store category %d: %w", category.ID, mapPgError(err))
	}
	return nil
}

func (r *PgxStoreCategoryRepository) DeleteStoreCategory(ctx context.Context, categoryID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM store_categories WHERE id = $1;`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete store category %d: %w", categoryID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PgxProductCategoryRepository struct {
	BaseRepository
}

func newPgxProductCategoryRepository(db DBPool) *PgxProductCategoryRepository {
	return &PgxProductCategoryRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ProductCategoryRepository = (*PgxProductCategoryRepository)(nil)

func scanProductCategory(row pgx.Row) (*domain.ProductCategory, error) {
	var m models.ProductCategory
	err := row.Scan(&m.ID, &m.Name, &m.Slug, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	category := mapping.ToDomainProductCategory(m)
	return &category, nil
}

func (r *PgxProductCategoryRepository) CreateProductCategory(ctx context.Context, category *domain.ProductCategory) error {
	m := mapping.ToModelProductCategory(*category)
	query := `
		INSERT INTO product_categories (name, slug, description, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.Name, m.Slug, m.Description, m.IsActive).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product category: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxProductCategoryRepository) FindProductCategoryByID(ctx context.Context, categoryID int64) (*domain.ProductCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_categories WHERE id = $1;`, productCategoryColumns)
	category, err := scanProductCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find product category %d: %w", categoryID, err)
	}
	return category, err
}

func (r *PgxProductCategoryRepository) ListProductCategories(ctx context.Context, includeInactive bool) ([]domain.ProductCategory, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_categories`, productCategoryColumns)
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query product categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.ProductCategory{}
	for rows.Next() {
		category, err := scanProductCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product categories: %w", err)
	}
	return categories, nil
}

func (r *PgxProductCategoryRepository) UpdateProductCategory(ctx context.Context, category *domain.ProductCategory) error {
	m := mapping.ToModelProductCategory(*category)
	query := `
		UPDATE product_categories
		SET name = $2, slug = $3, description = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.ID, m.Name, m.Slug, m.Description, m.IsActive).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update product category %d: %w", category.ID, mapPgError(err))
	}
	return nil
}

func (r *PgxProductCategoryRepository) DeleteProductCategory(ctx context.Context, categoryID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM product_categories WHERE id = $1;`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to delete product category %d: %w", categoryID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

type PgxProductRepository struct {
	BaseRepository
}

func newPgxProductRepository(db DBPool) *PgxProductRepository {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ProductRepository = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var m models.Product
	err := row.Scan(&m.ID, &m.StoreID, &m.CategoryID, &m.Name, &m.Slug, &m.Description, &m.Price, &m.Stock, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	product := mapping.ToDomainProduct(m)
	return &product, nil
}

func (r *PgxProductRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	m := mapping.ToModelProduct(*product)
	query := `
		INSERT INTO products (store_id, category_id, name, slug, description, price, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.StoreID, m.CategoryID, m.Name, m.Slug, m.Description, m.Price, m.Stock).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", mapPgError(err))
	}
	return nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1;`, productColumns)
	product, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to find product %d: %w", productID, err)
	}
	return product, err
}

// ListProducts reads one keyset page, newest first.
func (r *PgxProductRepository) ListProducts(ctx context.Context, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	var (
		conditions []string
		args       []any
	)
	if filter.StoreID != nil {
		args = append(args, *filter.StoreID)
		conditions = append(conditions, fmt.Sprintf("store_id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.AfterCreatedAt != nil {
		args = append(args, *filter.AfterCreatedAt, filter.AfterID)
		conditions = append(conditions, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM products", productColumns)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	args = append(args, filter.Limit)
	fmt.Fprintf(&sb, " ORDER BY created_at DESC, id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	m := mapping.ToModelProduct(*product)
	query := `
		UPDATE products
		SET category_id = $2, name = $3, slug = $4, description = $5, price = $6, stock = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at;
	`
	err := r.Pool.QueryRow(ctx, query, m.ID, m.CategoryID, m.Name, m.Slug, m.Description, m.Price, m.Stock).
		Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update product %d: %w", product.ID, mapPgError(err))
	}
	return nil
}

func (r *PgxProductRepository) DeleteProduct(ctx context.Context, productID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1;`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
