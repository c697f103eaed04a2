package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/models"
	"github.com/tokokita/ecommerce_backend/internal/utils/mapping"
)

const storeColumns = `id, user_id, store_name, slug, description, address, province, city, postal_code,
	phone_number, email, is_open, return_policy, shipping_policy, created_at, updated_at`

type PgxStoreRepository struct {
	BaseRepository
}

func newPgxStoreRepository(db DBPool) *PgxStoreRepository {
	return &PgxStoreRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.StoreRepository = (*PgxStoreRepository)(nil)

func scanStore(row pgx.Row) (*domain.Store, error) {
	var m models.Store
	err := row.Scan(
		&m.ID, &m.UserID, &m.StoreName, &m.Slug, &m.Description, &m.Address, &m.Province, &m.City,
		&m.PostalCode, &m.PhoneNumber, &m.Email, &m.IsOpen, &m.ReturnPolicy, &m.ShippingPolicy,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	store := mapping.ToDomainStore(m)
	return &store, nil
}

// CreateStore inserts the store with its categories and hours and promotes a BUYER owner to SELLER.
func (r *PgxStoreRepository) CreateStore(ctx context.Context, store *domain.Store) error {
	m := mapping.ToModelStore(*store)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO stores (user_id, store_name, slug, description, address, province, city,
				postal_code, phone_number, email, is_open, return_policy, shipping_policy)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, created_at, updated_at;
		`
		err := tx.QueryRow(ctx, query,
			m.UserID, m.StoreName, m.Slug, m.Description, m.Address, m.Province, m.City,
			m.PostalCode, m.PhoneNumber, m.Email, m.IsOpen, m.ReturnPolicy, m.ShippingPolicy,
		).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create store: %w", mapPgError(err))
		}
		if err := insertStoreChildren(ctx, tx, store); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND role = $3;`,
			store.UserID, string(domain.RoleSeller), string(domain.RoleBuyer))
		if err != nil {
			return fmt.Errorf("failed to promote store owner %d: %w", store.UserID, err)
		}
		return nil
	})
}

func (r *PgxStoreRepository) FindStoreByID(ctx context.Context, storeID int64) (*domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1;`, storeColumns)
	store, err := scanStore(r.Pool.QueryRow(ctx, query, storeID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find store %d: %w", storeID, err)
	}
	stores := []domain.Store{*store}
	if err := r.loadChildren(ctx, stores); err != nil {
		return nil, err
	}
	return &stores[0], nil
}

func (r *PgxStoreRepository) ListStores(ctx context.Context) ([]domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores ORDER BY id ASC;`, storeColumns)
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	stores := []domain.Store{}
	for rows.Next() {
		store, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, *store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}
	rows.Close()

	if err := r.loadChildren(ctx, stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// UpdateStore rewrites the store row and replaces its categories and hours.
func (r *PgxStoreRepository) UpdateStore(ctx context.Context, store *domain.Store) error {
	m := mapping.ToModelStore(*store)
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE stores
			SET store_name = $2, slug = $3, description = $4, address = $5, province = $6, city = $7,
				postal_code = $8, phone_number = $9, email = $10, is_open = $11, return_policy = $12,
				shipping_policy = $13, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at;
		`
		err := tx.QueryRow(ctx, query,
			m.ID, m.StoreName, m.Slug, m.Description, m.Address, m.Province, m.City,
			m.PostalCode, m.PhoneNumber, m.Email, m.IsOpen, m.ReturnPolicy, m.ShippingPolicy,
		).Scan(&store.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to update store %d: %w", store.ID, mapPgError(err))
		}
		if _, err := tx.Exec(ctx, `DELETE FROM store_category_relations WHERE store_id = $1;`, store.ID); err != nil {
			return fmt.Errorf("failed to clear store categories: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM store_operational_hours WHERE store_id = $1;`, store.ID); err != nil {
			return fmt.Errorf("failed to clear operational hours: %w", err)
		}
		return insertStoreChildren(ctx, tx, store)
	})
}

// DeleteStore removes the store and its products and demotes a SELLER owner back to BUYER.
func (r *PgxStoreRepository) DeleteStore(ctx context.Context, storeID int64) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		var ownerID int64
		err := tx.QueryRow(ctx, `DELETE FROM stores WHERE id = $1 RETURNING user_id;`, storeID).Scan(&ownerID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return fmt.Errorf("failed to delete store %d: %w", storeID, mapPgError(err))
		}
		_, err = tx.Exec(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND role = $3;`,
			ownerID, string(domain.RoleBuyer), string(domain.RoleSeller))
		if err != nil {
			return fmt.Errorf("failed to demote store owner %d: %w", ownerID, err)
		}
		return nil
	})
}

func insertStoreChildren(ctx context.Context, tx pgx.Tx, store *domain.Store) error {
	if len(store.CategoryIDs) > 0 {
		_, err := tx.Exec(ctx,
			`INSERT INTO store_category_relations (store_id, category_id) SELECT $1, unnest($2::bigint[]);`,
			store.ID, store.CategoryIDs)
		if err != nil {
			return fmt.Errorf("failed to link store categories: %w", mapPgError(err))
		}
	}
	if len(store.OperationalHours) == 0 {
		return nil
	}
	n := len(store.OperationalHours)
	days, opens, closes, closed := make([]string, n), make([]string, n), make([]string, n), make([]bool, n)
	for i, h := range store.OperationalHours {
		days[i], opens[i], closes[i], closed[i] = string(h.Day), h.OpenTime, h.CloseTime, h.IsClosed
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO store_operational_hours (store_id, day, open_time, close_time, is_closed)
		SELECT $1, * FROM unnest($2::text[], $3::text[], $4::text[], $5::boolean[]);
	`, store.ID, days, opens, closes, closed)
	if err != nil {
		return fmt.Errorf("failed to store operational hours: %w", mapPgError(err))
	}
	return nil
}

// loadChildren fills categories and hours for stores with one query each.
func (r *PgxStoreRepository) loadChildren(ctx context.Context, stores []domain.Store) error {
	if len(stores) == 0 {
		return nil
	}
	index := make(map[int64]int, len(stores))
	ids := make([]int64, len(stores))
	for i, s := range stores {
		index[s.ID] = i
		ids[i] = s.ID
	}

	query := `
		SELECT r.store_id, c.id, c.name, c.slug, c.description, c.is_active, c.created_at, c.updated_at
		FROM store_category_relations r
		JOIN store_categories c ON c.id = r.category_id
		WHERE r.store_id = ANY($1)
		ORDER BY c.id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query store categories: %w", err)
	}
	for rows.Next() {
		var storeID int64
		var c models.StoreCategory
		if err := rows.Scan(&storeID, &c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan store category: %w", err)
		}
		s := &stores[index[storeID]]
		s.Categories = append(s.Categories, mapping.ToDomainStoreCategory(c))
		s.CategoryIDs = append(s.CategoryIDs, c.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating store categories: %w", err)
	}

	rows, err = r.Pool.Query(ctx,
		`SELECT store_id, day, open_time, close_time, is_closed FROM store_operational_hours WHERE store_id = ANY($1) ORDER BY id ASC;`,
		ids)
	if err != nil {
		return fmt.Errorf("failed to query operational hours: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h models.OperationalHour
		if err := rows.Scan(&h.StoreID, &h.Day, &h.OpenTime, &h.CloseTime, &h.IsClosed); err != nil {
			return fmt.Errorf("failed to scan operational hour: %w", err)
		}
		s := &stores[index[h.StoreID]]
		s.OperationalHours = append(s.OperationalHours, mapping.ToDomainOperationalHour(h))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating operational hours: %w", err)
	}
	return nil
}
