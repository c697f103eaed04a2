package pgsql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

var storeColumnNames = []string{
	"id", "user_id", "store_name", "slug", "description", "address", "province", "city", "postal_code",
	"phone_number", "email", "is_open", "return_policy", "shipping_policy", "created_at", "updated_at",
}

func newTestStore() *domain.Store {
	return &domain.Store{
		UserID: 5, StoreName: "Kopi Kita", Slug: "kopi-kita",
		Address: "Jl. Merdeka 1", Province: "Jawa Barat", City: "Bandung", PostalCode: "40111", PhoneNumber: "081234567890",
		IsOpen:      true,
		CategoryIDs: []int64{1, 3},
		OperationalHours: []domain.OperationalHour{
			{Day: domain.Monday, OpenTime: "08:00", CloseTime: "17:00"},
			{Day: domain.Sunday, OpenTime: "00:00", CloseTime: "00:00", IsClosed: true},
		},
	}
}

func TestPgxStoreRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   func(t *testing.T, err error)
	}{
		{
			name: "store, children and promotion in one transaction",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				now := time.Now()
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO stores`).
					WithArgs(int64(5), "Kopi Kita", "kopi-kita", pgxmock.AnyArg(), "Jl. Merdeka 1", "Jawa Barat", "Bandung",
						"40111", "081234567890", pgxmock.AnyArg(), true, pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
				mock.ExpectExec(`INSERT INTO store_category_relations`).
					WithArgs(int64(11), []int64{1, 3}).
					WillReturnResult(pgxmock.NewResult("INSERT", 2))
				mock.ExpectExec(`INSERT INTO store_operational_hours`).
					WithArgs(int64(11), []string{"MONDAY", "SUNDAY"}, []string{"08:00", "00:00"}, []string{"17:00", "00:00"}, []bool{false, true}).
					WillReturnResult(pgxmock.NewResult("INSERT", 2))
				mock.ExpectExec(`UPDATE users SET role`).
					WithArgs(int64(5), "SELLER", "BUYER").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "second store for the same owner rolls back",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO stores`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "stores_user_id_key"})
				mock.ExpectRollback()
			},
			wantErr: func(t *testing.T, err error) {
				var dup *apperrors.DuplicateError
				require.True(t, errors.As(err, &dup))
				assert.Equal(t, "user_id", dup.Field)
			},
		},
		{
			name: "unknown category rolls back",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				now := time.Now()
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO stores`).
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
						pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
				mock.ExpectExec(`INSERT INTO store_category_relations`).
					WithArgs(int64(11), []int64{1, 3}).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "store_category_relations_category_id_fkey"})
				mock.ExpectRollback()
			},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			store := newTestStore()
			err = newPgxStoreRepository(mock).CreateStore(context.Background(), store)

			if tt.wantErr != nil {
				tt.wantErr(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(11), store.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPgxStoreRepository_FindByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM stores WHERE id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(pgxmock.NewRows(storeColumnNames).AddRow(
			int64(11), int64(5), "Kopi Kita", "kopi-kita", nil, "Jl. Merdeka 1", "Jawa Barat", "Bandung", "40111",
			"081234567890", "toko@kopi.id", true, nil, nil, now, now))
	mock.ExpectQuery(`FROM store_category_relations r\s+JOIN store_categories c`).
		WithArgs([]int64{11}).
		WillReturnRows(pgxmock.NewRows([]string{"store_id", "id", "name", "slug", "description", "is_active", "created_at", "updated_at"}).
			AddRow(int64(11), int64(1), "Food", "food", nil, true, now, now))
	mock.ExpectQuery(`FROM store_operational_hours WHERE store_id = ANY\(\$1\)`).
		WithArgs([]int64{11}).
		WillReturnRows(pgxmock.NewRows([]string{"store_id", "day", "open_time", "close_time", "is_closed"}).
			AddRow(int64(11), "MONDAY", "08:00", "17:00", false))

	store, err := newPgxStoreRepository(mock).FindStoreByID(context.Background(), 11)

	require.NoError(t, err)
	assert.Nil(t, store.Description)
	require.NotNil(t, store.Email)
	assert.Equal(t, "toko@kopi.id", *store.Email)
	require.Len(t, store.Categories, 1)
	assert.Equal(t, []int64{1}, store.CategoryIDs)
	require.Len(t, store.OperationalHours, 1)
	assert.Equal(t, domain.Monday, store.OperationalHours[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStoreRepository_UpdateMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE stores`).
		WithArgs(int64(40), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))
	mock.ExpectRollback()

	store := newTestStore()
	store.ID = 40
	err = newPgxStoreRepository(mock).UpdateStore(context.Background(), store)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgxStoreRepository_DeleteDemotesOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin()
	mock.ExpectQuery(`DELETE FROM stores WHERE id = \$1 RETURNING user_id`).
		WithArgs(int64(11)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(int64(5)))
	mock.ExpectExec(`UPDATE users SET role`).
		WithArgs(int64(5), "BUYER", "SELLER").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err = newPgxStoreRepository(mock).DeleteStore(context.Background(), 11)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
