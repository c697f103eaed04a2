package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// StoreCategory is the store_categories table row.
type StoreCategory struct {
	ID          int64          `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name        string         `db:"name" gorm:"column:name;size:100;not null;uniqueIndex:store_categories_name_key"`
	Slug        string         `db:"slug" gorm:"column:slug;size:120;not null;uniqueIndex:store_categories_slug_key"`
	Description sql.NullString `db:"description" gorm:"column:description"`
	IsActive    bool           `db:"is_active" gorm:"column:is_active;not null"`
	AuditFields
}

func (StoreCategory) TableName() string {
	return "store_categories"
}

// ProductCategory is the product_categories table row.
type ProductCategory struct {
	ID          int64          `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name        string         `db:"name" gorm:"column:name;size:100;not null;uniqueIndex:product_categories_name_key"`
	Slug        string         `db:"slug" gorm:"column:slug;size:120;not null;uniqueIndex:product_categories_slug_key"`
	Description sql.NullString `db:"description" gorm:"column:description"`
	IsActive    bool           `db:"is_active" gorm:"column:is_active;not null"`
	AuditFields
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

// Product is the products table row.
type Product struct {
	ID          int64            `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	StoreID     int64            `db:"store_id" gorm:"column:store_id;not null;index:products_store_id_idx"`
	Store       *Store           `db:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CategoryID  int64            `db:"category_id" gorm:"column:category_id;not null;index:products_category_id_idx"`
	Category    *ProductCategory `db:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Name        string           `db:"name" gorm:"column:name;size:200;not null"`
	Slug        string           `db:"slug" gorm:"column:slug;size:220;not null;uniqueIndex:products_slug_key"`
	Description sql.NullString   `db:"description" gorm:"column:description"`
	Price       decimal.Decimal  `db:"price" gorm:"column:price;type:decimal(12,2);not null"`
	Stock       int              `db:"stock" gorm:"column:stock;not null"`
	AuditFields
}

func (Product) TableName() string {
	return "products"
}
