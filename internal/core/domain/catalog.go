package domain

import "github.com/shopspring/decimal"

// StoreCategory groups stores in the catalog.
type StoreCategory struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"isActive"`
	AuditFields
}

// ProductCategory groups products across stores.
type ProductCategory struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"isActive"`
	AuditFields
}

// Product is an item a store sells under a product category.
type Product struct {
	ID          int64           `json:"id"`
	StoreID     int64           `json:"storeId"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	AuditFields
}
