package models

import "database/sql"

// Store is the stores table row.
type Store struct {
	ID             int64          `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64          `db:"user_id" gorm:"column:user_id;not null;uniqueIndex:stores_user_id_key"`
	User           *User          `db:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StoreName      string         `db:"store_name" gorm:"column:store_name;size:100;not null"`
	Slug           string         `db:"slug" gorm:"column:slug;size:120;not null;uniqueIndex:stores_slug_key"`
	Description    sql.NullString `db:"description" gorm:"column:description"`
	Address        string         `db:"address" gorm:"column:address;size:255;not null"`
	Province       string         `db:"province" gorm:"column:province;size:100;not null"`
	City           string         `db:"city" gorm:"column:city;size:100;not null"`
	PostalCode     string         `db:"postal_code" gorm:"column:postal_code;size:10;not null"`
	PhoneNumber    string         `db:"phone_number" gorm:"column:phone_number;size:20;not null"`
	Email          sql.NullString `db:"email" gorm:"column:email;size:255"`
	IsOpen         bool           `db:"is_open" gorm:"column:is_open;not null"`
	ReturnPolicy   sql.NullString `db:"return_policy" gorm:"column:return_policy"`
	ShippingPolicy sql.NullString `db:"shipping_policy" gorm:"column:shipping_policy"`
	AuditFields
}

func (Store) TableName() string {
	return "stores"
}

// StoreCategoryRelation is the store_category_relations join row.
type StoreCategoryRelation struct {
	StoreID    int64          `db:"store_id" gorm:"column:store_id;primaryKey"`
	Store      *Store         `db:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	CategoryID int64          `db:"category_id" gorm:"column:category_id;primaryKey;index:store_category_relations_category_id_idx"`
	Category   *StoreCategory `db:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (StoreCategoryRelation) TableName() string {
	return "store_category_relations"
}

// OperationalHour is the store_operational_hours table row.
type OperationalHour struct {
	ID        int64  `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	StoreID   int64  `db:"store_id" gorm:"column:store_id;not null;uniqueIndex:store_operational_hours_store_day_key,priority:1"`
	Store     *Store `db:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
	Day       string `db:"day" gorm:"column:day;size:10;not null;uniqueIndex:store_operational_hours_store_day_key,priority:2"`
	OpenTime  string `db:"open_time" gorm:"column:open_time;size:5;not null"`
	CloseTime string `db:"close_time" gorm:"column:close_time;size:5;not null"`
	IsClosed  bool   `db:"is_closed" gorm:"column:is_closed;not null"`
}

func (OperationalHour) TableName() string {
	return "store_operational_hours"
}
