package models

import "time"

// AuditFields holds the timestamp columns shared by all tables.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `db:"updated_at" gorm:"column:updated_at;not null;autoUpdateTime"`
}
