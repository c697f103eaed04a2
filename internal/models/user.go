package models

import "database/sql"

// User is the users table row.
type User struct {
	ID                  int64          `db:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Email               string         `db:"email" gorm:"column:email;size:255;not null;uniqueIndex:users_email_key"`
	Username            string         `db:"username" gorm:"column:username;size:50;not null;uniqueIndex:users_username_key"`
	PasswordHash        string         `db:"password" gorm:"column:password;not null;default:''"`
	Role                string         `db:"role" gorm:"column:role;size:20;not null;default:BUYER"`
	IsVerified          bool           `db:"is_verified" gorm:"column:is_verified;not null;default:false"`
	VerificationCode    sql.NullString `db:"verification_code" gorm:"column:verification_code;size:6"`
	VerificationExpires sql.NullTime   `db:"verification_expires" gorm:"column:verification_expires"`
	RefreshToken        sql.NullString `db:"refresh_token" gorm:"column:refresh_token"`
	GoogleID            sql.NullString `db:"google_id" gorm:"column:google_id;uniqueIndex:users_google_id_key"`
	Picture             sql.NullString `db:"picture" gorm:"column:picture"`
	AuditFields
}

func (User) TableName() string {
	return "users"
}
