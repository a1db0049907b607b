// Package model contains the GORM persistence models.
package model

import "time"

// UserModel mirrors the 'users' table.
type UserModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Password  string `gorm:"type:varchar(128);not null"`
	Name      string `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time
	Enabled   bool `gorm:"not null;default:true"`

	Roles []UserRoleModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserRoleModel mirrors the 'user_roles' table. The composite primary key
// makes (user_id, role) the only uniqueness constraint, so a user holds each
// role at most once and upserts target the right columns.
type UserRoleModel struct {
	UserID int64  `gorm:"primaryKey;autoIncrement:false"`
	Role   string `gorm:"type:varchar(16);primaryKey"`
}

// TableName explicitly sets the table name for GORM.
func (UserRoleModel) TableName() string {
	return "user_roles"
}
