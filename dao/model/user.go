package model

import "gorm.io/gorm"

// User can log in and manage projects
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;type:varchar(128);not null;comment:login email, lowercased"`
	PasswordHash string `gorm:"type:varchar(256);not null;comment:bcrypt hash"`
	Role         Role   `gorm:"not null;comment:platform role (staff, admin)"`
}
