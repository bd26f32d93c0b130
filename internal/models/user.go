package models

import "gorm.io/gorm"

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a shop account. The profile fields (name, phone, address) live on
// the same record; checkout requires the record to exist.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	FullName   string `json:"full_name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" gorm:"type:varchar(20)" validate:"omitempty,max=20"`
	Role       string `json:"role" gorm:"type:varchar(20)" validate:"omitempty,oneof=customer admin"`
	Address    string `json:"address" validate:"omitempty,max=500"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
