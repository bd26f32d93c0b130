package models

import "gorm.io/gorm"

// Product represents a flower arrangement in the catalog.
// Price is a whole-peso amount; the shop does not use fractional prices.
type Product struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string     `json:"name" validate:"required,min=3,max=100"`
	Description string     `json:"description" validate:"omitempty,max=500"`
	Price       int        `json:"price" validate:"required,gt=0"`
	Image       string     `json:"image" validate:"omitempty,max=500"`
	Badge       string     `json:"badge" validate:"omitempty,max=50"`
	Categories  []Category `json:"categories,omitempty" gorm:"many2many:product_categories"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Category groups products for display (e.g. "Bouquets", "Sympathy").
type Category struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	gorm.Model
}
