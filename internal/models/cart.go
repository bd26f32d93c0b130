package models

import "time"

// CartItem is one row of the remote cart store: (user, product) -> quantity.
type CartItem struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"primaryKey;type:varchar(36)"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is the in-memory cart view: a catalog product joined with the
// quantity the shopper is holding.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns the line total in pesos.
func (l CartLine) Subtotal() int {
	return l.Product.Price * l.Quantity
}
