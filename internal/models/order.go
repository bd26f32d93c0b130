package models

import "time"

// Order status lifecycle. The conventional flow is Pending -> Confirmed ->
// Preparing -> Ready -> Delivered, but admins may set any known status directly.
const (
	StatusPending   = "Pending"
	StatusConfirmed = "Confirmed"
	StatusPreparing = "Preparing"
	StatusReady     = "Ready"
	StatusDelivered = "Delivered"
)

// Payment methods. The shop is cash-first; "Card" is a label only.
const (
	PaymentCash = "Cash"
	PaymentCard = "Card"
)

// Delivery options.
const (
	DeliveryOptionDelivery = "delivery"
	DeliveryOptionPickup   = "pickup"
)

// DriverUnassigned is the display name of an order with no driver yet.
const DriverUnassigned = "Unassigned"

// OrderItem is a single line of an order. Price is the unit price captured at
// order time and never changes afterwards, regardless of catalog edits.
type OrderItem struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

// Order is a customer order. TotalAmount always equals the sum of item
// subtotals plus the delivery fee when DeliveryOption is "delivery".
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string      `json:"user_id" gorm:"index;type:varchar(36)"`
	OrderNumber     string      `json:"order_number" gorm:"type:varchar(20)"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount     int         `json:"total_amount"`
	Phone           string      `json:"phone"`
	OrderDate       time.Time   `json:"date"`
	Status          string      `json:"status"`
	Payment         string      `json:"payment"`
	DriverID        *string     `json:"driver_id,omitempty" gorm:"type:varchar(36)"`
	DriverName      string      `json:"driver" gorm:"type:varchar(100)"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	DeliveryOption  string      `json:"delivery_option"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
