package models

import "gorm.io/gorm"

// Driver statuses.
const (
	DriverActive   = "active"
	DriverInactive = "inactive"
)

// Driver is a delivery driver available for order assignment.
type Driver struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	ProfileID     string `json:"profile_id" gorm:"type:varchar(36)" validate:"omitempty,uuid"`
	Name          string `json:"name" validate:"required,min=2,max=100"`
	VehicleNumber string `json:"vehicle_number" validate:"omitempty,max=20"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
	IsAvailable   bool   `json:"is_available"`
	gorm.Model
}
