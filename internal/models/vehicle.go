package models

import "gorm.io/gorm"

// VehicleStatus constants
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusInUse       = "in_use"
	VehicleStatusMaintenance = "maintenance"
	VehicleStatusUnavailable = "unavailable"
)

// Vehicle represents a fleet vehicle
type Vehicle struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	PlateNumber  string `json:"plateNumber" gorm:"column:plate_number;unique;not null"`
	Make         string `json:"make"`
	VehicleModel string `json:"model" gorm:"column:vehicle_model"`
	Year         int    `json:"year"`
	Capacity     int    `json:"capacity" gorm:"not null;check:capacity >= 1"`
	Status       string `json:"status" gorm:"not null;default:'available'"`
	Odometer     float64 `json:"odometer" gorm:"not null;default:0"`
	PhotoURL     string `json:"photoUrl" gorm:"column:photo_url"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}
