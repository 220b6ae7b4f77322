package models

import (
	"time"

	"gorm.io/gorm"
)

// MaintenanceStatus constants
const (
	MaintenanceStatusOpen      = "open"
	MaintenanceStatusCompleted = "completed"
)

// MaintenanceRecord tracks servicing work on a vehicle. While a record is
// open the vehicle is held in maintenance status.
type MaintenanceRecord struct {
	gorm.Model
	VehicleID   uint       `json:"vehicleId" gorm:"not null"`
	Vehicle     *Vehicle   `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	ReportedBy  uint       `json:"reportedBy" gorm:"column:reported_by;not null"`
	Reporter    *User      `json:"reporter,omitempty" gorm:"foreignKey:ReportedBy"`
	Description string     `json:"description" gorm:"not null"`
	Cost        float64    `json:"cost"`
	Status      string     `json:"status" gorm:"not null;default:'open'"`
	CompletedAt *time.Time `json:"completedAt,omitempty" gorm:"column:completed_at"`
}

// TableName specifies the table name
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}
