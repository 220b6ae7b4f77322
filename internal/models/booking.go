package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusApproved   BookingStatus = "approved"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// DriveType constants
const (
	DriveTypeSelf   = "self"
	DriveTypeDriver = "driver"
)

// Booking represents a single request to use one vehicle for a time window
type Booking struct {
	gorm.Model
	VehicleID          uint          `json:"vehicleId" gorm:"not null"`
	Vehicle            *Vehicle      `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	UserID             uint          `json:"userId" gorm:"not null"`
	User               *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ApproverID         *uint         `json:"approverId,omitempty"`
	Approver           *User         `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
	DriverID           *uint         `json:"driverId,omitempty"`
	Driver             *User         `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	DriveType          string        `json:"driveType" gorm:"column:drive_type;not null;default:'self'"`
	Status             BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	StartTime          time.Time     `json:"startTime" gorm:"column:start_time;not null"`
	EndTime            time.Time     `json:"endTime" gorm:"column:end_time;not null"`
	Destination        string        `json:"destination" gorm:"not null"`
	Purpose            string        `json:"purpose"`
	PassengerCount     int           `json:"passengerCount" gorm:"column:passenger_count;not null;default:1;check:passenger_count >= 1"`
	ShareAllowed       bool          `json:"shareAllowed" gorm:"column:share_allowed;not null;default:false"`
	SharedTripID       *uint         `json:"sharedTripId,omitempty" gorm:"column:shared_trip_id"`
	StartOdometer      *float64      `json:"startOdometer,omitempty" gorm:"column:start_odometer"`
	EndOdometer        *float64      `json:"endOdometer,omitempty" gorm:"column:end_odometer"`
	CancellationReason *string       `json:"cancellationReason,omitempty" gorm:"column:cancellation_reason"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// IsActive reports whether the booking currently holds its vehicle.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusApproved || b.Status == BookingStatusInProgress
}

// ValidateEndOdometer checks an end-of-trip reading: it must be non-negative
// and, when a start reading was captured, no less than it.
func (b *Booking) ValidateEndOdometer(end float64) error {
	if end < 0 {
		return errors.New("End odometer must be a non-negative number")
	}
	if b.StartOdometer != nil && end < *b.StartOdometer {
		return fmt.Errorf("End odometer %.1f cannot be less than start odometer %.1f", end, *b.StartOdometer)
	}
	return nil
}
