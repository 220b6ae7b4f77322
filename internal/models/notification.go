package models

import "gorm.io/gorm"

// NotificationEvent constants
const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventTripStarted          = "trip_started"
	EventTripEnded            = "trip_ended"
)

// Notification is a persisted in-app message about a lifecycle event.
type Notification struct {
	gorm.Model
	UserID    uint   `json:"userId" gorm:"not null;index"`
	User      *User  `json:"-" gorm:"foreignKey:UserID"`
	Event     string `json:"event" gorm:"not null"`
	Message   string `json:"message" gorm:"not null"`
	BookingID *uint  `json:"bookingId,omitempty" gorm:"column:booking_id"`
	Read      bool   `json:"read" gorm:"not null;default:false"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "notifications"
}
