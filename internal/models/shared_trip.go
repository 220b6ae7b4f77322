package models

import (
	"time"

	"gorm.io/gorm"
)

type SharedTripStatus string

const (
	SharedTripStatusOpen       SharedTripStatus = "open"
	SharedTripStatusFull       SharedTripStatus = "full"
	SharedTripStatusInProgress SharedTripStatus = "in_progress"
	SharedTripStatusCompleted  SharedTripStatus = "completed"
	SharedTripStatusCancelled  SharedTripStatus = "cancelled"
)

// SharedTrip is a vehicle-level capacity pool that multiple bookings draw
// seats from. TotalCapacity is fixed at creation from the vehicle's capacity;
// ReservedSeats is a cache and is recomputed from the linked bookings before
// every allocation decision.
type SharedTrip struct {
	gorm.Model
	VehicleID     uint             `json:"vehicleId" gorm:"not null"`
	Vehicle       *Vehicle         `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	ApproverID    uint             `json:"approverId" gorm:"not null"`
	Approver      *User            `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
	StartTime     time.Time        `json:"startTime" gorm:"column:start_time;not null"`
	EndTime       time.Time        `json:"endTime" gorm:"column:end_time;not null"`
	Destination   string           `json:"destination" gorm:"not null"`
	Notes         string           `json:"notes"`
	TotalCapacity int              `json:"totalCapacity" gorm:"column:total_capacity;not null"`
	ReservedSeats int              `json:"reservedSeats" gorm:"column:reserved_seats;not null;default:0"`
	Status        SharedTripStatus `json:"status" gorm:"not null;default:'open'"`
	Bookings      []Booking        `json:"bookings,omitempty" gorm:"foreignKey:SharedTripID"`
}

// TableName specifies the table name
func (SharedTrip) TableName() string {
	return "shared_trips"
}

// ReservedSeatCount sums passenger counts over non-cancelled bookings. This
// is the authoritative figure; the stored ReservedSeats column is never
// trusted for allocation decisions.
func ReservedSeatCount(bookings []Booking) int {
	total := 0
	for _, b := range bookings {
		if b.Status == BookingStatusCancelled {
			continue
		}
		total += b.PassengerCount
	}
	return total
}

// RemainingSeats returns the seats still claimable given the live bookings.
func (t *SharedTrip) RemainingSeats(bookings []Booking) int {
	return t.TotalCapacity - ReservedSeatCount(bookings)
}

// HasBookingBy reports whether the user already holds a non-cancelled
// booking on this set of trip bookings.
func HasBookingBy(bookings []Booking, userID uint) bool {
	for _, b := range bookings {
		if b.UserID == userID && b.Status != BookingStatusCancelled {
			return true
		}
	}
	return false
}

// SeatAssignment maps one physical seat number to the booking occupying it.
type SeatAssignment struct {
	Seat      int    `json:"seat"`
	BookingID uint   `json:"bookingId"`
	UserID    uint   `json:"userId"`
	Username  string `json:"username,omitempty"`
}

// SeatAssignments lays passengers out greedily in join order: the first
// joined party takes the first PassengerCount seats, and so on. Purely
// presentational; callers must pass bookings ordered by creation.
func SeatAssignments(bookings []Booking) []SeatAssignment {
	var seats []SeatAssignment
	next := 1
	for _, b := range bookings {
		if b.Status == BookingStatusCancelled {
			continue
		}
		for i := 0; i < b.PassengerCount; i++ {
			seat := SeatAssignment{Seat: next, BookingID: b.ID, UserID: b.UserID}
			if b.User != nil {
				seat.Username = b.User.Username
			}
			seats = append(seats, seat)
			next++
		}
	}
	return seats
}
