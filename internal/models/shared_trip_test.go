package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReservedSeatCountIgnoresCancelled(t *testing.T) {
	bookings := []Booking{
		{PassengerCount: 3, Status: BookingStatusApproved},
		{PassengerCount: 2, Status: BookingStatusInProgress},
		{PassengerCount: 4, Status: BookingStatusCancelled},
	}

	assert.Equal(t, 5, ReservedSeatCount(bookings))
}

func TestRemainingSeats(t *testing.T) {
	trip := &SharedTrip{TotalCapacity: 7}

	assert.Equal(t, 7, trip.RemainingSeats(nil))
	assert.Equal(t, 4, trip.RemainingSeats([]Booking{{PassengerCount: 3, Status: BookingStatusApproved}}))
}

// Mirrors the allocator's guard: on a capacity-7 trip, joins of 3+3 succeed
// and a third join of 3 must fail with only 1 seat left. The stored counter
// plays no part; the decision comes from the live booking sum every time.
func TestJoinGuardNeverOversells(t *testing.T) {
	trip := &SharedTrip{TotalCapacity: 7}
	var bookings []Booking

	join := func(n int) bool {
		if n > trip.RemainingSeats(bookings) {
			return false
		}
		bookings = append(bookings, Booking{PassengerCount: n, Status: BookingStatusApproved})
		return true
	}

	require.True(t, join(3))
	require.True(t, join(3))
	assert.False(t, join(3), "third join must fail: only 1 seat remains")

	assert.Equal(t, 6, ReservedSeatCount(bookings))
	assert.Equal(t, 1, trip.RemainingSeats(bookings))

	// A stale cached counter must not rescue an oversized join
	trip.ReservedSeats = 0
	assert.False(t, join(3))
}

func TestJoinGuardTrustsRecomputeAfterCancellation(t *testing.T) {
	trip := &SharedTrip{TotalCapacity: 7, ReservedSeats: 7}
	bookings := []Booking{
		{PassengerCount: 4, Status: BookingStatusApproved},
		{PassengerCount: 3, Status: BookingStatusCancelled},
	}

	// The cache says full, but the live sum has 3 seats free again
	assert.Equal(t, 3, trip.RemainingSeats(bookings))
}

func TestHasBookingBy(t *testing.T) {
	bookings := []Booking{
		{UserID: 2, Status: BookingStatusApproved},
		{UserID: 3, Status: BookingStatusCancelled},
	}

	assert.True(t, HasBookingBy(bookings, 2))
	// A cancelled booking does not block re-joining
	assert.False(t, HasBookingBy(bookings, 3))
	assert.False(t, HasBookingBy(bookings, 4))
}

func TestSeatAssignmentsGreedyJoinOrder(t *testing.T) {
	alice := &User{Model: gorm.Model{ID: 2}, Username: "alice"}
	bob := &User{Model: gorm.Model{ID: 3}, Username: "bob"}
	bookings := []Booking{
		{Model: gorm.Model{ID: 11}, UserID: 2, User: alice, PassengerCount: 3, Status: BookingStatusApproved},
		{Model: gorm.Model{ID: 12}, UserID: 9, PassengerCount: 2, Status: BookingStatusCancelled},
		{Model: gorm.Model{ID: 13}, UserID: 3, User: bob, PassengerCount: 2, Status: BookingStatusApproved},
	}

	seats := SeatAssignments(bookings)
	require.Len(t, seats, 5)

	// First party fills seats 1-3, second non-cancelled party takes 4-5
	for i, seat := range seats {
		assert.Equal(t, i+1, seat.Seat)
	}
	assert.Equal(t, uint(11), seats[0].BookingID)
	assert.Equal(t, "alice", seats[2].Username)
	assert.Equal(t, uint(13), seats[3].BookingID)
	assert.Equal(t, "bob", seats[4].Username)
}
