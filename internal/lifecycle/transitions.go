package lifecycle

import "github.com/Plodera/Fleet-Manager-sub000/internal/models"

// Actor is a bitmask of the caller's relationships to a booking.
type Actor uint8

const (
	Requester Actor = 1 << iota
	Approver        // the booking's designated approver
	Driver          // the booking's assigned driver
	Admin
)

// Transition is one edge of the booking state machine.
type Transition struct {
	From models.BookingStatus
	To   models.BookingStatus
}

// transitionTable lists every permitted edge and the actors allowed to take
// it. Any (from, to) pair absent from this table is rejected outright.
var transitionTable = map[Transition]Actor{
	// Approval path
	{models.BookingStatusPending, models.BookingStatusApproved}: Approver | Admin,
	{models.BookingStatusPending, models.BookingStatusRejected}: Approver | Admin,
	{models.BookingStatusPending, models.BookingStatusPending}:  Approver | Admin, // no-op resubmit
	{models.BookingStatusApproved, models.BookingStatusRejected}: Approver | Admin,

	// Cancellation from any non-terminal state
	{models.BookingStatusPending, models.BookingStatusCancelled}:    Approver | Admin,
	{models.BookingStatusApproved, models.BookingStatusCancelled}:   Approver | Admin,
	{models.BookingStatusInProgress, models.BookingStatusCancelled}: Approver | Admin,

	// Trip execution
	{models.BookingStatusApproved, models.BookingStatusInProgress}:  Driver | Approver | Admin,
	{models.BookingStatusInProgress, models.BookingStatusCompleted}: Driver | Approver | Admin,
	// Legacy direct completion kept for older clients that skip the start call
	{models.BookingStatusApproved, models.BookingStatusCompleted}: Driver | Approver | Admin,

	// Re-open, the one backward edge
	{models.BookingStatusCancelled, models.BookingStatusPending}:  Approver | Admin,
	{models.BookingStatusCancelled, models.BookingStatusApproved}: Approver | Admin,
}

// ActorsFor derives the caller's actor mask for a booking.
func ActorsFor(user *models.User, booking *models.Booking) Actor {
	var a Actor
	if user.IsAdmin() {
		a |= Admin
	}
	if booking.UserID == user.ID {
		a |= Requester
	}
	if booking.ApproverID != nil && *booking.ApproverID == user.ID {
		a |= Approver
	}
	if booking.DriverID != nil && *booking.DriverID == user.ID {
		a |= Driver
	}
	return a
}

// AllowedActors looks up the edge in the transition table.
func AllowedActors(from, to models.BookingStatus) (Actor, bool) {
	actors, ok := transitionTable[Transition{From: from, To: to}]
	return actors, ok
}

// Authorize checks a requested transition for a caller. It returns
// ErrInvalidState when the edge does not exist and ErrPermissionDenied when
// it exists but the caller's actor mask does not intersect the allowed set.
func Authorize(user *models.User, booking *models.Booking, to models.BookingStatus) error {
	allowed, ok := AllowedActors(booking.Status, to)
	if !ok {
		return ErrInvalidState
	}
	if ActorsFor(user, booking)&allowed == 0 {
		return ErrPermissionDenied
	}
	return nil
}
