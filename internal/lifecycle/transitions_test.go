package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

func user(id uint, role models.UserRole) *models.User {
	return &models.User{Model: gorm.Model{ID: id}, Role: role}
}

func booking(status models.BookingStatus, requester uint, approver, driver *uint) *models.Booking {
	return &models.Booking{
		Model:      gorm.Model{ID: 1},
		UserID:     requester,
		ApproverID: approver,
		DriverID:   driver,
		Status:     status,
	}
}

func TestAuthorizeRejectsMissingEdges(t *testing.T) {
	admin := user(1, models.RoleAdmin)

	cases := []struct {
		from models.BookingStatus
		to   models.BookingStatus
	}{
		{models.BookingStatusPending, models.BookingStatusInProgress},
		{models.BookingStatusPending, models.BookingStatusCompleted},
		{models.BookingStatusCompleted, models.BookingStatusPending},
		{models.BookingStatusCompleted, models.BookingStatusCancelled},
		{models.BookingStatusRejected, models.BookingStatusApproved},
		{models.BookingStatusInProgress, models.BookingStatusApproved},
		{models.BookingStatusCancelled, models.BookingStatusCompleted},
	}

	for _, tc := range cases {
		b := booking(tc.from, 2, nil, nil)
		err := Authorize(admin, b, tc.to)
		assert.ErrorIs(t, err, ErrInvalidState, "%s -> %s should not be an edge", tc.from, tc.to)
	}
}

func TestApprovalRequiresApproverOrAdmin(t *testing.T) {
	approverID := uint(10)
	b := booking(models.BookingStatusPending, 2, &approverID, nil)

	require.NoError(t, Authorize(user(10, models.RoleStaff), b, models.BookingStatusApproved))
	require.NoError(t, Authorize(user(1, models.RoleAdmin), b, models.BookingStatusApproved))

	// The requester cannot approve their own booking
	assert.ErrorIs(t, Authorize(user(2, models.RoleCustomer), b, models.BookingStatusApproved), ErrPermissionDenied)
	// Neither can an unrelated staff member
	assert.ErrorIs(t, Authorize(user(99, models.RoleStaff), b, models.BookingStatusApproved), ErrPermissionDenied)
}

func TestStartAndEndAllowDriverApproverAdmin(t *testing.T) {
	approverID := uint(10)
	driverID := uint(20)

	start := booking(models.BookingStatusApproved, 2, &approverID, &driverID)
	require.NoError(t, Authorize(user(20, models.RoleStaff), start, models.BookingStatusInProgress))
	require.NoError(t, Authorize(user(10, models.RoleStaff), start, models.BookingStatusInProgress))
	require.NoError(t, Authorize(user(1, models.RoleAdmin), start, models.BookingStatusInProgress))
	assert.ErrorIs(t, Authorize(user(2, models.RoleCustomer), start, models.BookingStatusInProgress), ErrPermissionDenied)

	end := booking(models.BookingStatusInProgress, 2, &approverID, &driverID)
	require.NoError(t, Authorize(user(20, models.RoleStaff), end, models.BookingStatusCompleted))
	assert.ErrorIs(t, Authorize(user(2, models.RoleCustomer), end, models.BookingStatusCompleted), ErrPermissionDenied)
}

func TestLegacyDirectCompletionEdgeExists(t *testing.T) {
	approverID := uint(10)
	b := booking(models.BookingStatusApproved, 2, &approverID, nil)
	require.NoError(t, Authorize(user(10, models.RoleStaff), b, models.BookingStatusCompleted))
}

func TestReopenIsTheOnlyBackwardEdge(t *testing.T) {
	approverID := uint(10)
	b := booking(models.BookingStatusCancelled, 2, &approverID, nil)

	require.NoError(t, Authorize(user(10, models.RoleStaff), b, models.BookingStatusApproved))
	require.NoError(t, Authorize(user(10, models.RoleStaff), b, models.BookingStatusPending))
	require.NoError(t, Authorize(user(1, models.RoleAdmin), b, models.BookingStatusApproved))

	assert.ErrorIs(t, Authorize(user(2, models.RoleCustomer), b, models.BookingStatusApproved), ErrPermissionDenied)
}

func TestCancellationFromNonTerminalStates(t *testing.T) {
	approverID := uint(10)
	for _, from := range []models.BookingStatus{
		models.BookingStatusPending,
		models.BookingStatusApproved,
		models.BookingStatusInProgress,
	} {
		b := booking(from, 2, &approverID, nil)
		require.NoError(t, Authorize(user(10, models.RoleStaff), b, models.BookingStatusCancelled), "from %s", from)
		assert.ErrorIs(t, Authorize(user(2, models.RoleCustomer), b, models.BookingStatusCancelled), ErrPermissionDenied)
	}
}

func TestActorsForComposesMask(t *testing.T) {
	approverID := uint(10)
	driverID := uint(2)
	// Requester is also the assigned driver
	b := booking(models.BookingStatusApproved, 2, &approverID, &driverID)

	mask := ActorsFor(user(2, models.RoleCustomer), b)
	assert.NotZero(t, mask&Requester)
	assert.NotZero(t, mask&Driver)
	assert.Zero(t, mask&Approver)
	assert.Zero(t, mask&Admin)

	assert.Zero(t, ActorsFor(user(77, models.RoleStaff), b))
}
