package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

func TestCanCreateSharedTrip(t *testing.T) {
	assert.True(t, CanCreateSharedTrip(&models.User{Role: models.RoleAdmin}))
	assert.True(t, CanCreateSharedTrip(&models.User{Role: models.RoleStaff, IsApprover: true}))
	assert.False(t, CanCreateSharedTrip(&models.User{Role: models.RoleStaff}))
	assert.False(t, CanCreateSharedTrip(&models.User{Role: models.RoleCustomer}))
}

func TestCanDeleteSharedTripBarsDrivers(t *testing.T) {
	assert.True(t, CanDeleteSharedTrip(&models.User{Role: models.RoleStaff, IsApprover: true}))
	assert.True(t, CanDeleteSharedTrip(&models.User{Role: models.RoleAdmin}))

	// Drivers are barred even when also flagged approver or admin
	assert.False(t, CanDeleteSharedTrip(&models.User{Role: models.RoleStaff, IsApprover: true, IsDriver: true}))
	assert.False(t, CanDeleteSharedTrip(&models.User{Role: models.RoleAdmin, IsDriver: true}))
	assert.False(t, CanDeleteSharedTrip(&models.User{Role: models.RoleCustomer}))
}

func TestCanOperateSharedTrip(t *testing.T) {
	driverID := uint(20)
	trip := &models.SharedTrip{Model: gorm.Model{ID: 5}, ApproverID: 10}
	bookings := []models.Booking{
		{UserID: 2, PassengerCount: 3},
		{UserID: 3, PassengerCount: 2, DriverID: &driverID},
	}

	assert.True(t, CanOperateSharedTrip(&models.User{Model: gorm.Model{ID: 1}, Role: models.RoleAdmin}, trip, bookings))
	assert.True(t, CanOperateSharedTrip(&models.User{Model: gorm.Model{ID: 10}, Role: models.RoleStaff}, trip, bookings))
	assert.True(t, CanOperateSharedTrip(&models.User{Model: gorm.Model{ID: 20}, Role: models.RoleStaff, IsDriver: true}, trip, bookings))

	// A passenger without any other relationship cannot operate the trip
	assert.False(t, CanOperateSharedTrip(&models.User{Model: gorm.Model{ID: 2}, Role: models.RoleCustomer}, trip, bookings))
}

func TestHasPermission(t *testing.T) {
	staff := &models.User{Role: models.RoleStaff, Permissions: []string{PermViewBookings}}
	assert.True(t, staff.HasPermission(PermViewBookings))
	assert.False(t, staff.HasPermission(PermManageVehicles))

	admin := &models.User{Role: models.RoleAdmin}
	assert.True(t, admin.HasPermission(PermManageVehicles))
	assert.True(t, admin.HasPermission("anything_at_all"))
}
