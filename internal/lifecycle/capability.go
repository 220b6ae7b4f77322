package lifecycle

import "github.com/Plodera/Fleet-Manager-sub000/internal/models"

// Permission tags checked against User.Permissions. Admins pass every check.
const (
	PermViewBookings      = "view_bookings"
	PermManageVehicles    = "manage_vehicles"
	PermManageUsers       = "manage_users"
	PermManageMaintenance = "manage_maintenance"
)

// CanCreateSharedTrip: shared trips are opened by approvers and admins.
func CanCreateSharedTrip(user *models.User) bool {
	return user.IsAdmin() || user.IsApprover
}

// CanDeleteSharedTrip: approver or admin, but never a driver. A user flagged
// isDriver is barred even when also flagged approver, since they may be
// operating the trip being deleted.
func CanDeleteSharedTrip(user *models.User) bool {
	if user.IsDriver {
		return false
	}
	return user.IsAdmin() || user.IsApprover
}

// CanOperateSharedTrip: admins, the trip's approver, or a driver assigned to
// one of the trip's bookings may start or end it.
func CanOperateSharedTrip(user *models.User, trip *models.SharedTrip, bookings []models.Booking) bool {
	if user.IsAdmin() || trip.ApproverID == user.ID {
		return true
	}
	for _, b := range bookings {
		if b.DriverID != nil && *b.DriverID == user.ID {
			return true
		}
	}
	return false
}
