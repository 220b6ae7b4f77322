package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/lifecycle"
	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
	"github.com/Plodera/Fleet-Manager-sub000/internal/services"
)

type CreateBookingInput struct {
	VehicleID      uint      `json:"vehicleId" binding:"required"`
	StartTime      time.Time `json:"startTime" binding:"required"`
	EndTime        time.Time `json:"endTime" binding:"required"`
	Destination    string    `json:"destination" binding:"required"`
	Purpose        string    `json:"purpose"`
	PassengerCount int       `json:"passengerCount" binding:"required,min=1"`
	DriveType      string    `json:"driveType" binding:"required,oneof=self driver"`
	ShareAllowed   bool      `json:"shareAllowed"`
	ApproverID     *uint     `json:"approverId"`
}

// CreateBooking files a vehicle reservation request in pending status
func CreateBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !input.EndTime.After(input.StartTime) {
			c.JSON(400, gin.H{"error": "End time must be after start time"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if input.PassengerCount > vehicle.Capacity {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Passenger count exceeds vehicle capacity of %d", vehicle.Capacity)})
			return
		}

		if input.ApproverID != nil {
			var approver models.User
			if err := db.First(&approver, *input.ApproverID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Approver not found"})
				return
			}
			if !approver.IsApprover && !approver.IsAdmin() {
				c.JSON(400, gin.H{"error": "Designated user is not an approver"})
				return
			}
		}

		booking := models.Booking{
			VehicleID:      input.VehicleID,
			UserID:         userID,
			ApproverID:     input.ApproverID,
			DriveType:      input.DriveType,
			Status:         models.BookingStatusPending,
			StartTime:      input.StartTime,
			EndTime:        input.EndTime,
			Destination:    input.Destination,
			Purpose:        input.Purpose,
			PassengerCount: input.PassengerCount,
			ShareAllowed:   input.ShareAllowed,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		if booking.ApproverID != nil {
			var approver models.User
			if err := db.First(&approver, *booking.ApproverID).Error; err == nil {
				services.Notify(db, hub, models.EventBookingCreated, &approver, services.NotifyContext{
					Booking: &booking,
					Vehicle: &vehicle,
				})
			}
		}

		c.JSON(201, booking)
	}
}

// ListBookings returns bookings visible to the caller: admins see all,
// approvers see those assigned to them plus their own, everyone else sees
// their own requests.
func ListBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		query := db.Preload("Vehicle").Preload("User").Preload("Approver").Preload("Driver").
			Order("created_at DESC")

		switch {
		case user.IsAdmin():
			// no filter
		case user.IsApprover:
			query = query.Where("user_id = ? OR approver_id = ? OR driver_id = ?", user.ID, user.ID, user.ID)
		default:
			query = query.Where("user_id = ? OR driver_id = ?", user.ID, user.ID)
		}

		var bookings []models.Booking
		if err := query.Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBooking returns one booking with its joined records
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var booking models.Booking
		if err := db.Preload("Vehicle").Preload("User").Preload("Approver").Preload("Driver").
			First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if lifecycle.ActorsFor(user, &booking) == 0 {
			c.JSON(403, gin.H{"error": "Not authorized to view this booking"})
			return
		}

		c.JSON(200, booking)
	}
}

type UpdateBookingStatusInput struct {
	Status   string `json:"status" binding:"required,oneof=pending approved rejected cancelled"`
	Reason   string `json:"reason"`
	DriverID *uint  `json:"driverId"`
}

// UpdateBookingStatus drives approval, rejection, cancellation and re-open
// through the transition table. Vehicle status mirrors the booking: approval
// marks the vehicle in_use, leaving the active set releases it.
func UpdateBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var input UpdateBookingStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.Preload("Vehicle").Preload("User").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		target := models.BookingStatus(input.Status)
		if err := lifecycle.Authorize(user, &booking, target); err != nil {
			respondTransitionError(c, err, booking.Status, target)
			return
		}

		if target == models.BookingStatusCancelled && input.Reason == "" {
			c.JSON(400, gin.H{"error": "Cancellation requires a reason"})
			return
		}

		wasActive := booking.IsActive()
		from := booking.Status
		booking.Status = target

		switch target {
		case models.BookingStatusCancelled:
			booking.CancellationReason = &input.Reason
		case models.BookingStatusApproved:
			if from == models.BookingStatusCancelled {
				booking.CancellationReason = nil
			}
			if user.ID != booking.UserID && booking.ApproverID == nil {
				booking.ApproverID = &user.ID
			}
			if input.DriverID != nil && booking.DriveType == models.DriveTypeDriver {
				var driver models.User
				if err := db.First(&driver, *input.DriverID).Error; err != nil {
					c.JSON(404, gin.H{"error": "Driver not found"})
					return
				}
				if !driver.IsDriver {
					c.JSON(400, gin.H{"error": "Designated user is not a driver"})
					return
				}
				booking.DriverID = input.DriverID
			}
		case models.BookingStatusPending:
			if from == models.BookingStatusCancelled {
				booking.CancellationReason = nil
			}
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		// Mirror vehicle status
		if target == models.BookingStatusApproved && !wasActive {
			db.Model(&models.Vehicle{}).Where("id = ?", booking.VehicleID).
				Update("status", models.VehicleStatusInUse)
		} else if wasActive && !booking.IsActive() {
			db.Model(&models.Vehicle{}).Where("id = ?", booking.VehicleID).
				Update("status", models.VehicleStatusAvailable)
		}

		if booking.User != nil {
			services.Notify(db, hub, models.EventBookingStatusChanged, booking.User, services.NotifyContext{
				Booking: &booking,
				Vehicle: booking.Vehicle,
				Actor:   user,
			})
		}

		c.JSON(200, booking)
	}
}

type StartBookingInput struct {
	StartOdometer *float64 `json:"startOdometer" binding:"required"`
}

// StartBooking records the trip start: approved -> in_progress with the
// odometer reading captured. Notifies the approver only.
func StartBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var input StartBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if *input.StartOdometer < 0 {
			c.JSON(400, gin.H{"error": "Start odometer must be a non-negative number"})
			return
		}

		var booking models.Booking
		if err := db.Preload("Vehicle").Preload("Approver").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := lifecycle.Authorize(user, &booking, models.BookingStatusInProgress); err != nil {
			respondTransitionError(c, err, booking.Status, models.BookingStatusInProgress)
			return
		}

		booking.Status = models.BookingStatusInProgress
		booking.StartOdometer = input.StartOdometer

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to start trip"})
			return
		}

		if booking.Approver != nil {
			services.Notify(db, hub, models.EventTripStarted, booking.Approver, services.NotifyContext{
				Booking:  &booking,
				Vehicle:  booking.Vehicle,
				Actor:    user,
				Odometer: input.StartOdometer,
			})
		}

		c.JSON(200, booking)
	}
}

type EndBookingInput struct {
	EndOdometer *float64 `json:"endOdometer" binding:"required"`
}

// EndBooking records the trip end: in_progress -> completed (or the legacy
// approved -> completed path), releases the vehicle and rolls its odometer
// forward. Notifies requester and approver.
func EndBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var input EndBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.Preload("Vehicle").Preload("User").Preload("Approver").
			First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := lifecycle.Authorize(user, &booking, models.BookingStatusCompleted); err != nil {
			respondTransitionError(c, err, booking.Status, models.BookingStatusCompleted)
			return
		}

		if err := booking.ValidateEndOdometer(*input.EndOdometer); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		booking.Status = models.BookingStatusCompleted
		booking.EndOdometer = input.EndOdometer

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete trip"})
			return
		}

		db.Model(&models.Vehicle{}).Where("id = ?", booking.VehicleID).
			Updates(map[string]interface{}{
				"status":   models.VehicleStatusAvailable,
				"odometer": *input.EndOdometer,
			})

		for _, recipient := range []*models.User{booking.User, booking.Approver} {
			if recipient == nil {
				continue
			}
			services.Notify(db, hub, models.EventTripEnded, recipient, services.NotifyContext{
				Booking:  &booking,
				Vehicle:  booking.Vehicle,
				Actor:    user,
				Odometer: input.EndOdometer,
			})
		}

		c.JSON(200, booking)
	}
}

// respondTransitionError maps lifecycle errors to the response taxonomy:
// an unknown edge is an invalid-state 400 naming the current status, a known
// edge with the wrong caller is a 403.
func respondTransitionError(c *gin.Context, err error, from, to models.BookingStatus) {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidState):
		c.JSON(400, gin.H{"error": fmt.Sprintf("Cannot move booking from %s to %s", from, to)})
	case errors.Is(err, lifecycle.ErrPermissionDenied):
		c.JSON(403, gin.H{"error": "Not authorized for this transition"})
	default:
		c.JSON(500, gin.H{"error": err.Error()})
	}
}
