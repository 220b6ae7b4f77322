package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Plodera/Fleet-Manager-sub000/internal/lifecycle"
	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
	"github.com/Plodera/Fleet-Manager-sub000/internal/services"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/logger"
)

// Shared trips are reserved for larger vehicles.
const sharedTripMinCapacity = 5

var (
	errTripNotFound  = errors.New("shared trip not found")
	errTripNotOpen   = errors.New("shared trip is not open for joining")
	errAlreadyJoined = errors.New("you already have a booking on this trip")
)

// capacityError carries the remaining seat count for the join failure message.
type capacityError struct {
	remaining int
}

func (e capacityError) Error() string {
	return fmt.Sprintf("only %d seats available", e.remaining)
}

type CreateSharedTripInput struct {
	VehicleID   uint      `json:"vehicleId" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
	Destination string    `json:"destination" binding:"required"`
	Notes       string    `json:"notes"`
}

// CreateSharedTrip opens a seat pool on a large vehicle. Capacity, reserved
// seats, status and approver are all server-derived; client-supplied values
// for them are ignored.
func CreateSharedTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !lifecycle.CanCreateSharedTrip(user) {
			c.JSON(403, gin.H{"error": "Only approvers and admins can create shared trips"})
			return
		}

		var input CreateSharedTripInput
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
		if vehicle.Capacity <= sharedTripMinCapacity {
			c.JSON(400, gin.H{"error": fmt.Sprintf(
				"Shared trips require a vehicle with more than %d seats", sharedTripMinCapacity)})
			return
		}
		if vehicle.Status != models.VehicleStatusAvailable {
			c.JSON(400, gin.H{"error": "Vehicle is not available"})
			return
		}

		trip := models.SharedTrip{
			VehicleID:     vehicle.ID,
			ApproverID:    user.ID,
			StartTime:     input.StartTime,
			EndTime:       input.EndTime,
			Destination:   input.Destination,
			Notes:         input.Notes,
			TotalCapacity: vehicle.Capacity,
			ReservedSeats: 0,
			Status:        models.SharedTripStatusOpen,
		}

		if err := db.Create(&trip).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create shared trip"})
			return
		}

		c.JSON(201, trip)
	}
}

// ListSharedTrips returns trips with vehicle, approver and passenger bookings
func ListSharedTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Vehicle").Preload("Approver").
			Preload("Bookings", func(db *gorm.DB) *gorm.DB {
				return db.Order("bookings.created_at")
			}).
			Preload("Bookings.User").
			Order("created_at DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var trips []models.SharedTrip
		if err := query.Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch shared trips"})
			return
		}
		c.JSON(200, trips)
	}
}

// GetSharedTrip returns one trip plus the presentational seat map: seats are
// handed out greedily in passenger-join order.
func GetSharedTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var trip models.SharedTrip
		if err := db.Preload("Vehicle").Preload("Approver").
			Preload("Bookings", func(db *gorm.DB) *gorm.DB {
				return db.Order("bookings.created_at")
			}).
			Preload("Bookings.User").
			First(&trip, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shared trip not found"})
			return
		}

		c.JSON(200, gin.H{
			"trip":           trip,
			"seats":          models.SeatAssignments(trip.Bookings),
			"remainingSeats": trip.RemainingSeats(trip.Bookings),
		})
	}
}

type JoinSharedTripInput struct {
	PassengerCount int    `json:"passengerCount" binding:"required,min=1"`
	Purpose        string `json:"purpose"`
	ContactName    string `json:"contactName"`
	ContactPhone   string `json:"contactPhone"`
}

// JoinSharedTrip claims seats on an open trip. The reserved total is
// recomputed from the live bookings inside a transaction holding a row lock
// on the trip, so concurrent joins cannot oversell against a stale counter.
// The created booking is pre-approved: the trip's approver already
// authorized the pool.
func JoinSharedTrip(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermViewBookings) {
			c.JSON(403, gin.H{"error": "Not authorized to join shared trips"})
			return
		}

		var input JoinSharedTripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		var trip models.SharedTrip

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&trip, c.Param("id")).Error; err != nil {
				return errTripNotFound
			}
			if trip.Status != models.SharedTripStatusOpen {
				return errTripNotOpen
			}

			var linked []models.Booking
			if err := tx.Where("shared_trip_id = ?", trip.ID).Find(&linked).Error; err != nil {
				return err
			}
			if models.HasBookingBy(linked, user.ID) {
				return errAlreadyJoined
			}

			reserved := models.ReservedSeatCount(linked)
			remaining := trip.TotalCapacity - reserved
			if input.PassengerCount > remaining {
				return capacityError{remaining: remaining}
			}

			approverID := trip.ApproverID
			booking = models.Booking{
				VehicleID:      trip.VehicleID,
				UserID:         user.ID,
				ApproverID:     &approverID,
				DriveType:      models.DriveTypeDriver,
				Status:         models.BookingStatusApproved,
				StartTime:      trip.StartTime,
				EndTime:        trip.EndTime,
				Destination:    trip.Destination,
				Purpose:        input.Purpose,
				PassengerCount: input.PassengerCount,
				ShareAllowed:   true,
				SharedTripID:   &trip.ID,
			}
			if err := tx.Create(&booking).Error; err != nil {
				return err
			}

			trip.ReservedSeats = reserved + input.PassengerCount
			if trip.ReservedSeats >= trip.TotalCapacity {
				trip.Status = models.SharedTripStatusFull
			}
			return tx.Model(&models.SharedTrip{}).Where("id = ?", trip.ID).
				Updates(map[string]interface{}{
					"reserved_seats": trip.ReservedSeats,
					"status":         trip.Status,
				}).Error
		})

		if err != nil {
			var capErr capacityError
			switch {
			case errors.Is(err, errTripNotFound):
				c.JSON(404, gin.H{"error": err.Error()})
			case errors.Is(err, errTripNotOpen), errors.Is(err, errAlreadyJoined):
				c.JSON(400, gin.H{"error": err.Error()})
			case errors.As(err, &capErr):
				c.JSON(400, gin.H{"error": capErr.Error()})
			default:
				c.JSON(500, gin.H{"error": "Failed to join shared trip"})
			}
			return
		}

		broadcastSeatUpdate(hub, &trip)
		if err := services.PublishTripUpdate(c.Request.Context(), trip.ID, string(trip.Status)); err != nil {
			logger.Warnf("failed to publish trip update: %v", err)
		}

		c.JSON(201, gin.H{
			"booking":        booking,
			"reservedSeats":  trip.ReservedSeats,
			"remainingSeats": trip.TotalCapacity - trip.ReservedSeats,
		})
	}
}

type tripStatusChange struct {
	from []models.SharedTripStatus
	to   models.SharedTripStatus
}

// StartSharedTrip moves a trip from open/full to in_progress and marks the
// vehicle in use.
func StartSharedTrip(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return updateSharedTripStatus(db, hub, tripStatusChange{
		from: []models.SharedTripStatus{models.SharedTripStatusOpen, models.SharedTripStatusFull},
		to:   models.SharedTripStatusInProgress,
	})
}

// EndSharedTrip completes an in-progress trip and releases the vehicle.
func EndSharedTrip(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return updateSharedTripStatus(db, hub, tripStatusChange{
		from: []models.SharedTripStatus{models.SharedTripStatusInProgress},
		to:   models.SharedTripStatusCompleted,
	})
}

func updateSharedTripStatus(db *gorm.DB, hub *services.Hub, change tripStatusChange) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		var trip models.SharedTrip
		if err := db.Preload("Vehicle").Preload("Bookings").Preload("Bookings.User").
			First(&trip, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shared trip not found"})
			return
		}

		if !lifecycle.CanOperateSharedTrip(user, &trip, trip.Bookings) {
			c.JSON(403, gin.H{"error": "Not authorized to operate this trip"})
			return
		}

		allowed := false
		for _, s := range change.from {
			if trip.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			c.JSON(400, gin.H{"error": fmt.Sprintf("Cannot move trip from %s to %s", trip.Status, change.to)})
			return
		}

		trip.Status = change.to
		if err := db.Model(&models.SharedTrip{}).Where("id = ?", trip.ID).
			Update("status", change.to).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update trip status"})
			return
		}

		vehicleStatus := models.VehicleStatusInUse
		event := models.EventTripStarted
		if change.to == models.SharedTripStatusCompleted {
			vehicleStatus = models.VehicleStatusAvailable
			event = models.EventTripEnded
		}
		db.Model(&models.Vehicle{}).Where("id = ?", trip.VehicleID).
			Update("status", vehicleStatus)

		for i := range trip.Bookings {
			if trip.Bookings[i].User == nil {
				continue
			}
			services.Notify(db, hub, event, trip.Bookings[i].User, services.NotifyContext{
				Booking: &trip.Bookings[i],
				Vehicle: trip.Vehicle,
				Actor:   user,
			})
		}

		broadcastSeatUpdate(hub, &trip)
		if err := services.PublishTripUpdate(c.Request.Context(), trip.ID, string(trip.Status)); err != nil {
			logger.Warnf("failed to publish trip update: %v", err)
		}

		c.JSON(200, trip)
	}
}

// DeleteSharedTrip removes a trip and cascades to its bookings. Drivers are
// barred even when also flagged approver.
func DeleteSharedTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !lifecycle.CanDeleteSharedTrip(user) {
			c.JSON(403, gin.H{"error": "Drivers may not delete shared trips"})
			return
		}

		var trip models.SharedTrip
		if err := db.First(&trip, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Shared trip not found"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("shared_trip_id = ?", trip.ID).Delete(&models.Booking{}).Error; err != nil {
				return err
			}
			return tx.Delete(&trip).Error
		})
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete shared trip"})
			return
		}

		c.JSON(200, gin.H{"message": "Shared trip and its bookings deleted"})
	}
}

func broadcastSeatUpdate(hub *services.Hub, trip *models.SharedTrip) {
	if hub == nil {
		return
	}
	update := services.TripSeatUpdate{
		TripID:        trip.ID,
		ReservedSeats: trip.ReservedSeats,
		TotalCapacity: trip.TotalCapacity,
		Status:        string(trip.Status),
	}
	if payload, err := json.Marshal(services.WebSocketMessage{Type: "trip_seats", Data: update}); err == nil {
		hub.Broadcast(payload)
	}
}
