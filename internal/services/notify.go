package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/logger"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/utils"
)

// NotifyContext carries the entities a notification message is built from.
type NotifyContext struct {
	Booking  *models.Booking
	Vehicle  *models.Vehicle
	Actor    *models.User
	Odometer *float64
}

// Notify delivers a lifecycle event to one recipient over every configured
// channel: persisted in-app row, WebSocket push, Redis pub/sub, email.
// Delivery is fire-and-forget; failures are logged and never propagate, so a
// notification problem cannot fail or roll back a state transition.
func Notify(db *gorm.DB, hub *Hub, event string, recipient *models.User, nc NotifyContext) {
	if recipient == nil {
		return
	}

	message := buildMessage(event, nc)

	notification := models.Notification{
		UserID:  recipient.ID,
		Event:   event,
		Message: message,
	}
	if nc.Booking != nil {
		notification.BookingID = &nc.Booking.ID
	}
	if err := db.Create(&notification).Error; err != nil {
		logger.Errorf("failed to persist notification for user %d: %v", recipient.ID, err)
	}

	if hub != nil && nc.Booking != nil {
		update := BookingStatusUpdate{
			BookingID: nc.Booking.ID,
			VehicleID: nc.Booking.VehicleID,
			Status:    string(nc.Booking.Status),
			Message:   message,
		}
		if payload, err := json.Marshal(WebSocketMessage{Type: event, Data: update}); err == nil {
			hub.BroadcastToUser(recipient.ID, payload)
		}
	}

	if RedisClient != nil && nc.Booking != nil {
		if err := PublishBookingUpdate(context.Background(), nc.Booking.ID, string(nc.Booking.Status), map[string]interface{}{
			"event":     event,
			"recipient": recipient.ID,
		}); err != nil {
			logger.Warnf("failed to publish booking update: %v", err)
		}
	}

	sendNotificationEmail(event, recipient, nc)
}

func buildMessage(event string, nc NotifyContext) string {
	vehicleName := "vehicle"
	if nc.Vehicle != nil {
		vehicleName = nc.Vehicle.Name
	}

	switch event {
	case models.EventBookingCreated:
		return fmt.Sprintf("New booking request for %s", vehicleName)
	case models.EventBookingStatusChanged:
		status := ""
		if nc.Booking != nil {
			status = string(nc.Booking.Status)
		}
		return fmt.Sprintf("Your booking for %s is now %s", vehicleName, status)
	case models.EventTripStarted:
		if nc.Odometer != nil {
			return fmt.Sprintf("Trip on %s started at odometer %.1f", vehicleName, *nc.Odometer)
		}
		return fmt.Sprintf("Trip on %s started", vehicleName)
	case models.EventTripEnded:
		if nc.Odometer != nil {
			return fmt.Sprintf("Trip on %s ended at odometer %.1f", vehicleName, *nc.Odometer)
		}
		return fmt.Sprintf("Trip on %s ended", vehicleName)
	}
	return fmt.Sprintf("Update for %s", vehicleName)
}

func sendNotificationEmail(event string, recipient *models.User, nc NotifyContext) {
	vehicleName := "vehicle"
	if nc.Vehicle != nil {
		vehicleName = nc.Vehicle.Name
	}

	var err error
	switch event {
	case models.EventTripStarted, models.EventTripEnded:
		odometer := 0.0
		if nc.Odometer != nil {
			odometer = *nc.Odometer
		}
		verb := "started"
		if event == models.EventTripEnded {
			verb = "ended"
		}
		err = utils.SendTripEventEmail(recipient.Email, recipient.Username, vehicleName, verb, odometer)
	default:
		status := ""
		if nc.Booking != nil {
			status = string(nc.Booking.Status)
		}
		err = utils.SendBookingStatusEmail(recipient.Email, recipient.Username, vehicleName, status)
	}
	if err != nil {
		logger.Warnf("failed to send notification email to %s: %v", recipient.Email, err)
	}
}
