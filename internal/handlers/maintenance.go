package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/lifecycle"
	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

type CreateMaintenanceInput struct {
	VehicleID   uint    `json:"vehicleId" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Cost        float64 `json:"cost"`
}

// CreateMaintenance opens a maintenance record and takes the vehicle out of
// service. Refused while a booking holds the vehicle.
func CreateMaintenance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageMaintenance) {
			c.JSON(403, gin.H{"error": "Not authorized to manage maintenance"})
			return
		}

		var input CreateMaintenanceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, input.VehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var active int64
		db.Model(&models.Booking{}).
			Where("vehicle_id = ? AND status IN ?", vehicle.ID,
				[]models.BookingStatus{models.BookingStatusApproved, models.BookingStatusInProgress}).
			Count(&active)
		if active > 0 {
			c.JSON(400, gin.H{"error": "Vehicle has an active booking and cannot enter maintenance"})
			return
		}

		record := models.MaintenanceRecord{
			VehicleID:   vehicle.ID,
			ReportedBy:  user.ID,
			Description: input.Description,
			Cost:        input.Cost,
			Status:      models.MaintenanceStatusOpen,
		}

		if err := db.Create(&record).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create maintenance record"})
			return
		}

		db.Model(&vehicle).Update("status", models.VehicleStatusMaintenance)

		c.JSON(201, record)
	}
}

// ListMaintenance returns maintenance records, optionally for one vehicle
func ListMaintenance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Vehicle").Preload("Reporter").Order("created_at DESC")
		if vehicleID := c.Query("vehicleId"); vehicleID != "" {
			query = query.Where("vehicle_id = ?", vehicleID)
		}

		var records []models.MaintenanceRecord
		if err := query.Find(&records).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch maintenance records"})
			return
		}
		c.JSON(200, records)
	}
}

// CompleteMaintenance closes a record and returns the vehicle to service
func CompleteMaintenance(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageMaintenance) {
			c.JSON(403, gin.H{"error": "Not authorized to manage maintenance"})
			return
		}

		var input struct {
			Cost *float64 `json:"cost"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var record models.MaintenanceRecord
		if err := db.First(&record, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Maintenance record not found"})
			return
		}
		if record.Status != models.MaintenanceStatusOpen {
			c.JSON(400, gin.H{"error": "Maintenance record is already completed"})
			return
		}

		now := time.Now()
		record.Status = models.MaintenanceStatusCompleted
		record.CompletedAt = &now
		if input.Cost != nil {
			record.Cost = *input.Cost
		}

		if err := db.Save(&record).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete maintenance record"})
			return
		}

		db.Model(&models.Vehicle{}).Where("id = ?", record.VehicleID).
			Update("status", models.VehicleStatusAvailable)

		c.JSON(200, record)
	}
}
