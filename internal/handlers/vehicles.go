package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/lifecycle"
	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
	"github.com/Plodera/Fleet-Manager-sub000/internal/services"
)

type VehicleInput struct {
	Name        string `json:"name" binding:"required"`
	PlateNumber string `json:"plateNumber" binding:"required"`
	Make        string `json:"make"`
	Model       string `json:"model"`
	Year        int    `json:"year"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
}

// CreateVehicle adds a vehicle to the fleet
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageVehicles) {
			c.JSON(403, gin.H{"error": "Not authorized to manage vehicles"})
			return
		}

		var input VehicleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicle := models.Vehicle{
			Name:         input.Name,
			PlateNumber:  input.PlateNumber,
			Make:         input.Make,
			VehicleModel: input.Model,
			Year:         input.Year,
			Capacity:     input.Capacity,
			Status:       models.VehicleStatusAvailable,
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, vehicle)
	}
}

// ListVehicles returns the whole fleet
func ListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		query := db.Order("id")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if err := query.Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}
		c.JSON(200, vehicles)
	}
}

// GetVehicle returns one vehicle by id
func GetVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}
		c.JSON(200, vehicle)
	}
}

// UpdateVehicle edits vehicle details; a manual status override is refused
// while an approved or in-progress booking holds the vehicle.
func UpdateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageVehicles) {
			c.JSON(403, gin.H{"error": "Not authorized to manage vehicles"})
			return
		}

		var input struct {
			Name     *string `json:"name"`
			Make     *string `json:"make"`
			Model    *string `json:"model"`
			Year     *int    `json:"year"`
			Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
			Status   *string `json:"status" binding:"omitempty,oneof=available in_use maintenance unavailable"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if input.Status != nil && *input.Status != vehicle.Status {
			var active int64
			db.Model(&models.Booking{}).
				Where("vehicle_id = ? AND status IN ?", vehicle.ID,
					[]models.BookingStatus{models.BookingStatusApproved, models.BookingStatusInProgress}).
				Count(&active)
			if active > 0 {
				c.JSON(400, gin.H{"error": "Vehicle has an active booking; its status follows the booking lifecycle"})
				return
			}
			vehicle.Status = *input.Status
		}
		if input.Name != nil {
			vehicle.Name = *input.Name
		}
		if input.Make != nil {
			vehicle.Make = *input.Make
		}
		if input.Model != nil {
			vehicle.VehicleModel = *input.Model
		}
		if input.Year != nil {
			vehicle.Year = *input.Year
		}
		if input.Capacity != nil {
			vehicle.Capacity = *input.Capacity
		}

		if err := db.Save(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update vehicle"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// DeleteVehicle removes a vehicle that has no active booking
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageVehicles) {
			c.JSON(403, gin.H{"error": "Not authorized to manage vehicles"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		var active int64
		db.Model(&models.Booking{}).
			Where("vehicle_id = ? AND status IN ?", vehicle.ID,
				[]models.BookingStatus{models.BookingStatusApproved, models.BookingStatusInProgress}).
			Count(&active)
		if active > 0 {
			c.JSON(400, gin.H{"error": "Vehicle has an active booking and cannot be deleted"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"message": "Vehicle deleted"})
	}
}

// UploadVehiclePhoto stores a photo for the vehicle via the storage service
func UploadVehiclePhoto(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageVehicles) {
			c.JSON(403, gin.H{"error": "Not authorized to manage vehicles"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "Photo file required"})
			return
		}

		url, err := services.UploadVehiclePhoto(file, vehicle.ID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store photo: " + err.Error()})
			return
		}

		if err := db.Model(&vehicle).Update("photo_url", url).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save photo URL"})
			return
		}

		c.JSON(200, gin.H{"photoUrl": url})
	}
}
