package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

// ListNotifications returns the caller's in-app notifications, newest first
func ListNotifications(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		query := db.Where("user_id = ?", userID).Order("created_at DESC")
		if c.Query("unread") == "true" {
			query = query.Where("read = ?", false)
		}

		var notifications []models.Notification
		if err := query.Limit(100).Find(&notifications).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch notifications"})
			return
		}
		c.JSON(200, notifications)
	}
}

// MarkNotificationRead flags one of the caller's notifications as read
func MarkNotificationRead(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var notification models.Notification
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&notification).Error; err != nil {
			c.JSON(404, gin.H{"error": "Notification not found"})
			return
		}

		if err := db.Model(&notification).Update("read", true).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update notification"})
			return
		}
		c.JSON(200, notification)
	}
}
