package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

// currentUser loads the authenticated user's row. Handlers need the full
// record because capability flags and permissions live there, not in the
// token. Writes the error response itself on failure.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID := c.GetUint("userId")

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		c.JSON(401, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"email":       user.Email,
		"phoneNumber": user.PhoneNumber,
		"role":        user.Role,
		"isApprover":  user.IsApprover,
		"isDriver":    user.IsDriver,
		"permissions": user.Permissions,
	}
}
