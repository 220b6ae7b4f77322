package handlers

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/lifecycle"
	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

// GetProfile retrieves the user's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		c.JSON(200, userSummary(user))
	}
}

// UpdateProfile updates the user's profile information
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username    *string `json:"username"`
			PhoneNumber *string `json:"phoneNumber"`
			Password    *string `json:"password"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, ok := currentUser(c, db)
		if !ok {
			return
		}

		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.PhoneNumber != nil {
			user.PhoneNumber = *input.PhoneNumber
		}
		if input.Password != nil {
			if len(*input.Password) < 6 {
				c.JSON(400, gin.H{"error": "Password must be at least 6 characters"})
				return
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to hash password"})
				return
			}
			user.PasswordHash = string(hashed)
		}

		if err := db.Save(user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, userSummary(user))
	}
}

// ListUsers returns all users; restricted to user managers.
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !user.HasPermission(lifecycle.PermManageUsers) {
			c.JSON(403, gin.H{"error": "Not authorized to manage users"})
			return
		}

		var users []models.User
		if err := db.Order("id").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}

		out := make([]gin.H, 0, len(users))
		for i := range users {
			out = append(out, userSummary(&users[i]))
		}
		c.JSON(200, out)
	}
}

// UpdateUser lets a user manager change role, capability flags and the
// permission set of another account.
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentUser(c, db)
		if !ok {
			return
		}
		if !actor.HasPermission(lifecycle.PermManageUsers) {
			c.JSON(403, gin.H{"error": "Not authorized to manage users"})
			return
		}

		var input struct {
			Role        *string   `json:"role" binding:"omitempty,oneof=admin staff customer"`
			IsApprover  *bool     `json:"isApprover"`
			IsDriver    *bool     `json:"isDriver"`
			Permissions *[]string `json:"permissions"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Role != nil {
			user.Role = models.UserRole(*input.Role)
		}
		if input.IsApprover != nil {
			user.IsApprover = *input.IsApprover
		}
		if input.IsDriver != nil {
			user.IsDriver = *input.IsDriver
		}
		if input.Permissions != nil {
			user.Permissions = *input.Permissions
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update user"})
			return
		}

		c.JSON(200, userSummary(&user))
	}
}
