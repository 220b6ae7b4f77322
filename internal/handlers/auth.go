package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
	"github.com/Plodera/Fleet-Manager-sub000/internal/services"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/logger"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/utils"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account and establishes its first session. New
// accounts are customers; admins grant roles and capability flags later.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		sessionID := uuid.NewString()
		user := models.User{
			Username:         input.Username,
			Email:            input.Email,
			PasswordHash:     string(hashedPassword),
			PhoneNumber:      input.Phone,
			Role:             models.RoleCustomer,
			CurrentSessionID: &sessionID,
		}

		if result := db.Create(&user); result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to create user: " + result.Error.Error()})
			return
		}

		if err := services.CacheSessionID(c.Request.Context(), user.ID, sessionID); err != nil {
			logger.Warnf("failed to cache session id for user %d: %v", user.ID, err)
		}

		token, err := utils.GenerateToken(&user, sessionID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(201, gin.H{
			"token": token,
			"user":  userSummary(&user),
		})
	}
}

// Login authenticates by username/password and establishes a new session.
// The fresh session id unconditionally overwrites the stored one, so any
// other live session for this account is silently invalidated (last login
// wins).
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("username = ?", input.Username).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		sessionID := uuid.NewString()
		if err := db.Model(&user).Update("current_session_id", sessionID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to establish session"})
			return
		}

		if err := services.CacheSessionID(c.Request.Context(), user.ID, sessionID); err != nil {
			logger.Warnf("failed to cache session id for user %d: %v", user.ID, err)
		}

		token, err := utils.GenerateToken(&user, sessionID)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user":  userSummary(&user),
		})
	}
}

// Logout clears the stored session id, ending the single live session.
func Logout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("current_session_id", nil).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to log out"})
			return
		}

		if err := services.ClearSessionID(c.Request.Context(), userID); err != nil {
			logger.Warnf("failed to clear cached session id for user %d: %v", userID, err)
		}

		c.JSON(200, gin.H{"message": "Logged out"})
	}
}
