package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
	"github.com/Plodera/Fleet-Manager-sub000/internal/services"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/utils"
)

// StatusSessionInvalidated is the non-standard status returned when a newer
// login has superseded the request's session. Clients treat it as a forced
// logout, distinct from an ordinary 401.
const StatusSessionInvalidated = 440

// AuthMiddleware validates the bearer token and enforces the
// single-session-per-account policy: the token's sid claim must match the
// session id recorded for the user at their most recent login.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		idClaim, ok := claims["id"].(float64)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}
		userID := uint(idClaim)
		role, _ := claims["role"].(string)
		sessionID, _ := claims["sid"].(string)

		if invalidated(c, db, userID, sessionID) {
			return
		}

		c.Set("userId", userID)
		c.Set("role", role)
		c.Set("sessionId", sessionID)
		c.Next()
	}
}

// invalidated runs the session guard. The Redis cache is consulted first, but
// whenever it is missing, unreachable, or disagrees with the token's sid, the
// users table is read before answering, so a stale cache entry can never lock
// out the newest session. A confirmed mismatch means a newer login superseded
// this one; the authoritative session id was already overwritten by that
// login, so nothing is mutated here beyond refreshing the cache.
func invalidated(c *gin.Context, db *gorm.DB, userID uint, sessionID string) bool {
	stored, err := services.GetCachedSessionID(c.Request.Context(), userID)
	if err != nil || stored != sessionID {
		var user models.User
		if dbErr := db.Select("current_session_id").First(&user, userID).Error; dbErr != nil {
			c.JSON(401, gin.H{"error": "User not found"})
			c.Abort()
			return true
		}
		if user.CurrentSessionID == nil {
			return false
		}
		stored = *user.CurrentSessionID
		_ = services.CacheSessionID(c.Request.Context(), userID, stored)
	}
	return respondIfSuperseded(c, stored, sessionID)
}

// respondIfSuperseded answers with 440 when the stored session id differs
// from the one the request presented. An empty stored id means no login is
// recorded, in which case the request proceeds.
func respondIfSuperseded(c *gin.Context, stored, presented string) bool {
	if stored == "" || stored == presented {
		return false
	}
	c.JSON(StatusSessionInvalidated, gin.H{
		"message":      "Session invalidated",
		"reason":       "logged_in_elsewhere",
		"notification": "Your account was signed in from another device. Please log in again.",
	})
	c.Abort()
	return true
}
