package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

// Session ids are cached with a TTL so the session guard usually avoids a
// users-table read. The database column stays authoritative.
const sessionCacheTTL = 24 * time.Hour

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("user:session:%d", userID)
}

// CacheSessionID stores the current session id for a user
func CacheSessionID(ctx context.Context, userID uint, sessionID string) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, sessionKey(userID), sessionID, sessionCacheTTL).Err()
}

// GetCachedSessionID retrieves the cached session id; redis.Nil on miss
func GetCachedSessionID(ctx context.Context, userID uint) (string, error) {
	if RedisClient == nil {
		return "", redis.Nil
	}
	return RedisClient.Get(ctx, sessionKey(userID)).Result()
}

// ClearSessionID drops the cached session id on logout
func ClearSessionID(ctx context.Context, userID uint) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, sessionKey(userID)).Err()
}

// PublishBookingUpdate publishes a booking status change to Redis pub/sub
func PublishBookingUpdate(ctx context.Context, bookingID uint, status string, data map[string]interface{}) error {
	if RedisClient == nil {
		return nil
	}
	updateData := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "booking:updates", jsonData).Err()
}

// PublishTripUpdate publishes a shared trip status change to Redis pub/sub
func PublishTripUpdate(ctx context.Context, tripID uint, status string) error {
	if RedisClient == nil {
		return nil
	}
	updateData := map[string]interface{}{
		"tripId":    tripID,
		"status":    status,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(updateData)
	if err != nil {
		return err
	}

	return RedisClient.Publish(ctx, "trip:updates", jsonData).Err()
}
