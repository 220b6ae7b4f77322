package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Plodera/Fleet-Manager-sub000/internal/database"
	"github.com/Plodera/Fleet-Manager-sub000/internal/handlers"
	"github.com/Plodera/Fleet-Manager-sub000/internal/middleware"
	"github.com/Plodera/Fleet-Manager-sub000/internal/services"
	"github.com/Plodera/Fleet-Manager-sub000/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}
	logger.Init()

	db, err := database.InitDB()
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		logger.Fatalf("Failed to initialize Redis: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads (no-op when S3 is configured)
	r.Static("/uploads", "/app/uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(db), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(db))
		{
			protected.POST("/auth/logout", handlers.Logout(db))

			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.GET("", handlers.ListUsers(db))
				users.PATCH("/:id", handlers.UpdateUser(db))
			}

			// Vehicle routes
			vehicles := protected.Group("/vehicles")
			{
				vehicles.POST("", handlers.CreateVehicle(db))
				vehicles.GET("", handlers.ListVehicles(db))
				vehicles.GET("/:id", handlers.GetVehicle(db))
				vehicles.PATCH("/:id", handlers.UpdateVehicle(db))
				vehicles.DELETE("/:id", handlers.DeleteVehicle(db))
				vehicles.POST("/:id/photo", handlers.UploadVehiclePhoto(db))
			}

			// Booking lifecycle routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(db, hub))
				bookings.GET("", handlers.ListBookings(db))
				bookings.GET("/:id", handlers.GetBooking(db))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(db, hub))
				bookings.POST("/:id/start", handlers.StartBooking(db, hub))
				bookings.POST("/:id/end", handlers.EndBooking(db, hub))
			}

			// Shared trip routes
			trips := protected.Group("/shared-trips")
			{
				trips.POST("", handlers.CreateSharedTrip(db))
				trips.GET("", handlers.ListSharedTrips(db))
				trips.GET("/:id", handlers.GetSharedTrip(db))
				trips.POST("/:id/join", handlers.JoinSharedTrip(db, hub))
				trips.POST("/:id/start", handlers.StartSharedTrip(db, hub))
				trips.POST("/:id/end", handlers.EndSharedTrip(db, hub))
				trips.DELETE("/:id", handlers.DeleteSharedTrip(db))
			}

			// Maintenance routes
			maintenance := protected.Group("/maintenance")
			{
				maintenance.POST("", handlers.CreateMaintenance(db))
				maintenance.GET("", handlers.ListMaintenance(db))
				maintenance.POST("/:id/complete", handlers.CompleteMaintenance(db))
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", handlers.ListNotifications(db))
				notifications.PATCH("/:id/read", handlers.MarkNotificationRead(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
