package database

import (
	"os"

	"gorm.io/gorm"

	"github.com/Plodera/Fleet-Manager-sub000/internal/models"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Vehicle{},
		&models.Booking{},
		&models.SharedTrip{},
		&models.MaintenanceRecord{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}

	// Status check constraints; AutoMigrate won't rewrite these on change
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('admin', 'staff', 'customer'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'approved', 'rejected', 'in_progress', 'completed', 'cancelled'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.SharedTrip{}) {
		db.Exec(`ALTER TABLE shared_trips DROP CONSTRAINT IF EXISTS shared_trips_status_check`)
		if err := db.Exec(`ALTER TABLE shared_trips ADD CONSTRAINT shared_trips_status_check CHECK (status IN ('open', 'full', 'in_progress', 'completed', 'cancelled'))`).Error; err != nil {
			return err
		}
		// Belt-and-braces backstop for the allocator's locked recompute
		db.Exec(`ALTER TABLE shared_trips DROP CONSTRAINT IF EXISTS shared_trips_reserved_check`)
		if err := db.Exec(`ALTER TABLE shared_trips ADD CONSTRAINT shared_trips_reserved_check CHECK (reserved_seats >= 0 AND reserved_seats <= total_capacity)`).Error; err != nil {
			return err
		}
	}

	return seedAdmin(db)
}

// seedAdmin creates the initial admin account when the users table is empty.
func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return nil
	}

	admin := models.User{
		Username:   "admin",
		Email:      os.Getenv("ADMIN_EMAIL"),
		Password:   password,
		Role:       models.RoleAdmin,
		IsApprover: true,
	}
	if admin.Email == "" {
		admin.Email = "admin@localhost"
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	return db.Create(&admin).Error
}
