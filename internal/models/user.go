package models

import (
	"gorm.io/gorm"
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStaff    UserRole = "staff"
	RoleCustomer UserRole = "customer"
)

type User struct {
	gorm.Model
	Username         string   `json:"username" gorm:"column:username;unique;not null"`
	Email            string   `json:"email" gorm:"column:email;unique;not null"`
	Password         string   `json:"-" gorm:"-:all"` // Temporary field for password handling
	PasswordHash     string   `json:"-" gorm:"column:password_hash;not null"`
	PhoneNumber      string   `json:"phoneNumber" gorm:"column:phone_number"`
	Role             UserRole `json:"role" gorm:"column:role;not null;default:'customer'"`
	IsApprover       bool     `json:"isApprover" gorm:"column:is_approver;not null;default:false"`
	IsDriver         bool     `json:"isDriver" gorm:"column:is_driver;not null;default:false"`
	Permissions      []string `json:"permissions" gorm:"column:permissions;serializer:json"`
	CurrentSessionID *string  `json:"-" gorm:"column:current_session_id"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HasPermission reports whether the user carries a permission tag.
// Admins implicitly hold every permission.
func (u *User) HasPermission(tag string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	for _, p := range u.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
