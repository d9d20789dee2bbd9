package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of user roles. Kept as a string type so GORM stores
// it as plain text, but comparisons always go through the constants below.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole maps a raw string to a known Role. Unknown values are rejected.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	gorm.Model
	Name      string `gorm:"default:''" json:"name"`
	Email     string `gorm:"unique;not null" json:"email"`
	Role      Role   `gorm:"default:'STUDENT'" json:"role"`
	Password  string `gorm:"not null" json:"-"`
	LastLogin *time.Time
	IsDeleted bool `gorm:"default:false" json:"-"`
}
