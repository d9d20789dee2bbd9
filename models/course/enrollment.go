package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment is the purchase record tying a user to a course. Its presence
// (not soft-deleted) is what "enrolled" means everywhere else in the app.
type Enrollment struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	OrderID   *uint  `json:"order_id"` // nil for free courses
	Status    string `json:"status" gorm:"default:'ENROLLED'"`
	IsDeleted bool   `gorm:"default:false"`
}

// CourseProgress tracks how far a user has worked through a course.
// Completed flips to true when every published content item is done and is
// the flag quiz eligibility checks read.
type CourseProgress struct {
	gorm.Model
	UserID            uint       `json:"user_id" gorm:"index;not null"`
	CourseID          uint       `json:"course_id" gorm:"index;not null"`
	CompletedContents int        `json:"completed_contents" gorm:"default:0"`
	TotalContents     int        `json:"total_contents" gorm:"default:0"`
	Progress          float64    `json:"progress" gorm:"default:0"` // percentage 0-100
	Completed         bool       `json:"completed" gorm:"default:false"`
	CompletedAt       *time.Time `json:"completed_at"`
	IsDeleted         bool       `gorm:"default:false"`
}

// ContentCompletion records that a user finished one content item
type ContentCompletion struct {
	gorm.Model
	UserID          uint `json:"user_id" gorm:"index;not null"`
	CourseID        uint `json:"course_id" gorm:"index;not null"`
	CourseContentID uint `json:"course_content_id" gorm:"index;not null"`
	IsDeleted       bool `gorm:"default:false"`
}
