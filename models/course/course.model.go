package course

import "gorm.io/gorm"

// Course represents a learning course owned by an instructor
type Course struct {
	gorm.Model
	InstructorID uint    `json:"instructor_id" gorm:"index;not null"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Pricing      float64 `json:"pricing" gorm:"default:0"` // 0 means free
	ThumbnailURL string  `json:"thumbnail_url"`
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`
}

// CourseContent is a single unit of course material. Progress is tracked per
// content item; the course counts as completed once every published item is.
type CourseContent struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
