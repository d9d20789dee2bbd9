package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MarkContentComplete records that the user finished one content item and
// recomputes their course progress
func MarkContentComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	contentID := c.Locals("contentID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check content exists and is published
	var content courseModels.CourseContent
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_published = ? AND is_deleted = ?", contentID, courseID, true, false).First(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}

	// Idempotent: re-completing is a no-op
	var existing courseModels.ContentCompletion
	err := database.Database.Db.Where("user_id = ? AND course_content_id = ? AND is_deleted = ?", userID, contentID, false).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content complete!", nil)
		}
		completion := courseModels.ContentCompletion{
			UserID:          userID,
			CourseID:        uint(courseID),
			CourseContentID: uint(contentID),
		}
		if err := database.Database.Db.Create(&completion).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark content complete!", nil)
		}
	}

	progress := UpdateCourseProgress(userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content marked complete!", fiber.Map{
		"progress": progress,
	})
}

// GetCourseProgress returns the user's progress for a course
func GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var progress courseModels.CourseProgress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found!", nil)
	}

	var completedContents []courseModels.ContentCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completedContents)

	completedIDs := make([]uint, len(completedContents))
	for i, cc := range completedContents {
		completedIDs[i] = cc.CourseContentID
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"progress":      progress,
		"completed_ids": completedIDs,
	})
}

// UpdateCourseProgress recounts completions for (user, course) and updates
// the progress record. Completed flips to true only at 100% of published
// content; this flag is what quiz eligibility reads.
func UpdateCourseProgress(userID, courseID uint) *courseModels.CourseProgress {
	var totalContent int64
	var completedContent int64

	database.Database.Db.Model(&courseModels.CourseContent{}).
		Where("course_id = ? AND is_published = ? AND is_deleted = ?", courseID, true, false).
		Count(&totalContent)
	database.Database.Db.Model(&courseModels.ContentCompletion{}).
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		Count(&completedContent)

	var progress courseModels.CourseProgress
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&progress).Error; err != nil {
		return nil
	}

	progress.CompletedContents = int(completedContent)
	progress.TotalContents = int(totalContent)

	if totalContent > 0 {
		progress.Progress = float64(completedContent) / float64(totalContent) * 100
	} else {
		progress.Progress = 0
	}

	if totalContent > 0 && completedContent >= totalContent {
		if !progress.Completed {
			now := time.Now()
			progress.CompletedAt = &now
		}
		progress.Completed = true
	} else {
		progress.Completed = false
		progress.CompletedAt = nil
	}

	database.Database.Db.Save(&progress)
	return &progress
}
