package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// CreateCourse creates a new course owned by the calling instructor
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Pricing      float64 `json:"pricing"`
		ThumbnailURL string  `json:"thumbnail_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		InstructorID: userID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		Pricing:      reqData.Pricing,
		ThumbnailURL: reqData.ThumbnailURL,
		IsPublished:  false,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse updates fields of a course owned by the caller
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	course, err := ownedCourse(c, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or you don't have permission!", nil)
	}

	reqData := new(struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Pricing      *float64 `json:"pricing"`
		ThumbnailURL string   `json:"thumbnail_url"`
		IsPublished  *bool    `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	// Update only provided fields
	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.Pricing != nil {
		course.Pricing = *reqData.Pricing
	}
	if reqData.ThumbnailURL != "" {
		course.ThumbnailURL = reqData.ThumbnailURL
	}
	if reqData.IsPublished != nil {
		course.IsPublished = *reqData.IsPublished
	}

	if err := database.Database.Db.Save(course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AddCourseContent appends a content item to an owned course
func AddCourseContent(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	if _, err := ownedCourse(c, uint(courseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or you don't have permission!", nil)
	}

	reqData := new(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		VideoURL    string `json:"video_url"`
		OrderIndex  int    `json:"order_index"`
		IsPublished bool   `json:"is_published"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"title": "Title is required!"})
	}

	content := courseModels.CourseContent{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		VideoURL:    reqData.VideoURL,
		OrderIndex:  reqData.OrderIndex,
		IsPublished: reqData.IsPublished,
	}

	if err := database.Database.Db.Create(&content).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content added successfully!", content)
}

// GetInstructorCourses lists the caller's own courses
func GetInstructorCourses(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("instructor_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}
