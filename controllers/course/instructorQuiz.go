package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// quizPayload is the instructor-facing quiz shape shared by create and update
type quizPayload struct {
	CourseID     uint   `json:"course_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PassingScore *int   `json:"passing_score"`
	Questions    []struct {
		QuestionText string `json:"question_text"`
		Explanation  string `json:"explanation"`
		Options      []struct {
			Text      string `json:"text"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"options"`
	} `json:"questions"`
}

// validateQuizPayload collects field errors the way the route validators do
func validateQuizPayload(payload *quizPayload, forCreate bool) map[string]string {
	errors := make(map[string]string)

	if forCreate && payload.CourseID == 0 {
		errors["course_id"] = "Course ID is required!"
	}
	if forCreate && strings.TrimSpace(payload.Title) == "" {
		errors["title"] = "Title is required!"
	}
	if payload.PassingScore != nil && (*payload.PassingScore < 0 || *payload.PassingScore > 100) {
		errors["passing_score"] = "Passing score must be between 0 and 100!"
	}
	for _, q := range payload.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			errors["questions"] = "Every question needs text!"
			break
		}
		hasCorrect := false
		for _, opt := range q.Options {
			if opt.IsCorrect {
				hasCorrect = true
			}
		}
		if !hasCorrect {
			errors["questions"] = "Every question needs at least one correct option!"
			break
		}
	}

	return errors
}

// buildQuestions converts a payload question list into model rows with
// explicit order indices. The option's position is its grading identity.
func buildQuestions(payload *quizPayload) []courseModels.QuizQuestion {
	questions := make([]courseModels.QuizQuestion, 0, len(payload.Questions))
	for qi, q := range payload.Questions {
		options := make([]courseModels.QuizOption, 0, len(q.Options))
		for oi, opt := range q.Options {
			options = append(options, courseModels.QuizOption{
				Text:       opt.Text,
				IsCorrect:  opt.IsCorrect,
				OrderIndex: oi,
			})
		}
		questions = append(questions, courseModels.QuizQuestion{
			QuestionText: q.QuestionText,
			Explanation:  q.Explanation,
			OrderIndex:   qi,
			Options:      options,
		})
	}
	return questions
}

// ownedCourse loads a course and checks the caller is its instructor
func ownedCourse(c *fiber.Ctx, courseID uint) (*courseModels.Course, error) {
	userID, _ := c.Locals("userId").(uint)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND instructor_id = ? AND is_deleted = ?", courseID, userID, false).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateQuiz creates the quiz for one of the instructor's courses
func CreateQuiz(c *fiber.Ctx) error {
	reqData := new(quizPayload)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if errs := validateQuizPayload(reqData, true); len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	if _, err := ownedCourse(c, reqData.CourseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or you don't have permission!", nil)
	}

	// One quiz per course
	var existing courseModels.Quiz
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", reqData.CourseID, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A quiz already exists for this course!", nil)
	}

	passingScore := 70
	if reqData.PassingScore != nil {
		passingScore = *reqData.PassingScore
	}

	quiz := courseModels.Quiz{
		CourseID:     reqData.CourseID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		PassingScore: passingScore,
		Questions:    buildQuestions(reqData),
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// GetQuizById returns a quiz, correctness flags included, to its owner
func GetQuizById(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("quiz_questions.order_index asc") }).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB { return db.Order("quiz_options.order_index asc") }).
		Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if _, err := ownedCourse(c, quiz.CourseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You don't have permission to access this quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", quiz)
}

// UpdateQuiz replaces the quiz's editable fields. CourseID is immutable; a
// payload naming a different course is ignored in favor of the stored one.
func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	reqData := new(quizPayload)
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if errs := validateQuizPayload(reqData, false); len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if _, err := ownedCourse(c, quiz.CourseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You don't have permission to update this quiz!", nil)
	}

	if reqData.Title != "" {
		quiz.Title = reqData.Title
	}
	if reqData.Description != "" {
		quiz.Description = reqData.Description
	}
	if reqData.PassingScore != nil {
		quiz.PassingScore = *reqData.PassingScore
	}

	tx := database.Database.Db.Begin()

	if len(reqData.Questions) > 0 {
		// Replace the question set wholesale; past attempts keep their own
		// snapshots and graded answers, so history is unaffected.
		var questionIDs []uint
		if err := tx.Model(&courseModels.QuizQuestion{}).Where("quiz_id = ?", quiz.ID).Pluck("id", &questionIDs).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&courseModels.QuizOption{}).Error; err != nil {
				tx.Rollback()
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
			}
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&courseModels.QuizQuestion{}).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
		}
		quiz.Questions = buildQuestions(reqData)
		for i := range quiz.Questions {
			quiz.Questions[i].QuizID = quiz.ID
		}
	}

	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&quiz).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", quiz)
}

// DeleteQuiz soft deletes a quiz
func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	if _, err := ownedCourse(c, quiz.CourseID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You don't have permission to delete this quiz!", nil)
	}

	quiz.IsDeleted = true
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// GetQuizzesByCourse lists quizzes for one of the instructor's courses
func GetQuizzesByCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	if _, err := ownedCourse(c, uint(courseID)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or you don't have permission!", nil)
	}

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.
		Preload("Questions.Options").
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}
