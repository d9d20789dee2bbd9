package controllers

import (
	"errors"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/repository/quizrepo"
	"lms/services/quizservice"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// newEvaluator wires the evaluator to the live database
func newEvaluator() *quizservice.Evaluator {
	db := database.Database.Db
	return quizservice.New(
		quizrepo.NewEnrollmentRepo(db),
		quizrepo.NewProgressRepo(db),
		quizrepo.NewQuizRepo(db),
		quizrepo.NewAttemptRepo(db),
	)
}

// quizErrorResponse maps evaluator error kinds onto HTTP responses. Unknown
// errors are storage failures: logged, surfaced as a generic message.
func quizErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, quizservice.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You need to purchase this course to access the quiz!", nil)
	case errors.Is(err, quizservice.ErrCourseIncomplete):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You need to complete the course before taking the quiz!", nil)
	case errors.Is(err, quizservice.ErrNoQuizForCourse):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No quiz available for this course!", nil)
	case errors.Is(err, quizservice.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	case errors.Is(err, quizservice.ErrInvalidSubmission):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid quiz submission!", nil)
	}
	log.Printf("[QUIZ] storage error: %v", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong. Please try again!", nil)
}

// GetQuizForCourse returns the redacted quiz and recent attempts for an
// eligible student
func GetQuizForCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	view, err := newEvaluator().GetQuizForCandidate(userID, uint(courseID))
	if err != nil {
		return quizErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", view)
}

// SubmitQuizAttempt grades a submission and records the attempt
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSubmit").(*struct {
		QuizID  uint                           `json:"quiz_id" validate:"required"`
		Answers []quizservice.AnswerSubmission `json:"answers" validate:"dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := newEvaluator().SubmitAttempt(userID, reqData.QuizID, reqData.Answers)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	message := "You did not pass the quiz. Try again!"
	if result.Passed {
		message = "Congratulations! You passed the quiz."

		// Congratulation mail is best-effort and must not delay the response
		var user models.User
		if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err == nil {
			utils.SendQuizPassedEmail(user.Email, user.Name, result.Score)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

// GetQuizAttempts lists the student's attempts for a quiz, most recent first
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	attempts, err := newEvaluator().ListAttempts(userID, uint(quizID))
	if err != nil {
		return quizErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}
