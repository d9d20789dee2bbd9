package quizValidator

import (
	"lms/middleware"
	"lms/services/quizservice"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CourseIDParam validates the :courseId route parameter
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("courseId"))
		if err != nil || id < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"courseId": "Must be a positive integer!",
			})
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// QuizIDParam validates the :quizId route parameter
func QuizIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("quizId"))
		if err != nil || id < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"quizId": "Must be a positive integer!",
			})
		}
		c.Locals("quizID", id)
		return c.Next()
	}
}

// SubmitQuiz validates the attempt submission payload before any persistence:
// quiz id present, answers an array, option indices non-negative.
func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuizID  uint                           `json:"quiz_id" validate:"required"`
			Answers []quizservice.AnswerSubmission `json:"answers" validate:"dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "QuizID":
					errors["quiz_id"] = "Quiz ID is required!"
				case "Answers":
					errors["answers"] = "Answers must be an array!"
				default:
					errors["answers"] = "Invalid answers payload!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		for _, a := range reqData.Answers {
			for _, idx := range a.SelectedOptionIndices {
				if idx < 0 {
					return middleware.ValidationErrorResponse(c, map[string]string{
						"answers": "Option indices cannot be negative!",
					})
				}
			}
		}

		c.Locals("validatedSubmit", reqData)
		return c.Next()
	}
}
