package quizRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes sets up student quiz routes
func SetupQuizRoutes(app *fiber.App) {
	quizGroup := app.Group("/quiz")

	// Redacted quiz + recent attempts for an eligible student
	quizGroup.Get("/course/:courseId", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetQuizForCourse)

	// Submit an attempt
	quizGroup.Post("/submit", middleware.JWTMiddleware, validators.SubmitQuiz(), controllers.SubmitQuizAttempt)

	// Attempt history
	quizGroup.Get("/attempts/:quizId", middleware.JWTMiddleware, validators.QuizIDParam(), controllers.GetQuizAttempts)
}

// SetupInstructorQuizRoutes sets up quiz administration routes
func SetupInstructorQuizRoutes(app *fiber.App) {
	group := app.Group("/instructor/quiz",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
	)

	group.Post("/create", controllers.CreateQuiz)
	group.Get("/course/:courseId", validators.CourseIDParam(), controllers.GetQuizzesByCourse)
	group.Get("/:quizId", validators.QuizIDParam(), controllers.GetQuizById)
	group.Put("/:quizId", validators.QuizIDParam(), controllers.UpdateQuiz)
	group.Delete("/:quizId", validators.QuizIDParam(), controllers.DeleteQuiz)
}
