package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all student-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details (published courses)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Free-course enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Content completion and progress tracking
	courseGroup.Post("/:courseId/content/:contentId/complete", middleware.JWTMiddleware, validators.CourseIDParam(), validators.ContentIDParam(), controllers.MarkContentComplete)
	courseGroup.Get("/:courseId/progress", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetCourseProgress)

	// Paid-course orders
	orderGroup := app.Group("/order")
	orderGroup.Post("/create", middleware.JWTMiddleware, controllers.CreateOrder)
	orderGroup.Post("/capture", middleware.JWTMiddleware, controllers.CaptureOrder)

	// User enrollments
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollments)
}
