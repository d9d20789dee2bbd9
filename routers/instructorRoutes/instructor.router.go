package instructorRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	"lms/models"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupInstructorRoutes sets up course administration routes
func SetupInstructorRoutes(app *fiber.App) {
	group := app.Group("/instructor/course",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin),
	)

	group.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	group.Get("/list", controllers.GetInstructorCourses)
	group.Put("/:id", validators.CourseID(), controllers.UpdateCourse)
	group.Post("/:id/content", validators.CourseID(), controllers.AddCourseContent)
}
