package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gradegenie/gradegenie-api/internal/config"
	"github.com/gradegenie/gradegenie-api/internal/handler"
	"github.com/gradegenie/gradegenie-api/internal/middleware"
	"github.com/gradegenie/gradegenie-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AssignmentHandler *handler.AssignmentHandler
	ResourceHandler   *handler.ResourceHandler
	CourseHandler     *handler.CourseHandler
	ClassroomHandler  *handler.ClassroomHandler
	DraftHandler      *handler.DraftHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	generateLimiter := middleware.RateLimit("generate", cfg.GenerateRateLimit, cfg.GenerateRateWindow)

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignment", jwtMiddleware)
		deps.AssignmentHandler.RegisterGenerate(assignments.Group("", generateLimiter))
		deps.AssignmentHandler.Register(assignments)

		if deps.ResourceHandler != nil {
			deps.ResourceHandler.Register(assignments)
		}
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.RegisterGenerate(courses.Group("", generateLimiter))
		deps.CourseHandler.Register(courses)
	}

	if deps.ClassroomHandler != nil {
		deps.ClassroomHandler.RegisterClasses(api.Group("/classes", jwtMiddleware))
		deps.ClassroomHandler.RegisterStudents(api.Group("/students", jwtMiddleware))
		deps.ClassroomHandler.RegisterTeachers(api.Group("/teachers", jwtMiddleware))
	}

	if deps.DraftHandler != nil {
		deps.DraftHandler.Register(api.Group("/drafts", jwtMiddleware))
	}
}
