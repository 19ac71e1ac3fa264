package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/widya-labs/pustaka-api/internal/config"
	"github.com/widya-labs/pustaka-api/internal/handler"
	"github.com/widya-labs/pustaka-api/internal/middleware"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	AttendanceHandler  *handler.AttendanceHandler
	ActivityHandler    *handler.ActivityHandler
	ReviewHandler      *handler.ReviewHandler
	ForumHandler       *handler.ForumHandler
	LeaderboardHandler *handler.LeaderboardHandler
	ReportHandler      *handler.ReportHandler
	SweepHandler       *handler.SweepHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Authentication
	if deps.AuthHandler != nil {
		public := api.Group("/auth", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.RegisterPublic(public)

		protected := api.Group("/auth", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(protected)
	}

	// Attendance lifecycle
	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware)

		student := attendance.Group("", middleware.RequireRole(models.RoleStudent))
		deps.AttendanceHandler.Register(student)

		privileged := attendance.Group("", middleware.RequireRole(models.RoleLibrarian))
		deps.AttendanceHandler.RegisterPrivileged(privileged)

		if deps.ReportHandler != nil {
			reporting := attendance.Group("", middleware.RequireRole(models.RoleLibrarian, models.RoleTeacher))
			deps.ReportHandler.Register(reporting)
		}
	}

	// Activities
	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware)
		deps.ActivityHandler.Register(activities)

		privileged := activities.Group("", middleware.RequireRole(models.RoleLibrarian))
		deps.ActivityHandler.RegisterPrivileged(privileged)
	}

	// Book reviews
	if deps.ReviewHandler != nil {
		reviews := api.Group("/reviews", jwtMiddleware)
		deps.ReviewHandler.RegisterTeacher(reviews.Group("", middleware.RequireRole(models.RoleTeacher)))
		deps.ReviewHandler.RegisterStudent(reviews.Group("", middleware.RequireRole(models.RoleStudent)))
	}

	// Discussion forum
	if deps.ForumHandler != nil {
		forum := api.Group("/forum/posts", jwtMiddleware)
		deps.ForumHandler.RegisterStudent(forum.Group("", middleware.RequireRole(models.RoleStudent)))
		deps.ForumHandler.Register(forum)
	}

	// Leaderboard
	if deps.LeaderboardHandler != nil {
		leaderboard := api.Group("/leaderboard", jwtMiddleware)
		deps.LeaderboardHandler.Register(leaderboard)

		privileged := leaderboard.Group("", middleware.RequireRole(models.RoleLibrarian, models.RoleTeacher))
		deps.LeaderboardHandler.RegisterPrivileged(privileged)
	}

	// Librarian tooling
	if deps.SweepHandler != nil {
		librarian := api.Group("/librarian", jwtMiddleware, middleware.RequireRole(models.RoleLibrarian))
		deps.SweepHandler.Register(librarian)
	}
}
