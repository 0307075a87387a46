package web

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/demiirawo/cc-academy/config"
	"github.com/demiirawo/cc-academy/models"
	"github.com/demiirawo/cc-academy/web/handlers"
	"github.com/demiirawo/cc-academy/web/middleware"
)

// Server represents the web server
type Server struct {
	app *fiber.App
}

// NewServer creates a new Fiber server
func NewServer(cfg *config.Config) *Server {
	handlers.Init(cfg)

	app := fiber.New(fiber.Config{
		AppName: "cc-academy",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("ERROR [%s %s]: %v", c.Method(), c.Path(), err)

			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(cors.New(cors.Config{
		AllowCredentials: false,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
	}))
	app.Use(middleware.QueryCount())

	setupRoutes(app, cfg)

	return &Server{app: app}
}

// Start starts the server
func (s *Server) Start(port string) error {
	log.Printf("Server starting on http://localhost:%s", port)
	return s.app.Listen(":" + port)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the underlying Fiber app (used by tests)
func (s *Server) App() *fiber.App {
	return s.app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, cfg *config.Config) {
	api := app.Group("/api")

	// Session
	auth := api.Group("/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)

	authed := api.Group("", middleware.RequireAuth(cfg.Auth.JWTSecret))
	authed.Get("/auth/me", handlers.Me)
	authed.Post("/auth/change-password", handlers.ChangePassword)

	// Dashboard
	authed.Get("/dashboard", handlers.Dashboard)

	// Knowledge-base pages
	pages := authed.Group("/pages")
	pages.Get("/", handlers.PageList)
	pages.Post("/", handlers.PageCreate)
	pages.Get("/:id", handlers.PageView)
	pages.Put("/:id", handlers.PageUpdate)
	pages.Delete("/:id", handlers.PageDelete)
	pages.Post("/:id/acknowledge", handlers.PageAcknowledge)
	pages.Get("/:id/acknowledgements", handlers.PageAcknowledgements)
	pages.Put("/:id/permissions", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.PageSetPermissions)

	// Onboarding
	onboarding := authed.Group("/onboarding")
	onboarding.Get("/steps", handlers.OnboardingStepList)
	onboarding.Post("/steps", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.OnboardingStepCreate)
	onboarding.Put("/steps/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.OnboardingStepUpdate)
	onboarding.Delete("/steps/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.OnboardingStepDelete)
	onboarding.Post("/steps/:id/complete", handlers.OnboardingComplete)
	onboarding.Get("/matrix", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.OnboardingMatrix)

	// Staff management (specific routes before ":id")
	staff := authed.Group("/staff")
	staff.Get("/pay-preview/export", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.PayPreviewExport)
	staff.Get("/", handlers.StaffList)
	staff.Post("/", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.StaffCreate)
	staff.Get("/:id", handlers.StaffView)
	staff.Put("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.StaffUpdate)
	staff.Get("/:id/profile", handlers.HRProfileView)
	staff.Put("/:id/profile", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.HRProfileUpsert)
	staff.Get("/:id/patterns", handlers.PatternList)
	staff.Post("/:id/patterns", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.PatternCreate)
	staff.Get("/:id/schedules", handlers.ScheduleList)
	staff.Post("/:id/schedules", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.ScheduleCreate)
	staff.Get("/:id/pay-records", handlers.PayRecordList)
	staff.Post("/:id/pay-records", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.PayRecordCreate)
	staff.Get("/:id/pay-preview", handlers.PayPreview)

	// Pattern-scoped routes
	patterns := authed.Group("/patterns", middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	patterns.Delete("/:patternId", handlers.PatternDelete)
	patterns.Post("/:patternId/exceptions", handlers.ExceptionCreate)
	patterns.Delete("/:patternId/exceptions/:exceptionId", handlers.ExceptionDelete)

	// Schedule deletion
	authed.Delete("/schedules/:scheduleId", middleware.RequireRole(models.RoleAdmin, models.RoleManager), handlers.ScheduleDelete)

	// Assistant conversations
	chat := authed.Group("/chat")
	chat.Get("/threads", handlers.ChatThreadList)
	chat.Post("/threads", handlers.ChatThreadCreate)
	chat.Get("/threads/:id", handlers.ChatThreadView)
	chat.Post("/threads/:id/messages", handlers.ChatMessageCreate)
	chat.Delete("/threads/:id", handlers.ChatThreadDelete)

	// Admin debug endpoints
	debug := authed.Group("/debug", middleware.RequireRole(models.RoleAdmin))
	debug.Get("/sql", handlers.GetSQLLogs)
	debug.Delete("/sql", handlers.ClearSQLLogs)
}
