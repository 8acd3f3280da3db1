package main

import (
	"log"
	"os"
	"time"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/routes/auth"
	"anchor-backoffice/app/routes/employees"
	"anchor-backoffice/app/routes/messages"
	"anchor-backoffice/app/routes/payroll"
	"anchor-backoffice/app/routes/receipts"
	"anchor-backoffice/app/routes/schedule"
	"anchor-backoffice/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// customErrorHandler keeps every error response JSON-shaped
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Status code defaults to 500
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

func main() {
	// Set global time zone to the business zone
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		log.Printf("Warning: Failed to load Europe/London location, falling back to UTC: %v", err)
		time.Local = time.UTC
	} else {
		time.Local = loc
	}
	log.Printf("Application time zone set to: %s", time.Local.String())

	// Initialize configuration and database
	config.Init()
	defer config.GetDB().Close()

	// Run database migrations
	if err := database.RunMigrations(config.GetDB()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Start background scheduler
	services.StartScheduler(config.GetDB())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Routes
	auth.SetupAuthRoutes(app)
	payroll.SetupPayrollRoutes(app)
	schedule.SetupScheduleRoutes(app)
	employees.SetupEmployeeRoutes(app)
	receipts.SetupReceiptRoutes(app)
	messages.SetupMessageRoutes(app)

	// Catch-all route for 404 errors (must be last)
	app.Use("*", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	// Start server
	addr := ":" + envOr("PORT", "8080")
	log.Println("Server starting on " + addr)
	log.Fatal(app.Listen(addr))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
