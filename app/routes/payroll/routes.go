package payroll

import (
	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/routes/auth"
)

// SetupPayrollRoutes sets up payroll review, approval and correction routes
func SetupPayrollRoutes(app *fiber.App) {
	api := app.Group("/api/payroll")
	api.Use(auth.AuthMiddleware)

	api.Get("/:year/:month", auth.RequireCapability(auth.ModulePayroll, auth.ActionView), GetPayrollMonthAPI)
	api.Get("/:year/:month/period", auth.RequireCapability(auth.ModulePayroll, auth.ActionView), GetPayrollPeriodAPI)
	api.Put("/:year/:month/period", auth.RequireCapability(auth.ModulePayroll, auth.ActionEdit), UpdatePayrollPeriodAPI)
	api.Post("/:year/:month/approve", auth.RequireCapability(auth.ModulePayroll, auth.ActionApprove), ApprovePayrollMonthAPI)
	api.Post("/:year/:month/email", auth.RequireCapability(auth.ModulePayroll, auth.ActionApprove), SendPayrollEmailAPI)

	api.Put("/rows/times", auth.RequireCapability(auth.ModulePayroll, auth.ActionEdit), UpdatePayrollRowTimesAPI)
	api.Delete("/rows", auth.RequireCapability(auth.ModulePayroll, auth.ActionEdit), DeletePayrollRowAPI)

	api.Post("/notes", auth.RequireCapability(auth.ModulePayroll, auth.ActionEdit), CreateNoteAPI)
	api.Get("/notes/:entityType/:entityId", auth.RequireCapability(auth.ModulePayroll, auth.ActionView), GetNotesAPI)
}
