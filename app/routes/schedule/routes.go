package schedule

import (
	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/routes/auth"
)

// SetupScheduleRoutes sets up shift planning and time clock routes
func SetupScheduleRoutes(app *fiber.App) {
	api := app.Group("/api/schedule")
	api.Use(auth.AuthMiddleware)

	view := auth.RequireCapability(auth.ModuleSchedule, auth.ActionView)
	edit := auth.RequireCapability(auth.ModuleSchedule, auth.ActionEdit)

	api.Get("/shifts", view, GetShiftsAPI)
	api.Post("/shifts", edit, CreateShiftAPI)
	api.Put("/shifts/:id", edit, UpdateShiftAPI)
	api.Delete("/shifts/:id", edit, CancelShiftAPI)

	api.Get("/sessions", view, GetClockSessionsAPI)
	api.Post("/clock-in", edit, ClockInAPI)
	api.Post("/clock-out", edit, ClockOutAPI)
}
