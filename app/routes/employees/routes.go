package employees

import (
	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/routes/auth"
)

// SetupEmployeeRoutes sets up employee and pay configuration routes
func SetupEmployeeRoutes(app *fiber.App) {
	api := app.Group("/api/employees")
	api.Use(auth.AuthMiddleware)

	view := auth.RequireCapability(auth.ModuleEmployees, auth.ActionView)
	edit := auth.RequireCapability(auth.ModuleEmployees, auth.ActionEdit)

	api.Get("/", view, GetEmployeesAPI)
	api.Get("/:id", view, GetEmployeeAPI)
	api.Post("/", edit, CreateEmployeeAPI)
	api.Put("/:id", edit, UpdateEmployeeAPI)

	api.Put("/:id/pay-settings", edit, UpsertPaySettingsAPI)
	api.Get("/:id/rate-overrides", view, GetRateOverridesAPI)
	api.Post("/:id/rate-overrides", edit, CreateRateOverrideAPI)

	bands := app.Group("/api/age-bands")
	bands.Use(auth.AuthMiddleware)
	bands.Get("/", view, GetAgeBandsAPI)
	bands.Post("/", edit, CreateAgeBandAPI)
	bands.Get("/rates", view, GetAgeBandRatesAPI)
	bands.Post("/:id/rates", edit, CreateAgeBandRateAPI)
}
