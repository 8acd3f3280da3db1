package messages

import (
	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/routes/auth"
)

// SetupMessageRoutes sets up staff SMS routes
func SetupMessageRoutes(app *fiber.App) {
	api := app.Group("/api/messages")
	api.Use(auth.AuthMiddleware)

	api.Get("/", auth.RequireCapability(auth.ModuleMessages, auth.ActionView), GetMessagesAPI)
	api.Post("/", auth.RequireCapability(auth.ModuleMessages, auth.ActionEdit), SendMessageAPI)
}
