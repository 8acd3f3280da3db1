package receipts

import (
	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/routes/auth"
)

// SetupReceiptRoutes sets up receipt transaction and classification routes
func SetupReceiptRoutes(app *fiber.App) {
	api := app.Group("/api/receipts")
	api.Use(auth.AuthMiddleware)

	view := auth.RequireCapability(auth.ModuleReceipts, auth.ActionView)
	edit := auth.RequireCapability(auth.ModuleReceipts, auth.ActionEdit)

	api.Get("/", view, GetReceiptsAPI)
	api.Post("/", edit, CreateReceiptAPI)
	api.Post("/classify", edit, RunClassificationAPI)
	api.Put("/:id/classify", edit, ManualClassifyAPI)

	api.Get("/rules", view, GetReceiptRulesAPI)
	api.Post("/rules", edit, CreateReceiptRuleAPI)
}
