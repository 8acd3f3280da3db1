package auth

import (
	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/models"
)

// Module and action names used by capability checks.
const (
	ModulePayroll   = "payroll"
	ModuleSchedule  = "schedule"
	ModuleEmployees = "employees"
	ModuleReceipts  = "receipts"
	ModuleMessages  = "messages"

	ActionView    = "view"
	ActionEdit    = "edit"
	ActionApprove = "approve"
)

// capabilities maps role -> module -> allowed actions. Managers and admins
// can do everything; supervisors can run the rota and review payroll but not
// approve it; staff can only view the schedule.
var capabilities = map[string]map[string][]string{
	"admin": nil, // nil means everything
	"manager": {
		ModulePayroll:   {ActionView, ActionEdit, ActionApprove},
		ModuleSchedule:  {ActionView, ActionEdit},
		ModuleEmployees: {ActionView, ActionEdit},
		ModuleReceipts:  {ActionView, ActionEdit},
		ModuleMessages:  {ActionView, ActionEdit},
	},
	"supervisor": {
		ModulePayroll:   {ActionView},
		ModuleSchedule:  {ActionView, ActionEdit},
		ModuleEmployees: {ActionView},
		ModuleReceipts:  {ActionView},
		ModuleMessages:  {ActionView},
	},
	"staff": {
		ModuleSchedule: {ActionView},
	},
}

// CanViewOrEdit reports whether the user holds a role granting the action on
// the module.
func CanViewOrEdit(user *models.User, module, action string) bool {
	if user == nil {
		return false
	}
	for _, role := range user.Roles {
		actions, ok := capabilities[role.Name]
		if !ok {
			continue
		}
		if actions == nil {
			return true
		}
		for _, a := range actions[module] {
			if a == action {
				return true
			}
		}
	}
	return false
}

// RequireCapability is middleware that rejects the request with a structured
// 403 before the handler touches any data.
func RequireCapability(module, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := c.Locals("user").(*models.User)
		if !CanViewOrEdit(user, module, action) {
			return c.Status(403).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
		return c.Next()
	}
}
