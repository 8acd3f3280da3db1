package messages

import (
	"database/sql"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/models"
	"anchor-backoffice/app/services"
)

// Sender is the outbound SMS provider used by the handlers. Swappable so
// tests and providerless deployments do not hit a real gateway.
var Sender services.SMSSender = services.LogSender{}

func GetMessagesAPI(c *fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return c.Status(400).JSON(fiber.Map{"error": "limit must be between 1 and 500"})
		}
		limit = n
	}

	msgs, err := database.GetMessages(config.GetDB(), limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func SendMessageAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type MessageRequest struct {
		EmployeeID *string `json:"employee_id"`
		Phone      string  `json:"phone"`
		Body       string  `json:"body"`
	}
	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Body == "" {
		return c.Status(400).JSON(fiber.Map{"error": "body is required"})
	}

	phone := req.Phone
	if req.EmployeeID != nil {
		emp, err := database.GetEmployeeByID(db, *req.EmployeeID)
		if err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
		}
		if phone == "" {
			phone = emp.Phone
		}
	}
	if phone == "" {
		return c.Status(400).JSON(fiber.Map{"error": "No phone number for recipient"})
	}

	msg := models.Message{
		EmployeeID: req.EmployeeID,
		Phone:      phone,
		Body:       req.Body,
		Status:     models.MessageQueued,
	}
	if err := database.CreateMessage(db, &msg); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to record message"})
	}

	status := models.MessageSent
	if err := Sender.Send(phone, req.Body); err != nil {
		status = models.MessageFailed
	}
	if err := database.MarkMessageStatus(db, msg.ID, status); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update message status"})
	}
	msg.Status = status

	database.LogAudit(db, user, "message.send", "message", msg.ID, phone)

	if status == models.MessageFailed {
		return c.Status(502).JSON(fiber.Map{"error": "Message delivery failed", "message": msg})
	}
	return c.Status(201).JSON(fiber.Map{"message": msg})
}
