package receipts

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/models"
)

func GetReceiptsAPI(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start. Use YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end. Use YYYY-MM-DD"})
	}

	receipts, err := database.GetReceipts(config.GetDB(), start, end, c.Query("status"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch receipts"})
	}
	return c.JSON(fiber.Map{"receipts": receipts})
}

func CreateReceiptAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type ReceiptRequest struct {
		TxDate    string   `json:"tx_date"`
		Details   string   `json:"details"`
		AmountIn  *float64 `json:"amount_in"`
		AmountOut *float64 `json:"amount_out"`
	}
	var req ReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Details == "" {
		return c.Status(400).JSON(fiber.Map{"error": "details is required"})
	}
	if req.AmountIn == nil && req.AmountOut == nil {
		return c.Status(400).JSON(fiber.Map{"error": "One of amount_in or amount_out is required"})
	}
	txDate, err := time.Parse("2006-01-02", req.TxDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid tx_date. Use YYYY-MM-DD"})
	}

	receipt := models.ReceiptTransaction{
		TxDate:    txDate,
		Details:   req.Details,
		AmountIn:  req.AmountIn,
		AmountOut: req.AmountOut,
		Status:    models.ReceiptPending,
	}
	if err := database.CreateReceipt(db, &receipt); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create receipt"})
	}

	database.LogAudit(db, user, "receipt.create", "receipt", receipt.ID, req.Details)
	return c.Status(201).JSON(fiber.Map{"receipt": receipt})
}

// RunClassificationAPI applies the active rules to every non-manual
// transaction and persists the outcomes.
func RunClassificationAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	receipts, err := database.GetClassifiableReceipts(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch receipts"})
	}
	rules, err := database.GetActiveReceiptRules(db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch rules"})
	}

	results := Classify(receipts, rules)

	matched := 0
	for _, res := range results {
		var vendor, category, ruleID *string
		if res.Rule != nil {
			vendor = res.Rule.SetVendor
			category = res.Rule.SetCategory
			ruleID = &res.Rule.ID
			matched++
		}
		if err := database.ApplyReceiptClassification(db, res.ReceiptID, vendor, category, res.Status, ruleID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to apply classification"})
		}
	}

	database.LogAudit(db, user, "receipts.classify", "receipt_batch", "",
		c.Query("note"))
	return c.JSON(fiber.Map{
		"processed": len(results),
		"matched":   matched,
		"unmatched": len(results) - matched,
	})
}

func ManualClassifyAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()
	receiptID := c.Params("id")

	type ManualRequest struct {
		VendorName *string `json:"vendor_name"`
		Category   *string `json:"category"`
	}
	var req ManualRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.VendorName == nil && req.Category == nil {
		return c.Status(400).JSON(fiber.Map{"error": "One of vendor_name or category is required"})
	}

	err := database.ApplyReceiptClassification(db, receiptID, req.VendorName, req.Category,
		models.ReceiptManual, nil)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Receipt not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to classify receipt"})
	}

	database.LogAudit(db, user, "receipt.manual_classify", "receipt", receiptID, "")
	return c.JSON(fiber.Map{"message": "Receipt classified"})
}

func GetReceiptRulesAPI(c *fiber.Ctx) error {
	rules, err := database.GetActiveReceiptRules(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch rules"})
	}
	return c.JSON(fiber.Map{"rules": rules})
}

func CreateReceiptRuleAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type RuleRequest struct {
		Name        string  `json:"name"`
		MatchText   string  `json:"match_text"`
		Direction   string  `json:"direction"`
		SetVendor   *string `json:"set_vendor"`
		SetCategory *string `json:"set_category"`
		Priority    int     `json:"priority"`
	}
	var req RuleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.MatchText == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and match_text are required"})
	}
	if req.SetVendor == nil && req.SetCategory == nil {
		return c.Status(400).JSON(fiber.Map{"error": "Rule must set a vendor or a category"})
	}

	direction := models.DirectionAny
	if req.Direction != "" {
		switch models.RuleDirection(req.Direction) {
		case models.DirectionIn, models.DirectionOut, models.DirectionAny:
			direction = models.RuleDirection(req.Direction)
		default:
			return c.Status(400).JSON(fiber.Map{"error": "direction must be in, out or any"})
		}
	}

	rule := models.ReceiptRule{
		Name:        req.Name,
		MatchText:   req.MatchText,
		Direction:   direction,
		SetVendor:   req.SetVendor,
		SetCategory: req.SetCategory,
		Priority:    req.Priority,
		IsActive:    true,
	}
	if err := database.CreateReceiptRule(db, &rule); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create rule"})
	}

	database.LogAudit(db, user, "receipt_rule.create", "receipt_rule", rule.ID, rule.Name)
	return c.Status(201).JSON(fiber.Map{"rule": rule})
}
