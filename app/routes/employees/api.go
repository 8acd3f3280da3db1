package employees

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/models"
)

func GetEmployeesAPI(c *fiber.Ctx) error {
	includeFormer := c.Query("include_former") == "true"
	employees, err := database.GetEmployees(config.GetDB(), includeFormer)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employees"})
	}
	return c.JSON(fiber.Map{"employees": employees})
}

func GetEmployeeAPI(c *fiber.Ctx) error {
	emp, err := database.GetEmployeeByID(config.GetDB(), c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}
	return c.JSON(fiber.Map{"employee": emp})
}

type employeeRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Department  string `json:"department"`
	Status      string `json:"status"`
}

func (r *employeeRequest) apply(e *models.Employee) error {
	if r.FirstName == "" || r.LastName == "" {
		return fiber.NewError(400, "first_name and last_name are required")
	}
	e.FirstName = r.FirstName
	e.LastName = r.LastName
	e.Email = r.Email
	e.Phone = r.Phone
	e.Department = r.Department
	if r.Status != "" {
		e.Status = models.EmployeeStatus(r.Status)
	}
	if r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", r.DateOfBirth)
		if err != nil {
			return fiber.NewError(400, "Invalid date_of_birth. Use YYYY-MM-DD")
		}
		e.DateOfBirth = &dob
	}
	return nil
}

func CreateEmployeeAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	emp := models.Employee{Status: models.EmployeeActive}
	if err := req.apply(&emp); err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	if err := database.CreateEmployee(db, &emp); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create employee"})
	}

	database.LogAudit(db, user, "employee.create", "employee", emp.ID, emp.FullName())
	return c.Status(201).JSON(fiber.Map{"employee": emp})
}

func UpdateEmployeeAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	emp, err := database.GetEmployeeByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}

	var req employeeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.apply(emp); err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	if err := database.UpdateEmployee(db, emp); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update employee"})
	}

	database.LogAudit(db, user, "employee.update", "employee", emp.ID, emp.FullName())
	return c.JSON(fiber.Map{"employee": emp})
}

func UpsertPaySettingsAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()
	employeeID := c.Params("id")

	type PaySettingsRequest struct {
		PayType string `json:"pay_type"`
	}
	var req PaySettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	payType := models.PayType(req.PayType)
	if payType != models.PayHourly && payType != models.PaySalaried {
		return c.Status(400).JSON(fiber.Map{"error": "pay_type must be hourly or salaried"})
	}

	if _, err := database.GetEmployeeByID(db, employeeID); err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
	} else if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}

	if err := database.UpsertPaySettings(db, employeeID, payType); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save pay settings"})
	}

	// Pay type is not effective-dated: it changes which rows the engine
	// produces for any month recomputed after the switch, so every existing
	// approval is stale.
	if err := database.DeletePayrollApprovalsFrom(db, time.Time{}); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}

	database.LogAudit(db, user, "pay_settings.upsert", "employee", employeeID, string(payType))
	return c.JSON(fiber.Map{"message": "Pay settings saved"})
}

func GetRateOverridesAPI(c *fiber.Ctx) error {
	overrides, err := database.GetRateOverridesForEmployee(config.GetDB(), c.Params("id"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch rate overrides"})
	}
	return c.JSON(fiber.Map{"rate_overrides": overrides})
}

func CreateRateOverrideAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()
	employeeID := c.Params("id")

	type OverrideRequest struct {
		HourlyRate    float64 `json:"hourly_rate"`
		EffectiveFrom string  `json:"effective_from"`
	}
	var req OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.HourlyRate <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "hourly_rate must be positive"})
	}
	effective, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid effective_from. Use YYYY-MM-DD"})
	}

	if _, err := database.GetEmployeeByID(db, employeeID); err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
	} else if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}

	override := models.RateOverride{
		EmployeeID:    employeeID,
		HourlyRate:    req.HourlyRate,
		EffectiveFrom: effective,
	}
	if err := database.CreateRateOverride(db, &override); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create rate override"})
	}

	// A back-dated rate silently changes every approved month from its
	// effective date forward, not just the month covering that date.
	if err := database.DeletePayrollApprovalsFrom(db, effective); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}

	database.LogAudit(db, user, "rate_override.create", "employee", employeeID, req.EffectiveFrom)
	return c.Status(201).JSON(fiber.Map{"rate_override": override})
}

func GetAgeBandsAPI(c *fiber.Ctx) error {
	bands, err := database.GetAgeBands(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch age bands"})
	}
	return c.JSON(fiber.Map{"age_bands": bands})
}

func CreateAgeBandAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type BandRequest struct {
		Name   string `json:"name"`
		MinAge int    `json:"min_age"`
		MaxAge *int   `json:"max_age"`
	}
	var req BandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	if req.MinAge < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "min_age must not be negative"})
	}
	if req.MaxAge != nil && *req.MaxAge < req.MinAge {
		return c.Status(400).JSON(fiber.Map{"error": "max_age must be >= min_age"})
	}

	exists, err := database.ActiveBandExistsWithMinAge(db, req.MinAge)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check existing bands"})
	}
	if exists {
		return c.Status(400).JSON(fiber.Map{"error": "An active band with this min_age already exists"})
	}

	band := models.AgeBand{
		Name:     req.Name,
		MinAge:   req.MinAge,
		MaxAge:   req.MaxAge,
		IsActive: true,
	}
	if err := database.CreateAgeBand(db, &band); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create age band"})
	}

	database.LogAudit(db, user, "age_band.create", "age_band", band.ID, band.Name)
	return c.Status(201).JSON(fiber.Map{"age_band": band})
}

func GetAgeBandRatesAPI(c *fiber.Ctx) error {
	rates, err := database.GetAgeBandRates(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch band rates"})
	}
	return c.JSON(fiber.Map{"age_band_rates": rates})
}

func CreateAgeBandRateAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()
	bandID := c.Params("id")

	type BandRateRequest struct {
		HourlyRate    float64 `json:"hourly_rate"`
		EffectiveFrom string  `json:"effective_from"`
	}
	var req BandRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.HourlyRate <= 0 {
		return c.Status(400).JSON(fiber.Map{"error": "hourly_rate must be positive"})
	}
	effective, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid effective_from. Use YYYY-MM-DD"})
	}

	rate := models.AgeBandRate{
		BandID:        bandID,
		HourlyRate:    req.HourlyRate,
		EffectiveFrom: effective,
	}
	if err := database.CreateAgeBandRate(db, &rate); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create band rate"})
	}

	if err := database.DeletePayrollApprovalsFrom(db, effective); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}

	database.LogAudit(db, user, "age_band_rate.create", "age_band", bandID, req.EffectiveFrom)
	return c.Status(201).JSON(fiber.Map{"age_band_rate": rate})
}
