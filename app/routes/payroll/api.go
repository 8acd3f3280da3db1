package payroll

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/models"
	engine "anchor-backoffice/app/payroll"
)

// MonthSnapshot is the persisted shape of an approved payroll month.
type MonthSnapshot struct {
	Year        int                      `json:"year"`
	Month       int                      `json:"month"`
	PeriodStart string                   `json:"period_start"`
	PeriodEnd   string                   `json:"period_end"`
	Rows        []engine.Row             `json:"rows"`
	Summaries   []engine.EmployeeSummary `json:"employee_summaries"`
}

func parseYearMonth(c *fiber.Ctx) (int, int, error) {
	year, err := c.ParamsInt("year")
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("invalid year")
	}
	month, err := c.ParamsInt("month")
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month")
	}
	return year, month, nil
}

// loadEngineInputs batch-fetches everything one reconciliation run needs.
// Any read failure aborts the whole computation; no partial results.
func loadEngineInputs(db *sql.DB, period *models.PayrollPeriod) (engine.Inputs, error) {
	in := engine.Inputs{
		PeriodStart: period.PeriodStart,
		PeriodEnd:   period.PeriodEnd,
		Location:    config.AppConfig.Payroll.Timezone,
	}

	var err error
	if in.Shifts, err = database.GetShiftsByDateRange(db, period.PeriodStart, period.PeriodEnd); err != nil {
		return in, fmt.Errorf("loading shifts: %w", err)
	}
	if in.Sessions, err = database.GetClockSessionsByDateRange(db, period.PeriodStart, period.PeriodEnd); err != nil {
		return in, fmt.Errorf("loading clock sessions: %w", err)
	}
	if in.Employees, err = database.GetEmployees(db, true); err != nil {
		return in, fmt.Errorf("loading employees: %w", err)
	}
	if in.PaySettings, err = database.GetAllPaySettings(db); err != nil {
		return in, fmt.Errorf("loading pay settings: %w", err)
	}
	if in.Overrides, err = database.GetAllRateOverrides(db); err != nil {
		return in, fmt.Errorf("loading rate overrides: %w", err)
	}
	if in.Bands, err = database.GetAgeBands(db); err != nil {
		return in, fmt.Errorf("loading age bands: %w", err)
	}
	if in.BandRates, err = database.GetAgeBandRates(db); err != nil {
		return in, fmt.Errorf("loading age band rates: %w", err)
	}
	if in.Notes, err = database.GetLatestShiftNotes(db, period.PeriodStart, period.PeriodEnd); err != nil {
		return in, fmt.Errorf("loading notes: %w", err)
	}
	return in, nil
}

func computeMonth(db *sql.DB, year, month int) (*MonthSnapshot, error) {
	period, err := database.GetPayrollPeriod(db, year, month)
	if err != nil {
		return nil, err
	}
	in, err := loadEngineInputs(db, period)
	if err != nil {
		return nil, err
	}
	res := engine.Reconcile(in)
	return &MonthSnapshot{
		Year:        year,
		Month:       month,
		PeriodStart: period.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   period.PeriodEnd.Format("2006-01-02"),
		Rows:        res.Rows,
		Summaries:   res.Summaries,
	}, nil
}

func GetPayrollMonthAPI(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	snap, err := computeMonth(config.GetDB(), year, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute payroll month"})
	}

	return c.JSON(fiber.Map{
		"year":               snap.Year,
		"month":              snap.Month,
		"period_start":       snap.PeriodStart,
		"period_end":         snap.PeriodEnd,
		"rows":               snap.Rows,
		"employee_summaries": snap.Summaries,
	})
}

func ApprovePayrollMonthAPI(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	snap, err := computeMonth(db, year, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to compute payroll month"})
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to encode snapshot"})
	}

	approval, err := database.UpsertPayrollApproval(db, year, month, user.ID, body)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to persist approval"})
	}

	database.LogAudit(db, user, "payroll.approve", "payroll_month",
		fmt.Sprintf("%04d-%02d", year, month),
		fmt.Sprintf("%d rows", len(snap.Rows)))

	return c.JSON(fiber.Map{
		"message":  "Payroll month approved",
		"approval": approval,
	})
}

func GetPayrollPeriodAPI(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	period, err := database.GetPayrollPeriod(config.GetDB(), year, month)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch payroll period"})
	}
	return c.JSON(fiber.Map{"period": period})
}

func UpdatePayrollPeriodAPI(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	type PeriodRequest struct {
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	var req PeriodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid period_start. Use YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid period_end. Use YYYY-MM-DD"})
	}
	if !start.Before(end) {
		return c.Status(400).JSON(fiber.Map{"error": "period_start must be before period_end"})
	}

	db := config.GetDB()
	user := c.Locals("user").(*models.User)

	if err := database.UpsertPayrollPeriod(db, year, month, start, end); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save payroll period"})
	}
	// Editing the period invalidates any approval built on the old range.
	if err := database.DeletePayrollApproval(db, year, month); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approval"})
	}

	database.LogAudit(db, user, "payroll.period.update", "payroll_period",
		fmt.Sprintf("%04d-%02d", year, month),
		fmt.Sprintf("%s to %s", req.PeriodStart, req.PeriodEnd))

	return c.JSON(fiber.Map{"message": "Payroll period updated"})
}

func UpdatePayrollRowTimesAPI(c *fiber.Ctx) error {
	type TimesRequest struct {
		SessionID  *string `json:"session_id"`
		EmployeeID string  `json:"employee_id"`
		WorkDate   string  `json:"work_date"`
		ClockIn    string  `json:"clock_in"`
		ClockOut   *string `json:"clock_out"`
	}
	var req TimesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	workDate, err := time.Parse("2006-01-02", req.WorkDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid work_date. Use YYYY-MM-DD"})
	}

	loc := config.AppConfig.Payroll.Timezone
	clockIn, err := parseWallClock(workDate, req.ClockIn, loc)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid clock_in. Use HH:MM"})
	}
	var clockOut *time.Time
	if req.ClockOut != nil && *req.ClockOut != "" {
		out, err := parseWallClock(workDate, *req.ClockOut, loc)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid clock_out. Use HH:MM"})
		}
		// A clock-out earlier than clock-in crossed midnight.
		if out.Before(clockIn) {
			out = out.AddDate(0, 0, 1)
		}
		clockOut = &out
	}

	db := config.GetDB()
	user := c.Locals("user").(*models.User)

	var sessionID string
	if req.SessionID != nil && *req.SessionID != "" {
		if err := database.UpdateClockSessionTimes(db, *req.SessionID, clockIn, clockOut); err != nil {
			if err == sql.ErrNoRows {
				return c.Status(404).JSON(fiber.Map{"error": "Clock session not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Failed to update clock session"})
		}
		sessionID = *req.SessionID
	} else {
		if req.EmployeeID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "employee_id is required when creating a session"})
		}
		session := &models.ClockSession{
			EmployeeID:    req.EmployeeID,
			WorkDate:      workDate,
			ClockIn:       clockIn,
			ClockOut:      clockOut,
			IsUnscheduled: true,
			Notes:         "Created by payroll correction",
		}
		if err := database.CreateClockSession(db, session); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to create clock session"})
		}
		sessionID = session.ID
	}

	if err := database.InvalidateApprovalsForDate(db, workDate); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approval"})
	}

	database.LogAudit(db, user, "payroll.row.times", "clock_session", sessionID,
		fmt.Sprintf("%s %s-%v", req.WorkDate, req.ClockIn, req.ClockOut))

	return c.JSON(fiber.Map{"message": "Times updated", "session_id": sessionID})
}

func DeletePayrollRowAPI(c *fiber.Ctx) error {
	type DeleteRequest struct {
		SessionID *string `json:"session_id"`
		ShiftID   *string `json:"shift_id"`
	}
	var req DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if (req.SessionID == nil || *req.SessionID == "") && (req.ShiftID == nil || *req.ShiftID == "") {
		return c.Status(400).JSON(fiber.Map{"error": "session_id or shift_id is required"})
	}

	db := config.GetDB()
	user := c.Locals("user").(*models.User)

	if req.SessionID != nil && *req.SessionID != "" {
		session, err := database.GetClockSessionByID(db, *req.SessionID)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.Status(404).JSON(fiber.Map{"error": "Clock session not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if err := database.DeleteClockSession(db, session.ID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to delete clock session"})
		}
		if err := database.InvalidateApprovalsForDate(db, session.WorkDate); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approval"})
		}
		database.LogAudit(db, user, "payroll.row.delete", "clock_session", session.ID, "")
	}

	if req.ShiftID != nil && *req.ShiftID != "" {
		shift, err := database.GetShiftByID(db, *req.ShiftID)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.Status(404).JSON(fiber.Map{"error": "Shift not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": "Database error"})
		}
		if err := database.CancelShift(db, shift.ID); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to cancel shift"})
		}
		if err := database.InvalidateApprovalsForDate(db, shift.Date); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approval"})
		}
		database.LogAudit(db, user, "payroll.row.delete", "shift", shift.ID, "cancelled")
	}

	return c.JSON(fiber.Map{"message": "Row removed"})
}

func CreateNoteAPI(c *fiber.Ctx) error {
	type NoteRequest struct {
		EntityType string `json:"entity_type"`
		EntityID   string `json:"entity_id"`
		Note       string `json:"note"`
	}
	var req NoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.EntityType == "" || req.EntityID == "" || req.Note == "" {
		return c.Status(400).JSON(fiber.Map{"error": "entity_type, entity_id and note are required"})
	}

	user := c.Locals("user").(*models.User)
	note := &models.ReconNote{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Note:       req.Note,
		CreatedBy:  user.ID,
	}
	if err := database.CreateReconNote(config.GetDB(), note); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to save note"})
	}
	return c.Status(201).JSON(fiber.Map{"note": note})
}

func GetNotesAPI(c *fiber.Ctx) error {
	entityType := c.Params("entityType")
	entityID := c.Params("entityId")

	notes, err := database.GetNotesForEntity(config.GetDB(), entityType, entityID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch notes"})
	}
	return c.JSON(fiber.Map{"notes": notes, "count": len(notes)})
}

func parseWallClock(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
