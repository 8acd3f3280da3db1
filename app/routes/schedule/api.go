package schedule

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/models"
)

func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(400, "Invalid start. Use YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return time.Time{}, time.Time{}, fiber.NewError(400, "Invalid end. Use YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fiber.NewError(400, "end must not be before start")
	}
	return start, end, nil
}

// validWallClock reports whether v is an "HH:MM" wall-clock time.
func validWallClock(v string) bool {
	_, err := time.Parse("15:04", v)
	return err == nil
}

func GetShiftsAPI(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	shifts, err := database.GetShiftsByDateRange(config.GetDB(), start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shifts"})
	}
	return c.JSON(fiber.Map{"shifts": shifts})
}

type shiftRequest struct {
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	BreakMinutes int    `json:"break_minutes"`
	IsOvernight  bool   `json:"is_overnight"`
	Department   string `json:"department"`
	Status       string `json:"status"`
}

func (r *shiftRequest) apply(s *models.Shift) error {
	if !validWallClock(r.StartTime) || !validWallClock(r.EndTime) {
		return fiber.NewError(400, "start_time and end_time must be HH:MM")
	}
	if r.BreakMinutes < 0 {
		return fiber.NewError(400, "break_minutes must not be negative")
	}
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return fiber.NewError(400, "Invalid date. Use YYYY-MM-DD")
	}
	s.Date = date
	s.StartTime = r.StartTime
	s.EndTime = r.EndTime
	s.BreakMinutes = r.BreakMinutes
	s.IsOvernight = r.IsOvernight
	s.Department = r.Department
	if r.Status != "" {
		switch models.ShiftStatus(r.Status) {
		case models.ShiftScheduled, models.ShiftCancelled, models.ShiftSick, models.ShiftCompleted:
			s.Status = models.ShiftStatus(r.Status)
		default:
			return fiber.NewError(400, "Invalid status")
		}
	}
	return nil
}

func CreateShiftAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	var req shiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.EmployeeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "employee_id is required"})
	}
	if _, err := database.GetEmployeeByID(db, req.EmployeeID); err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
	} else if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}

	shift := models.Shift{EmployeeID: req.EmployeeID, Status: models.ShiftScheduled}
	if err := req.apply(&shift); err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	if err := database.CreateShift(db, &shift); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create shift"})
	}

	if err := database.InvalidateApprovalsForDate(db, shift.Date); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}

	database.LogAudit(db, user, "shift.create", "shift", shift.ID, shift.Date.Format("2006-01-02"))
	return c.Status(201).JSON(fiber.Map{"shift": shift})
}

func UpdateShiftAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	shift, err := database.GetShiftByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Shift not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shift"})
	}
	previousDate := shift.Date

	var req shiftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := req.apply(shift); err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	if err := database.UpdateShift(db, shift); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update shift"})
	}

	// Moving a shift across a period boundary can stale two approvals.
	if err := database.InvalidateApprovalsForDate(db, previousDate); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}
	if !shift.Date.Equal(previousDate) {
		if err := database.InvalidateApprovalsForDate(db, shift.Date); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
		}
	}

	database.LogAudit(db, user, "shift.update", "shift", shift.ID, shift.Date.Format("2006-01-02"))
	return c.JSON(fiber.Map{"shift": shift})
}

func CancelShiftAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	shift, err := database.GetShiftByID(db, c.Params("id"))
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Shift not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch shift"})
	}

	if err := database.CancelShift(db, shift.ID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to cancel shift"})
	}
	if err := database.InvalidateApprovalsForDate(db, shift.Date); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}

	database.LogAudit(db, user, "shift.cancel", "shift", shift.ID, shift.Date.Format("2006-01-02"))
	return c.JSON(fiber.Map{"message": "Shift cancelled"})
}

func GetClockSessionsAPI(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	sessions, err := database.GetClockSessionsByDateRange(config.GetDB(), start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch clock sessions"})
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

func ClockInAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type ClockInRequest struct {
		EmployeeID    string  `json:"employee_id"`
		LinkedShiftID *string `json:"linked_shift_id"`
	}
	var req ClockInRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.EmployeeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "employee_id is required"})
	}

	if _, err := database.GetEmployeeByID(db, req.EmployeeID); err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Employee not found"})
	} else if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch employee"})
	}

	if open, err := database.GetOpenClockSession(db, req.EmployeeID); err != nil && err != sql.ErrNoRows {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check open sessions"})
	} else if open != nil {
		return c.Status(409).JSON(fiber.Map{"error": "Employee already has an open clock session"})
	}

	if req.LinkedShiftID != nil {
		if _, err := database.GetShiftByID(db, *req.LinkedShiftID); err == sql.ErrNoRows {
			return c.Status(404).JSON(fiber.Map{"error": "Linked shift not found"})
		} else if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch linked shift"})
		}
	}

	now := time.Now().In(config.AppConfig.Payroll.Timezone)
	session := models.ClockSession{
		EmployeeID:    req.EmployeeID,
		WorkDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		ClockIn:       now,
		LinkedShiftID: req.LinkedShiftID,
		IsUnscheduled: req.LinkedShiftID == nil,
	}
	if err := database.CreateClockSession(db, &session); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create clock session"})
	}

	database.LogAudit(db, user, "session.clock_in", "clock_session", session.ID, req.EmployeeID)
	return c.Status(201).JSON(fiber.Map{"session": session})
}

func ClockOutAPI(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type ClockOutRequest struct {
		EmployeeID string `json:"employee_id"`
	}
	var req ClockOutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.EmployeeID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "employee_id is required"})
	}

	open, err := database.GetOpenClockSession(db, req.EmployeeID)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "No open clock session for employee"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch open session"})
	}

	now := time.Now().In(config.AppConfig.Payroll.Timezone)
	if err := database.CloseClockSession(db, open.ID, now, false); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to close clock session"})
	}

	if err := database.InvalidateApprovalsForDate(db, open.WorkDate); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to invalidate approvals"})
	}

	database.LogAudit(db, user, "session.clock_out", "clock_session", open.ID, req.EmployeeID)
	return c.JSON(fiber.Map{"message": "Clocked out", "session_id": open.ID})
}
