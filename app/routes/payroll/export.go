package payroll

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"anchor-backoffice/app/config"
	"anchor-backoffice/app/database"
	"anchor-backoffice/app/models"
	engine "anchor-backoffice/app/payroll"
	"anchor-backoffice/app/services"
)

// SendPayrollEmailAPI emails the approved payroll snapshot for a month as an
// xlsx attachment. It refuses when the month has not been approved, so the
// workbook always reflects a reviewed state rather than a live recompute.
func SendPayrollEmailAPI(c *fiber.Ctx) error {
	year, month, err := parseYearMonth(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	user := c.Locals("user").(*models.User)
	db := config.GetDB()

	type EmailRequest struct {
		Recipients []string `json:"recipients"`
	}
	var req EmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(req.Recipients) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "At least one recipient is required"})
	}

	approval, err := database.GetPayrollApproval(db, year, month)
	if err == sql.ErrNoRows {
		return c.Status(404).JSON(fiber.Map{"error": "Payroll month has not been approved yet"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch approval"})
	}

	var snap MonthSnapshot
	if err := json.Unmarshal(approval.Snapshot, &snap); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Stored snapshot is unreadable"})
	}

	workbook, err := buildPayrollWorkbook(&snap)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build spreadsheet"})
	}

	monthLabel := fmt.Sprintf("%04d-%02d", year, month)
	subject := fmt.Sprintf("Payroll %s (%s to %s)", monthLabel, snap.PeriodStart, snap.PeriodEnd)
	attachmentName := fmt.Sprintf("payroll-%s.xlsx", monthLabel)

	err = services.SendMail(config.AppConfig.SMTP, req.Recipients, subject,
		payrollEmailBody(&snap, approval), attachmentName, workbook)
	if err != nil {
		log.Printf("Payroll email dispatch failed for %s: %v", monthLabel, err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to send payroll email"})
	}

	alerted := sendEarningsAlert(&snap, monthLabel)

	database.LogAudit(db, user, "payroll.email", "payroll_month", monthLabel,
		fmt.Sprintf("%d recipients, %d rows", len(req.Recipients), len(snap.Rows)))

	return c.JSON(fiber.Map{
		"message":    "Payroll email sent",
		"recipients": req.Recipients,
		"alerted":    alerted,
		"attachment": attachmentName,
	})
}

// buildPayrollWorkbook renders the snapshot into a two-sheet workbook: the
// reconciled rows and the per-employee totals. Nil numeric fields render as
// empty cells, never as zero.
func buildPayrollWorkbook(snap *MonthSnapshot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const rowsSheet = "Payroll"
	f.SetSheetName("Sheet1", rowsSheet)

	headers := []string{"Employee", "Date", "Department", "Planned Start", "Planned End",
		"Actual Start", "Actual End", "Planned Hours", "Actual Hours", "Rate", "Rate Source",
		"Total Pay", "Flags", "Note"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(rowsSheet, cell, h)
	}

	for i, row := range snap.Rows {
		r := i + 2
		setCell(f, rowsSheet, 1, r, row.EmployeeName)
		setCell(f, rowsSheet, 2, r, row.Date)
		setCell(f, rowsSheet, 3, r, row.Department)
		setCell(f, rowsSheet, 4, r, row.PlannedStart)
		setCell(f, rowsSheet, 5, r, row.PlannedEnd)
		setCell(f, rowsSheet, 6, r, row.ActualStart)
		setCell(f, rowsSheet, 7, r, row.ActualEnd)
		setFloatCell(f, rowsSheet, 8, r, row.PlannedHours)
		setFloatCell(f, rowsSheet, 9, r, row.ActualHours)
		setFloatCell(f, rowsSheet, 10, r, row.HourlyRate)
		setCell(f, rowsSheet, 11, r, row.RateSource)
		setFloatCell(f, rowsSheet, 12, r, row.TotalPay)
		setCell(f, rowsSheet, 13, r, row.Flags)
		setCell(f, rowsSheet, 14, r, row.Note)
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	for i, h := range []string{"Employee", "Planned Hours", "Actual Hours", "Rate", "Total Pay"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, h)
	}
	for i, s := range snap.Summaries {
		r := i + 2
		setCell(f, summarySheet, 1, r, s.EmployeeName)
		f.SetCellValue(summarySheet, mustCell(2, r), s.PlannedHours)
		f.SetCellValue(summarySheet, mustCell(3, r), s.ActualHours)
		setFloatCell(f, summarySheet, 4, r, s.HourlyRate)
		f.SetCellValue(summarySheet, mustCell(5, r), s.TotalPay)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func payrollEmailBody(snap *MonthSnapshot, approval *models.PayrollApproval) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<h2>Payroll %04d-%02d</h2>", snap.Year, snap.Month)
	fmt.Fprintf(&b, "<p>Period %s to %s, approved %s.</p>",
		snap.PeriodStart, snap.PeriodEnd, approval.ApprovedAt.Format("2 Jan 2006 15:04"))
	b.WriteString("<table border=\"1\" cellpadding=\"4\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Employee</th><th>Planned</th><th>Actual</th><th>Total Pay</th></tr>")
	for _, s := range snap.Summaries {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%.2f</td><td>%.2f</td><td>&pound;%.2f</td></tr>",
			s.EmployeeName, s.PlannedHours, s.ActualHours, s.TotalPay)
	}
	b.WriteString("</table>")
	b.WriteString("<p>The full reconciliation is attached.</p>")
	return b.String()
}

// sendEarningsAlert notifies the manager about employees whose monthly pay
// crossed the alert threshold. A failed alert never fails the payroll email
// itself. Returns the names of the employees flagged.
func sendEarningsAlert(snap *MonthSnapshot, monthLabel string) []string {
	threshold := config.AppConfig.Payroll.EarningsAlertThreshold
	var over []engine.EmployeeSummary
	for _, s := range snap.Summaries {
		if s.TotalPay > threshold {
			over = append(over, s)
		}
	}
	if len(over) == 0 {
		return nil
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "<h3>Earnings alert for %s</h3>", monthLabel)
	fmt.Fprintf(&b, "<p>The following employees earned over &pound;%.2f this month:</p><ul>", threshold)
	names := make([]string, 0, len(over))
	for _, s := range over {
		fmt.Fprintf(&b, "<li>%s &mdash; &pound;%.2f</li>", s.EmployeeName, s.TotalPay)
		names = append(names, s.EmployeeName)
	}
	b.WriteString("</ul>")

	subject := fmt.Sprintf("Earnings alert: %d employee(s) over threshold for %s", len(over), monthLabel)
	err := services.SendMail(config.AppConfig.SMTP,
		[]string{config.AppConfig.Payroll.ManagerEmail}, subject, b.String(), "", nil)
	if err != nil {
		log.Printf("Earnings alert dispatch failed for %s: %v", monthLabel, err)
	}
	return names
}

func setCell(f *excelize.File, sheet string, col, row int, v string) {
	if v == "" {
		return
	}
	f.SetCellValue(sheet, mustCell(col, row), v)
}

func setFloatCell(f *excelize.File, sheet string, col, row int, v *float64) {
	if v == nil {
		return
	}
	f.SetCellValue(sheet, mustCell(col, row), *v)
}

func mustCell(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
