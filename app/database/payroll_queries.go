package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"anchor-backoffice/app/models"
)

// DefaultPayrollPeriod is the 25th of the prior month through the 24th of
// the target month.
func DefaultPayrollPeriod(year, month int) (time.Time, time.Time) {
	end := time.Date(year, time.Month(month), 24, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, -1, 1)
	return start, end
}

// defaultPeriodMonth is the (year, month) whose default period covers the
// date: a date on or after the 25th belongs to the following month's run.
func defaultPeriodMonth(date time.Time) (int, int) {
	y, m := date.Year(), int(date.Month())
	if date.Day() >= 25 {
		m++
		if m > 12 {
			m = 1
			y++
		}
	}
	return y, m
}

// GetPayrollPeriod returns the stored period for (year, month), falling back
// to the default range when none has been saved.
func GetPayrollPeriod(db *sql.DB, year, month int) (*models.PayrollPeriod, error) {
	p := &models.PayrollPeriod{Year: year, Month: month}
	query := `SELECT id, period_start, period_end, updated_at
			  FROM payroll_periods WHERE year = $1 AND month = $2`
	err := db.QueryRow(query, year, month).Scan(&p.ID, &p.PeriodStart, &p.PeriodEnd, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		p.PeriodStart, p.PeriodEnd = DefaultPayrollPeriod(year, month)
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func UpsertPayrollPeriod(db *sql.DB, year, month int, start, end time.Time) error {
	query := `INSERT INTO payroll_periods (year, month, period_start, period_end)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (year, month) DO UPDATE
				  SET period_start = EXCLUDED.period_start,
					  period_end = EXCLUDED.period_end,
					  updated_at = $5`
	_, err := db.Exec(query, year, month, start, end, time.Now())
	return err
}

func GetPayrollApproval(db *sql.DB, year, month int) (*models.PayrollApproval, error) {
	a := &models.PayrollApproval{Year: year, Month: month}
	query := `SELECT id, approved_by, approved_at, snapshot
			  FROM payroll_approvals WHERE year = $1 AND month = $2`
	var raw []byte
	err := db.QueryRow(query, year, month).Scan(&a.ID, &a.ApprovedBy, &a.ApprovedAt, &raw)
	if err != nil {
		return nil, err
	}
	a.Snapshot = json.RawMessage(raw)
	return a, nil
}

// UpsertPayrollApproval replaces any existing snapshot for the month.
// Concurrent approvals are last-write-wins; the approver and timestamp
// record who won.
func UpsertPayrollApproval(db *sql.DB, year, month int, approvedBy string, snapshot []byte) (*models.PayrollApproval, error) {
	a := &models.PayrollApproval{
		Year: year, Month: month,
		ApprovedBy: approvedBy,
		ApprovedAt: time.Now(),
		Snapshot:   json.RawMessage(snapshot),
	}
	query := `INSERT INTO payroll_approvals (year, month, approved_by, approved_at, snapshot)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (year, month) DO UPDATE
				  SET approved_by = EXCLUDED.approved_by,
					  approved_at = EXCLUDED.approved_at,
					  snapshot = EXCLUDED.snapshot
			  RETURNING id`
	err := db.QueryRow(query, year, month, a.ApprovedBy, a.ApprovedAt, snapshot).Scan(&a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func DeletePayrollApproval(db *sql.DB, year, month int) error {
	_, err := db.Exec(`DELETE FROM payroll_approvals WHERE year = $1 AND month = $2`, year, month)
	return err
}

// InvalidateApprovalsForDate deletes any approval snapshot whose period
// covers the given work date. Both stored periods and the default period
// that would cover the date are considered; a stale snapshot must never
// survive an edit to the data it was built from.
func InvalidateApprovalsForDate(db *sql.DB, date time.Time) error {
	rows, err := db.Query(`SELECT year, month FROM payroll_periods
						   WHERE period_start <= $1 AND period_end >= $1`, date)
	if err != nil {
		return err
	}
	defer rows.Close()

	type ym struct{ y, m int }
	months := map[ym]bool{}
	for rows.Next() {
		var k ym
		if err := rows.Scan(&k.y, &k.m); err != nil {
			return err
		}
		months[k] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	y, m := defaultPeriodMonth(date)
	months[ym{y, m}] = true

	for k := range months {
		if err := DeletePayrollApproval(db, k.y, k.m); err != nil {
			return err
		}
	}
	return nil
}

// DeletePayrollApprovalsFrom deletes every approval snapshot for a period
// ending on or after the given date. Rate and pay-settings changes apply to
// all work from their effective date forward, so one edit can stale every
// approved month since then, not just the month covering the date itself.
func DeletePayrollApprovalsFrom(db *sql.DB, effective time.Time) error {
	// Stored periods ending on or after the effective date.
	_, err := db.Exec(`DELETE FROM payroll_approvals a
					   USING payroll_periods p
					   WHERE a.year = p.year AND a.month = p.month
						 AND p.period_end >= $1`, effective)
	if err != nil {
		return err
	}

	// Months with no stored period run on the default 25th-to-24th range,
	// which ends on the 24th of the approval's (year, month). Every default
	// month from the one covering the effective date onward is stale.
	y, m := defaultPeriodMonth(effective)
	_, err = db.Exec(`DELETE FROM payroll_approvals
					  WHERE NOT EXISTS (
							SELECT 1 FROM payroll_periods p
							WHERE p.year = payroll_approvals.year
							  AND p.month = payroll_approvals.month)
						AND (year > $1 OR (year = $1 AND month >= $2))`, y, m)
	return err
}
