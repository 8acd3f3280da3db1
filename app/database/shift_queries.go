package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

const shiftColumns = `id, employee_id, date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
					  break_minutes, is_overnight, COALESCE(department, ''), status, created_at, updated_at`

func scanShift(row interface{ Scan(...interface{}) error }) (models.Shift, error) {
	var s models.Shift
	err := row.Scan(&s.ID, &s.EmployeeID, &s.Date, &s.StartTime, &s.EndTime,
		&s.BreakMinutes, &s.IsOvernight, &s.Department, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetShiftsByDateRange returns all shifts (including cancelled; the engine
// filters those) whose date falls within [start, end].
func GetShiftsByDateRange(db *sql.DB, start, end time.Time) ([]models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts
			  WHERE date >= $1 AND date <= $2
			  ORDER BY date, employee_id, start_time`
	rows, err := db.Query(query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

func GetShiftByID(db *sql.DB, id string) (*models.Shift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`
	s, err := scanShift(db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func CreateShift(db *sql.DB, s *models.Shift) error {
	query := `INSERT INTO shifts (employee_id, date, start_time, end_time, break_minutes, is_overnight, department, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, s.EmployeeID, s.Date, s.StartTime, s.EndTime,
		s.BreakMinutes, s.IsOvernight, s.Department, s.Status).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func UpdateShift(db *sql.DB, s *models.Shift) error {
	query := `UPDATE shifts
			  SET employee_id = $1, date = $2, start_time = $3, end_time = $4,
				  break_minutes = $5, is_overnight = $6, department = $7, status = $8, updated_at = $9
			  WHERE id = $10`
	res, err := db.Exec(query, s.EmployeeID, s.Date, s.StartTime, s.EndTime,
		s.BreakMinutes, s.IsOvernight, s.Department, s.Status, time.Now(), s.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CancelShift soft-cancels a shift. Shifts are never deleted.
func CancelShift(db *sql.DB, id string) error {
	res, err := db.Exec(`UPDATE shifts SET status = $1, updated_at = $2 WHERE id = $3`,
		models.ShiftCancelled, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
