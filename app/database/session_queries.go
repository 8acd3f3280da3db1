package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

const clockSessionColumns = `id, employee_id, work_date, clock_in, clock_out, linked_shift_id,
							 auto_closed, is_unscheduled, COALESCE(notes, ''), created_at, updated_at`

func scanClockSession(row interface{ Scan(...interface{}) error }) (models.ClockSession, error) {
	var s models.ClockSession
	err := row.Scan(&s.ID, &s.EmployeeID, &s.WorkDate, &s.ClockIn, &s.ClockOut,
		&s.LinkedShiftID, &s.AutoClosed, &s.IsUnscheduled, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func GetClockSessionsByDateRange(db *sql.DB, start, end time.Time) ([]models.ClockSession, error) {
	query := `SELECT ` + clockSessionColumns + ` FROM clock_sessions
			  WHERE work_date >= $1 AND work_date <= $2
			  ORDER BY work_date, employee_id, clock_in`
	rows, err := db.Query(query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ClockSession
	for rows.Next() {
		s, err := scanClockSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func GetClockSessionByID(db *sql.DB, id string) (*models.ClockSession, error) {
	query := `SELECT ` + clockSessionColumns + ` FROM clock_sessions WHERE id = $1`
	s, err := scanClockSession(db.QueryRow(query, id))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetOpenClockSession returns the employee's currently open session, if any.
func GetOpenClockSession(db *sql.DB, employeeID string) (*models.ClockSession, error) {
	query := `SELECT ` + clockSessionColumns + ` FROM clock_sessions
			  WHERE employee_id = $1 AND clock_out IS NULL
			  ORDER BY clock_in DESC LIMIT 1`
	s, err := scanClockSession(db.QueryRow(query, employeeID))
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func CreateClockSession(db *sql.DB, s *models.ClockSession) error {
	query := `INSERT INTO clock_sessions
				(employee_id, work_date, clock_in, clock_out, linked_shift_id, auto_closed, is_unscheduled, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, s.EmployeeID, s.WorkDate, s.ClockIn, s.ClockOut,
		s.LinkedShiftID, s.AutoClosed, s.IsUnscheduled, s.Notes).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// CloseClockSession sets clock_out on an open session.
func CloseClockSession(db *sql.DB, id string, clockOut time.Time, autoClosed bool) error {
	res, err := db.Exec(`UPDATE clock_sessions
						 SET clock_out = $1, auto_closed = $2, updated_at = $3
						 WHERE id = $4 AND clock_out IS NULL`,
		clockOut, autoClosed, time.Now(), id)
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

// UpdateClockSessionTimes rewrites a session's recorded interval. Manual
// corrections clear the auto_closed flag.
func UpdateClockSessionTimes(db *sql.DB, id string, clockIn time.Time, clockOut *time.Time) error {
	res, err := db.Exec(`UPDATE clock_sessions
						 SET clock_in = $1, clock_out = $2, auto_closed = false, updated_at = $3
						 WHERE id = $4`,
		clockIn, clockOut, time.Now(), id)
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

func DeleteClockSession(db *sql.DB, id string) error {
	res, err := db.Exec(`DELETE FROM clock_sessions WHERE id = $1`, id)
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

// GetStaleOpenSessions returns open sessions whose clock-in is before the
// cutoff, for the nightly auto-close job.
func GetStaleOpenSessions(db *sql.DB, cutoff time.Time) ([]models.ClockSession, error) {
	query := `SELECT ` + clockSessionColumns + ` FROM clock_sessions
			  WHERE clock_out IS NULL AND clock_in < $1
			  ORDER BY clock_in`
	rows, err := db.Query(query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.ClockSession
	for rows.Next() {
		s, err := scanClockSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
