package database

import (
	"database/sql"
	"time"

	"anchor-backoffice/app/models"
)

func GetAllPaySettings(db *sql.DB) ([]models.PaySettings, error) {
	rows, err := db.Query(`SELECT id, employee_id, pay_type, created_at, updated_at FROM pay_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []models.PaySettings
	for rows.Next() {
		var s models.PaySettings
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.PayType, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func UpsertPaySettings(db *sql.DB, employeeID string, payType models.PayType) error {
	query := `INSERT INTO pay_settings (employee_id, pay_type)
			  VALUES ($1, $2)
			  ON CONFLICT (employee_id) DO UPDATE SET pay_type = EXCLUDED.pay_type, updated_at = $3`
	_, err := db.Exec(query, employeeID, payType, time.Now())
	return err
}

// GetAllRateOverrides loads every override; temporal selection happens in
// memory, so historical entries are needed too.
func GetAllRateOverrides(db *sql.DB) ([]models.RateOverride, error) {
	query := `SELECT id, employee_id, hourly_rate, effective_from, created_at
			  FROM rate_overrides ORDER BY employee_id, effective_from DESC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []models.RateOverride
	for rows.Next() {
		var o models.RateOverride
		if err := rows.Scan(&o.ID, &o.EmployeeID, &o.HourlyRate, &o.EffectiveFrom, &o.CreatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func GetRateOverridesForEmployee(db *sql.DB, employeeID string) ([]models.RateOverride, error) {
	query := `SELECT id, employee_id, hourly_rate, effective_from, created_at
			  FROM rate_overrides WHERE employee_id = $1 ORDER BY effective_from DESC`
	rows, err := db.Query(query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []models.RateOverride
	for rows.Next() {
		var o models.RateOverride
		if err := rows.Scan(&o.ID, &o.EmployeeID, &o.HourlyRate, &o.EffectiveFrom, &o.CreatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func CreateRateOverride(db *sql.DB, o *models.RateOverride) error {
	query := `INSERT INTO rate_overrides (employee_id, hourly_rate, effective_from)
			  VALUES ($1, $2, $3) RETURNING id, created_at`
	return db.QueryRow(query, o.EmployeeID, o.HourlyRate, o.EffectiveFrom).Scan(&o.ID, &o.CreatedAt)
}

func GetAgeBands(db *sql.DB) ([]models.AgeBand, error) {
	query := `SELECT id, name, min_age, max_age, is_active, created_at
			  FROM age_bands WHERE deleted_at IS NULL ORDER BY min_age`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bands []models.AgeBand
	for rows.Next() {
		var b models.AgeBand
		if err := rows.Scan(&b.ID, &b.Name, &b.MinAge, &b.MaxAge, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, err
		}
		bands = append(bands, b)
	}
	return bands, rows.Err()
}

// ActiveBandExistsWithMinAge guards against configuring two active bands at
// the same lower bound.
func ActiveBandExistsWithMinAge(db *sql.DB, minAge int) (bool, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM age_bands
						WHERE min_age = $1 AND is_active = true AND deleted_at IS NULL`, minAge).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func CreateAgeBand(db *sql.DB, b *models.AgeBand) error {
	query := `INSERT INTO age_bands (name, min_age, max_age, is_active)
			  VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return db.QueryRow(query, b.Name, b.MinAge, b.MaxAge, b.IsActive).Scan(&b.ID, &b.CreatedAt)
}

func GetAgeBandRates(db *sql.DB) ([]models.AgeBandRate, error) {
	query := `SELECT id, band_id, hourly_rate, effective_from, created_at
			  FROM age_band_rates ORDER BY band_id, effective_from DESC`
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.AgeBandRate
	for rows.Next() {
		var r models.AgeBandRate
		if err := rows.Scan(&r.ID, &r.BandID, &r.HourlyRate, &r.EffectiveFrom, &r.CreatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

func CreateAgeBandRate(db *sql.DB, r *models.AgeBandRate) error {
	query := `INSERT INTO age_band_rates (band_id, hourly_rate, effective_from)
			  VALUES ($1, $2, $3) RETURNING id, created_at`
	return db.QueryRow(query, r.BandID, r.HourlyRate, r.EffectiveFrom).Scan(&r.ID, &r.CreatedAt)
}
