package database

import (
	"database/sql"
	"log"
)

// RunMigrations checks and applies necessary schema updates
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone VARCHAR(20),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id UUID NOT NULL REFERENCES users(id),
			role_id UUID NOT NULL REFERENCES roles(id),
			PRIMARY KEY (user_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT,
			phone VARCHAR(20),
			date_of_birth DATE,
			department VARCHAR(50),
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS shifts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_id UUID NOT NULL REFERENCES employees(id),
			date DATE NOT NULL,
			start_time TIME NOT NULL,
			end_time TIME NOT NULL,
			break_minutes INT NOT NULL DEFAULT 0,
			is_overnight BOOLEAN NOT NULL DEFAULT false,
			department VARCHAR(50),
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_employee_date ON shifts (employee_id, date)`,
		`CREATE TABLE IF NOT EXISTS clock_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_id UUID NOT NULL REFERENCES employees(id),
			work_date DATE NOT NULL,
			clock_in TIMESTAMPTZ NOT NULL,
			clock_out TIMESTAMPTZ,
			linked_shift_id UUID REFERENCES shifts(id),
			is_unscheduled BOOLEAN NOT NULL DEFAULT false,
			notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_employee_date ON clock_sessions (employee_id, work_date)`,
		`CREATE TABLE IF NOT EXISTS pay_settings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_id UUID UNIQUE NOT NULL REFERENCES employees(id),
			pay_type VARCHAR(20) NOT NULL DEFAULT 'hourly',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS rate_overrides (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_id UUID NOT NULL REFERENCES employees(id),
			hourly_rate NUMERIC(8,2) NOT NULL,
			effective_from DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS age_bands (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			min_age INT NOT NULL,
			max_age INT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS age_band_rates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			band_id UUID NOT NULL REFERENCES age_bands(id),
			hourly_rate NUMERIC(8,2) NOT NULL,
			effective_from DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS payroll_periods (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			year INT NOT NULL,
			month INT NOT NULL,
			period_start DATE NOT NULL,
			period_end DATE NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (year, month)
		)`,
		`CREATE TABLE IF NOT EXISTS payroll_approvals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			year INT NOT NULL,
			month INT NOT NULL,
			approved_by UUID NOT NULL REFERENCES users(id),
			approved_at TIMESTAMPTZ NOT NULL,
			snapshot JSONB NOT NULL,
			UNIQUE (year, month)
		)`,
		`CREATE TABLE IF NOT EXISTS recon_notes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			entity_type VARCHAR(20) NOT NULL,
			entity_id TEXT NOT NULL,
			note TEXT NOT NULL,
			created_by UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recon_notes_entity ON recon_notes (entity_type, entity_id)`,
		`CREATE TABLE IF NOT EXISTS receipt_transactions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			tx_date DATE NOT NULL,
			details TEXT NOT NULL,
			amount_in NUMERIC(10,2),
			amount_out NUMERIC(10,2),
			vendor_name TEXT,
			category VARCHAR(50),
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			rule_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS receipt_rules (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			match_text TEXT NOT NULL,
			direction VARCHAR(10) NOT NULL DEFAULT 'any',
			set_vendor TEXT,
			set_category VARCHAR(50),
			priority INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			employee_id UUID REFERENCES employees(id),
			phone VARCHAR(20) NOT NULL,
			body TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'queued',
			sent_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID,
			user_email TEXT,
			action TEXT NOT NULL,
			entity_type VARCHAR(30),
			entity_id TEXT,
			detail TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// auto_closed arrived after clock_sessions was first shipped
	if err := addAutoClosedColumn(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func addAutoClosedColumn(db *sql.DB) error {
	query := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'clock_sessions'
				AND column_name = 'auto_closed'
			) THEN
				ALTER TABLE clock_sessions ADD COLUMN auto_closed BOOLEAN NOT NULL DEFAULT false;
				RAISE NOTICE 'Added auto_closed column to clock_sessions';
			END IF;
		END $$;
	`
	_, err := db.Exec(query)
	if err != nil {
		log.Printf("Error adding auto_closed column: %v", err)
	}
	return err
}
