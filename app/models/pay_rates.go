package models

import "time"

// PaySettings holds the per-employee compensation mode. Salaried employees
// are excluded from hourly payroll reconciliation entirely.
type PaySettings struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EmployeeID string    `json:"employee_id" gorm:"uniqueIndex;not null;type:uuid" validate:"required,uuid"`
	PayType    PayType   `json:"pay_type" gorm:"not null;default:'hourly';type:varchar(20)" validate:"required"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RateOverride is an employee-specific hourly rate effective from a given
// date. The most recent override with effective_from <= the shift date wins
// over any age-band rate.
type RateOverride struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EmployeeID    string    `json:"employee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	HourlyRate    float64   `json:"hourly_rate" gorm:"not null" validate:"required,gt=0"`
	EffectiveFrom time.Time `json:"effective_from" gorm:"not null;type:date" validate:"required"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// AgeBand is a configured age range [min_age, max_age] (max nil = open-ended)
// carrying its own historically-versioned default rate. Bands are expected
// to be non-overlapping while active.
type AgeBand struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name      string     `json:"name" gorm:"not null" validate:"required"`
	MinAge    int        `json:"min_age" gorm:"not null" validate:"gte=0"`
	MaxAge    *int       `json:"max_age,omitempty"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

// AgeBandRate is one historical rate entry for an age band, versioned the
// same way as RateOverride.
type AgeBandRate struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	BandID        string    `json:"band_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	HourlyRate    float64   `json:"hourly_rate" gorm:"not null" validate:"required,gt=0"`
	EffectiveFrom time.Time `json:"effective_from" gorm:"not null;type:date" validate:"required"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
