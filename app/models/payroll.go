package models

import (
	"encoding/json"
	"time"
)

// PayrollPeriod maps a (year, month) key to an explicit date range. The
// default range is the 25th of the prior month through the 24th of the
// target month; a stored row overrides the default.
type PayrollPeriod struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Year        int       `json:"year" gorm:"not null;uniqueIndex:idx_period_month" validate:"required"`
	Month       int       `json:"month" gorm:"not null;uniqueIndex:idx_period_month" validate:"required,min=1,max=12"`
	PeriodStart time.Time `json:"period_start" gorm:"not null;type:date" validate:"required"`
	PeriodEnd   time.Time `json:"period_end" gorm:"not null;type:date" validate:"required"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// PayrollApproval is an immutable-until-replaced snapshot of a month's
// reconciled rows and summaries. It is deleted whenever any underlying
// shift/session/rate data it was built from changes.
type PayrollApproval struct {
	ID         string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Year       int             `json:"year" gorm:"not null;uniqueIndex:idx_approval_month" validate:"required"`
	Month      int             `json:"month" gorm:"not null;uniqueIndex:idx_approval_month" validate:"required,min=1,max=12"`
	ApprovedBy string          `json:"approved_by" gorm:"not null;type:uuid" validate:"required,uuid"`
	ApprovedAt time.Time       `json:"approved_at" gorm:"not null"`
	Snapshot   json.RawMessage `json:"snapshot" gorm:"type:jsonb;not null"`
}

// ReconNote is a free-text reconciliation note attached to an entity
// (currently shifts). The latest note per shift is surfaced on payroll rows.
type ReconNote struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EntityType string    `json:"entity_type" gorm:"not null;index:idx_note_entity;type:varchar(20)" validate:"required"`
	EntityID   string    `json:"entity_id" gorm:"not null;index:idx_note_entity;type:uuid" validate:"required,uuid"`
	Note       string    `json:"note" gorm:"not null;type:text" validate:"required"`
	CreatedBy  string    `json:"created_by" gorm:"type:uuid"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
