package models

import "time"

// ClockSession represents the actual recorded work interval for one employee
// on one date. ClockOut stays nil while the session is open. A session with
// no LinkedShiftID is matched heuristically to a shift on the same
// employee+date during reconciliation, or stands alone as unscheduled work.
type ClockSession struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EmployeeID    string     `json:"employee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	WorkDate      time.Time  `json:"work_date" gorm:"not null;index;type:date" validate:"required"`
	ClockIn       time.Time  `json:"clock_in" gorm:"not null"`
	ClockOut      *time.Time `json:"clock_out,omitempty"`
	LinkedShiftID *string    `json:"linked_shift_id,omitempty" gorm:"index;type:uuid"`
	AutoClosed    bool       `json:"auto_closed" gorm:"not null;default:false"`
	IsUnscheduled bool       `json:"is_unscheduled" gorm:"not null;default:false"`
	Notes         string     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
}
