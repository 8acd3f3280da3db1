package models

import "time"

// Shift represents a scheduled unit of work for one employee on one date.
// Start and end are local wall-clock times ("15:04", minute precision); an
// overnight shift's end time wraps past midnight. Shifts are never deleted,
// only soft-cancelled via Status.
type Shift struct {
	ID           string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EmployeeID   string      `json:"employee_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date         time.Time   `json:"date" gorm:"not null;index;type:date" validate:"required"`
	StartTime    string      `json:"start_time" gorm:"not null;type:time" validate:"required"`
	EndTime      string      `json:"end_time" gorm:"not null;type:time" validate:"required"`
	BreakMinutes int         `json:"break_minutes" gorm:"not null;default:0"`
	IsOvernight  bool        `json:"is_overnight" gorm:"not null;default:false"`
	Department   string      `json:"department,omitempty" gorm:"type:varchar(50)"`
	Status       ShiftStatus `json:"status" gorm:"not null;default:'scheduled';type:varchar(20)"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`

	Employee *Employee `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;references:ID"`
}
