package models

import "time"

// Employee represents a staff member on the rota. Not every employee has a
// login; users and employees are linked by email when both exist.
type Employee struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	FirstName   string         `json:"first_name" gorm:"not null" validate:"required"`
	LastName    string         `json:"last_name" gorm:"not null" validate:"required"`
	Email       string         `json:"email,omitempty" gorm:"index"`
	Phone       string         `json:"phone,omitempty" gorm:"type:varchar(20)"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty" gorm:"type:date"`
	Department  string         `json:"department,omitempty" gorm:"type:varchar(50)"`
	Status      EmployeeStatus `json:"status" gorm:"not null;default:'active';type:varchar(20)"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time     `json:"deleted_at,omitempty" gorm:"index"`
}

// FullName joins first and last name for display and export.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
