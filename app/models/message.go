package models

import "time"

// Message is an outbound SMS record. Actual delivery is handled by an
// external provider; this table only tracks what was queued and when it
// left the building.
type Message struct {
	ID         string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	EmployeeID *string       `json:"employee_id,omitempty" gorm:"index;type:uuid"`
	Phone      string        `json:"phone" gorm:"not null;type:varchar(20)" validate:"required"`
	Body       string        `json:"body" gorm:"not null;type:text" validate:"required"`
	Status     MessageStatus `json:"status" gorm:"not null;default:'queued';type:varchar(20)"`
	SentAt     *time.Time    `json:"sent_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

// AuditLog is an append-only record of a mutating action.
type AuditLog struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	UserID     string    `json:"user_id" gorm:"type:uuid"`
	UserEmail  string    `json:"user_email"`
	Action     string    `json:"action" gorm:"not null" validate:"required"`
	EntityType string    `json:"entity_type" gorm:"type:varchar(30)"`
	EntityID   string    `json:"entity_id"`
	Detail     string    `json:"detail,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
