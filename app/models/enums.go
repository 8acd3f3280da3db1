package models

// ShiftStatus defines the lifecycle states of a rota shift.
type ShiftStatus string

const (
	ShiftScheduled ShiftStatus = "scheduled"
	ShiftCancelled ShiftStatus = "cancelled"
	ShiftSick      ShiftStatus = "sick"
	ShiftCompleted ShiftStatus = "completed"
)

// PayType defines how an employee is compensated.
type PayType string

const (
	PayHourly   PayType = "hourly"
	PaySalaried PayType = "salaried"
)

// EmployeeStatus defines the employment lifecycle.
type EmployeeStatus string

const (
	EmployeeActive EmployeeStatus = "active"
	EmployeeFormer EmployeeStatus = "former"
)

// ReceiptStatus defines how a receipt transaction was classified.
type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "pending"
	ReceiptAutoMatch ReceiptStatus = "auto_matched"
	ReceiptManual    ReceiptStatus = "manual"
	ReceiptNoMatch   ReceiptStatus = "no_match"
)

// RuleDirection restricts a classification rule to money in, money out, or both.
type RuleDirection string

const (
	DirectionIn  RuleDirection = "in"
	DirectionOut RuleDirection = "out"
	DirectionAny RuleDirection = "any"
)

// MessageStatus defines the delivery state of an outbound SMS record.
type MessageStatus string

const (
	MessageQueued MessageStatus = "queued"
	MessageSent   MessageStatus = "sent"
	MessageFailed MessageStatus = "failed"
)
