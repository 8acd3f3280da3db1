package models

import "time"

// ReceiptTransaction is one bank-statement line in the receipts/P&L module.
// Exactly one of AmountIn/AmountOut is normally set.
type ReceiptTransaction struct {
	ID         string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	TxDate     time.Time     `json:"tx_date" gorm:"not null;index;type:date" validate:"required"`
	Details    string        `json:"details" gorm:"not null;type:text" validate:"required"`
	AmountIn   *float64      `json:"amount_in,omitempty"`
	AmountOut  *float64      `json:"amount_out,omitempty"`
	VendorName *string       `json:"vendor_name,omitempty"`
	Category   *string       `json:"category,omitempty" gorm:"type:varchar(50)"`
	Status     ReceiptStatus `json:"status" gorm:"not null;default:'pending';type:varchar(20)"`
	RuleID     *string       `json:"rule_id,omitempty" gorm:"type:uuid"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// ReceiptRule is one auto-classification rule: a case-insensitive substring
// match on transaction details, optionally restricted by direction, applying
// a vendor and/or category. Higher priority wins; name breaks ties.
type ReceiptRule struct {
	ID          string        `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name        string        `json:"name" gorm:"not null" validate:"required"`
	MatchText   string        `json:"match_text" gorm:"not null" validate:"required"`
	Direction   RuleDirection `json:"direction" gorm:"not null;default:'any';type:varchar(10)"`
	SetVendor   *string       `json:"set_vendor,omitempty"`
	SetCategory *string       `json:"set_category,omitempty" gorm:"type:varchar(50)"`
	Priority    int           `json:"priority" gorm:"not null;default:0"`
	IsActive    bool          `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}
