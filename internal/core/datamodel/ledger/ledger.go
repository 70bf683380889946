package ledger

import (
	"time"
)

// ValidityWindow is how long a confirmed payment counts as active.
const ValidityWindow = 30 * 24 * time.Hour

const (
	StatusActive  = "active"
	StatusExpired = "expired"
)

// PendingPayment is an unconfirmed claim of payment awaiting admin review.
// Rows are created when a user submits a receipt and removed on confirm or
// reject; they are never updated in place.
type PendingPayment struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null;index"`
	Username    string    `json:"username" gorm:"column:username"`
	ProductID   int64     `json:"product_id" gorm:"column:product_id;not null"`
	ProductName string    `json:"product_name" gorm:"column:product_name;not null"`
	PhotoID     string    `json:"photo_id" gorm:"column:photo_id;not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (PendingPayment) TableName() string {
	return "pending_payments"
}

// ConfirmedPayment is the append-only historical record. ValidUntil and
// Status are derived at read time, never persisted.
type ConfirmedPayment struct {
	ID          int64      `json:"id" gorm:"primaryKey"`
	UserID      int64      `json:"user_id" gorm:"column:user_id;not null;index"`
	Username    string     `json:"username" gorm:"column:username"`
	ProductID   int64      `json:"product_id" gorm:"column:product_id;not null"`
	ProductName string     `json:"product_name" gorm:"column:product_name;not null"`
	PhotoID     string     `json:"photo_id" gorm:"column:photo_id"`
	ConfirmedBy *int64     `json:"confirmed_by,omitempty" gorm:"column:confirmed_by"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" gorm:"column:confirmed_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`

	ValidUntil time.Time `json:"valid_until" gorm:"-"`
	Status     string    `json:"status" gorm:"-"`
}

func (ConfirmedPayment) TableName() string {
	return "confirmed_payments"
}

// effectiveStart is the confirmation time, falling back to creation time for
// records that were written without a pending stage.
func (c *ConfirmedPayment) effectiveStart() time.Time {
	if c.ConfirmedAt != nil {
		return *c.ConfirmedAt
	}
	return c.CreatedAt
}

// ComputeValidity fills the derived ValidUntil and Status fields relative to now.
func (c *ConfirmedPayment) ComputeValidity(now time.Time) {
	c.ValidUntil = c.effectiveStart().Add(ValidityWindow)
	if now.Before(c.ValidUntil) {
		c.Status = StatusActive
	} else {
		c.Status = StatusExpired
	}
}

// ConfirmedSummary is what downstream notification needs after a confirm.
type ConfirmedSummary struct {
	ConfirmedID int64  `json:"confirmed_id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	ProductName string `json:"product_name"`
}
