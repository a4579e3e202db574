package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusDeleted   = "deleted"
)

const (
	MethodCash         = "cash"
	MethodCard         = "card"
	MethodBankTransfer = "bank_transfer"
	MethodOnline       = "online"
)

// Payment is a ledger entry against a booking. It never mutates booking or
// invoice rows; reconciliation is left to a reporting layer.
type Payment struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	BookingID     snowflake.ID      `gorm:"not null;index" json:"booking_id"`
	TenantID      snowflake.ID      `gorm:"not null;index" json:"tenant_id"`
	CustomerID    snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	Amount        float64           `gorm:"not null" json:"amount"`
	PaidAmount    float64           `gorm:"not null" json:"paid_amount"`
	PaymentMethod string            `gorm:"not null" json:"payment_method"`
	Status        string            `gorm:"not null;default:completed" json:"status"`
	IsDeposit     bool              `gorm:"not null;default:false" json:"is_deposit"`
	PartialAmount float64           `gorm:"not null;default:0" json:"partial_amount"`
	LateFee       float64           `gorm:"not null;default:0" json:"late_fee"`
	SplitDetails  datatypes.JSONMap `gorm:"type:jsonb" json:"split_details,omitempty"`
	PaymentDate   time.Time         `gorm:"not null" json:"payment_date"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
