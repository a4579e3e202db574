package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusDraft     = "draft"
	StatusIssued    = "issued"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

// Invoice financial fields obey vat_amount = round2(subtotal*vat_rate/100)
// and total_amount = subtotal + vat_amount after every mutation.
type Invoice struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	BookingID       snowflake.ID      `gorm:"not null;index" json:"booking_id"`
	CustomerID      snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	TenantID        snowflake.ID      `gorm:"not null;index" json:"tenant_id"`
	InvoiceNumber   string            `gorm:"not null;uniqueIndex" json:"invoice_number"`
	Status          string            `gorm:"not null;default:draft" json:"status"`
	Subtotal        float64           `gorm:"not null;default:0" json:"subtotal"`
	VATRate         float64           `gorm:"column:vat_rate;not null;default:0" json:"vat_rate"`
	VATAmount       float64           `gorm:"column:vat_amount;not null;default:0" json:"vat_amount"`
	TotalAmount     float64           `gorm:"not null;default:0" json:"total_amount"`
	CurrencyCode    string            `gorm:"not null" json:"currency_code"`
	IsAutoGenerated bool              `gorm:"not null;default:false" json:"is_auto_generated"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	IssuedAt        *time.Time        `json:"issued_at,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }
