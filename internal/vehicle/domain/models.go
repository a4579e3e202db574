package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusAvailable   = "available"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
	StatusDeleted     = "deleted"
)

// Vehicle carries the tenant's late-return policy rates. Bookings snapshot
// these rates at creation so a later rate change never rewrites history.
type Vehicle struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID          snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	BranchID          *snowflake.ID `gorm:"index" json:"branch_id,omitempty"`
	PlateNumber       string        `gorm:"not null;index" json:"plate_number"`
	Make              string        `json:"make,omitempty"`
	Model             string        `json:"model,omitempty"`
	DailyRate         float64       `gorm:"not null;default:0" json:"daily_rate"`
	HourlyLateFeeRate float64       `gorm:"not null;default:0" json:"hourly_late_fee_rate"`
	DailyLateFeeRate  float64       `gorm:"not null;default:0" json:"daily_late_fee_rate"`
	Status            string        `gorm:"not null;default:available" json:"status"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Vehicle) TableName() string { return "vehicles" }
