package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusDeleted   = "deleted"
)

// transitions is the forward edge set of the lifecycle. cancelled and
// deleted are reachable from any non-terminal state; writes that keep the
// current status are no-ops for the transition rule.
var transitions = map[string]map[string]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true, StatusDeleted: true},
	StatusConfirmed: {StatusActive: true, StatusCancelled: true, StatusDeleted: true},
	StatusActive:    {StatusCompleted: true, StatusCancelled: true, StatusDeleted: true},
}

// CanTransition reports whether the lifecycle permits from → to.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return transitions[from][to]
}

// IsTerminal reports whether no further transition leaves the status.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusActive, StatusCompleted, StatusCancelled, StatusDeleted:
		return true
	}
	return false
}

// Booking is the aggregate root of the rental lifecycle. Late-fee rates are
// snapshotted from the vehicle at creation so later policy changes never
// rewrite history. Rows are never hard-deleted.
type Booking struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	TenantID          snowflake.ID  `gorm:"not null;index" json:"tenant_id"`
	BranchID          *snowflake.ID `gorm:"index" json:"branch_id,omitempty"`
	VehicleID         snowflake.ID  `gorm:"not null;index" json:"vehicle_id"`
	CustomerID        snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	StartDate         time.Time     `gorm:"not null" json:"start_date"`
	EndDate           time.Time     `gorm:"not null" json:"end_date"`
	Status            string        `gorm:"not null;default:pending;index" json:"status"`
	TotalAmount       float64       `gorm:"not null;default:0" json:"total_amount"`
	HourlyLateFeeRate float64       `gorm:"not null;default:0" json:"hourly_late_fee_rate"`
	DailyLateFeeRate  float64       `gorm:"not null;default:0" json:"daily_late_fee_rate"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
