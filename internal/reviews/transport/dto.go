package transport

import (
	"time"

	"retainly_backend/internal/scoring"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// ScheduleRequest queues an order for review solicitation after the
// configured delay.
type ScheduleRequest struct {
	OrderID               string     `json:"orderId" validate:"required,min=1,max=100"`
	EntityID              string     `json:"entityId" validate:"required,min=1,max=100"`
	CustomerEmail         string     `json:"customerEmail" validate:"required,email"`
	CustomerName          string     `json:"customerName" validate:"omitempty,max=200"`
	OrderValueCents       int64      `json:"orderValueCents" validate:"min=0"`
	DeliveredAt           *time.Time `json:"deliveredAt"`
	DaysSinceLastPurchase *int       `json:"daysSinceLastPurchase" validate:"omitempty,min=0"`
	TotalOrders           *int       `json:"totalOrders" validate:"omitempty,min=0"`
	TotalSpentCents       *int64     `json:"totalSpentCents" validate:"omitempty,min=0"`
	EmailOpenRate         *float64   `json:"emailOpenRate" validate:"omitempty,min=0,max=1"`
	BaselineOpenRate      *float64   `json:"baselineOpenRate" validate:"omitempty,min=0,max=1"`
	SupportTickets        *int       `json:"supportTickets" validate:"omitempty,min=0"`
}

// Signals converts the request into the scoring engine's input type.
func (r ScheduleRequest) Signals() scoring.CustomerSignals {
	return scoring.CustomerSignals{
		EntityID:              r.EntityID,
		DaysSinceLastPurchase: r.DaysSinceLastPurchase,
		TotalOrders:           r.TotalOrders,
		TotalSpentCents:       r.TotalSpentCents,
		EmailOpenRate:         r.EmailOpenRate,
		BaselineOpenRate:      r.BaselineOpenRate,
		SupportTickets:        r.SupportTickets,
	}
}

// RunRequest evaluates an order for review solicitation immediately.
type RunRequest = ScheduleRequest

// ── Responses ─────────────────────────────────────────────────────────────────

// ScheduleResponse confirms when the solicitation will be evaluated.
type ScheduleResponse struct {
	OrderID string    `json:"orderId"`
	RunAt   time.Time `json:"runAt"`
}

// RunResponse is the outcome of an immediate evaluation.
type RunResponse struct {
	OrderID        string         `json:"orderId"`
	Outcome        string         `json:"outcome"`
	Segment        scoring.Result `json:"segment"`
	Churn          scoring.Result `json:"churn"`
	Disposition    string         `json:"disposition,omitempty"`
	InterventionID *uuid.UUID     `json:"interventionId,omitempty"`
}
