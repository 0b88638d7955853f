package transport

import (
	"encoding/json"

	"retainly_backend/internal/provider"
	"retainly_backend/internal/scoring"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// AssessRequest carries the customer signals for a churn assessment. All
// signal fields are optional; missing values degrade to conservative
// defaults rather than failing the request.
type AssessRequest struct {
	EntityID              string   `json:"entityId" validate:"required,min=1,max=100"`
	DaysSinceLastPurchase *int     `json:"daysSinceLastPurchase" validate:"omitempty,min=0"`
	TotalOrders           *int     `json:"totalOrders" validate:"omitempty,min=0"`
	TotalSpentCents       *int64   `json:"totalSpentCents" validate:"omitempty,min=0"`
	EmailOpenRate         *float64 `json:"emailOpenRate" validate:"omitempty,min=0,max=1"`
	BaselineOpenRate      *float64 `json:"baselineOpenRate" validate:"omitempty,min=0,max=1"`
	SupportTickets        *int     `json:"supportTickets" validate:"omitempty,min=0"`
	ValueCents            int64    `json:"valueCents" validate:"min=0"`
	Phone                 string   `json:"phone" validate:"omitempty,max=32"`
	Email                 string   `json:"email" validate:"omitempty,email"`
}

// Signals converts the request into the scoring engine's input type.
func (r AssessRequest) Signals() scoring.CustomerSignals {
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

// SegmentRequest carries signals for an RFM segmentation.
type SegmentRequest struct {
	EntityID              string `json:"entityId" validate:"required,min=1,max=100"`
	DaysSinceLastPurchase *int   `json:"daysSinceLastPurchase" validate:"omitempty,min=0"`
	TotalOrders           *int   `json:"totalOrders" validate:"omitempty,min=0"`
	TotalSpentCents       *int64 `json:"totalSpentCents" validate:"omitempty,min=0"`
}

// Signals converts the request into the scoring engine's input type.
func (r SegmentRequest) Signals() scoring.CustomerSignals {
	return scoring.CustomerSignals{
		EntityID:              r.EntityID,
		DaysSinceLastPurchase: r.DaysSinceLastPurchase,
		TotalOrders:           r.TotalOrders,
		TotalSpentCents:       r.TotalSpentCents,
	}
}

// ── Responses ─────────────────────────────────────────────────────────────────

// AssessResponse is the outcome of a churn assessment. Advice, disposition
// and attempts are present only when the score crossed the action threshold.
type AssessResponse struct {
	EntityID       string             `json:"entityId"`
	Score          scoring.Result     `json:"score"`
	Advice         *provider.Advice   `json:"advice,omitempty"`
	Provider       string             `json:"provider,omitempty"`
	Attempts       []provider.Attempt `json:"attempts,omitempty"`
	Disposition    string             `json:"disposition,omitempty"`
	InterventionID *uuid.UUID         `json:"interventionId,omitempty"`
	ActionResult   json.RawMessage    `json:"actionResult,omitempty"`
}

// SegmentResponse is the outcome of an RFM segmentation.
type SegmentResponse struct {
	EntityID string         `json:"entityId"`
	Score    scoring.Result `json:"score"`
}
