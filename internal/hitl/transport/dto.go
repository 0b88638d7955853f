package transport

import (
	"encoding/json"
	"time"

	"retainly_backend/internal/hitl/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// RejectRequest is the request body for rejecting an intervention.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// InterventionResponse is the API shape of an intervention. Snapshot, action
// and result are stored as JSON and passed through untouched.
type InterventionResponse struct {
	ID              uuid.UUID       `json:"id"`
	EntityID        string          `json:"entityId"`
	ActionType      string          `json:"actionType"`
	Channel         string          `json:"channel"`
	Status          string          `json:"status"`
	EntitySnapshot  json.RawMessage `json:"entitySnapshot"`
	ProposedAction  json.RawMessage `json:"proposedAction"`
	ActionResult    json.RawMessage `json:"actionResult,omitempty"`
	RejectionReason *string         `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty"`
}

// ListInterventionsResponse wraps a list of interventions.
type ListInterventionsResponse struct {
	Items []InterventionResponse `json:"items"`
	Total int                    `json:"total"`
}

// FromModel converts a database model to its API shape.
func FromModel(iv *repository.Intervention) InterventionResponse {
	return InterventionResponse{
		ID:              iv.ID,
		EntityID:        iv.EntityID,
		ActionType:      iv.ActionType,
		Channel:         iv.Channel,
		Status:          iv.Status,
		EntitySnapshot:  json.RawMessage(iv.EntitySnapshot),
		ProposedAction:  json.RawMessage(iv.ProposedAction),
		ActionResult:    json.RawMessage(iv.ActionResult),
		RejectionReason: iv.RejectionReason,
		CreatedAt:       iv.CreatedAt,
		ResolvedAt:      iv.ResolvedAt,
	}
}

// FromModels converts a slice of database models.
func FromModels(items []repository.Intervention) ListInterventionsResponse {
	out := make([]InterventionResponse, 0, len(items))
	for i := range items {
		out = append(out, FromModel(&items[i]))
	}
	return ListInterventionsResponse{Items: out, Total: len(out)}
}
