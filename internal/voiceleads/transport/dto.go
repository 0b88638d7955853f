package transport

import (
	"time"

	"retainly_backend/internal/scoring"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// MessageRequest is one inbound message from a caller.
type MessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=4000"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// MessageResponse carries the assistant's reply and the updated lead state.
type MessageResponse struct {
	SessionID             string         `json:"sessionId"`
	Reply                 string         `json:"reply"`
	Provider              string         `json:"provider"`
	Score                 scoring.Result `json:"score"`
	QualificationComplete bool           `json:"qualificationComplete"`
	InterventionID        *uuid.UUID     `json:"interventionId,omitempty"`
}

// SessionMessage is one turn in the conversation, as exposed over the API.
type SessionMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// StateResponse is the full session state.
type StateResponse struct {
	SessionID             string           `json:"sessionId"`
	CreatedAt             time.Time        `json:"createdAt"`
	Messages              []SessionMessage `json:"messages"`
	Score                 scoring.Result   `json:"score"`
	QualificationComplete bool             `json:"qualificationComplete"`
}
