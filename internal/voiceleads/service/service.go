// Package service implements voice-lead qualification: callers converse over
// the public endpoint, every message updates the lead's signals and score,
// and a lead that reaches the hot tier triggers a gated handoff call.
package service

import (
	"context"
	"time"

	"retainly_backend/internal/events"
	"retainly_backend/internal/executor"
	hitlservice "retainly_backend/internal/hitl/service"
	"retainly_backend/internal/provider"
	"retainly_backend/internal/scoring"
	"retainly_backend/internal/sessions"
	"retainly_backend/internal/voiceleads/transport"
	"retainly_backend/platform/logger"

	"github.com/google/uuid"
)

// Advisor produces the conversational reply. Satisfied by the provider
// orchestrator.
type Advisor interface {
	Decide(ctx context.Context, req provider.Request) provider.Result
}

// Service runs lead qualification conversations.
type Service struct {
	store    *sessions.Store
	advisor  Advisor
	gate     *hitlservice.Gate
	eventBus events.Bus
	log      *logger.Logger
}

func New(store *sessions.Store, advisor Advisor, gate *hitlservice.Gate, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:    store,
		advisor:  advisor,
		gate:     gate,
		eventBus: eventBus,
		log:      log,
	}
}

// Message appends one caller message to the session, rescores the lead, and
// returns the assistant's reply. The first message to reach the hot tier
// completes qualification and submits the sales handoff call through the
// gate; the session keeps answering afterwards but qualifies only once.
func (s *Service) Message(ctx context.Context, sessionID string, req transport.MessageRequest) (*transport.MessageResponse, error) {
	session, _ := s.store.GetOrCreate(sessionID)

	session.Lock()
	session.Messages = append(session.Messages, sessions.Message{
		Role:      "user",
		Content:   req.Content,
		Timestamp: time.Now().UTC(),
	})
	updateSignals(&session.Signals, req.Content)
	score := scoring.LeadScore(session.Signals)
	session.Score = score

	justQualified := score.Label == scoring.TierHot && !session.QualificationComplete
	if justQualified {
		session.QualificationComplete = true
	}
	complete := session.QualificationComplete
	signals := session.Signals
	session.Unlock()

	s.eventBus.Publish(ctx, events.EntityScored{
		BaseEvent: events.NewBaseEvent(),
		EntityID:  sessionID,
		Workflow:  "voiceleads",
		Composite: score.Composite,
		Label:     string(score.Label),
	})

	// The provider chain runs outside the session lock; only the reply
	// depends on it, never the score.
	advice := s.advisor.Decide(ctx, provider.Request{
		EntityID:    sessionID,
		Workflow:    "voiceleads",
		ScoreResult: score,
		Context: map[string]string{
			"last_message": req.Content,
		},
	})

	session.Lock()
	session.Messages = append(session.Messages, sessions.Message{
		Role:      "assistant",
		Content:   advice.Advice.Recommendation,
		Timestamp: time.Now().UTC(),
	})
	session.Unlock()

	resp := &transport.MessageResponse{
		SessionID:             sessionID,
		Reply:                 advice.Advice.Recommendation,
		Provider:              advice.Provider,
		Score:                 score,
		QualificationComplete: complete,
	}

	if justQualified {
		interventionID, err := s.handoff(ctx, sessionID, score, signals)
		if err != nil {
			return nil, err
		}
		resp.InterventionID = interventionID

		s.eventBus.Publish(ctx, events.LeadQualificationCompleted{
			BaseEvent: events.NewBaseEvent(),
			SessionID: sessionID,
			Tier:      string(score.Label),
			Composite: score.Composite,
		})
	}

	return resp, nil
}

// handoff submits the sales callback through the gate. Voice calls are always
// gated, so hot leads land in the approval queue rather than dialing out
// unreviewed.
func (s *Service) handoff(ctx context.Context, sessionID string, score scoring.Result, signals scoring.LeadSignals) (*uuid.UUID, error) {
	budgetCents := int64(0)
	if signals.BudgetCents != nil {
		budgetCents = *signals.BudgetCents
	}

	snapshot := hitlservice.EntitySnapshot{
		EntityID:   sessionID,
		EntityType: "lead",
		ValueCents: budgetCents,
		Score:      score,
	}
	action := executor.Action{
		Type:         "sales_handoff_call",
		Channel:      executor.ChannelVoiceCall,
		Parameters:   map[string]string{"session_id": sessionID},
		Irreversible: true,
	}

	decision, err := s.gate.Submit(ctx, snapshot, action)
	if err != nil {
		return nil, err
	}
	return decision.InterventionID, nil
}

// State returns a snapshot of the session for the status endpoint.
func (s *Service) State(sessionID string) (*transport.StateResponse, error) {
	session, err := s.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	messages := make([]transport.SessionMessage, 0, len(session.Messages))
	for _, m := range session.Messages {
		messages = append(messages, transport.SessionMessage{
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	return &transport.StateResponse{
		SessionID:             session.ID,
		CreatedAt:             session.CreatedAt,
		Messages:              messages,
		Score:                 session.Score,
		QualificationComplete: session.QualificationComplete,
	}, nil
}
