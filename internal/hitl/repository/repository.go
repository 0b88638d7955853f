package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retainly_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Intervention statuses. Transitions are one-way: pending_approval moves to
// exactly one of approved or rejected, and rows are never deleted.
const (
	StatusPendingApproval = "pending_approval"
	StatusApproved        = "approved"
	StatusRejected        = "rejected"
)

// Intervention is the database model for a gated action awaiting a human
// decision. EntitySnapshot and ProposedAction are frozen JSONB copies taken
// at creation time; later changes to the entity do not alter the record.
type Intervention struct {
	ID              uuid.UUID  `db:"id"`
	EntityID        string     `db:"entity_id"`
	ActionType      string     `db:"action_type"`
	Channel         string     `db:"channel"`
	Status          string     `db:"status"`
	EntitySnapshot  []byte     `db:"entity_snapshot"`
	ProposedAction  []byte     `db:"proposed_action"`
	ActionResult    []byte     `db:"action_result"`
	RejectionReason *string    `db:"rejection_reason"`
	CreatedAt       time.Time  `db:"created_at"`
	ResolvedAt      *time.Time `db:"resolved_at"`
}

// ── Repository ────────────────────────────────────────────────────────────────

const (
	interventionNotFoundMsg = "intervention not found"
	alreadyResolvedMsg      = "intervention already resolved"
)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database operations for interventions.
type Repository struct {
	pool DB
}

// New creates a new interventions repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const interventionColumns = `
	id, entity_id, action_type, channel, status,
	entity_snapshot, proposed_action, action_result,
	rejection_reason, created_at, resolved_at`

// createPendingAttempts bounds the insert/select loop in CreatePending.
const createPendingAttempts = 3

// CreatePending inserts a pending intervention and returns its id. A partial
// unique index on (entity_id, action_type) WHERE status = 'pending_approval'
// makes creation idempotent: when a pending record already exists for the
// same logical request its id is returned instead and created is false.
func (r *Repository) CreatePending(ctx context.Context, entityID, actionType, channel string, snapshot, action []byte) (uuid.UUID, bool, error) {
	insertQuery := `
		INSERT INTO interventions (
			id, entity_id, action_type, channel, status,
			entity_snapshot, proposed_action, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (entity_id, action_type) WHERE status = 'pending_approval'
		DO NOTHING
		RETURNING id`

	existingQuery := `
		SELECT id FROM interventions
		WHERE entity_id = $1 AND action_type = $2 AND status = 'pending_approval'`

	for attempt := 0; attempt < createPendingAttempts; attempt++ {
		id := uuid.Must(uuid.NewV7())

		var insertedID uuid.UUID
		err := r.pool.QueryRow(ctx, insertQuery,
			id, entityID, actionType, channel, StatusPendingApproval,
			snapshot, action, time.Now().UTC(),
		).Scan(&insertedID)
		if err == nil {
			return insertedID, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, fmt.Errorf("failed to insert intervention: %w", err)
		}

		// Conflict: surface the existing pending record. When it was resolved
		// between the insert and this select, loop back and insert again.
		var existingID uuid.UUID
		err = r.pool.QueryRow(ctx, existingQuery, entityID, actionType).Scan(&existingID)
		if err == nil {
			return existingID, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, fmt.Errorf("failed to load existing pending intervention: %w", err)
		}
	}

	return uuid.Nil, false, fmt.Errorf("failed to create pending intervention after %d attempts", createPendingAttempts)
}

// GetByID retrieves an intervention by its id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Intervention, error) {
	query := `SELECT ` + interventionColumns + ` FROM interventions WHERE id = $1`

	var iv Intervention
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&iv.ID, &iv.EntityID, &iv.ActionType, &iv.Channel, &iv.Status,
		&iv.EntitySnapshot, &iv.ProposedAction, &iv.ActionResult,
		&iv.RejectionReason, &iv.CreatedAt, &iv.ResolvedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound(interventionNotFoundMsg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intervention: %w", err)
	}
	return &iv, nil
}

// ListPending returns all pending interventions, oldest first so operators
// work the queue in arrival order.
func (r *Repository) ListPending(ctx context.Context) ([]Intervention, error) {
	query := `
		SELECT ` + interventionColumns + `
		FROM interventions
		WHERE status = 'pending_approval'
		ORDER BY created_at ASC`
	return r.list(ctx, query)
}

// ListResolved returns resolved interventions, newest first, as an audit view.
func (r *Repository) ListResolved(ctx context.Context) ([]Intervention, error) {
	query := `
		SELECT ` + interventionColumns + `
		FROM interventions
		WHERE status <> 'pending_approval'
		ORDER BY resolved_at DESC`
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string) ([]Intervention, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list interventions: %w", err)
	}
	defer rows.Close()

	var items []Intervention
	for rows.Next() {
		var iv Intervention
		if err := rows.Scan(
			&iv.ID, &iv.EntityID, &iv.ActionType, &iv.Channel, &iv.Status,
			&iv.EntitySnapshot, &iv.ProposedAction, &iv.ActionResult,
			&iv.RejectionReason, &iv.CreatedAt, &iv.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan intervention: %w", err)
		}
		items = append(items, iv)
	}
	return items, rows.Err()
}

// Approve transitions a pending intervention to approved. The conditional
// UPDATE makes the first resolver win; later callers get AlreadyResolved.
func (r *Repository) Approve(ctx context.Context, id uuid.UUID) error {
	return r.resolve(ctx, id, `
		UPDATE interventions
		SET status = $2, resolved_at = $3
		WHERE id = $1 AND status = 'pending_approval'`,
		StatusApproved, nil)
}

// Reject transitions a pending intervention to rejected with a reason.
func (r *Repository) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	return r.resolve(ctx, id, `
		UPDATE interventions
		SET status = $2, resolved_at = $3, rejection_reason = $4
		WHERE id = $1 AND status = 'pending_approval'`,
		StatusRejected, &reason)
}

func (r *Repository) resolve(ctx context.Context, id uuid.UUID, query, status string, reason *string) error {
	now := time.Now().UTC()
	args := []interface{}{id, status, now}
	if reason != nil {
		args = append(args, *reason)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to resolve intervention: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the id is unknown or someone resolved it first.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperr.AlreadyResolved(alreadyResolvedMsg)
}

// AttachActionResult stores the execution outcome on an approved intervention.
func (r *Repository) AttachActionResult(ctx context.Context, id uuid.UUID, result []byte) error {
	query := `UPDATE interventions SET action_result = $2 WHERE id = $1 AND status = 'approved'`

	tag, err := r.pool.Exec(ctx, query, id, result)
	if err != nil {
		return fmt.Errorf("failed to attach action result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(interventionNotFoundMsg)
	}
	return nil
}
