package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/stride/internal/engine"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrPlanNotFound is returned when a plan id does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// StoredPlan is a persisted plan: the request that produced it and the full
// generated document.
type StoredPlan struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name,omitempty"`
	Request   engine.Request  `json:"request"`
	Document  engine.Document `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
}

// PlanSummary is the listing row: enough to pick a plan without loading its
// document.
type PlanSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name,omitempty"`
	Start        time.Time `json:"start"`
	Weeks        int       `json:"weeks"`
	FitnessIndex float64   `json:"fitness_index"`
	CreatedAt    time.Time `json:"created_at"`
}

// InsertPlan stores a generated plan and returns its id.
func (db *DB) InsertPlan(ctx context.Context, req engine.Request, doc engine.Document) (uuid.UUID, error) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding request: %w", err)
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding document: %w", err)
	}

	id := uuid.New()
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO plans (id, name, start_date, weeks, fitness_index, request, document)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, doc.Name, doc.Start, len(doc.Weeks), doc.FitnessIndex, reqJSON, docJSON)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting plan: %w", err)
	}
	return id, nil
}

// GetPlan loads a stored plan by id.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (*StoredPlan, error) {
	var (
		p       StoredPlan
		reqJSON []byte
		docJSON []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, request, document, created_at FROM plans WHERE id = $1`,
		id).Scan(&p.ID, &p.Name, &reqJSON, &docJSON, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying plan: %w", err)
	}
	if err := json.Unmarshal(reqJSON, &p.Request); err != nil {
		return nil, fmt.Errorf("decoding stored request: %w", err)
	}
	if err := json.Unmarshal(docJSON, &p.Document); err != nil {
		return nil, fmt.Errorf("decoding stored document: %w", err)
	}
	return &p, nil
}

// ListPlans returns plan summaries, newest first.
func (db *DB) ListPlans(ctx context.Context) ([]PlanSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, start_date, weeks, fitness_index, created_at
		 FROM plans ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var out []PlanSummary
	for rows.Next() {
		var s PlanSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Start, &s.Weeks, &s.FitnessIndex, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeletePlan removes a plan. Returns ErrPlanNotFound when the id is unknown.
func (db *DB) DeletePlan(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}
