// Package audit stores a trail of estimate status transitions outside the primary
// database. Writes happen after the lifecycle transaction commits.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"agency-backend/internal/models"
)

const (
	ActionCreate        = "create"
	ActionFinalize      = "finalize"
	ActionConfirm       = "confirm_payment"
	ActionRevert        = "revert_to_unpaid"
	ActionUpdateStatus  = "update_status"
	ActionPaymentProof  = "payment_proof"
	DefaultHistoryLimit = 50
)

type Event struct {
	ID         uuid.UUID     `json:"id"`
	EstimateID uuid.UUID     `json:"estimate_id"`
	Action     string        `json:"action"`
	From       models.Status `json:"from,omitempty"`
	To         models.Status `json:"to"`
	Actor      string        `json:"actor,omitempty"`
	At         time.Time     `json:"at"`
}

type Sink interface {
	Record(ctx context.Context, e Event) error
	// History returns the oldest-first events for one estimate.
	History(ctx context.Context, estimateID uuid.UUID, limit int) ([]Event, error)
}

type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

func (Nop) History(context.Context, uuid.UUID, int) ([]Event, error) { return nil, nil }

// MemorySink keeps events in process. Used when no audit backend is configured in
// development and by tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MemorySink) History(_ context.Context, estimateID uuid.UUID, limit int) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var out []Event
	for _, e := range m.events {
		if e.EstimateID == estimateID {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
