package lifecycle

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/audit"
	"agency-backend/internal/models"
)

// NewEstimate is a submitted quote before pricing.
type NewEstimate struct {
	Title          string
	Summary        string
	Screens        []models.LineItem
	APIs           []models.LineItem
	ServiceOfferID uuid.NullUUID
}

func (n NewEstimate) validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrInvalidEstimate
	}
	for _, group := range [][]models.LineItem{n.Screens, n.APIs} {
		for _, item := range group {
			if strings.TrimSpace(item.Title) == "" || item.Hours < 0 || math.IsNaN(item.Hours) || math.IsInf(item.Hours, 0) {
				return ErrInvalidEstimate
			}
		}
	}
	return nil
}

// CreateEstimate prices a quote and stores it as a draft owned by the caller.
func (m *Manager) CreateEstimate(ctx context.Context, in NewEstimate) (*models.Estimate, error) {
	user := m.gate.CurrentUser(ctx)
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	hours := models.SumHours(in.Screens, in.APIs)
	now := m.now().UTC()
	e := &models.Estimate{
		ID:             uuid.New(),
		UserID:         uuid.NullUUID{UUID: user.ID, Valid: true},
		Title:          strings.TrimSpace(in.Title),
		Summary:        in.Summary,
		Screens:        nonNil(in.Screens),
		APIs:           nonNil(in.APIs),
		TotalHours:     hours,
		TotalCost:      hours * m.hourlyRate,
		Complexity:     models.ClassifyComplexity(hours),
		Status:         models.StatusDraft,
		ServiceOfferID: in.ServiceOfferID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := m.store.WithTx(ctx, func(tx Tx) error {
		if err := tx.InsertEstimate(ctx, e); err != nil {
			return fmt.Errorf("failed to insert estimate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, m.fail("create_estimate", e.ID, err)
	}
	m.record(ctx, audit.ActionCreate, &Transition{Estimate: e})

	m.logger.Info("estimate created",
		zap.String("estimate_id", e.ID.String()),
		zap.Float64("total_hours", e.TotalHours),
		zap.String("complexity", string(e.Complexity)),
	)
	return e, nil
}

func nonNil(items []models.LineItem) []models.LineItem {
	if items == nil {
		return []models.LineItem{}
	}
	return items
}
