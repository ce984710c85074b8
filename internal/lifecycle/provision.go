package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"agency-backend/internal/models"
)

// ensureProject provisions the project for e at most once. An existing project is
// returned as stored so admin edits made after the first finalize survive.
func ensureProject(ctx context.Context, tx Tx, e *models.Estimate, ownerID uuid.UUID) (*models.Project, bool, error) {
	spec, err := BuildSpecification(e)
	if err != nil {
		return nil, false, err
	}

	project, created, err := tx.UpsertProject(ctx, &models.Project{
		ID:          uuid.New(),
		UserID:      ownerID,
		EstimateID:  uuid.NullUUID{UUID: e.ID, Valid: true},
		Title:       e.Title,
		Description: e.Summary,
		Spec:        spec,
		Status:      e.Status,
		Files:       []models.ProjectFile{},
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert project: %w", err)
	}
	return project, created, nil
}

// BuildSpecification serializes the estimate's line groups with two-space indentation.
// The output is byte-stable for equal input: struct field order fixes key order and
// empty groups encode as [] rather than null.
func BuildSpecification(e *models.Estimate) (json.RawMessage, error) {
	doc := models.Specification{
		Screens: e.Screens,
		APIs:    e.APIs,
	}
	if doc.Screens == nil {
		doc.Screens = []models.LineItem{}
	}
	if doc.APIs == nil {
		doc.APIs = []models.LineItem{}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize specification: %w", err)
	}
	return b, nil
}

// projectStatusFor maps an estimate status onto its project. A paid estimate unlocks
// work, so the project enters the queue.
func projectStatusFor(s models.Status) models.Status {
	if s == models.StatusPaid {
		return models.StatusQueue
	}
	return s
}
