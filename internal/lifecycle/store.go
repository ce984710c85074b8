package lifecycle

import (
	"context"

	"github.com/google/uuid"

	"agency-backend/internal/models"
)

// Store opens transactions. fn's writes become visible together when it returns nil and
// are discarded when it returns an error or panics.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is one transaction. Getters return (nil, nil) when the row does not exist.
// GetEstimate locks the row for the rest of the transaction.
type Tx interface {
	InsertEstimate(ctx context.Context, e *models.Estimate) error
	GetEstimate(ctx context.Context, id uuid.UUID) (*models.Estimate, error)
	SetEstimateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SetEstimateProof(ctx context.Context, id uuid.UUID, proofURL string) error

	// UpsertProject inserts p unless a project already references p.EstimateID, in
	// which case the stored row is returned unchanged. created reports which happened.
	UpsertProject(ctx context.Context, p *models.Project) (stored *models.Project, created bool, err error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetProjectByEstimate(ctx context.Context, estimateID uuid.UUID) (*models.Project, error)
	// ListProjects returns userID's projects newest first, or all projects for uuid.Nil.
	ListProjects(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	SetProjectStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SetProjectDeveloper(ctx context.Context, id uuid.UUID, developerID uuid.NullUUID) error
	AppendProjectFile(ctx context.Context, id uuid.UUID, file models.ProjectFile) error

	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderByProject(ctx context.Context, projectID uuid.UUID) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	SetOrderProof(ctx context.Context, id uuid.UUID, proofURL string) error
}

// Checkout resolves where a client pays for a finalized estimate.
type Checkout interface {
	CheckoutURL(ctx context.Context, e *models.Estimate) (string, error)
}

// CheckoutInvalidator is implemented by checkouts that keep resolved URLs around.
// The manager drops an estimate's URL once its payment state changes.
type CheckoutInvalidator interface {
	Invalidate(ctx context.Context, estimateID string) error
}
