package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"agency-backend/internal/models"
)

// syncOrderStatus copies status onto the order linked to projectID. Statuses outside
// the order-shared subset leave the order alone, as does a project without an order.
func syncOrderStatus(ctx context.Context, tx Tx, projectID uuid.UUID, status models.Status) (*models.Order, error) {
	if !status.OrderShared() {
		return nil, nil
	}

	order, err := tx.GetOrderByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	if err := tx.SetOrderStatus(ctx, order.ID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	return order, nil
}
