package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
)

type OrdersHandler struct {
	manager *lifecycle.Manager
	logger  *zap.Logger
}

func NewOrdersHandler(manager *lifecycle.Manager, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		manager: manager,
		logger:  logger,
	}
}

// GetOrder godoc
// @Summary     Get an order
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       order_id path string true "Order ID (UUID)"
// @Success     200 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /orders/{order_id} [get]
func (h *OrdersHandler) GetOrder(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	orderID, ok := pathUUID(c, "order_id", "order")
	if !ok {
		return
	}

	order, err := h.manager.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FromOrder(order))
}
