package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
	"agency-backend/internal/permissions"
)

// StatusHandler serves the admin checkout corrections.
type StatusHandler struct {
	manager *lifecycle.Manager
	gate    permissions.Gate
	logger  *zap.Logger
}

func NewStatusHandler(manager *lifecycle.Manager, gate permissions.Gate, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		manager: manager,
		gate:    gate,
		logger:  logger,
	}
}

// UpdateStatus godoc
// @Summary     Set an estimate's status
// @Description Admin only. Sets the estimate status and mirrors it to the project and, where the order shares the status, to the order.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.UpdateStatusRequest true "Status patch"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /checkout/status [patch]
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	estimateID, ok := parseUUID(c, req.EstimateID, "estimate")
	if !ok {
		return
	}
	if _, err := h.manager.UpdateStatus(c.Request.Context(), estimateID, req.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// Revert godoc
// @Summary     Revert an estimate to unpaid
// @Description Admin only. Puts the estimate back to payment_pending. The project and order are left unchanged.
// @Tags        checkout
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.RevertRequest true "Revert request, confirm must be true"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /checkout/revert [post]
func (h *StatusHandler) Revert(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	if h.gate == nil || !h.gate.IsAdmin(c.Request.Context()) {
		respondError(c, h.logger, lifecycle.ErrForbidden)
		return
	}

	var req models.RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	if !req.Confirm {
		respondError(c, h.logger, lifecycle.ErrConfirmationNeeded)
		return
	}

	estimateID, ok := parseUUID(c, req.EstimateID, "estimate")
	if !ok {
		return
	}
	if _, err := h.manager.RevertToUnpaid(c.Request.Context(), estimateID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
