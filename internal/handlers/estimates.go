package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
)

type EstimatesHandler struct {
	manager *lifecycle.Manager
	logger  *zap.Logger
}

func NewEstimatesHandler(manager *lifecycle.Manager, logger *zap.Logger) *EstimatesHandler {
	return &EstimatesHandler{
		manager: manager,
		logger:  logger,
	}
}

// CreateEstimate godoc
// @Summary     Submit a quote
// @Description Prices the submitted screens and apis at the configured hourly rate and stores the estimate as a draft.
// @Tags        estimates
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateEstimateRequest true "Quote"
// @Success     201 {object} models.EstimateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /estimates [post]
func (h *EstimatesHandler) CreateEstimate(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	var req models.CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	in := lifecycle.NewEstimate{
		Title:   req.Title,
		Summary: req.Summary,
		Screens: req.Screens,
		APIs:    req.APIs,
	}
	if req.ServiceOfferID != "" {
		offerID, ok := parseUUID(c, req.ServiceOfferID, "service offer")
		if !ok {
			return
		}
		in.ServiceOfferID = uuid.NullUUID{UUID: offerID, Valid: true}
	}

	e, err := h.manager.CreateEstimate(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, models.FromEstimate(e))
}

// GetEstimate godoc
// @Summary     Get an estimate
// @Tags        estimates
// @Produce     json
// @Security    Bearer
// @Param       estimate_id path string true "Estimate ID (UUID)"
// @Success     200 {object} models.EstimateResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /estimates/{estimate_id} [get]
func (h *EstimatesHandler) GetEstimate(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	estimateID, ok := pathUUID(c, "estimate_id", "estimate")
	if !ok {
		return
	}

	e, err := h.manager.GetEstimate(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FromEstimate(e))
}

// Finalize godoc
// @Summary     Finalize an estimate
// @Description Locks in the estimate's scope, provisions its project once and returns where the client pays.
// @Description Calling it again keeps the existing project and returns the checkout location again.
// @Tags        estimates
// @Produce     json
// @Security    Bearer
// @Param       estimate_id path string true "Estimate ID (UUID)"
// @Success     200 {object} models.FinalizeResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /estimates/{estimate_id}/finalize [post]
func (h *EstimatesHandler) Finalize(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	estimateID, ok := pathUUID(c, "estimate_id", "estimate")
	if !ok {
		return
	}

	res, err := h.manager.Finalize(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FinalizeResponse{URL: res.CheckoutURL})
}

// Confirm godoc
// @Summary     Confirm payment
// @Description Marks the estimate paid, queues its project and marks the linked order paid in one transaction. Only the owner or an admin may confirm.
// @Tags        estimates
// @Produce     json
// @Security    Bearer
// @Param       estimate_id path string true "Estimate ID (UUID)"
// @Success     200 {object} models.SuccessResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /estimates/{estimate_id}/confirm [post]
func (h *EstimatesHandler) Confirm(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	estimateID, ok := pathUUID(c, "estimate_id", "estimate")
	if !ok {
		return
	}

	if _, err := h.manager.ConfirmPayment(c.Request.Context(), estimateID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// History godoc
// @Summary     Estimate status history
// @Description Returns the recorded status transitions of an estimate, oldest first.
// @Tags        estimates
// @Produce     json
// @Security    Bearer
// @Param       estimate_id path string true "Estimate ID (UUID)"
// @Param       limit query int false "Maximum number of events" default(50)
// @Success     200 {object} models.HistoryResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /estimates/{estimate_id}/history [get]
func (h *EstimatesHandler) History(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	estimateID, ok := pathUUID(c, "estimate_id", "estimate")
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(c, "invalid limit", err)
			return
		}
		limit = n
	}

	events, err := h.manager.History(c.Request.Context(), estimateID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := models.HistoryResponse{
		EstimateID: estimateID.String(),
		Events:     make([]models.HistoryEntry, 0, len(events)),
	}
	for _, ev := range events {
		resp.Events = append(resp.Events, models.HistoryEntry{
			Action: ev.Action,
			From:   ev.From,
			To:     ev.To,
			Actor:  ev.Actor,
			At:     ev.At,
		})
	}
	c.JSON(http.StatusOK, resp)
}
