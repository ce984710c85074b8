package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/apperr"
	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
	"agency-backend/internal/payments"
)

// PaymentLookup reads a payment by the id MercadoPago sends in a notification.
type PaymentLookup interface {
	Payment(ctx context.Context, paymentID string) (*payments.PaymentInfo, error)
}

type WebhookHandler struct {
	manager  *lifecycle.Manager
	payments PaymentLookup
	logger   *zap.Logger
}

func NewWebhookHandler(manager *lifecycle.Manager, lookup PaymentLookup, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		manager:  manager,
		payments: lookup,
		logger:   logger,
	}
}

// MercadoPagoNotification is the webhook body. IPN notifications carry the same
// fields as query parameters instead.
type MercadoPagoNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

func (n MercadoPagoNotification) paymentID() string {
	raw := n.Data.ID
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return num.String()
	}
	return ""
}

// HandleMercadoPago godoc
// @Summary     MercadoPago payment webhook
// @Description Confirms payment of the estimate named by the payment's external_reference once the payment is approved.
// @Description Notifications that do not apply are acknowledged with status "ignored" so MercadoPago stops retrying them.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Success     200 {object} map[string]string "status"
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Failure     503 {object} models.ErrorResponse
// @Router      /webhooks/mercadopago [post]
func (h *WebhookHandler) HandleMercadoPago(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}
	if h.payments == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "payment gateway not available"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "failed to read request body", err)
		return
	}

	var event MercadoPagoNotification
	if len(body) > 0 {
		if err := json.Unmarshal(body, &event); err != nil {
			badRequest(c, "failed to parse event", err)
			return
		}
	}

	eventType := event.Type
	paymentID := event.paymentID()
	if eventType == "" {
		eventType = c.Query("type")
		if eventType == "" {
			eventType = c.Query("topic")
		}
	}
	if paymentID == "" {
		paymentID = c.Query("data.id")
		if paymentID == "" {
			paymentID = c.Query("id")
		}
	}

	if eventType != "payment" || paymentID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	info, err := h.payments.Payment(ctx, paymentID)
	if errors.Is(err, payments.ErrGatewayNotConfigured) {
		h.logger.Warn("payment notification received while gateway is mocked", zap.String("payment_id", paymentID))
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "payment gateway not configured"})
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch payment", zap.String("payment_id", paymentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to fetch payment"})
		return
	}

	if !info.Approved() {
		h.logger.Info("payment not approved",
			zap.String("payment_id", info.ID),
			zap.String("payment_status", info.Status),
		)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	estimateID, err := uuid.Parse(info.ExternalReference)
	if err != nil {
		h.logger.Warn("payment has no estimate reference",
			zap.String("payment_id", info.ID),
			zap.String("external_reference", info.ExternalReference),
		)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if _, err := h.manager.ConfirmGatewayPayment(ctx, estimateID); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			h.logger.Warn("payment references unknown estimate",
				zap.String("payment_id", info.ID),
				zap.String("estimate_id", estimateID.String()),
			)
			c.JSON(http.StatusOK, gin.H{"status": "ignored"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("payment confirmed",
		zap.String("payment_id", info.ID),
		zap.String("estimate_id", estimateID.String()),
	)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
