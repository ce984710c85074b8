// Package payments resolves checkout locations for finalized estimates and reads
// payment results back from MercadoPago.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"go.uber.org/zap"

	"agency-backend/internal/models"
)

var (
	ErrMissingAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrGatewayNotConfigured = errors.New("mercado pago gateway not configured")
	ErrInvalidPaymentID     = errors.New("invalid payment id")
)

const (
	PaymentApproved = "approved"
	maxAttempts     = 3
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// PaymentInfo is what the webhook needs from a payment.
type PaymentInfo struct {
	ID                string
	Status            string
	ExternalReference string
}

func (p PaymentInfo) Approved() bool {
	return p.Status == PaymentApproved
}

type MercadoPagoOptions struct {
	AccessToken string
	Mock        bool
	BaseURL     string
	Currency    string
	Logger      *zap.Logger
}

// MercadoPagoCheckout creates Checkout Pro preferences. In mock mode it never calls
// the gateway: checkout URLs point at BaseURL and no payment can be read.
type MercadoPagoCheckout struct {
	preferences preferenceCreator
	payments    paymentGetter
	mockMode    bool
	sandbox     bool
	baseURL     string
	currency    string
	backoff     Backoff
	logger      *zap.Logger
}

func NewMercadoPagoCheckout(opts MercadoPagoOptions) (*MercadoPagoCheckout, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &MercadoPagoCheckout{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		currency: opts.Currency,
		backoff:  DefaultBackoff,
		logger:   logger,
	}
	if g.currency == "" {
		g.currency = "BRL"
	}

	if opts.Mock {
		logger.Info("payment gateway mock mode enabled")
		g.mockMode = true
		return g, nil
	}

	if opts.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	cfg, err := config.New(opts.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create mercado pago config: %w", err)
	}
	g.preferences = preference.NewClient(cfg)
	g.payments = payment.NewClient(cfg)
	g.sandbox = strings.HasPrefix(opts.AccessToken, "TEST-")
	logger.Info("mercado pago client initialized", zap.Bool("sandbox", g.sandbox))
	return g, nil
}

// FallbackURL is the in-app checkout page for an estimate.
func FallbackURL(baseURL string, estimateID string) string {
	return strings.TrimRight(baseURL, "/") + "/checkout/" + estimateID
}

// Mocked reports whether the gateway runs without MercadoPago.
func (g *MercadoPagoCheckout) Mocked() bool {
	return g.mockMode
}

func (g *MercadoPagoCheckout) CheckoutURL(ctx context.Context, e *models.Estimate) (string, error) {
	if g.mockMode {
		return FallbackURL(g.baseURL, e.ID.String()), nil
	}
	if g.preferences == nil {
		return "", ErrGatewayNotConfigured
	}

	title := e.Title
	if title == "" {
		title = "Estimate " + e.ID.String()
	}
	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:         e.ID.String(),
			Title:      title,
			Quantity:   1,
			UnitPrice:  e.TotalCost,
			CurrencyID: g.currency,
		}},
		ExternalReference: e.ID.String(),
		BackURLs: &preference.BackURLsRequest{
			Success: g.baseURL + "/checkout/" + e.ID.String() + "/success",
			Pending: g.baseURL + "/checkout/" + e.ID.String() + "/pending",
			Failure: g.baseURL + "/checkout/" + e.ID.String() + "/failure",
		},
		AutoReturn:      "approved",
		NotificationURL: g.baseURL + "/api/v1/webhooks/mercadopago",
	}

	var resp *preference.Response
	err := g.backoff.RetryIf(ctx, func() error {
		var err error
		resp, err = g.preferences.Create(ctx, req)
		return err
	}, maxAttempts, retryableGatewayError)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout preference: %w", err)
	}

	url := resp.InitPoint
	if g.sandbox && resp.SandboxInitPoint != "" {
		url = resp.SandboxInitPoint
	}
	if url == "" {
		return "", fmt.Errorf("checkout preference %s has no init point", resp.ID)
	}

	g.logger.Info("checkout preference created",
		zap.String("estimate_id", e.ID.String()),
		zap.String("preference_id", resp.ID),
	)
	return url, nil
}

// Payment fetches a payment by the id carried in a webhook notification. Mock mode has
// no payments to read, so it fails with ErrGatewayNotConfigured.
func (g *MercadoPagoCheckout) Payment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrInvalidPaymentID
	}
	if g.payments == nil {
		return nil, ErrGatewayNotConfigured
	}

	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentID, paymentID)
	}

	var resp *payment.Response
	err = g.backoff.RetryIf(ctx, func() error {
		var err error
		resp, err = g.payments.Get(ctx, id)
		return err
	}, maxAttempts, retryableGatewayError)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &PaymentInfo{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}

// retryableGatewayError retries transport failures and 5xx answers. A 4xx means
// MercadoPago rejected the request itself.
func retryableGatewayError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var respErr *mperror.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode >= 500
	}
	return true
}
