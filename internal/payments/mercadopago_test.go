package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mercadopago/sdk-go/pkg/mperror"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agency-backend/internal/models"
)

type fakePreferences struct {
	calls    int
	failFor  int
	failWith error
	last     preference.Request
	resp     *preference.Response
}

func (f *fakePreferences) Create(_ context.Context, req preference.Request) (*preference.Response, error) {
	f.calls++
	f.last = req
	if f.calls <= f.failFor {
		if f.failWith != nil {
			return nil, f.failWith
		}
		return nil, errors.New("gateway timeout")
	}
	return f.resp, nil
}

type fakePayments struct {
	calls int
	resp  *payment.Response
	err   error
}

func (f *fakePayments) Get(context.Context, int) (*payment.Response, error) {
	f.calls++
	return f.resp, f.err
}

func testGateway(prefs preferenceCreator, pays paymentGetter) *MercadoPagoCheckout {
	return &MercadoPagoCheckout{
		preferences: prefs,
		payments:    pays,
		baseURL:     "https://agency.example.com",
		currency:    "BRL",
		backoff:     Backoff{time.Millisecond},
		logger:      zap.NewNop(),
	}
}

func TestCheckoutURL_Mock(t *testing.T) {
	g, err := NewMercadoPagoCheckout(MercadoPagoOptions{Mock: true, BaseURL: "https://agency.example.com/"})
	require.NoError(t, err)

	e := &models.Estimate{ID: uuid.New()}
	url, err := g.CheckoutURL(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "https://agency.example.com/checkout/"+e.ID.String(), url)
}

func TestNewMercadoPagoCheckout_RequiresToken(t *testing.T) {
	_, err := NewMercadoPagoCheckout(MercadoPagoOptions{})
	assert.ErrorIs(t, err, ErrMissingAccessToken)
}

func TestCheckoutURL_CreatesPreference(t *testing.T) {
	prefs := &fakePreferences{failFor: 1, resp: &preference.Response{ID: "pref-1", InitPoint: "https://mp.example.com/init/pref-1"}}
	g := testGateway(prefs, nil)
	e := &models.Estimate{ID: uuid.New(), Title: "Shop", TotalCost: 1200}

	url, err := g.CheckoutURL(context.Background(), e)
	require.NoError(t, err)

	assert.Equal(t, "https://mp.example.com/init/pref-1", url)
	assert.Equal(t, 2, prefs.calls)
	assert.Equal(t, e.ID.String(), prefs.last.ExternalReference)
	require.Len(t, prefs.last.Items, 1)
	assert.Equal(t, 1200.0, prefs.last.Items[0].UnitPrice)
	assert.Equal(t, "BRL", prefs.last.Items[0].CurrencyID)
	assert.Equal(t, "https://agency.example.com/api/v1/webhooks/mercadopago", prefs.last.NotificationURL)
}

func TestCheckoutURL_SandboxInitPoint(t *testing.T) {
	prefs := &fakePreferences{resp: &preference.Response{ID: "p", InitPoint: "live", SandboxInitPoint: "sandbox"}}
	g := testGateway(prefs, nil)
	g.sandbox = true

	url, err := g.CheckoutURL(context.Background(), &models.Estimate{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, "sandbox", url)
}

func TestCheckoutURL_GatewayDown(t *testing.T) {
	prefs := &fakePreferences{failFor: 10}
	g := testGateway(prefs, nil)

	_, err := g.CheckoutURL(context.Background(), &models.Estimate{ID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, prefs.calls)
}

func TestPayment(t *testing.T) {
	estimateID := uuid.NewString()
	g := testGateway(nil, &fakePayments{resp: &payment.Response{ID: 42, Status: "approved", ExternalReference: estimateID}})

	info, err := g.Payment(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, info.Approved())
	assert.Equal(t, "42", info.ID)
	assert.Equal(t, estimateID, info.ExternalReference)
}

func TestPayment_InvalidID(t *testing.T) {
	g := testGateway(nil, &fakePayments{})

	_, err := g.Payment(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrInvalidPaymentID)
}

func TestPayment_MockReadsNothing(t *testing.T) {
	g, err := NewMercadoPagoCheckout(MercadoPagoOptions{Mock: true})
	require.NoError(t, err)

	info, err := g.Payment(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
	assert.Nil(t, info)
}

func TestCheckoutURL_ClientErrorIsNotRetried(t *testing.T) {
	prefs := &fakePreferences{failFor: 10, failWith: &mperror.ResponseError{StatusCode: 400, Message: "invalid items"}}
	g := testGateway(prefs, nil)

	_, err := g.CheckoutURL(context.Background(), &models.Estimate{ID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, 1, prefs.calls)
}

func TestCheckoutURL_ServerErrorIsRetried(t *testing.T) {
	prefs := &fakePreferences{
		failFor:  1,
		failWith: &mperror.ResponseError{StatusCode: 503, Message: "unavailable"},
		resp:     &preference.Response{ID: "p", InitPoint: "https://mp.example.com/init/p"},
	}
	g := testGateway(prefs, nil)

	url, err := g.CheckoutURL(context.Background(), &models.Estimate{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, "https://mp.example.com/init/p", url)
	assert.Equal(t, 2, prefs.calls)
}

func TestPayment_NotFoundIsNotRetried(t *testing.T) {
	pays := &fakePayments{err: &mperror.ResponseError{StatusCode: 404, Message: "not found"}}
	g := testGateway(nil, pays)

	_, err := g.Payment(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, 1, pays.calls)
}
