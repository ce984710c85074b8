package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agency")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 100.0, cfg.HourlyRate)
	assert.Equal(t, "BRL", cfg.Currency)
	assert.Equal(t, 30*time.Minute, cfg.CheckoutCacheTTL)
	assert.Equal(t, "none", cfg.AuditBackend)
	assert.True(t, cfg.PaymentsMocked())
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agency")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAILS", " ops@example.com, ceo@example.com ,")
	t.Setenv("HOURLY_RATE", "150.5")
	t.Setenv("BASE_URL", "https://agency.example.com/")
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "APP_USR-1")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")
	t.Setenv("CHECKOUT_CACHE_TTL", "5m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"ops@example.com", "ceo@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 150.5, cfg.HourlyRate)
	assert.Equal(t, "https://agency.example.com", cfg.BaseURL)
	assert.False(t, cfg.PaymentsMocked())
	assert.Equal(t, 5*time.Minute, cfg.CheckoutCacheTTL)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL: postgres://file/agency\nSUPABASE_JWT_SECRET: from-file\nCURRENCY: USD\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CURRENCY", "EUR")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/agency", cfg.DatabaseURL)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SUPABASE_JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestValidate_AuditBackend(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "x", SupabaseJWTSecret: "y", PaymentGatewayMock: true, AuditBackend: "mongo"}
	assert.Error(t, cfg.Validate())

	cfg.MongoURI = "mongodb://localhost:27017"
	assert.NoError(t, cfg.Validate())

	cfg.AuditBackend = "kafka"
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingTokenWithoutMockFlag(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/agency")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")
	t.Setenv("MERCADOPAGO_ACCESS_TOKEN", "")
	t.Setenv("PAYMENT_GATEWAY_MOCK", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MERCADOPAGO_ACCESS_TOKEN is required")
}

func TestPaymentsMocked_OnlyByFlag(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "x", SupabaseJWTSecret: "y", MercadoPagoAccessToken: "APP_USR-1"}
	assert.False(t, cfg.PaymentsMocked())
	assert.NoError(t, cfg.Validate())

	cfg.MercadoPagoAccessToken = ""
	assert.False(t, cfg.PaymentsMocked())
	assert.Error(t, cfg.Validate())

	cfg.PaymentGatewayMock = true
	assert.True(t, cfg.PaymentsMocked())
	assert.NoError(t, cfg.Validate())
}
