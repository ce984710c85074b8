package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Supabase
	SupabaseURL            string `mapstructure:"SUPABASE_URL"`
	SupabasePublishableKey string `mapstructure:"SUPABASE_PUBLISHABLE_KEY"`
	SupabaseJWTSecret      string `mapstructure:"SUPABASE_JWT_SECRET"`
	SupabaseStorageBucket  string `mapstructure:"SUPABASE_STORAGE_BUCKET"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Server
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	BaseURL     string `mapstructure:"BASE_URL"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`

	// Access control
	AdminEmails  []string `mapstructure:"ADMIN_EMAILS"`
	AdminUserIDs []string `mapstructure:"ADMIN_USER_IDS"`

	// Pricing
	HourlyRate float64 `mapstructure:"HOURLY_RATE"`
	Currency   string  `mapstructure:"CURRENCY"`

	// Payments
	MercadoPagoAccessToken string        `mapstructure:"MERCADOPAGO_ACCESS_TOKEN"`
	PaymentGatewayMock     bool          `mapstructure:"PAYMENT_GATEWAY_MOCK"`
	RedisAddr              string        `mapstructure:"REDIS_ADDR"`
	RedisPassword          string        `mapstructure:"REDIS_PASSWORD"`
	CheckoutCacheTTL       time.Duration `mapstructure:"CHECKOUT_CACHE_TTL"`

	// Audit trail
	AuditBackend     string `mapstructure:"AUDIT_BACKEND"`
	MongoURI         string `mapstructure:"MONGO_URI"`
	MongoDatabase    string `mapstructure:"MONGO_DATABASE"`
	AuditCollection  string `mapstructure:"AUDIT_COLLECTION"`
	AuditTable       string `mapstructure:"AUDIT_TABLE"`
	AWSRegion        string `mapstructure:"AWS_REGION"`
	DynamoDBEndpoint string `mapstructure:"DYNAMODB_ENDPOINT"`
}

var defaults = map[string]any{
	"SUPABASE_URL":             "",
	"SUPABASE_PUBLISHABLE_KEY": "",
	"SUPABASE_JWT_SECRET":      "",
	"SUPABASE_STORAGE_BUCKET":  "agency-files",
	"DATABASE_URL":             "",
	"PORT":                     "8080",
	"ENVIRONMENT":              "development",
	"BASE_URL":                 "http://localhost:8080",
	"LOG_LEVEL":                "info",
	"ADMIN_EMAILS":             "",
	"ADMIN_USER_IDS":           "",
	"HOURLY_RATE":              100.0,
	"CURRENCY":                 "BRL",
	"MERCADOPAGO_ACCESS_TOKEN": "",
	"PAYMENT_GATEWAY_MOCK":     false,
	"REDIS_ADDR":               "",
	"REDIS_PASSWORD":           "",
	"CHECKOUT_CACHE_TTL":       "30m",
	"AUDIT_BACKEND":            "none",
	"MONGO_URI":                "",
	"MONGO_DATABASE":           "agency",
	"AUDIT_COLLECTION":         "estimate_audit",
	"AUDIT_TABLE":              "estimate_audit",
	"AWS_REGION":               "us-east-1",
	"DYNAMODB_ENDPOINT":        "",
}

// Load reads the environment, overlaid on CONFIG_FILE when it is set. A .env file in
// the working directory is picked up by the godotenv autoload import in main.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	ttl, err := time.ParseDuration(v.GetString("CHECKOUT_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKOUT_CACHE_TTL: %w", err)
	}

	return &Config{
		SupabaseURL:            v.GetString("SUPABASE_URL"),
		SupabasePublishableKey: v.GetString("SUPABASE_PUBLISHABLE_KEY"),
		SupabaseJWTSecret:      v.GetString("SUPABASE_JWT_SECRET"),
		SupabaseStorageBucket:  v.GetString("SUPABASE_STORAGE_BUCKET"),

		DatabaseURL: v.GetString("DATABASE_URL"),

		Port:        v.GetString("PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		BaseURL:     strings.TrimRight(v.GetString("BASE_URL"), "/"),
		LogLevel:    v.GetString("LOG_LEVEL"),

		AdminEmails:  splitList(v.GetString("ADMIN_EMAILS")),
		AdminUserIDs: splitList(v.GetString("ADMIN_USER_IDS")),

		HourlyRate: v.GetFloat64("HOURLY_RATE"),
		Currency:   v.GetString("CURRENCY"),

		MercadoPagoAccessToken: v.GetString("MERCADOPAGO_ACCESS_TOKEN"),
		PaymentGatewayMock:     v.GetBool("PAYMENT_GATEWAY_MOCK"),
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		CheckoutCacheTTL:       ttl,

		AuditBackend:     strings.ToLower(v.GetString("AUDIT_BACKEND")),
		MongoURI:         v.GetString("MONGO_URI"),
		MongoDatabase:    v.GetString("MONGO_DATABASE"),
		AuditCollection:  v.GetString("AUDIT_COLLECTION"),
		AuditTable:       v.GetString("AUDIT_TABLE"),
		AWSRegion:        v.GetString("AWS_REGION"),
		DynamoDBEndpoint: v.GetString("DYNAMODB_ENDPOINT"),
	}, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.HourlyRate < 0 {
		return fmt.Errorf("HOURLY_RATE must not be negative")
	}
	if !c.PaymentGatewayMock && c.MercadoPagoAccessToken == "" {
		return fmt.Errorf("MERCADOPAGO_ACCESS_TOKEN is required unless PAYMENT_GATEWAY_MOCK=true")
	}
	switch c.AuditBackend {
	case "", "none", "memory":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when AUDIT_BACKEND=mongo")
		}
	case "dynamodb":
		if c.AuditTable == "" {
			return fmt.Errorf("AUDIT_TABLE is required when AUDIT_BACKEND=dynamodb")
		}
	default:
		return fmt.Errorf("unknown AUDIT_BACKEND %q", c.AuditBackend)
	}
	return nil
}

// PaymentsMocked reports whether checkout should skip MercadoPago. Only the explicit
// PAYMENT_GATEWAY_MOCK flag turns it on.
func (c *Config) PaymentsMocked() bool {
	return c.PaymentGatewayMock
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
