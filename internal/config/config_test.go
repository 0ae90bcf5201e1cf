package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nikolayk812/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/api/v1", cfg.HTTP.APIPrefix)
	assert.Equal(t, "USD", cfg.Store.Currency)
	assert.Equal(t, 5*time.Minute, cfg.Stripe.WebhookTolerance)
	assert.True(t, cfg.PayPal.Sandbox)
	assert.False(t, cfg.PayPal.Enabled())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: postgres://file/storefront
store:
  currency: EUR
stripe:
  secret_key: sk_from_file
  webhook_tolerance: 2m
`), 0o600))

	t.Setenv("STOREFRONT_STRIPE_SECRET_KEY", "sk_from_env")
	t.Setenv("STOREFRONT_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STOREFRONT_PAYPAL_SANDBOX", "false")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file/storefront", cfg.Database.URL)
	assert.Equal(t, "sk_from_env", cfg.Stripe.SecretKey)
	assert.Equal(t, 2*time.Minute, cfg.Stripe.WebhookTolerance)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.PayPal.Sandbox)

	cur, err := cfg.Currency()
	require.NoError(t, err)
	assert.Equal(t, currency.EUR, cur)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STOREFRONT_AUTH_JWT_SECRET=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("STOREFRONT_AUTH_JWT_SECRET") })

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.Auth.JWTSecret)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			Database: config.DatabaseConfig{URL: "postgres://localhost/storefront"},
			Store:    config.StoreConfig{Currency: "USD"},
			Stripe:   config.StripeConfig{SecretKey: "sk_test", WebhookSecret: "whsec_test"},
			Auth:     config.AuthConfig{JWTSecret: "secret"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *config.Config)
		wantError string
	}{
		{
			name:   "complete config: ok",
			mutate: func(*config.Config) {},
		},
		{
			name:      "missing database url: fail",
			mutate:    func(c *config.Config) { c.Database.URL = "" },
			wantError: "database.url is required",
		},
		{
			name:      "unknown currency: fail",
			mutate:    func(c *config.Config) { c.Store.Currency = "XYZW" },
			wantError: "store.currency[XYZW] is not a valid ISO 4217 code",
		},
		{
			name:      "paypal id without secret: fail",
			mutate:    func(c *config.Config) { c.PayPal.ClientID = "id" },
			wantError: "paypal.client_id and paypal.secret must be set together",
		},
		{
			name: "several missing values: all reported",
			mutate: func(c *config.Config) {
				c.Stripe.WebhookSecret = ""
				c.Auth.JWTSecret = ""
			},
			wantError: "stripe.webhook_secret is required\nauth.jwt_secret is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
