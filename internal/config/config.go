package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultAutumnAPIURL     = "https://api.useautumn.com/v1"
	defaultClerkAPIURL      = "https://api.clerk.com/v1"
	defaultMinutesFeatureID = "ai-minutes"

	// DefaultTestAssistantID is the primary Laine assistant used during MVP testing.
	DefaultTestAssistantID = "4c6a9a14-365b-452a-9b61-60bb13a8d19d"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Clerk    ClerkConfig    `toml:"clerk"`
	Billing  BillingConfig  `toml:"billing"`
	Webhook  WebhookConfig  `toml:"webhook"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `toml:"port"`
	Env  string `toml:"env"`
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
}

// ClerkConfig contains settings for the hosted identity provider
type ClerkConfig struct {
	SecretKey string `toml:"secret_key"`
	JWKSURL   string `toml:"jwks_url"`
	APIURL    string `toml:"api_url"`
}

// BillingConfig contains settings for the metered-billing provider
type BillingConfig struct {
	SecretKey        string `toml:"secret_key"`
	APIURL           string `toml:"api_url"`
	PublicBackendURL string `toml:"public_backend_url"`
	MinutesFeatureID string `toml:"minutes_feature_id"`
}

// WebhookConfig contains voice vendor webhook settings
type WebhookConfig struct {
	Secret          string `toml:"secret"`
	TestAssistantID string `toml:"test_assistant_id"`
	TestOrgID       string `toml:"test_org_id"`
}

// Default returns a configuration populated with development defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		Database: DatabaseConfig{
			MaxConns: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
		Clerk: ClerkConfig{
			APIURL: defaultClerkAPIURL,
		},
		Billing: BillingConfig{
			APIURL:           defaultAutumnAPIURL,
			MinutesFeatureID: defaultMinutesFeatureID,
		},
		Webhook: WebhookConfig{
			TestAssistantID: DefaultTestAssistantID,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file named by
// CONFIG_FILE, and environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	// .env is optional in every environment
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// LoadFile decodes a TOML file over the given configuration
func LoadFile(filename string, cfg *Config) error {
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

// Validate checks settings that are required at startup. The billing secret
// key is deliberately not checked here; its absence is reported per call.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid port %s: %w", c.Server.Port, err)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Env = getEnv("APP_ENV", cfg.Server.Env)

	cfg.Database.URL = getEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Database.MaxConns = int32(getEnvAsInt("DB_MAX_CONNS", int(cfg.Database.MaxConns)))

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.Clerk.SecretKey = getEnv("CLERK_SECRET_KEY", cfg.Clerk.SecretKey)
	cfg.Clerk.JWKSURL = getEnv("CLERK_JWKS_URL", cfg.Clerk.JWKSURL)
	cfg.Clerk.APIURL = getEnv("CLERK_API_URL", cfg.Clerk.APIURL)

	cfg.Billing.SecretKey = getEnv("AUTUMN_SECRET_KEY", cfg.Billing.SecretKey)
	cfg.Billing.APIURL = getEnv("AUTUMN_API_URL", cfg.Billing.APIURL)
	cfg.Billing.PublicBackendURL = getEnv("NEXT_PUBLIC_AUTUMN_BACKEND_URL", cfg.Billing.PublicBackendURL)
	cfg.Billing.MinutesFeatureID = getEnv("AUTUMN_MINUTES_FEATURE_ID", cfg.Billing.MinutesFeatureID)

	cfg.Webhook.Secret = getEnv("VAPI_WEBHOOK_SECRET", cfg.Webhook.Secret)
	cfg.Webhook.TestAssistantID = getEnv("VAPI_TEST_ASSISTANT_ID", cfg.Webhook.TestAssistantID)
	cfg.Webhook.TestOrgID = getEnv("TEST_CLERK_ORG_ID_FOR_LANE_ASSISTANT", cfg.Webhook.TestOrgID)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
