package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.useautumn.com/v1", cfg.Billing.APIURL)
	assert.Equal(t, "ai-minutes", cfg.Billing.MinutesFeatureID)
	assert.Equal(t, DefaultTestAssistantID, cfg.Webhook.TestAssistantID)
	assert.Empty(t, cfg.Webhook.Secret)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "laine.toml")
	content := `
[server]
port = "9000"

[database]
url = "postgres://file/laine"

[billing]
minutes_feature_id = "voice-minutes"

[webhook]
secret = "from-file"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("VAPI_WEBHOOK_SECRET", "from-env")
	t.Setenv("AUTUMN_SECRET_KEY", "am_sk_test")
	t.Setenv("TEST_CLERK_ORG_ID_FOR_LANE_ASSISTANT", "org_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgres://file/laine", cfg.Database.URL)
	assert.Equal(t, "voice-minutes", cfg.Billing.MinutesFeatureID)
	assert.Equal(t, "from-env", cfg.Webhook.Secret)
	assert.Equal(t, "am_sk_test", cfg.Billing.SecretKey)
	assert.Equal(t, "org_test", cfg.Webhook.TestOrgID)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg.Database.URL = "postgres://localhost/laine"
	assert.NoError(t, cfg.Validate())

	// The billing key is only checked when a call is made
	cfg.Billing.SecretKey = ""
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = "eighty"
	assert.Error(t, cfg.Validate())
}
