package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, time.Hour, cfg.Verification.RateWindow)
	assert.Equal(t, 3, cfg.Verification.MaxPerWindow)
	assert.Equal(t, 10*time.Minute, cfg.Verification.RegistrationWindow)
	assert.Equal(t, "feiraja_webhook_token", cfg.WhatsApp.VerifyToken)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "feiraja/products", cfg.Cloudinary.Folder)
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
server:
  port: 8080
database:
  url: postgres://yaml
whatsapp:
  access_token: yaml-token
  phone_number_id: "123"
twilio:
  account_sid: AC1
  auth_token: secret
  whatsapp_from: "whatsapp:+14155238886"
verification:
  code_ttl: 2m
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "env-token")
	t.Setenv("TELEGRAM_OPS_CHAT_ID", "-100500")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres://env", cfg.Database.DSN)
	assert.Equal(t, "env-token", cfg.WhatsApp.AccessToken)
	assert.True(t, cfg.WhatsApp.Configured())
	assert.True(t, cfg.Twilio.Configured())
	assert.True(t, cfg.Twilio.IsSandbox())
	assert.Equal(t, 2*time.Minute, cfg.Verification.CodeTTL)
	assert.Equal(t, int64(-100500), cfg.Telegram.OpsChatID)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestProvidersNotConfiguredByDefault(t *testing.T) {
	var cfg Config
	assert.False(t, cfg.WhatsApp.Configured())
	assert.False(t, cfg.Twilio.Configured())
	assert.False(t, cfg.Email.Configured())
	assert.False(t, cfg.Cloudinary.Configured())
}
