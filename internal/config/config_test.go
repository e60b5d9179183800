package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguide-assistant-server/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	viper.Reset()
	m, err := NewManager()
	require.NoError(t, err)
	return m
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MEDGUIDE_SERVER_PORT",
		"MEDGUIDE_PROVIDER_API_KEY",
		"MEDGUIDE_ASSISTANT_DEMO_MODE",
		"MEDGUIDE_LOGGING_LEVEL",
	} {
		os.Unsetenv(k)
	}
}

func TestNewManager_Defaults(t *testing.T) {
	clearEnvVars(t)
	m := newTestManager(t)

	cfg := m.GetConfig()
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "https://api.anthropic.com", cfg.Provider.BaseURL)
	assert.Equal(t, 4096, cfg.Provider.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 50000, cfg.Assistant.MaxDocumentText)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestNewManager_DemoModeForcedWithoutAPIKey(t *testing.T) {
	clearEnvVars(t)
	m := newTestManager(t)

	// No provider key configured: demo mode must be on even though the
	// configured default is off.
	assert.True(t, m.GetConfig().Assistant.DemoMode)
	assert.NoError(t, m.Validate())
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	clearEnvVars(t)
	os.Setenv("MEDGUIDE_SERVER_PORT", "9090")
	os.Setenv("MEDGUIDE_PROVIDER_API_KEY", "sk-test")
	os.Setenv("MEDGUIDE_LOGGING_LEVEL", "debug")
	defer clearEnvVars(t)

	m := newTestManager(t)

	cfg := m.GetConfig()
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Provider.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Assistant.DemoMode)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	clearEnvVars(t)
	m := newTestManager(t)

	m.config.Server.Port = -1
	assert.Error(t, m.Validate())

	m.config.Server.Port = 8080
	m.config.Logging.Level = "verbose"
	assert.Error(t, m.Validate())

	m.config.Logging.Level = "info"
	m.config.Assistant.DemoMode = false
	m.config.Provider.APIKey = ""
	assert.Error(t, m.Validate())
}

func TestNewLogger_Levels(t *testing.T) {
	logger := NewLogger(&domain.LoggingConfig{Level: "debug", Format: "text"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	// Unknown level falls back to info
	logger = NewLogger(&domain.LoggingConfig{Level: "chatty", Format: "json"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
