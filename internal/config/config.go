package config

import (
	"fmt"
	"strings"

	"github.com/medguide-assistant-server/internal/domain"
	"github.com/spf13/viper"
)

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/medguide-assistant/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("MEDGUIDE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Without a provider credential the live client cannot be used, so the
	// canned clients are selected regardless of the configured switch.
	if config.Provider.APIKey == "" {
		config.Assistant.DemoMode = true
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "60s")
	viper.SetDefault("server.idle_timeout", "120s")

	// LLM provider defaults
	viper.SetDefault("provider.base_url", "https://api.anthropic.com")
	viper.SetDefault("provider.api_key", "")
	viper.SetDefault("provider.model", "claude-3-5-sonnet-20241022")
	viper.SetDefault("provider.max_tokens", 4096)
	viper.SetDefault("provider.temperature", 0.2)
	viper.SetDefault("provider.timeout", "30s")
	viper.SetDefault("provider.rate_limit", 5)

	// Clinical record service defaults
	viper.SetDefault("record.base_url", "http://localhost:8090")
	viper.SetDefault("record.patient_id", "p001")
	viper.SetDefault("record.timeout", "10s")

	// Web search defaults
	viper.SetDefault("search.base_url", "https://api.perplexity.ai")
	viper.SetDefault("search.api_key", "")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.rate_limit", 5)

	// Assistant defaults
	viper.SetDefault("assistant.demo_mode", false)
	viper.SetDefault("assistant.max_document_text", 50000)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetProviderConfig returns LLM provider configuration
func (m *Manager) GetProviderConfig() *domain.ProviderConfig {
	return &m.config.Provider
}

// GetLoggingConfig returns logging configuration
func (m *Manager) GetLoggingConfig() *domain.LoggingConfig {
	return &m.config.Logging
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate provider configuration
	if config.Provider.BaseURL == "" {
		return fmt.Errorf("provider base URL is required")
	}
	if config.Provider.MaxTokens <= 0 {
		return fmt.Errorf("provider max_tokens must be positive")
	}
	if !config.Assistant.DemoMode && config.Provider.APIKey == "" {
		return fmt.Errorf("provider API key is required outside demo mode")
	}

	// Validate record service configuration
	if config.Record.BaseURL == "" {
		return fmt.Errorf("record service base URL is required")
	}

	// Validate document limit
	if config.Assistant.MaxDocumentText <= 0 {
		return fmt.Errorf("assistant max_document_text must be positive")
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
