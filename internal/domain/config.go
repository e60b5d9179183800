package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Record    RecordConfig    `mapstructure:"record"`
	Search    SearchConfig    `mapstructure:"search"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ProviderConfig represents the LLM provider API configuration
type ProviderConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   int           `mapstructure:"rate_limit"`
}

// RecordConfig represents the clinical-record service configuration
type RecordConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	PatientID string        `mapstructure:"patient_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// SearchConfig represents the guideline web search configuration
type SearchConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RateLimit  int           `mapstructure:"rate_limit"`
}

// AssistantConfig represents assistant behavior configuration
type AssistantConfig struct {
	// DemoMode selects the canned-response clients instead of live HTTP.
	// Defaults to true when no provider API key is configured.
	DemoMode        bool `mapstructure:"demo_mode"`
	MaxDocumentText int  `mapstructure:"max_document_text"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
