package config

import (
	"strings"

	"github.com/medguide-assistant-server/internal/domain"
	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger from logging configuration.
// Unknown levels fall back to info rather than failing startup.
func NewLogger(cfg *domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(cfg.Format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
