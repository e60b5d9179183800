package domain

import (
	"context"
)

// GuidelineQuerier answers a natural-language guideline question for a
// patient. Implementations must not surface transport failures as panics;
// a failed call returns an empty answer and an error the caller maps to a
// user-visible fallback.
type GuidelineQuerier interface {
	QueryGuidelines(ctx context.Context, question string, patient PatientSummary, condition, documentText string) (string, error)
}

// NoteWriter produces the raw body of an assessment-and-plan note. The
// body is opaque formatted text; no parsing is applied to it.
type NoteWriter interface {
	WriteNote(ctx context.Context, patient PatientSummary, condition string) (string, error)
}

// RecordFetcher retrieves the external clinical record for the active
// patient. A fetch failure degrades to built-in sample data; the bool
// reports whether live data was obtained.
type RecordFetcher interface {
	FetchRecord(ctx context.Context) (PatientRecord, bool)
}

// WebSearcher queries the guideline web search backend
type WebSearcher interface {
	Search(ctx context.Context, query string, patient *PatientSummary) ([]SearchResult, error)
}

// ContextNormalizer converts an external clinical record into a sanitized
// patient summary. Total: malformed input degrades to named defaults.
type ContextNormalizer interface {
	Normalize(record PatientRecord) PatientSummary
}

// RecommendationExtractor parses free-text model output into structured
// recommendations. Deterministic and total for any input text.
type RecommendationExtractor interface {
	Extract(rawAnswer, originalQuery string) []Recommendation
}

// NoteGenerator produces a complete clinical note for a patient and
// condition, degrading to a placeholder note on provider failure.
type NoteGenerator interface {
	GenerateNote(ctx context.Context, patient PatientSummary, condition string) ClinicalNote
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetProviderConfig() *ProviderConfig
	GetLoggingConfig() *LoggingConfig
	Validate() error
}
