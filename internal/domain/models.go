package domain

import (
	"time"
)

// Core Enums and Types

// MessageRole identifies the author of a chat message
type MessageRole string

const (
	ROLE_USER      MessageRole = "user"
	ROLE_ASSISTANT MessageRole = "assistant"
	ROLE_SYSTEM    MessageRole = "system"
)

// Known guideline source labels inferred by the recommendation extractor
const (
	SourceADA          = "ADA Standards of Medical Care in Diabetes"
	SourceJNC          = "JNC Guidelines"
	SourceNCCN         = "NCCN Guidelines for Breast Cancer"
	SourceASCO         = "ASCO Guidelines"
	SourceBreastCancer = "Breast Cancer Treatment Guidelines"
	SourceClinical     = "Clinical Guidelines"
	SourceMedical      = "Medical Guidelines"
	PageNotAvailable   = "N/A"
)

// Request/Response Models

// QueryRequest represents an incoming guideline question for a session
type QueryRequest struct {
	Question  string `json:"question" binding:"required"`
	Condition string `json:"condition,omitempty"`
}

// QueryResponse carries the assistant reply and its structured recommendations
type QueryResponse struct {
	Message         ChatMessage      `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
	ProcessingTime  time.Duration    `json:"processing_time"`
	Timestamp       time.Time        `json:"timestamp"`
}

// NoteRequest asks for an assessment-and-plan note for a condition
type NoteRequest struct {
	Condition string `json:"condition" binding:"required"`
}

// CredentialsRequest updates the session-held API credentials
type CredentialsRequest struct {
	ProviderAPIKey string `json:"provider_api_key"`
	SearchAPIKey   string `json:"search_api_key"`
}

// SearchRequest is a guideline web search query
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// Core Data Models

// PatientRecord is the loosely-shaped external clinical record as fetched.
// Keys may be absent or malformed; the normalizer owns all interpretation.
type PatientRecord map[string]interface{}

// PatientSummary is the normalized, sanitized view of a clinical record
// used as prompt context. All string fields are markup-free.
type PatientSummary struct {
	Name       string            `json:"name"`
	Age        string            `json:"age"`
	Diagnosis  string            `json:"diagnosis"`
	RecentLabs map[string]string `json:"recent_labs"`
}

// Recommendation is one piece of guideline-derived advice extracted from
// free-text model output, plus its provenance.
type Recommendation struct {
	Text        string  `json:"text"`
	Explanation string  `json:"explanation"`
	Source      string  `json:"source"`
	Page        string  `json:"page"`
	Confidence  float64 `json:"confidence,omitempty"`
}

// ChatMessage is one entry in a session's append-only chat history
type ChatMessage struct {
	Role      MessageRole   `json:"role"`
	Content   string        `json:"content"`
	Source    string        `json:"source,omitempty"`
	Note      *ClinicalNote `json:"note,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ClinicalNote is an assessment-and-plan note; Content is opaque formatted
// text displayed verbatim.
type ClinicalNote struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// GuidelineDocument describes a curated or uploaded guideline
type GuidelineDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	LastUpdated string `json:"last_updated"`
	UploadedBy  string `json:"uploaded_by,omitempty"`
	UploadDate  string `json:"upload_date,omitempty"`
}

// SearchResult is one hit from the guideline web search
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// UploadedDocument is the acknowledgment for an uploaded guideline PDF.
// The text is held in session state only and feeds query context.
type UploadedDocument struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Pages     int       `json:"pages"`
	TextChars int       `json:"text_chars"`
	Uploaded  time.Time `json:"uploaded"`
}
