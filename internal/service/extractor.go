package service

import (
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
)

// Paragraphs shorter than this (trimmed) are treated as noise: headers,
// stray punctuation, list markers.
const minParagraphLength = 10

// Explanation used for keyword-matched paragraphs that carry no quoted
// excerpt of their own.
const genericExplanation = "This recommendation was identified in the guideline response."

var (
	paragraphBoundary = regexp.MustCompile(`\r?\n[ \t\r]*\n`)

	recommendationKeywords = []string{"recommend", "should", "advised", "indicated"}

	// Source labels checked in fixed priority order; first match wins.
	sourceChecks = []struct {
		keyword string
		label   string
	}{
		{"ada", domain.SourceADA},
		{"jnc", domain.SourceJNC},
		{"nccn", domain.SourceNCCN},
		{"asco", domain.SourceASCO},
	}
)

// ExtractorService parses free-text model answers into structured
// recommendations. It trades precision for robustness: every branch has a
// deterministic fallback so the caller always has at least one displayable
// recommendation when any answer text exists.
type ExtractorService struct {
	logger *logrus.Logger
}

// NewExtractorService creates a new recommendation extractor
func NewExtractorService(logger *logrus.Logger) *ExtractorService {
	return &ExtractorService{logger: logger}
}

// Extract parses a raw model answer into an ordered list of
// recommendations. Deterministic for a given input and never panics.
// Ordering follows the paragraph order of the source text. An empty or
// whitespace-only answer yields an empty list; any other answer yields at
// least one recommendation.
func (e *ExtractorService) Extract(rawAnswer, originalQuery string) []domain.Recommendation {
	trimmed := strings.TrimSpace(rawAnswer)
	if trimmed == "" {
		return []domain.Recommendation{}
	}

	recommendations := []domain.Recommendation{}
	for _, paragraph := range paragraphBoundary.Split(rawAnswer, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) < minParagraphLength {
			continue
		}
		recommendations = append(recommendations, e.extractFromParagraph(paragraph)...)
	}

	// Nothing structured found anywhere: surface the whole answer as a
	// single displayable recommendation.
	if len(recommendations) == 0 {
		recommendations = append(recommendations, domain.Recommendation{
			Text:        trimmed,
			Explanation: "Based on your query: " + originalQuery,
			Source:      domain.SourceMedical,
			Page:        domain.PageNotAvailable,
		})
	}

	e.logger.WithFields(logrus.Fields{
		"answer_chars":    len(rawAnswer),
		"recommendations": len(recommendations),
	}).Debug("Extracted recommendations")

	return recommendations
}

func (e *ExtractorService) extractFromParagraph(paragraph string) []domain.Recommendation {
	parts := strings.Split(paragraph, `"`)
	if len(parts) >= 3 {
		return e.extractQuoted(paragraph, parts)
	}

	lower := strings.ToLower(paragraph)
	for _, kw := range recommendationKeywords {
		if strings.Contains(lower, kw) {
			return []domain.Recommendation{{
				Text:        paragraph,
				Explanation: genericExplanation,
				Source:      domain.SourceClinical,
				Page:        domain.PageNotAvailable,
			}}
		}
	}

	return nil
}

// extractQuoted emits one recommendation per quoted span in the paragraph.
// Odd-indexed split segments are the quoted spans; a dangling span opened
// by an unmatched trailing quote has no closing segment after it and is
// never emitted.
func (e *ExtractorService) extractQuoted(paragraph string, parts []string) []domain.Recommendation {
	source := inferSource(paragraph)
	page := inferPage(paragraph)

	var recs []domain.Recommendation
	for i := 1; i < len(parts)-1; i += 2 {
		text := strings.TrimSpace(parts[i])
		if text == "" {
			continue
		}

		explanation := strings.TrimSpace(parts[i-1])
		if explanation == "" {
			explanation = paragraph
		}

		recs = append(recs, domain.Recommendation{
			Text:        text,
			Explanation: explanation,
			Source:      source,
			Page:        page,
		})
	}
	return recs
}

// inferSource maps guideline acronyms and keywords in the paragraph to a
// known source label, in fixed priority order.
func inferSource(paragraph string) string {
	lower := strings.ToLower(paragraph)
	for _, check := range sourceChecks {
		if strings.Contains(lower, check.keyword) {
			return check.label
		}
	}
	if strings.Contains(lower, "breast") && strings.Contains(lower, "cancer") {
		return domain.SourceBreastCancer
	}
	return domain.SourceClinical
}

// inferPage finds the first whitespace-delimited token starting with
// "page" and returns the page value: the token's own suffix, or the next
// token when the match is the bare word "page". Trailing punctuation is
// stripped. Returns the N/A sentinel when no page token is present.
func inferPage(paragraph string) string {
	fields := strings.Fields(strings.ToLower(paragraph))
	for i, token := range fields {
		if !strings.HasPrefix(token, "page") {
			continue
		}
		value := strings.Trim(token[len("page"):], ".,;: ")
		if value == "" && i+1 < len(fields) {
			value = strings.Trim(fields[i+1], ".,;: ")
		}
		if value != "" {
			return value
		}
	}
	return domain.PageNotAvailable
}
