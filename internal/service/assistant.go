package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
)

// AssistantService orchestrates a guideline query end to end: it asks
// the configured querier, extracts structured recommendations from the
// free-text answer, and composes the assistant chat message shown to
// the clinician.
type AssistantService struct {
	querier   domain.GuidelineQuerier
	extractor domain.RecommendationExtractor
	logger    *logrus.Logger
}

// NewAssistantService creates a new query orchestrator
func NewAssistantService(querier domain.GuidelineQuerier, extractor domain.RecommendationExtractor, logger *logrus.Logger) *AssistantService {
	return &AssistantService{
		querier:   querier,
		extractor: extractor,
		logger:    logger,
	}
}

// Answer runs one guideline query for the patient. Provider failure
// degrades to a single user-visible fallback recommendation; this
// method never returns an error.
func (s *AssistantService) Answer(ctx context.Context, question string, patient domain.PatientSummary, condition, documentText string) domain.QueryResponse {
	start := time.Now()

	rawAnswer, err := s.querier.QueryGuidelines(ctx, question, patient, condition, documentText)
	var recommendations []domain.Recommendation
	if err != nil {
		s.logger.WithError(err).WithField("condition", condition).Warn("Guideline query failed, returning fallback")
		recommendations = []domain.Recommendation{fallbackRecommendation(condition)}
	} else {
		recommendations = s.extractor.Extract(rawAnswer, question)
		if len(recommendations) == 0 {
			recommendations = []domain.Recommendation{fallbackRecommendation(condition)}
		}
	}

	message := composeMessage(recommendations[0])

	s.logger.WithFields(logrus.Fields{
		"recommendations": len(recommendations),
		"duration":        time.Since(start),
	}).Debug("Answered guideline query")

	return domain.QueryResponse{
		Message:         message,
		Recommendations: recommendations,
		ProcessingTime:  time.Since(start),
		Timestamp:       time.Now().UTC(),
	}
}

// fallbackRecommendation is the single recommendation shown when the
// provider cannot be reached or returns nothing usable.
func fallbackRecommendation(condition string) domain.Recommendation {
	if condition == "" {
		condition = "this condition"
	}
	return domain.Recommendation{
		Text: fmt.Sprintf("I couldn't find specific guideline recommendations for your query about %s. "+
			"Please try asking a different question or provide more context.", condition),
		Explanation: "No guideline recommendations were available for this query.",
		Source:      domain.SourceMedical,
		Page:        domain.PageNotAvailable,
	}
}

// composeMessage renders the leading recommendation as the assistant
// chat reply, with its source attribution carried alongside.
func composeMessage(rec domain.Recommendation) domain.ChatMessage {
	content := fmt.Sprintf("%s\n\n\"%s\"", rec.Explanation, rec.Text)

	source := rec.Source
	if rec.Page != domain.PageNotAvailable && rec.Page != "" {
		source = fmt.Sprintf("%s, page %s", rec.Source, rec.Page)
	}

	return domain.ChatMessage{
		Role:      domain.ROLE_ASSISTANT,
		Content:   content,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}
