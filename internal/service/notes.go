package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
)

// Placeholder note returned when the provider cannot be reached
const (
	errorNoteTitle   = "Error Generating Note"
	errorNoteContent = "Unable to generate a clinical note at this time."
)

// NoteService produces assessment-and-plan notes. The note body comes
// back verbatim from the configured NoteWriter; no parsing is applied.
type NoteService struct {
	writer domain.NoteWriter
	logger *logrus.Logger
}

// NewNoteService creates a new note generator
func NewNoteService(writer domain.NoteWriter, logger *logrus.Logger) *NoteService {
	return &NoteService{writer: writer, logger: logger}
}

// GenerateNote produces a clinical note for the patient and condition.
// Provider failure yields a fixed placeholder note; this method never
// returns an error.
func (s *NoteService) GenerateNote(ctx context.Context, patient domain.PatientSummary, condition string) domain.ClinicalNote {
	content, err := s.writer.WriteNote(ctx, patient, condition)
	if err != nil || strings.TrimSpace(content) == "" {
		s.logger.WithError(err).WithField("condition", condition).Warn("Note generation failed, returning placeholder")
		return domain.ClinicalNote{
			Title:   errorNoteTitle,
			Content: errorNoteContent,
		}
	}

	return domain.ClinicalNote{
		Title:   "Assessment & Plan for " + strings.ToUpper(condition),
		Content: strings.TrimSpace(content),
	}
}
