package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/medguide-assistant-server/internal/domain"
)

type stubNoteWriter struct {
	content string
	err     error
}

func (s *stubNoteWriter) WriteNote(ctx context.Context, patient domain.PatientSummary, condition string) (string, error) {
	return s.content, s.err
}

func newTestNoteService(writer domain.NoteWriter) *NoteService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewNoteService(writer, logger)
}

func TestGenerateNote_Success(t *testing.T) {
	writer := &stubNoteWriter{content: "ASSESSMENT:\n54-year-old with poorly controlled T2DM.\n\nPLAN:\n1. Intensify therapy.\n"}
	svc := newTestNoteService(writer)

	note := svc.GenerateNote(context.Background(), domain.PatientSummary{Name: "James Wilson"}, "diabetes")

	assert.Equal(t, "Assessment & Plan for DIABETES", note.Title)
	assert.Contains(t, note.Content, "ASSESSMENT:")
	assert.Contains(t, note.Content, "PLAN:")
}

func TestGenerateNote_WriterFailure(t *testing.T) {
	writer := &stubNoteWriter{err: errors.New("provider unavailable")}
	svc := newTestNoteService(writer)

	note := svc.GenerateNote(context.Background(), domain.PatientSummary{}, "diabetes")

	assert.Equal(t, errorNoteTitle, note.Title)
	assert.Equal(t, errorNoteContent, note.Content)
}

func TestGenerateNote_EmptyContentTreatedAsFailure(t *testing.T) {
	writer := &stubNoteWriter{content: "   \n"}
	svc := newTestNoteService(writer)

	note := svc.GenerateNote(context.Background(), domain.PatientSummary{}, "hypertension")

	assert.Equal(t, errorNoteTitle, note.Title)
}
