// Package session holds per-clinician conversation state: the active
// patient summary, the append-only chat history, session-scoped API
// credentials, the latest generated note, and uploaded document text.
// State is in-memory only and scoped to the server process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
)

// Credentials are session-scoped API keys supplied by the clinician.
// They override the server-configured keys for that session only.
type Credentials struct {
	ProviderAPIKey string
	SearchAPIKey   string
}

// Session is one clinician conversation. Fields are owned by the
// Manager; callers receive copies.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time

	Patient    domain.PatientSummary
	LiveRecord bool

	History     []domain.ChatMessage
	Credentials Credentials
	CurrentNote *domain.ClinicalNote

	Document     *domain.UploadedDocument
	DocumentText string
}

// Manager owns all active sessions behind a single RWMutex. Operations
// are cheap; contention is bounded by session count, not history size.
type Manager struct {
	logger   *logrus.Logger
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates a new session manager
func NewManager(logger *logrus.Logger) *Manager {
	return &Manager{
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session for the given patient and returns a
// snapshot of it. The ID is a fresh UUID.
func (m *Manager) Create(patient domain.PatientSummary, liveRecord bool) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	s := &Session{
		ID:           uuid.New().String(),
		CreatedAt:    now,
		LastActivity: now,
		Patient:      patient,
		LiveRecord:   liveRecord,
		History:      []domain.ChatMessage{},
	}
	m.sessions[s.ID] = s

	m.logger.WithFields(logrus.Fields{
		"session_id":  s.ID,
		"patient":     patient.Name,
		"live_record": liveRecord,
	}).Info("Created session")

	return snapshot(s)
}

// Get returns a snapshot of the session, or false when no session with
// that ID exists.
func (m *Manager) Get(id string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	return snapshot(s), true
}

// AppendMessage adds a chat message to the session history. History is
// append-only; messages are never edited or removed.
func (m *Manager) AppendMessage(id string, msg domain.ChatMessage) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.History = append(s.History, msg)
	s.LastActivity = time.Now().UTC()
	return true
}

// SetPatient replaces the session's patient summary wholesale, used
// when the clinical record is refreshed. History is untouched.
func (m *Manager) SetPatient(id string, patient domain.PatientSummary, liveRecord bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Patient = patient
	s.LiveRecord = liveRecord
	s.LastActivity = time.Now().UTC()
	return true
}

// SetCredentials replaces the session-scoped API keys. An empty field
// clears that key, falling back to the server-configured one.
func (m *Manager) SetCredentials(id string, creds Credentials) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Credentials = creds
	s.LastActivity = time.Now().UTC()
	return true
}

// SetNote stores the most recently generated clinical note, replacing
// any previous one.
func (m *Manager) SetNote(id string, note domain.ClinicalNote) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.CurrentNote = &note
	s.LastActivity = time.Now().UTC()
	return true
}

// SetDocument attaches uploaded guideline text to the session. The
// text feeds subsequent query prompts; a new upload replaces the old.
func (m *Manager) SetDocument(id string, doc domain.UploadedDocument, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return false
	}
	s.Document = &doc
	s.DocumentText = text
	s.LastActivity = time.Now().UTC()
	return true
}

// Delete removes a session. Returns false when it did not exist.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	m.logger.WithField("session_id", id).Info("Deleted session")
	return true
}

// Count reports the number of active sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// snapshot copies a session so callers never alias manager-owned state.
func snapshot(s *Session) Session {
	out := *s

	out.History = make([]domain.ChatMessage, len(s.History))
	copy(out.History, s.History)

	if s.CurrentNote != nil {
		note := *s.CurrentNote
		out.CurrentNote = &note
	}
	if s.Document != nil {
		doc := *s.Document
		out.Document = &doc
	}

	labs := make(map[string]string, len(s.Patient.RecentLabs))
	for k, v := range s.Patient.RecentLabs {
		labs[k] = v
	}
	out.Patient.RecentLabs = labs

	return out
}
