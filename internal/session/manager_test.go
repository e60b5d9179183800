package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguide-assistant-server/internal/domain"
)

func newTestManager() *Manager {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewManager(logger)
}

func testPatient() domain.PatientSummary {
	return domain.PatientSummary{
		Name:       "James Wilson",
		Age:        "54",
		Diagnosis:  "Type 2 Diabetes, Hypertension",
		RecentLabs: map[string]string{"HbA1c": "8.2%"},
	}
}

func TestCreateAndGet(t *testing.T) {
	m := newTestManager()

	created := m.Create(testPatient(), true)
	require.NotEmpty(t, created.ID)
	assert.True(t, created.LiveRecord)
	assert.Empty(t, created.History)

	got, ok := m.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "James Wilson", got.Patient.Name)

	_, ok = m.Get("no-such-session")
	assert.False(t, ok)
}

func TestAppendMessage_HistoryIsAppendOnly(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)

	for i := 0; i < 3; i++ {
		ok := m.AppendMessage(s.ID, domain.ChatMessage{
			Role:      domain.ROLE_USER,
			Content:   fmt.Sprintf("question %d", i),
			Timestamp: time.Now(),
		})
		require.True(t, ok)
	}

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	require.Len(t, got.History, 3)
	assert.Equal(t, "question 0", got.History[0].Content)
	assert.Equal(t, "question 2", got.History[2].Content)

	assert.False(t, m.AppendMessage("no-such-session", domain.ChatMessage{}))
}

func TestSnapshotsDoNotAliasManagerState(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)
	require.True(t, m.AppendMessage(s.ID, domain.ChatMessage{Content: "original"}))

	got, _ := m.Get(s.ID)
	got.History[0].Content = "mutated"
	got.Patient.RecentLabs["HbA1c"] = "tampered"

	fresh, _ := m.Get(s.ID)
	assert.Equal(t, "original", fresh.History[0].Content)
	assert.Equal(t, "8.2%", fresh.Patient.RecentLabs["HbA1c"])
}

func TestSetPatient_ReplacesSummaryKeepsHistory(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)
	require.True(t, m.AppendMessage(s.ID, domain.ChatMessage{Content: "hello"}))

	refreshed := domain.PatientSummary{Name: "Sarah Johnson", Age: "47"}
	require.True(t, m.SetPatient(s.ID, refreshed, true))

	got, _ := m.Get(s.ID)
	assert.Equal(t, "Sarah Johnson", got.Patient.Name)
	assert.True(t, got.LiveRecord)
	assert.Len(t, got.History, 1)

	assert.False(t, m.SetPatient("no-such-session", refreshed, true))
}

func TestSetCredentials(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)

	require.True(t, m.SetCredentials(s.ID, Credentials{ProviderAPIKey: "sk-test", SearchAPIKey: "px-test"}))

	got, _ := m.Get(s.ID)
	assert.Equal(t, "sk-test", got.Credentials.ProviderAPIKey)
	assert.Equal(t, "px-test", got.Credentials.SearchAPIKey)

	// Empty fields clear the override
	require.True(t, m.SetCredentials(s.ID, Credentials{}))
	got, _ = m.Get(s.ID)
	assert.Empty(t, got.Credentials.ProviderAPIKey)
}

func TestSetNoteReplacesPrevious(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)

	require.True(t, m.SetNote(s.ID, domain.ClinicalNote{Title: "first"}))
	require.True(t, m.SetNote(s.ID, domain.ClinicalNote{Title: "second"}))

	got, _ := m.Get(s.ID)
	require.NotNil(t, got.CurrentNote)
	assert.Equal(t, "second", got.CurrentNote.Title)
}

func TestSetDocument(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)

	doc := domain.UploadedDocument{ID: "doc-1", Filename: "ada.pdf", Pages: 12, TextChars: 900}
	require.True(t, m.SetDocument(s.ID, doc, "guideline text"))

	got, _ := m.Get(s.ID)
	require.NotNil(t, got.Document)
	assert.Equal(t, "ada.pdf", got.Document.Filename)
	assert.Equal(t, "guideline text", got.DocumentText)
}

func TestDeleteAndCount(t *testing.T) {
	m := newTestManager()
	a := m.Create(testPatient(), false)
	b := m.Create(testPatient(), false)
	assert.Equal(t, 2, m.Count())
	assert.NotEqual(t, a.ID, b.ID)

	assert.True(t, m.Delete(a.ID))
	assert.False(t, m.Delete(a.ID))
	assert.Equal(t, 1, m.Count())
}

func TestConcurrentAccess(t *testing.T) {
	m := newTestManager()
	s := m.Create(testPatient(), false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.AppendMessage(s.ID, domain.ChatMessage{Content: fmt.Sprintf("m%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			m.Get(s.ID)
		}()
	}
	wg.Wait()

	got, ok := m.Get(s.ID)
	require.True(t, ok)
	assert.Len(t, got.History, 20)
}
