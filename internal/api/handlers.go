package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medguide-assistant-server/internal/domain"
	"github.com/medguide-assistant-server/internal/prompts"
	"github.com/medguide-assistant-server/internal/sample"
	"github.com/medguide-assistant-server/internal/service"
	"github.com/medguide-assistant-server/internal/session"
	"github.com/medguide-assistant-server/pkg/pdftext"
)

// maxUploadBytes caps uploaded PDF size
const maxUploadBytes = 20 << 20

type createSessionRequest struct {
	// SamplePatient selects a built-in demo patient ("diabetes" or
	// "her2") instead of fetching the live record.
	SamplePatient string `json:"sample_patient,omitempty"`
}

type sessionResponse struct {
	SessionID        string                   `json:"session_id"`
	Patient          domain.PatientSummary    `json:"patient"`
	LiveRecord       bool                     `json:"live_record"`
	SuggestedPrompts []string                 `json:"suggested_prompts"`
	History          []domain.ChatMessage     `json:"history,omitempty"`
	CurrentNote      *domain.ClinicalNote     `json:"current_note,omitempty"`
	Document         *domain.UploadedDocument `json:"document,omitempty"`
}

// handleCreateSession starts a conversation: it fetches and normalizes
// the patient record, then returns the new session with suggested
// prompts for the patient's condition.
func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	// Body is optional; ignore binding errors for an empty body.
	_ = c.ShouldBindJSON(&req)

	var record domain.PatientRecord
	live := false
	if req.SamplePatient != "" {
		record = sample.PatientRecord(req.SamplePatient)
	} else {
		record, live = s.deps.Records.FetchRecord(c.Request.Context())
	}

	patient := s.deps.Normalizer.Normalize(record)
	sess := s.deps.Sessions.Create(patient, live)

	c.JSON(http.StatusCreated, sessionResponse{
		SessionID:        sess.ID,
		Patient:          sess.Patient,
		LiveRecord:       sess.LiveRecord,
		SuggestedPrompts: prompts.SuggestedPrompts(patient.Diagnosis),
	})
}

// handleGetSession returns the full session state including history
func (s *Server) handleGetSession(c *gin.Context) {
	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		SessionID:        sess.ID,
		Patient:          sess.Patient,
		LiveRecord:       sess.LiveRecord,
		SuggestedPrompts: prompts.SuggestedPrompts(sess.Patient.Diagnosis),
		History:          sess.History,
		CurrentNote:      sess.CurrentNote,
		Document:         sess.Document,
	})
}

// handleGetPatient returns the session's current patient summary
func (s *Server) handleGetPatient(c *gin.Context) {
	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patient":     sess.Patient,
		"live_record": sess.LiveRecord,
	})
}

// handleRefreshPatient re-fetches the clinical record and replaces the
// session's patient summary. Chat history is preserved.
func (s *Server) handleRefreshPatient(c *gin.Context) {
	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	record, live := s.deps.Records.FetchRecord(c.Request.Context())
	patient := s.deps.Normalizer.Normalize(record)
	s.deps.Sessions.SetPatient(sess.ID, patient, live)

	c.JSON(http.StatusOK, gin.H{
		"patient":     patient,
		"live_record": live,
	})
}

// handleGetMessages returns the session's chat history
func (s *Server) handleGetMessages(c *gin.Context) {
	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": sess.History})
}

// handleDeleteSession ends a session and discards its state
func (s *Server) handleDeleteSession(c *gin.Context) {
	if !s.deps.Sessions.Delete(c.Param("id")) {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}
	c.Status(http.StatusNoContent)
}

// handleQuery answers a guideline question within a session. The user
// question and the assistant reply are both appended to the history.
func (s *Server) handleQuery(c *gin.Context) {
	var req domain.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid query request", err.Error())
		return
	}

	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	condition := req.Condition
	if condition == "" {
		condition = sess.Patient.Diagnosis
	}

	s.deps.Sessions.AppendMessage(sess.ID, domain.ChatMessage{
		Role:      domain.ROLE_USER,
		Content:   req.Question,
		Timestamp: time.Now().UTC(),
	})

	querier := s.deps.QuerierFor(sess.Credentials.ProviderAPIKey)
	assistant := service.NewAssistantService(querier, s.deps.Extractor, s.deps.Logger)
	resp := assistant.Answer(c.Request.Context(), req.Question, sess.Patient, condition, sess.DocumentText)

	s.deps.Sessions.AppendMessage(sess.ID, resp.Message)

	c.JSON(http.StatusOK, resp)
}

// handleGenerateNote produces an assessment-and-plan note for the
// session patient, stores it on the session, and records it in the
// chat history.
func (s *Server) handleGenerateNote(c *gin.Context) {
	var req domain.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid note request", err.Error())
		return
	}

	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	writer := s.deps.WriterFor(sess.Credentials.ProviderAPIKey)
	notes := service.NewNoteService(writer, s.deps.Logger)
	note := notes.GenerateNote(c.Request.Context(), sess.Patient, req.Condition)

	s.deps.Sessions.SetNote(sess.ID, note)
	s.deps.Sessions.AppendMessage(sess.ID, domain.ChatMessage{
		Role:      domain.ROLE_ASSISTANT,
		Content:   "Here's a clinical note based on the guidelines:",
		Note:      &note,
		Timestamp: time.Now().UTC(),
	})

	c.JSON(http.StatusOK, note)
}

// handleSetCredentials replaces the session-scoped API keys
func (s *Server) handleSetCredentials(c *gin.Context) {
	var req domain.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid credentials request", err.Error())
		return
	}

	ok := s.deps.Sessions.SetCredentials(c.Param("id"), session.Credentials{
		ProviderAPIKey: req.ProviderAPIKey,
		SearchAPIKey:   req.SearchAPIKey,
	})
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// handleUploadDocument accepts a guideline PDF, extracts its text
// layer, and attaches it to the session as query context.
func (s *Server) handleUploadDocument(c *gin.Context) {
	sess, ok := s.deps.Sessions.Get(c.Param("id"))
	if !ok {
		s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.errorResponse(c, http.StatusBadRequest, domain.ErrInvalidInput, "Missing file field", err.Error())
		return
	}
	if fileHeader.Size > maxUploadBytes {
		s.errorResponse(c, http.StatusRequestEntityTooLarge, domain.ErrDocumentUpload, "Uploaded file too large", "")
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".pdf" {
		s.errorResponse(c, http.StatusBadRequest, domain.ErrInvalidInput, "Only PDF uploads are supported", "")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, domain.ErrDocumentUpload, "Failed to read upload", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, domain.ErrDocumentUpload, "Failed to read upload", err.Error())
		return
	}

	extracted, err := pdftext.Extract(data, s.deps.Config.GetConfig().Assistant.MaxDocumentText)
	if err != nil {
		s.errorResponse(c, http.StatusUnprocessableEntity, domain.ErrDocumentUpload, "Could not extract text from PDF", err.Error())
		return
	}

	doc := domain.UploadedDocument{
		ID:        uuid.New().String(),
		Filename:  filepath.Base(fileHeader.Filename),
		Pages:     extracted.Pages,
		TextChars: len(extracted.Text),
		Uploaded:  time.Now().UTC(),
	}
	s.deps.Sessions.SetDocument(sess.ID, doc, extracted.Text)

	c.JSON(http.StatusCreated, doc)
}

// handleListGuidelines returns the curated catalog and the sample
// uploaded documents.
func (s *Server) handleListGuidelines(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"curated":  sample.Guidelines(),
		"uploaded": sample.UploadedDocuments(),
	})
}

// handleGetGuideline returns one catalog entry with its body text
func (s *Server) handleGetGuideline(c *gin.Context) {
	id := c.Param("id")
	for _, doc := range append(sample.Guidelines(), sample.UploadedDocuments()...) {
		if doc.ID == id {
			c.JSON(http.StatusOK, gin.H{
				"guideline": doc,
				"content":   sample.GuidelineContent(id),
			})
			return
		}
	}
	s.errorResponse(c, http.StatusNotFound, domain.ErrInvalidInput, "Unknown guideline", id)
}

// handleSuggestedPrompts returns suggested questions for a condition
func (s *Server) handleSuggestedPrompts(c *gin.Context) {
	condition := c.Query("condition")
	c.JSON(http.StatusOK, gin.H{
		"condition": condition,
		"prompts":   prompts.SuggestedPrompts(condition),
	})
}

// handleSearch runs a guideline web search. An optional session_id
// query parameter pulls in that session's patient context and search
// key.
func (s *Server) handleSearch(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, domain.ErrInvalidInput, "Invalid search request", err.Error())
		return
	}

	var patient *domain.PatientSummary
	searchKey := ""
	if sessionID := c.Query("session_id"); sessionID != "" {
		sess, ok := s.deps.Sessions.Get(sessionID)
		if !ok {
			s.errorResponse(c, http.StatusNotFound, domain.ErrSessionNotFound, "Session not found", "")
			return
		}
		patient = &sess.Patient
		searchKey = sess.Credentials.SearchAPIKey
	}

	searcher := s.deps.SearcherFor(searchKey)
	results, err := searcher.Search(c.Request.Context(), req.Query, patient)
	if err != nil {
		s.errorResponse(c, http.StatusBadGateway, domain.ErrSearchError, "Guideline search failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// errorResponse writes a standardized error payload
func (s *Server) errorResponse(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, domain.NewAssistantError(code, message, details, c.GetString("correlation_id")))
}
