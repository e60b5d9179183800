package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
	"github.com/medguide-assistant-server/internal/sample"
)

// RecordConfig contains configuration for the clinical record client
type RecordConfig struct {
	BaseURL   string
	PatientID string
	Timeout   time.Duration
}

// RecordClient fetches the active patient's clinical record. A missing
// base URL or any fetch failure degrades to the built-in sample record;
// the assistant stays usable without a record service.
type RecordClient struct {
	baseURL    string
	patientID  string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRecordClient creates a new clinical record client
func NewRecordClient(config RecordConfig, logger *logrus.Logger) *RecordClient {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.PatientID == "" {
		config.PatientID = "p001"
	}

	return &RecordClient{
		baseURL:   config.BaseURL,
		patientID: config.PatientID,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// FetchRecord retrieves the configured patient's record. The bool
// reports whether live data was obtained; false means the sample record
// was substituted.
func (c *RecordClient) FetchRecord(ctx context.Context) (domain.PatientRecord, bool) {
	if c.baseURL == "" {
		c.logger.Debug("No record service configured, using sample record")
		return sample.PatientRecord(sample.ConditionDiabetes), false
	}

	record, err := c.fetch(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Record fetch failed, using sample record")
		return sample.PatientRecord(sample.ConditionDiabetes), false
	}

	c.logger.WithField("patient_id", c.patientID).Debug("Fetched live patient record")
	return record, true
}

func (c *RecordClient) fetch(ctx context.Context) (domain.PatientRecord, error) {
	url := fmt.Sprintf("%s/Patient/%s", c.baseURL, c.patientID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create record request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("record service returned status %d", resp.StatusCode)
	}

	var record domain.PatientRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}
