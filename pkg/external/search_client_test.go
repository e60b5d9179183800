package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medguide-assistant-server/internal/domain"
)

func TestSearchClient_Search(t *testing.T) {
	var captured struct {
		auth string
		body map[string]interface{}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sonar/search", r.URL.Path)
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Write([]byte(`[
			{"title":"BP Targets","snippet":"Target under 140/90.","url":"https://www.nejm.org/doi/abc"},
			{"title":"No URL","snippet":"plain","url":""}
		]`))
	}))
	defer server.Close()

	client := NewSearchClient(SearchConfig{BaseURL: server.URL, APIKey: "px-test"})

	patient := &domain.PatientSummary{Diagnosis: "Type 2 Diabetes"}
	results, err := client.Search(context.Background(), "BP targets", patient)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "BP Targets", results[0].Title)
	assert.Equal(t, "www.nejm.org", results[0].Source)

	assert.Equal(t, "Bearer px-test", captured.auth)
	// Diagnosis is folded into the outbound query
	assert.Equal(t, "BP targets for patient with Type 2 Diabetes", captured.body["query"])

	filter := captured.body["source_filter"].(map[string]interface{})
	domains := filter["domains"].([]interface{})
	assert.Contains(t, domains, "nih.gov")
}

func TestSearchClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSearchClient(SearchConfig{BaseURL: server.URL, APIKey: "bad"})

	_, err := client.Search(context.Background(), "anything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestCannedSearcher(t *testing.T) {
	searcher := NewCannedSearcher()

	diabetes, err := searcher.Search(context.Background(), "HbA1c targets in diabetes", nil)
	require.NoError(t, err)
	require.Len(t, diabetes, 3)
	assert.Equal(t, "diabetesjournals.org", diabetes[0].Source)

	// Diagnosis alone is enough to match
	her2, err := searcher.Search(context.Background(), "neoadjuvant options", &domain.PatientSummary{Diagnosis: "HER2+ carcinoma"})
	require.NoError(t, err)
	require.Len(t, her2, 2)
	assert.Equal(t, "nccn.org", her2[0].Source)

	generic, err := searcher.Search(context.Background(), "gout flares", nil)
	require.NoError(t, err)
	require.Len(t, generic, 1)
	assert.Equal(t, "example.com", generic[0].Source)
}
