package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/medguide-assistant-server/internal/domain"
)

// medicalDomains restricts web search hits to recognized medical
// publishers and guideline bodies.
var medicalDomains = []string{
	"guidelines.gov", "nih.gov", "cdc.gov", "who.int",
	"diabetes.org", "heart.org", "medscape.com", "mayoclinic.org",
	"aafp.org", "nejm.org", "jamanetwork.com", "thelancet.com",
}

// SearchConfig contains configuration for the web search client
type SearchConfig struct {
	BaseURL    string
	APIKey     string
	MaxResults int
	Timeout    time.Duration
	RateLimit  int
}

// SearchClient queries the guideline web search backend, filtered to
// medical domains. The patient's diagnosis, when available, is folded
// into the query for more relevant hits.
type SearchClient struct {
	baseURL    string
	apiKey     string
	maxResults int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSearchClient creates a new web search client
func NewSearchClient(config SearchConfig) *SearchClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.perplexity.ai"
	}
	if config.MaxResults == 0 {
		config.MaxResults = 5
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2
	}

	return &SearchClient{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		maxResults: config.MaxResults,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit),
	}
}

// WithAPIKey returns a client authenticating with the given key. The
// HTTP client and limiter are shared; an empty key returns the receiver.
func (c *SearchClient) WithAPIKey(apiKey string) *SearchClient {
	if apiKey == "" {
		return c
	}
	override := *c
	override.apiKey = apiKey
	return &override
}

type searchRequest struct {
	Query        string       `json:"query"`
	SourceFilter sourceFilter `json:"source_filter"`
	Highlight    bool         `json:"highlight"`
	MaxResults   int          `json:"max_results"`
}

type sourceFilter struct {
	Domains []string `json:"domains"`
}

type searchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Search runs a medical web search. The diagnosis from the patient
// summary, when present, is appended to the query.
func (c *SearchClient) Search(ctx context.Context, query string, patient *domain.PatientSummary) ([]domain.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if patient != nil && patient.Diagnosis != "" {
		query += " for patient with " + patient.Diagnosis
	}

	body, err := json.Marshal(searchRequest{
		Query:        query,
		SourceFilter: sourceFilter{Domains: medicalDomains},
		Highlight:    true,
		MaxResults:   c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sonar/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search backend returned status %d", resp.StatusCode)
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.SearchResult{
			Title:   hit.Title,
			Snippet: hit.Snippet,
			URL:     hit.URL,
			Source:  extractDomain(hit.URL),
		})
	}
	return results, nil
}

// extractDomain returns the host portion of a URL, or the raw string
// when it does not parse.
func extractDomain(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw
	}
	return parsed.Host
}

// CannedSearcher returns built-in search results in demo mode
type CannedSearcher struct{}

// NewCannedSearcher creates a new demo-mode searcher
func NewCannedSearcher() *CannedSearcher {
	return &CannedSearcher{}
}

// Search returns canned results matched on the query and diagnosis
func (s *CannedSearcher) Search(ctx context.Context, query string, patient *domain.PatientSummary) ([]domain.SearchResult, error) {
	haystack := strings.ToLower(query)
	if patient != nil {
		haystack += " " + strings.ToLower(patient.Diagnosis)
	}

	switch {
	case strings.Contains(haystack, "diabetes"):
		return []domain.SearchResult{
			{
				Title:   "Standards of Medical Care in Diabetes—2024",
				Snippet: "The American Diabetes Association's Standards of Medical Care in Diabetes provides clinicians with evidence-based recommendations for managing patients with diabetes and prediabetes.",
				URL:     "https://diabetesjournals.org/care/issue/47/Supplement_1",
				Source:  "diabetesjournals.org",
			},
			{
				Title:   "Treatment Intensification for Patients with Type 2 Diabetes",
				Snippet: "For patients with HbA1c levels > 8.0%, clinicians should consider adding additional pharmacologic agents or intensifying therapy.",
				URL:     "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC7861057/",
				Source:  "ncbi.nlm.nih.gov",
			},
			{
				Title:   "Guidelines for Hypertension Management in Diabetic Patients",
				Snippet: "Current recommendations suggest a target blood pressure of <140/90 mmHg for most patients with diabetes, with consideration of lower targets for certain high-risk populations.",
				URL:     "https://www.ahajournals.org/doi/10.1161/HYP.0000000000000065",
				Source:  "ahajournals.org",
			},
		}, nil
	case strings.Contains(haystack, "her2"), strings.Contains(haystack, "breast cancer"):
		return []domain.SearchResult{
			{
				Title:   "NCCN Clinical Practice Guidelines in Oncology: Breast Cancer",
				Snippet: "Current NCCN guidelines recommend dose-dense AC followed by paclitaxel with HER2-targeted therapy for HER2-positive breast cancer in the neoadjuvant setting.",
				URL:     "https://www.nccn.org/guidelines/guidelines-detail?category=1&id=1419",
				Source:  "nccn.org",
			},
			{
				Title:   "Dual HER2 Blockade in Neoadjuvant Treatment of Breast Cancer",
				Snippet: "The addition of pertuzumab to trastuzumab-based regimens has been shown to increase the rate of pathologic complete response in neoadjuvant studies.",
				URL:     "https://www.nejm.org/doi/full/10.1056/NEJMoa1306801",
				Source:  "nejm.org",
			},
		}, nil
	default:
		return []domain.SearchResult{
			{
				Title:   "Medical Guideline Search Results",
				Snippet: "Search results for medical guidelines would appear here based on your query.",
				URL:     "https://example.com/guidelines",
				Source:  "example.com",
			},
		}, nil
	}
}
