package service

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/medguide-assistant-server/internal/domain"
)

func newTestNormalizer() *NormalizerService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	n := NewNormalizerService(logger)
	// Fixed clock so age assertions are stable
	n.now = func() time.Time { return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC) }
	return n
}

func TestNormalize_NamePrecedence(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name   string
		record domain.PatientRecord
		want   string
	}{
		{
			name:   "Bare string name",
			record: domain.PatientRecord{"name": "James Wilson"},
			want:   "James Wilson",
		},
		{
			name: "Text field wins over parts",
			record: domain.PatientRecord{"name": map[string]interface{}{
				"text":   "Dr. Sarah Chen",
				"given":  []interface{}{"Sarah"},
				"family": "Johnson",
			}},
			want: "Dr. Sarah Chen",
		},
		{
			name: "Given plus family",
			record: domain.PatientRecord{"name": map[string]interface{}{
				"given":  []interface{}{"James", "Allen"},
				"family": "Wilson",
			}},
			want: "James Allen Wilson",
		},
		{
			name: "Given as single string token",
			record: domain.PatientRecord{"name": map[string]interface{}{
				"given":  "James",
				"family": "Wilson",
			}},
			want: "James Wilson",
		},
		{
			name:   "Family alone",
			record: domain.PatientRecord{"name": map[string]interface{}{"family": "Wilson"}},
			want:   "Wilson",
		},
		{
			name:   "Given alone",
			record: domain.PatientRecord{"name": map[string]interface{}{"given": []interface{}{"James"}}},
			want:   "James",
		},
		{
			name: "List of name objects uses first",
			record: domain.PatientRecord{"name": []interface{}{
				map[string]interface{}{"given": []interface{}{"Sarah"}, "family": "Johnson"},
				map[string]interface{}{"text": "ignored"},
			}},
			want: "Sarah Johnson",
		},
		{
			name:   "Missing name",
			record: domain.PatientRecord{},
			want:   UnknownPatientName,
		},
		{
			name:   "Malformed name value",
			record: domain.PatientRecord{"name": 42},
			want:   UnknownPatientName,
		},
		{
			name:   "Markup in name is sanitized",
			record: domain.PatientRecord{"name": "<b>James</b> Wilson"},
			want:   "James Wilson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.record).Name)
		})
	}
}

func TestNormalize_Age(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name      string
		birthDate interface{}
		want      string
	}{
		{"Birthday already passed this year", "1972-03-15", "54"},
		{"Birthday later this year", "1972-11-02", "53"},
		{"Birthday today", "1972-08-29", "54"},
		{"Birthday tomorrow", "1972-08-30", "53"},
		{"Malformed date", "15/03/1972", UnknownAge},
		{"Garbage value", "not-a-date", UnknownAge},
		{"Missing field", nil, UnknownAge},
		{"Wrong type", 1972, UnknownAge},
		{"Future birth date", "2030-01-01", UnknownAge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := domain.PatientRecord{}
			if tt.birthDate != nil {
				record["birthDate"] = tt.birthDate
			}
			assert.Equal(t, tt.want, n.Normalize(record).Age)
		})
	}
}

func TestNormalize_Diagnosis(t *testing.T) {
	n := newTestNormalizer()

	record := domain.PatientRecord{
		"extension": []interface{}{
			map[string]interface{}{"url": "http://example.org/fhir/other", "valueString": "ignored"},
			map[string]interface{}{"url": "http://example.org/fhir/primaryDiagnosis", "valueString": "Type 2 Diabetes, Hypertension"},
		},
	}
	assert.Equal(t, "Type 2 Diabetes, Hypertension", n.Normalize(record).Diagnosis)

	// Absent extension block yields empty diagnosis
	assert.Equal(t, "", n.Normalize(domain.PatientRecord{}).Diagnosis)

	// Malformed extension entries are skipped
	record = domain.PatientRecord{"extension": []interface{}{"bogus", 7}}
	assert.Equal(t, "", n.Normalize(record).Diagnosis)
}

func TestNormalize_Labs(t *testing.T) {
	n := newTestNormalizer()

	record := domain.PatientRecord{
		"extension": []interface{}{
			map[string]interface{}{
				"url": "http://example.org/fhir/recentLabs",
				"extension": []interface{}{
					map[string]interface{}{"valueCoding": map[string]interface{}{"display": "HbA1c", "code": "8.2%"}},
					map[string]interface{}{"valueCoding": map[string]interface{}{"display": "BP", "code": "142/88"}},
					map[string]interface{}{"valueCoding": map[string]interface{}{"display": "", "code": "orphan"}},
					map[string]interface{}{"valueString": "not a coding"},
				},
			},
		},
	}

	labs := n.Normalize(record).RecentLabs
	assert.Equal(t, map[string]string{"HbA1c": "8.2%", "BP": "142/88"}, labs)

	// Absence yields an empty, non-nil map
	labs = n.Normalize(domain.PatientRecord{}).RecentLabs
	assert.NotNil(t, labs)
	assert.Empty(t, labs)
}

func TestNormalize_NeverPanics(t *testing.T) {
	n := newTestNormalizer()

	records := []domain.PatientRecord{
		nil,
		{},
		{"name": nil, "birthDate": nil, "extension": nil},
		{"name": []interface{}{nil}, "extension": []interface{}{nil}},
		{"name": map[string]interface{}{"given": []interface{}{1, nil}}},
		{"extension": []interface{}{map[string]interface{}{"url": 3, "extension": "x"}}},
	}

	for _, record := range records {
		assert.NotPanics(t, func() {
			summary := n.Normalize(record)
			assert.NotEmpty(t, summary.Name)
			assert.NotEmpty(t, summary.Age)
		})
	}
}
