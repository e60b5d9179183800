package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medguide-assistant-server/internal/domain"
)

// Named defaults used when a record field is missing or malformed
const (
	UnknownPatientName = "Unknown Patient"
	UnknownAge         = "Unknown"
)

const birthDateLayout = "2006-01-02"

// NormalizerService converts loosely-shaped external clinical records into
// sanitized patient summaries. Every accessor degrades to a named default;
// no malformation ever escapes as an error or panic.
type NormalizerService struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewNormalizerService creates a new patient context normalizer
func NewNormalizerService(logger *logrus.Logger) *NormalizerService {
	return &NormalizerService{
		logger: logger,
		now:    time.Now,
	}
}

// Normalize builds a PatientSummary from an external record. All string
// fields in the result have passed through Sanitize.
func (n *NormalizerService) Normalize(record domain.PatientRecord) domain.PatientSummary {
	if record == nil {
		record = domain.PatientRecord{}
	}

	summary := domain.PatientSummary{
		Name:       n.extractName(record),
		Age:        n.extractAge(record),
		Diagnosis:  n.extractDiagnosis(record),
		RecentLabs: n.extractLabs(record),
	}

	n.logger.WithFields(logrus.Fields{
		"name":      summary.Name,
		"age":       summary.Age,
		"lab_count": len(summary.RecentLabs),
	}).Debug("Normalized patient record")

	return summary
}

// extractName resolves the patient name with precedence:
// name.text > given+family > family > given > "Unknown Patient".
// The name value may be a bare string, a name object, or a list of name
// objects (first entry used). A given part may itself be a string or a
// list of strings.
func (n *NormalizerService) extractName(record domain.PatientRecord) string {
	switch v := record["name"].(type) {
	case string:
		if s := Sanitize(v); s != "" {
			return s
		}
	case []interface{}:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]interface{}); ok {
				if s := n.nameFromObject(obj); s != "" {
					return s
				}
			}
		}
	case map[string]interface{}:
		if s := n.nameFromObject(v); s != "" {
			return s
		}
	}

	n.logger.Debug("Patient record has no usable name field")
	return UnknownPatientName
}

func (n *NormalizerService) nameFromObject(obj map[string]interface{}) string {
	if text, ok := obj["text"].(string); ok {
		if s := Sanitize(text); s != "" {
			return s
		}
	}

	given := ""
	switch g := obj["given"].(type) {
	case string:
		// a single string is treated as one token
		given = g
	case []interface{}:
		parts := make([]string, 0, len(g))
		for _, p := range g {
			if s, ok := p.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, s)
			}
		}
		given = strings.Join(parts, " ")
	}

	family, _ := obj["family"].(string)

	full := Sanitize(strings.TrimSpace(strings.TrimSpace(given) + " " + strings.TrimSpace(family)))
	return full
}

// extractAge computes age in whole years from a YYYY-MM-DD birth date,
// decrementing when the current month/day has not yet reached the birth
// month/day. Any parse failure yields the literal "Unknown".
func (n *NormalizerService) extractAge(record domain.PatientRecord) string {
	birthDate, ok := record["birthDate"].(string)
	if !ok || strings.TrimSpace(birthDate) == "" {
		return UnknownAge
	}

	born, err := time.Parse(birthDateLayout, strings.TrimSpace(birthDate))
	if err != nil {
		n.logger.WithField("birth_date", birthDate).Debug("Unparseable birth date")
		return UnknownAge
	}

	now := n.now()
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return UnknownAge
	}

	return strconv.Itoa(years)
}

// extractDiagnosis scans extension entries for one whose url contains
// "diagnosis" and returns its sanitized valueString.
func (n *NormalizerService) extractDiagnosis(record domain.PatientRecord) string {
	for _, ext := range n.extensions(record) {
		url, _ := ext["url"].(string)
		if !strings.Contains(strings.ToLower(url), "diagnosis") {
			continue
		}
		if value, ok := ext["valueString"].(string); ok {
			return Sanitize(value)
		}
	}
	return ""
}

// extractLabs scans extension entries for a recentLabs container and
// collects its nested display/code pairs. Absence yields an empty map.
func (n *NormalizerService) extractLabs(record domain.PatientRecord) map[string]string {
	labs := make(map[string]string)

	for _, ext := range n.extensions(record) {
		url, _ := ext["url"].(string)
		if !strings.Contains(strings.ToLower(url), "recentlabs") {
			continue
		}

		nested, ok := ext["extension"].([]interface{})
		if !ok {
			continue
		}
		for _, entry := range nested {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			coding, ok := m["valueCoding"].(map[string]interface{})
			if !ok {
				continue
			}
			display, _ := coding["display"].(string)
			code, _ := coding["code"].(string)
			display = Sanitize(display)
			code = Sanitize(code)
			if display != "" && code != "" {
				labs[display] = code
			}
		}
	}

	return labs
}

func (n *NormalizerService) extensions(record domain.PatientRecord) []map[string]interface{} {
	raw, ok := record["extension"].([]interface{})
	if !ok {
		return nil
	}
	exts := make([]map[string]interface{}, 0, len(raw))
	for _, e := range raw {
		if m, ok := e.(map[string]interface{}); ok {
			exts = append(exts, m)
		}
	}
	return exts
}
