// Package sample provides the built-in demo data: sample patient
// records, the curated guideline catalog, and guideline body text. It
// backs demo mode and the degraded path when the live record service
// is unreachable.
package sample

import (
	"github.com/medguide-assistant-server/internal/domain"
)

// Patient record keys accepted by PatientRecord
const (
	ConditionDiabetes = "diabetes"
	ConditionHER2     = "her2"
)

// PatientRecord returns a sample clinical record for the given
// condition type, shaped like a live record-service payload. Unknown
// condition types yield the diabetes patient.
func PatientRecord(conditionType string) domain.PatientRecord {
	if conditionType == ConditionHER2 {
		return domain.PatientRecord{
			"id": "p002",
			"name": []interface{}{
				map[string]interface{}{
					"given":  []interface{}{"Sarah"},
					"family": "Johnson",
				},
			},
			"birthDate": "1979-03-14",
			"gender":    "female",
			"extension": []interface{}{
				map[string]interface{}{
					"url":         "http://example.org/fhir/StructureDefinition/diagnosis",
					"valueString": "Invasive Ductal Carcinoma, HER2+",
				},
				map[string]interface{}{
					"url": "http://example.org/fhir/StructureDefinition/recentLabs",
					"extension": []interface{}{
						map[string]interface{}{
							"valueCoding": map[string]interface{}{"display": "CBC", "code": "WNL"},
						},
						map[string]interface{}{
							"valueCoding": map[string]interface{}{"display": "CMP", "code": "WNL"},
						},
						map[string]interface{}{
							"valueCoding": map[string]interface{}{"display": "LVEF", "code": "62%"},
						},
					},
				},
			},
		}
	}

	return domain.PatientRecord{
		"id": "p001",
		"name": []interface{}{
			map[string]interface{}{
				"given":  []interface{}{"James"},
				"family": "Wilson",
			},
		},
		"birthDate": "1972-05-20",
		"gender":    "male",
		"extension": []interface{}{
			map[string]interface{}{
				"url":         "http://example.org/fhir/StructureDefinition/diagnosis",
				"valueString": "Type 2 Diabetes, Hypertension",
			},
			map[string]interface{}{
				"url": "http://example.org/fhir/StructureDefinition/recentLabs",
				"extension": []interface{}{
					map[string]interface{}{
						"valueCoding": map[string]interface{}{"display": "HbA1c", "code": "8.2%"},
					},
					map[string]interface{}{
						"valueCoding": map[string]interface{}{"display": "BP", "code": "142/88"},
					},
					map[string]interface{}{
						"valueCoding": map[string]interface{}{"display": "LDL", "code": "138mg/dL"},
					},
				},
			},
		},
	}
}

// Guidelines returns the curated guideline catalog
func Guidelines() []domain.GuidelineDocument {
	return []domain.GuidelineDocument{
		{
			ID:          "1",
			Title:       "Diabetes Management - ADA 2024",
			Source:      "American Diabetes Association",
			LastUpdated: "Jan 2024",
		},
		{
			ID:          "2",
			Title:       "Hypertension Guidelines - JNC 8",
			Source:      "Journal of the American Medical Association",
			LastUpdated: "Dec 2023",
		},
		{
			ID:          "3",
			Title:       "Lipid Management in Cardiovascular Disease",
			Source:      "American Heart Association",
			LastUpdated: "Mar 2024",
		},
		{
			ID:          "4",
			Title:       "HER2+ Breast Cancer - NCCN Guidelines",
			Source:      "National Comprehensive Cancer Network",
			LastUpdated: "Feb 2024",
		},
	}
}

// UploadedDocuments returns the sample internal documents shown in the
// uploaded tab of the guideline catalog.
func UploadedDocuments() []domain.GuidelineDocument {
	return []domain.GuidelineDocument{
		{
			ID:          "uploaded_1",
			Title:       "Hospital Diabetes Protocol",
			Source:      "Internal Document",
			UploadedBy:  "Dr. Sarah Chen",
			UploadDate:  "Feb 15, 2024",
			LastUpdated: "Feb 15, 2024",
		},
		{
			ID:          "uploaded_2",
			Title:       "Cardiology Department BP Management",
			Source:      "Internal Document",
			UploadedBy:  "Dr. Michael Johnson",
			UploadDate:  "Jan 22, 2024",
			LastUpdated: "Jan 22, 2024",
		},
	}
}

// GuidelineContent returns the body text for a curated guideline, or a
// placeholder body for IDs without stored content.
func GuidelineContent(guidelineID string) string {
	if content, ok := guidelineBodies[guidelineID]; ok {
		return content
	}
	return placeholderBody
}

var guidelineBodies = map[string]string{
	"1": `# Glycemic Targets and Management Guidelines

Regular monitoring of glycemia in patients with diabetes is crucial to assess treatment efficacy and reduce risk of hypoglycemia and hyperglycemia. The advent of continuous glucose monitoring (CGM) technology has revolutionized this aspect of diabetes care.

## Recommendations

8.1 Most patients with diabetes should be assessed using glycated hemoglobin (HbA1c) testing at least twice per year. (Grade A)

8.2 When glycemic targets are not being met, quarterly assessments using HbA1c testing are recommended. (Grade B)

All adult patients with diabetes should have an individualized glycemic target based on their duration of diabetes, age/life expectancy, comorbid conditions, known cardiovascular disease or advanced microvascular complications, hypoglycemia unawareness, and individual patient considerations.

8.5 For patients with Type 2 diabetes with HbA1c levels > 8.0%, clinicians should consider intensifying pharmacologic therapy, adding additional agents, or referral to a specialist. (Grade A)`,

	"2": `# Hypertension Guidelines - JNC 8

## Recommendations

1. In the general population ≥60 years of age, initiate pharmacologic treatment to lower BP at systolic blood pressure (SBP) ≥150 mm Hg or diastolic blood pressure (DBP) ≥90 mm Hg and treat to a goal SBP <150 mm Hg and goal DBP <90 mm Hg. (Grade A)

2. In the general population <60 years of age, initiate pharmacologic treatment to lower BP at DBP ≥90 mm Hg and treat to a goal DBP <90 mm Hg. (Grade A)

3. In the general population <60 years of age, initiate pharmacologic treatment to lower BP at SBP ≥140 mm Hg and treat to a goal SBP <140 mm Hg. (Grade E)

4. In the population aged ≥18 years with chronic kidney disease (CKD), initiate pharmacologic treatment to lower BP at SBP ≥140 mm Hg or DBP ≥90 mm Hg and treat to goal SBP <140 mm Hg and goal DBP <90 mm Hg. (Grade E)

5. In the population aged ≥18 years with diabetes, initiate pharmacologic treatment to lower BP at SBP ≥140 mm Hg or DBP ≥90 mm Hg and treat to a goal SBP <140 mm Hg and goal DBP <90 mm Hg. (Grade E)`,

	"4": `# NCCN Guidelines for HER2-Positive Breast Cancer

## Neoadjuvant/Adjuvant Therapy Recommendations

Preferred regimens for HER2-positive disease include:

1. Doxorubicin/cyclophosphamide (AC) followed by paclitaxel + trastuzumab ± pertuzumab
   - AC: Doxorubicin 60 mg/m² IV + Cyclophosphamide 600 mg/m² IV q2-3wks × 4 cycles
   - Followed by: Paclitaxel 80 mg/m² IV weekly × 12 weeks
   - With: Trastuzumab 4 mg/kg IV loading dose, then 2 mg/kg IV weekly
   - And: Pertuzumab 840 mg IV loading dose, then 420 mg IV q3wks (optional)

2. Docetaxel/carboplatin/trastuzumab + pertuzumab (TCH+P)
   - Docetaxel 75 mg/m² IV + Carboplatin AUC 6 IV day 1 q3wks × 6 cycles
   - With: Trastuzumab 8 mg/kg IV loading dose, then 6 mg/kg IV q3wks
   - And: Pertuzumab 840 mg IV loading dose, then 420 mg IV q3wks

The addition of pertuzumab to trastuzumab-based regimens has been shown to increase the rate of pCR in neoadjuvant studies.

Cardiac monitoring:
- LVEF assessment at baseline and q3mo during HER2-targeted therapy
- Hold HER2-targeted therapy for >16% absolute decrease in LVEF from baseline, or LVEF <50%`,
}

const placeholderBody = `# Medical Guideline Content

This is a placeholder for guideline content. In a real application, this would contain the actual text from the selected guideline document.

## Recommendations

1. Recommendation one would appear here.
2. Recommendation two would appear here.
3. Recommendation three would appear here.`
