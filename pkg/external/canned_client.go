package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/medguide-assistant-server/internal/domain"
)

// CannedClient answers guideline queries and note requests from
// built-in content without network traffic. It backs demo mode and is
// the active client whenever no provider API key is configured.
//
// Answer text deliberately carries quoted excerpts, guideline names,
// and page references so downstream extraction produces the same
// structured recommendations a live answer would.
type CannedClient struct {
	// Delay simulates provider latency; zero in tests.
	Delay time.Duration
}

// NewCannedClient creates a new demo-mode client
func NewCannedClient() *CannedClient {
	return &CannedClient{}
}

// QueryGuidelines returns a canned guideline answer matched on the
// question, condition, and patient diagnosis.
func (c *CannedClient) QueryGuidelines(ctx context.Context, question string, patient domain.PatientSummary, condition, documentText string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	haystack := strings.ToLower(question + " " + condition + " " + patient.Diagnosis)

	switch {
	case strings.Contains(haystack, "diabetes"):
		hba1c := labOr(patient, "HbA1c", "8.2%")
		bp := labOr(patient, "BP", "142/88")
		return fmt.Sprintf(
			"The patient's HbA1c is %s, above the threshold where treatment intensification is recommended. Per the ADA Standards of Medical Care, \"For patients with Type 2 diabetes with HbA1c levels > 8.0%%, clinicians should consider intensifying pharmacologic therapy, adding additional agents, or referral to a specialist\" as stated on page 42.\n\n"+
				"The patient's current BP is %s, above the recommended target. Per JNC guidance, \"Target BP should be <140/90 mmHg for most patients with diabetes and hypertension\" on page 18.", hba1c, bp), nil

	case strings.Contains(haystack, "her2"), strings.Contains(haystack, "breast cancer"), strings.Contains(haystack, "breast"):
		return "Per NCCN guidance for breast cancer, \"Preferred neoadjuvant regimens for HER2-positive disease include: Doxorubicin/cyclophosphamide (AC) followed by paclitaxel + trastuzumab with or without pertuzumab\" as stated on page 24. " +
			"The patient has HER2-positive disease that would benefit from neoadjuvant therapy with dual HER2 blockade.", nil

	case strings.Contains(haystack, "hypertension"), strings.Contains(haystack, "blood pressure"):
		return "Per JNC guidance, \"In the general population under 60 years of age, initiate pharmacologic treatment at SBP of 140 mm Hg or higher and treat to a goal SBP below 140 mm Hg\" as noted on page 18.", nil

	default:
		return "Based on the available guideline material, \"Recommendation based on your search would appear here\" on page 1. This is placeholder guidance for demonstration purposes.", nil
	}
}

// WriteNote returns a canned assessment-and-plan body for the condition
func (c *CannedClient) WriteNote(ctx context.Context, patient domain.PatientSummary, condition string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}

	lower := strings.ToLower(condition)
	switch {
	case strings.Contains(lower, "diabetes"):
		return fmt.Sprintf(diabetesNoteTemplate,
			patient.Age,
			labOr(patient, "HbA1c", "8.2%"),
			labOr(patient, "BP", "142/88"),
			labOr(patient, "LDL", "138mg/dL")), nil
	case strings.Contains(lower, "her2"), strings.Contains(lower, "breast"):
		return fmt.Sprintf(her2NoteTemplate, patient.Age), nil
	case strings.Contains(lower, "hypertension"), strings.Contains(lower, "blood pressure"):
		return fmt.Sprintf(hypertensionNoteTemplate, patient.Age, labOr(patient, "BP", "142/88")), nil
	case strings.Contains(lower, "lipid"), strings.Contains(lower, "cholesterol"):
		return fmt.Sprintf(lipidNoteTemplate, patient.Age, labOr(patient, "LDL", "138mg/dL")), nil
	default:
		return "ASSESSMENT:\nNo specific template available for this condition.\n\nPLAN:\n1. Review current guidelines for this condition.\n2. Reassess at next visit.", nil
	}
}

func (c *CannedClient) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	select {
	case <-time.After(c.Delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func labOr(patient domain.PatientSummary, key, fallback string) string {
	if v, ok := patient.RecentLabs[key]; ok && v != "" {
		return v
	}
	return fallback
}

const diabetesNoteTemplate = `ASSESSMENT:
%syo patient with poorly-controlled Type 2 Diabetes (A1c %s) and Hypertension (BP %s), with elevated LDL (%s).

PLAN:
1. Diabetes Management:
   - Intensify glycemic control (HbA1c > 8.0%% requires therapy adjustment per ADA 2024 Guidelines, p.42)
   - Consider adding second-line agent or adjusting current medication dose
   - Reinforce dietary modifications and physical activity
   - Schedule follow-up A1c check in 3 months

2. Hypertension Management:
   - Target BP < 140/90 mmHg per JNC 8 Guidelines for diabetic patients
   - Continue current antihypertensive; reassess in 4 weeks
   - Encourage sodium restriction and DASH diet

3. Lipid Management:
   - Initiate moderate-intensity statin therapy (LDL > 130mg/dL with diabetes indicates statin benefit per AHA/ACC Guidelines)
   - Baseline liver function tests prior to starting

4. Monitoring:
   - Renal function panel and urine microalbumin
   - Comprehensive foot exam
   - Schedule eye examination if not done within past year`

const hypertensionNoteTemplate = `ASSESSMENT:
%syo patient with Hypertension, most recent office BP %s, above goal.

PLAN:
1. Blood Pressure Management:
   - Target BP < 140/90 mmHg per JNC 8 Guidelines
   - Continue current antihypertensive; reassess in 4 weeks
   - Consider combination therapy if above goal at follow-up
   - Encourage sodium restriction and DASH diet

2. Monitoring:
   - Home BP log twice daily for 2 weeks
   - Basic metabolic panel prior to any dose change
   - Reassess cardiovascular risk profile annually`

const lipidNoteTemplate = `ASSESSMENT:
%syo patient with elevated LDL (%s) and indications for statin therapy.

PLAN:
1. Lipid Management:
   - Initiate moderate-intensity statin therapy per AHA/ACC Guidelines
   - Baseline liver function tests prior to starting
   - Repeat lipid panel in 12 weeks to assess response

2. Lifestyle:
   - Dietary counseling with emphasis on saturated fat reduction
   - Encourage at least 150 minutes of moderate exercise weekly`

const her2NoteTemplate = `ASSESSMENT:
%syo patient with newly diagnosed breast invasive ductal carcinoma, HER2-positive by IHC and FISH.

PLAN:
1. Neoadjuvant Systemic Therapy:
   - Dose-dense AC-T regimen with dual HER2-targeted therapy per NCCN Guidelines v.1.2024 (BINV-L)
   - Dose-dense AC: Doxorubicin 60 mg/m2 IV + Cyclophosphamide 600 mg/m2 IV q2wks x 4 cycles
   - Followed by: Paclitaxel 80 mg/m2 IV weekly x 12 weeks
   - With: Trastuzumab 4 mg/kg IV loading dose, then 2 mg/kg IV weekly
   - And: Pertuzumab 840 mg IV loading dose, then 420 mg IV q3wks

2. Supportive Care:
   - Pegfilgrastim 6 mg SC on day 2 of each AC cycle
   - Antiemetic protocol per institutional standard
   - Cardiac monitoring: LVEF assessment at baseline, after AC completion, and q3mo during HER2-targeted therapy

3. Monitoring:
   - CBC with diff, CMP prior to each AC cycle and weekly during paclitaxel
   - Clinical tumor assessment prior to each cycle
   - Post-treatment breast MRI to assess response prior to surgery

4. Follow-up:
   - Weekly visits during AC with medical oncology
   - Surgical consultation after cycle 2 of AC
   - Genetic counseling referral`
