// Package prompts builds the text sent to the LLM provider and the
// suggested question chips offered to clinicians. Prompt text is the
// contract with the provider; change it deliberately.
package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/medguide-assistant-server/internal/domain"
)

// SystemInstruction frames the assistant's role and constraints for
// guideline queries.
const SystemInstruction = `You are a clinical guideline assistant supporting a licensed clinician. ` +
	`Answer using only the supplied guideline text when document text is provided. ` +
	`Cite the guideline source and page number whenever possible, quoting relevant excerpts verbatim in double quotes. ` +
	`If the available information does not answer the question, say so plainly instead of speculating. ` +
	`Your answers support, and never replace, the clinician's own judgment.`

// MaxDocumentChars is the default cap on inlined document text, keeping
// prompts within provider input limits.
const MaxDocumentChars = 50000

// RenderPatientContext renders a patient summary as readable key/value
// lines for inclusion in a prompt. Lab ordering is alphabetical so the
// rendered context is deterministic.
func RenderPatientContext(patient domain.PatientSummary) string {
	var b strings.Builder
	b.WriteString("Patient Context:\n")
	fmt.Fprintf(&b, "Name: %s\n", patient.Name)
	fmt.Fprintf(&b, "Age: %s\n", patient.Age)
	if patient.Diagnosis != "" {
		fmt.Fprintf(&b, "Diagnosis: %s\n", patient.Diagnosis)
	}
	if len(patient.RecentLabs) > 0 {
		b.WriteString("Recent Labs:\n")
		keys := make([]string, 0, len(patient.RecentLabs))
		for k := range patient.RecentLabs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %s\n", k, patient.RecentLabs[k])
		}
	}
	return b.String()
}

// BuildGuidelineQuery assembles the user prompt for a guideline question.
// Document text beyond maxDocChars is truncated; maxDocChars <= 0 selects
// the default cap.
func BuildGuidelineQuery(question string, patient domain.PatientSummary, condition, documentText string, maxDocChars int) string {
	if maxDocChars <= 0 {
		maxDocChars = MaxDocumentChars
	}

	var b strings.Builder
	b.WriteString(RenderPatientContext(patient))
	if condition != "" {
		fmt.Fprintf(&b, "\nCondition of interest: %s\n", condition)
	}
	if documentText != "" {
		if len(documentText) > maxDocChars {
			documentText = documentText[:maxDocChars]
		}
		fmt.Fprintf(&b, "\nDocument Text:\n%s\n", documentText)
	}
	fmt.Fprintf(&b, "\nQuery: %s\n", question)
	b.WriteString("\nIdentify specific guideline recommendations relevant to this patient. " +
		"Quote exact excerpts in double quotes and include the guideline name and page number when available.")
	return b.String()
}

// BuildNotePrompt assembles the prompt requesting an assessment-and-plan
// note ready for direct inclusion in an EHR.
func BuildNotePrompt(patient domain.PatientSummary, condition string) string {
	var b strings.Builder
	b.WriteString("Generate a succinct assessment and plan for a clinical note based on the following:\n\n")
	b.WriteString(RenderPatientContext(patient))
	fmt.Fprintf(&b, "\nCondition: %s\n\n", condition)
	b.WriteString("Requirements:\n" +
		"1. Create a structured assessment summarizing the patient's current status\n" +
		"2. Provide a plan organized by problem\n" +
		"3. Include specific guideline references with page numbers\n" +
		"4. Keep it concise and formatted for direct inclusion in an EHR\n\n" +
		"Format the note with clear sections for ASSESSMENT and PLAN.")
	return b.String()
}

var generalPrompts = []string{
	"Generate a succinct assessment and plan for my note",
	"What monitoring frequency is recommended for this patient?",
	"Are there any drug interactions I should be aware of?",
}

// Checked in order so a compound condition string resolves the same way
// every time.
var conditionPrompts = []struct {
	key     string
	prompts []string
}{
	{"diabetes", []string{
		"What medication adjustments are recommended for HbA1c > 8%?",
		"What BP targets should I aim for with this diabetic patient?",
		"When should I consider adding a statin given the patient's LDL?",
	}},
	{"breast cancer", []string{
		"What are the current treatment options for breast cancer?",
		"What are the guidelines for breast cancer screening?",
		"What are the recommended follow-up protocols after breast cancer treatment?",
	}},
	{"hypertension", []string{
		"What are the BP targets for patients with hypertension?",
		"What medications are first-line for hypertension treatment?",
		"When should I consider combination therapy for hypertension?",
	}},
	{"cardiovascular disease", []string{
		"What are the lipid targets for patients with established CVD?",
		"When should antiplatelet therapy be considered?",
		"What lifestyle modifications are recommended for CVD patients?",
	}},
}

var defaultConditionPrompts = []string{
	"What are the current treatment guidelines for this condition?",
	"What are the recommended monitoring parameters?",
	"What are the most common side effects to monitor?",
}

// SuggestedPrompts returns up to six suggested questions for the given
// condition: condition-specific prompts first, general prompts after.
func SuggestedPrompts(condition string) []string {
	condition = strings.ToLower(condition)

	specific := defaultConditionPrompts
	for _, entry := range conditionPrompts {
		if strings.Contains(condition, entry.key) {
			specific = entry.prompts
			break
		}
	}

	suggested := make([]string, 0, len(specific)+len(generalPrompts))
	suggested = append(suggested, specific...)
	suggested = append(suggested, generalPrompts...)
	if len(suggested) > 6 {
		suggested = suggested[:6]
	}
	return suggested
}
