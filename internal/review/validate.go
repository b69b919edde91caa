package review

import (
	"encoding/json"
	"strings"
)

// Validation is the outcome of checking a raw AI reply against the
// expected schema: either a Result, or the raw text plus the reason it
// was rejected. Exactly one side is populated.
type Validation struct {
	Result *Result
	Raw    string
	Reason string
}

// Valid reports whether the reply parsed into a usable Result.
func (v Validation) Valid() bool {
	return v.Result != nil
}

// wireReview mirrors the JSON shape the prompt asks the model to
// produce. Pointer fields distinguish absent from zero-valued so the
// validator can check presence explicitly instead of trusting defaults.
type wireReview struct {
	Summary            *string      `json:"summary"`
	Issues             *[]wireIssue `json:"issues"`
	PositiveAspects    []string     `json:"positive_aspects"`
	HasBreakingChanges *bool        `json:"has_breaking_changes"`
	PerformanceImpact  *string      `json:"performance_impact"`
	FollowUpActions    []string     `json:"follow_up_actions"`
}

// wireIssue keeps line as raw JSON: models fed diff context sometimes
// report strings like "12-15" or "N/A" there, and the whole reply must
// not be rejected for it.
type wireIssue struct {
	Line        json.RawMessage `json:"line"`
	Severity    string          `json:"severity"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Suggestion  string          `json:"suggestion"`
}

// Validate parses raw as the expected review JSON. Markdown code fences
// around the payload are tolerated. On schema mismatch the raw text is
// preserved for diagnostics and no data is fabricated; issues with odd
// line numbers or unknown severities are normalized to low and kept
// rather than dropped, since dropping them would silently hide signal.
func Validate(raw string) Validation {
	text := stripFences(raw)

	var wire wireReview
	dec := json.NewDecoder(strings.NewReader(text))
	if err := dec.Decode(&wire); err != nil {
		return Validation{Raw: raw, Reason: "response is not valid JSON: " + err.Error()}
	}

	if wire.Summary == nil {
		return Validation{Raw: raw, Reason: "response is missing required field: summary"}
	}
	if wire.Issues == nil {
		return Validation{Raw: raw, Reason: "response is missing required field: issues"}
	}

	result := &Result{
		Summary:         *wire.Summary,
		PositiveAspects: wire.PositiveAspects,
		FollowUpActions: wire.FollowUpActions,
	}

	if wire.HasBreakingChanges != nil {
		result.HasBreakingChanges = *wire.HasBreakingChanges
	}

	result.PerformanceImpact = ImpactNeutral
	if wire.PerformanceImpact != nil {
		switch *wire.PerformanceImpact {
		case ImpactPositive, ImpactNegative, ImpactNeutral:
			result.PerformanceImpact = *wire.PerformanceImpact
		}
	}

	for _, wi := range *wire.Issues {
		result.Issues = append(result.Issues, normalizeIssue(wi))
	}

	return Validation{Result: result}
}

func normalizeIssue(wi wireIssue) Issue {
	issue := Issue{
		Severity:    Severity(strings.ToLower(wi.Severity)),
		Category:    wi.Category,
		Description: wi.Description,
		Suggestion:  wi.Suggestion,
	}

	line, lineOK := parseLine(wi.Line)
	issue.Line = line

	switch issue.Severity {
	case SeverityHigh, SeverityMedium, SeverityLow:
	default:
		issue.Severity = SeverityLow
	}

	if !lineOK {
		issue.Severity = SeverityLow
	}

	return issue
}

// parseLine extracts a positive line number. Returns ok=false for
// absent, non-numeric, or negative values.
func parseLine(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	if n < 0 || n != float64(int(n)) {
		return 0, false
	}
	return int(n), true
}

// stripFences removes a surrounding markdown code block and any prose
// outside the outermost JSON object.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
