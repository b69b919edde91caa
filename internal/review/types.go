package review

import (
	"context"

	"smartmr/internal/scan"
)

// Severity levels reported by the AI reviewer. Anything outside this set
// is normalized to low during validation.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Performance impact values reported by the AI reviewer.
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

// Overall status values for an aggregated review run.
const (
	StatusApproved       = "approved"
	StatusNeedsAttention = "needs_attention"
)

// FileChange is one changed file in the merge request under review.
// Immutable after the change-set reader creates it.
type FileChange struct {
	Path    string `json:"path"`
	Diff    string `json:"diff"`
	Content string `json:"content,omitempty"`
	Size    int64  `json:"size"`
}

// Issue is a single problem reported by the AI reviewer for one file.
type Issue struct {
	Line        int      `json:"line"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

// Result is the validated outcome of reviewing one file. When the file
// could not be reviewed, Error is set and the optional fields stay
// empty; RawResponse preserves unparseable AI output for diagnostics.
type Result struct {
	File               string         `json:"file"`
	Summary            string         `json:"summary,omitempty"`
	Issues             []Issue        `json:"issues,omitempty"`
	PositiveAspects    []string       `json:"positive_aspects,omitempty"`
	HasBreakingChanges bool           `json:"has_breaking_changes,omitempty"`
	PerformanceImpact  string         `json:"performance_impact,omitempty"`
	FollowUpActions    []string       `json:"follow_up_actions,omitempty"`
	SecurityIssues     []scan.Finding `json:"security_issues,omitempty"`
	Error              string         `json:"error,omitempty"`
	RawResponse        string         `json:"raw_response,omitempty"`
}

// Status holds the aggregate counts for a full review run. Recomputed
// each run, never persisted beyond the emitted artifact.
type Status struct {
	TotalFiles         int    `json:"total_files"`
	TotalIssues        int    `json:"total_issues"`
	HighSeverityIssues int    `json:"high_severity_issues"`
	SecurityIssueCount int    `json:"security_issue_count"`
	OverallStatus      string `json:"overall_status"`
}

// Reviewer sends one file change to an external review service and
// returns its raw textual reply. The reply is validated separately; a
// reviewer is not trusted to return well-formed JSON.
type Reviewer interface {
	ReviewChange(ctx context.Context, change FileChange) (string, error)
	Name() string
}
