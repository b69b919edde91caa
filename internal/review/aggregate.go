package review

import "smartmr/internal/scan"

// Aggregate folds per-file results into run-wide counts. High-severity
// counts cover both AI-flagged issues and heuristic findings. The run
// needs attention iff any security finding exists or any file reports
// breaking changes.
func Aggregate(results []Result) Status {
	status := Status{
		TotalFiles:    len(results),
		OverallStatus: StatusApproved,
	}

	breaking := false
	for _, r := range results {
		status.TotalIssues += len(r.Issues)
		status.SecurityIssueCount += len(r.SecurityIssues)

		for _, issue := range r.Issues {
			if issue.Severity == SeverityHigh {
				status.HighSeverityIssues++
			}
		}
		for _, finding := range r.SecurityIssues {
			if finding.Severity == scan.SeverityHigh {
				status.HighSeverityIssues++
			}
		}

		if r.HasBreakingChanges {
			breaking = true
		}
	}

	if status.SecurityIssueCount > 0 || breaking {
		status.OverallStatus = StatusNeedsAttention
	}

	return status
}

// Findings collects every heuristic finding across the results, in
// result order.
func Findings(results []Result) []scan.Finding {
	var findings []scan.Finding
	for _, r := range results {
		findings = append(findings, r.SecurityIssues...)
	}
	return findings
}
