// Package report renders review results: the merge-request summary
// comment, the terminal summary, and the standalone HTML report.
package report

import (
	"fmt"
	"strings"

	"smartmr/internal/review"
	"smartmr/internal/scan"
)

// Rendering caps that keep the summary comment readable on large MRs.
const (
	maxIssuesPerFile    = 5
	maxPositivesPerFile = 3
	maxSecurityInList   = 3
)

var severityMarkers = map[review.Severity]string{
	review.SeverityHigh:   "🔴",
	review.SeverityMedium: "🟡",
	review.SeverityLow:    "🟢",
}

// SummaryComment renders the Markdown summary posted to the merge
// request. Issues shown per file are capped with a "+N more" suffix to
// bound comment size.
func SummaryComment(status review.Status, results []review.Result) string {
	var sb strings.Builder

	sb.WriteString("## 🤖 AI Code Review Summary\n\n")
	fmt.Fprintf(&sb, "**Files Reviewed:** %d  \n", status.TotalFiles)
	fmt.Fprintf(&sb, "**Issues Found:** %d  \n", status.TotalIssues)
	fmt.Fprintf(&sb, "**High Severity:** %d  \n", status.HighSeverityIssues)
	fmt.Fprintf(&sb, "**Security Issues:** %d\n\n", status.SecurityIssueCount)
	sb.WriteString("---\n\n")

	for _, result := range results {
		writeFileSection(&sb, result)
	}

	if findings := review.Findings(results); len(findings) > 0 {
		writeSecuritySection(&sb, findings)
	}

	sb.WriteString("### 📋 Recommendations\n")
	sb.WriteString("- Review all high-severity issues before merging\n")
	if status.SecurityIssueCount > 0 {
		sb.WriteString("- Address security concerns immediately\n")
	}
	sb.WriteString("- Consider adding tests for new functionality\n")
	sb.WriteString("- Update documentation if needed\n\n")
	sb.WriteString("*Generated by smartmr*")

	return sb.String()
}

func writeFileSection(sb *strings.Builder, result review.Result) {
	if result.Error != "" {
		fmt.Fprintf(sb, "### ❌ %s\n**Error:** %s\n\n", result.File, result.Error)
		return
	}

	fmt.Fprintf(sb, "### 📁 `%s`\n", result.File)
	summary := result.Summary
	if summary == "" {
		summary = "No summary available"
	}
	fmt.Fprintf(sb, "**Summary:** %s\n\n", summary)

	if len(result.Issues) > 0 {
		sb.WriteString("**Issues Found:**\n")
		shown := result.Issues
		if len(shown) > maxIssuesPerFile {
			shown = shown[:maxIssuesPerFile]
		}
		for _, issue := range shown {
			marker, ok := severityMarkers[issue.Severity]
			if !ok {
				marker = "⚪"
			}
			fmt.Fprintf(sb, "- %s **Line %s**: %s\n", marker, lineLabel(issue.Line), issue.Description)
			if issue.Suggestion != "" {
				fmt.Fprintf(sb, "  *Suggestion:* %s\n", issue.Suggestion)
			}
		}
		if extra := len(result.Issues) - maxIssuesPerFile; extra > 0 {
			fmt.Fprintf(sb, "- ... and %d more issues\n", extra)
		}
		sb.WriteString("\n")
	}

	if len(result.PositiveAspects) > 0 {
		sb.WriteString("**Positive Aspects:**\n")
		positives := result.PositiveAspects
		if len(positives) > maxPositivesPerFile {
			positives = positives[:maxPositivesPerFile]
		}
		for _, aspect := range positives {
			fmt.Fprintf(sb, "- ✅ %s\n", aspect)
		}
		sb.WriteString("\n")
	}
}

func writeSecuritySection(sb *strings.Builder, findings []scan.Finding) {
	sb.WriteString("### 🔒 Security Issues\n")
	shown := findings
	if len(shown) > maxSecurityInList {
		shown = shown[:maxSecurityInList]
	}
	for _, finding := range shown {
		fmt.Fprintf(sb, "- **%s** (Line %d): %s\n", finding.File, finding.Line, finding.Description)
	}
	sb.WriteString("\n")
}

func lineLabel(line int) string {
	if line <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", line)
}
