package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"smartmr/internal/review"
)

// ConsoleConfig controls terminal rendering.
type ConsoleConfig struct {
	Color       bool
	SummaryOnly bool
}

// WriteConsole renders a human-readable run summary to w, for CI logs
// and local runs.
func WriteConsole(w io.Writer, status review.Status, results []review.Result, cfg ConsoleConfig) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintf(w, "\n%s\n", separator)
	fmt.Fprintf(w, "smartmr AI CODE REVIEW\n")
	fmt.Fprintf(w, "%s\n\n", separator)

	fmt.Fprintf(w, "Files reviewed:   %d\n", status.TotalFiles)
	fmt.Fprintf(w, "Total issues:     %d\n", status.TotalIssues)

	highColor := color.New(color.FgRed, color.Bold)
	if cfg.Color && status.HighSeverityIssues > 0 {
		highColor.Fprintf(w, "High severity:    %d\n", status.HighSeverityIssues)
	} else {
		fmt.Fprintf(w, "High severity:    %d\n", status.HighSeverityIssues)
	}

	securityColor := color.New(color.FgYellow, color.Bold)
	if cfg.Color && status.SecurityIssueCount > 0 {
		securityColor.Fprintf(w, "Security issues:  %d\n", status.SecurityIssueCount)
	} else {
		fmt.Fprintf(w, "Security issues:  %d\n", status.SecurityIssueCount)
	}

	if status.OverallStatus == review.StatusNeedsAttention {
		attention := color.New(color.FgRed, color.Bold)
		if cfg.Color {
			attention.Fprintf(w, "Status:           %s\n", status.OverallStatus)
		} else {
			fmt.Fprintf(w, "Status:           %s\n", status.OverallStatus)
		}
	} else {
		approved := color.New(color.FgGreen, color.Bold)
		if cfg.Color {
			approved.Fprintf(w, "Status:           %s\n", status.OverallStatus)
		} else {
			fmt.Fprintf(w, "Status:           %s\n", status.OverallStatus)
		}
	}

	if !cfg.SummaryOnly {
		writeConsoleDetails(w, results, cfg)
	}

	fmt.Fprintf(w, "%s\n", separator)
}

func writeConsoleDetails(w io.Writer, results []review.Result, cfg ConsoleConfig) {
	for _, result := range results {
		if result.Error == "" && len(result.Issues) == 0 && len(result.SecurityIssues) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 60))

		pathColor := color.New(color.FgBlue, color.Bold)
		if cfg.Color {
			pathColor.Fprintf(w, "%s\n", result.File)
		} else {
			fmt.Fprintf(w, "%s\n", result.File)
		}

		if result.Error != "" {
			errColor := color.New(color.FgRed)
			if cfg.Color {
				errColor.Fprintf(w, "  error: %s\n", result.Error)
			} else {
				fmt.Fprintf(w, "  error: %s\n", result.Error)
			}
			continue
		}

		for _, issue := range result.Issues {
			fmt.Fprintf(w, "  [%s] line %s: %s\n",
				strings.ToUpper(string(issue.Severity)), lineLabel(issue.Line), issue.Description)
		}
		for _, finding := range result.SecurityIssues {
			fmt.Fprintf(w, "  [SECURITY] line %d: %s\n", finding.Line, finding.Description)
		}
	}
	fmt.Fprintln(w)
}
