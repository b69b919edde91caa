package scan

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity of a heuristic finding. Severity is a static per-category
// policy: hardcoded secrets are always high, everything else medium.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Finding is a potential security issue detected by pattern matching,
// independent of the AI review.
type Finding struct {
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type patternGroup struct {
	category string
	severity Severity
	patterns []*regexp.Regexp
}

// securityPatterns is a fixed, ordered table of category -> matchers.
// Patterns run against full file content, case-insensitive.
var securityPatterns = []patternGroup{
	{
		category: "hardcoded_secret",
		severity: SeverityHigh,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(password|pwd|pass)\s*=\s*["'][^"']+["']`),
			regexp.MustCompile(`(?i)(api_key|apikey|secret|token)\s*=\s*["'][^"']+["']`),
			regexp.MustCompile(`(?i)(SECRET_KEY|API_KEY)\s*=\s*["'][^"']+["']`),
		},
	},
	{
		category: "sql_injection",
		severity: SeverityMedium,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)execute\s*\(\s*["'].*%s.*["']`),
			regexp.MustCompile(`(?i)cursor\.execute\s*\(\s*["'].*\+.*["']`),
		},
	},
	{
		category: "xss",
		severity: SeverityMedium,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)innerHTML\s*=\s*.*\+`),
			regexp.MustCompile(`(?i)document\.write\s*\(`),
		},
	},
}

// Scan applies the pattern table to content and returns one finding per
// match. Matches on the same line are not de-duplicated. The scanner is
// deterministic and never fails: content that matches nothing simply
// yields no findings.
func Scan(file, content string) []Finding {
	var findings []Finding

	for _, group := range securityPatterns {
		for _, pattern := range group.patterns {
			for _, loc := range pattern.FindAllStringIndex(content, -1) {
				findings = append(findings, Finding{
					File:        file,
					Line:        lineAt(content, loc[0]),
					Category:    group.category,
					Description: fmt.Sprintf("Potential %s detected", strings.ReplaceAll(group.category, "_", " ")),
					Severity:    group.severity,
				})
			}
		}
	}

	return findings
}

// lineAt returns the 1-based line number of the byte offset.
func lineAt(content string, offset int) int {
	return strings.Count(content[:offset], "\n") + 1
}
