// Package tags derives the tag set for a reviewed merge request and
// realizes it as colored labels on the host.
package tags

import (
	"sort"
	"strings"

	"smartmr/internal/review"
)

// Status tags added by Enhance.
const (
	TagAIReviewed           = "ai-reviewed"
	TagSecurityReviewNeeded = "security-review-needed"
	TagHighPriority         = "high-priority"
	TagReadyForReview       = "ready-for-review"
	TagNeedsAttention       = "needs-attention"
	TagCleanCode            = "clean-code"
	TagBreakingChange       = "breaking-change"
	TagPerformance          = "performance"
)

// languageTags maps file extensions to language or domain tags.
var languageTags = map[string]string{
	".py":   "python",
	".pyi":  "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "javascript",
	".tsx":  "javascript",
	".java": "java",
	".go":   "go",
	".rs":   "rust",
	".html": "frontend",
	".css":  "frontend",
	".yml":  "config",
	".yaml": "config",
	".md":   "documentation",
}

// functionalTags maps path substrings (matched case-insensitively) to
// functional tags.
var functionalTags = []struct {
	words []string
	tag   string
}{
	{[]string{"test"}, "testing"},
	{[]string{"api"}, "api"},
	{[]string{"security", "auth", "login"}, "security"},
	{[]string{"db", "model", "migration"}, "database"},
}

// Derive builds the tag set from the changed files and the per-file
// review results. The returned slice is deduplicated and sorted so the
// emitted artifact is deterministic.
func Derive(changes []review.FileChange, results []review.Result) []string {
	set := make(map[string]bool)

	for _, change := range changes {
		path := strings.ToLower(change.Path)

		for ext, tag := range languageTags {
			if strings.HasSuffix(path, ext) {
				set[tag] = true
			}
		}

		for _, ft := range functionalTags {
			for _, word := range ft.words {
				if strings.Contains(path, word) {
					set[ft.tag] = true
				}
			}
		}
	}

	for _, result := range results {
		if result.HasBreakingChanges {
			set[TagBreakingChange] = true
		}
		if result.PerformanceImpact != "" && result.PerformanceImpact != review.ImpactNeutral {
			set[TagPerformance] = true
		}
		if len(result.SecurityIssues) > 0 {
			set[TagSecurityReviewNeeded] = true
		}
	}

	return sorted(set)
}

// Enhance adds status tags derived from the aggregate counts. Always
// adds ai-reviewed; the rest depend on issue and security counts.
func Enhance(tags []string, status review.Status) []string {
	set := make(map[string]bool)
	for _, tag := range tags {
		set[tag] = true
	}

	if status.SecurityIssueCount > 0 {
		set[TagSecurityReviewNeeded] = true
	}

	if status.HighSeverityIssues > 0 {
		set[TagHighPriority] = true
	} else if status.TotalIssues == 0 {
		set[TagReadyForReview] = true
	}

	set[TagAIReviewed] = true

	if status.TotalIssues > 10 {
		set[TagNeedsAttention] = true
	} else if status.TotalIssues == 0 {
		set[TagCleanCode] = true
	}

	return sorted(set)
}

func sorted(set map[string]bool) []string {
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
