package review

import "strings"

// Category classifies one merged change for changelog and labeling
// purposes. Every MergeInfo maps to exactly one category.
type Category string

const (
	CategoryBreaking    Category = "breaking"
	CategoryFeature     Category = "feature"
	CategoryFix         Category = "fix"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryDocs        Category = "docs"
	CategoryTest        Category = "test"
	CategoryConfig      Category = "config"
	CategoryOther       Category = "other"
)

// MergeInfo carries the metadata used to classify a change: host labels,
// the MR title, the merge commit message, and the changed paths.
type MergeInfo struct {
	Labels        []string
	Title         string
	CommitMessage string
	FilesChanged  []string
}

type categoryRule struct {
	match    func(MergeInfo) bool
	category Category
}

// categoryRules is evaluated top to bottom; the first matching rule
// wins. Labels are explicit metadata and outrank free-text keywords,
// which outrank filename guesses.
var categoryRules = []categoryRule{
	{hasLabel("breaking-change", "major"), CategoryBreaking},
	{hasLabel("feature", "enhancement"), CategoryFeature},
	{hasLabel("bugfix", "fix", "bug"), CategoryFix},
	{hasLabel("security"), CategorySecurity},
	{hasLabel("performance"), CategoryPerformance},
	{hasLabel("documentation", "docs"), CategoryDocs},

	{hasKeyword("break", "breaking", "major"), CategoryBreaking},
	{hasKeyword("feat", "feature", "add", "new"), CategoryFeature},
	{hasKeyword("fix", "bug", "patch", "repair"), CategoryFix},
	{hasKeyword("security", "vulnerability", "cve"), CategorySecurity},
	{hasKeyword("perf", "performance", "optimize"), CategoryPerformance},
	{hasKeyword("doc", "readme", "documentation"), CategoryDocs},

	{hasFile(func(f string) bool { return strings.Contains(strings.ToLower(f), "test") }), CategoryTest},
	{hasFile(func(f string) bool { return strings.HasSuffix(f, ".md") }), CategoryDocs},
	{hasFile(func(f string) bool {
		return strings.HasPrefix(f, ".") || strings.Contains(strings.ToLower(f), "config")
	}), CategoryConfig},
}

// Categorize assigns exactly one category via the fixed rule order.
func Categorize(info MergeInfo) Category {
	for _, rule := range categoryRules {
		if rule.match(info) {
			return rule.category
		}
	}
	return CategoryOther
}

func hasLabel(names ...string) func(MergeInfo) bool {
	return func(info MergeInfo) bool {
		for _, label := range info.Labels {
			for _, name := range names {
				if label == name {
					return true
				}
			}
		}
		return false
	}
}

func hasKeyword(words ...string) func(MergeInfo) bool {
	return func(info MergeInfo) bool {
		message := strings.ToLower(info.CommitMessage)
		title := strings.ToLower(info.Title)
		for _, word := range words {
			if strings.Contains(message, word) || strings.Contains(title, word) {
				return true
			}
		}
		return false
	}
}

func hasFile(pred func(string) bool) func(MergeInfo) bool {
	return func(info MergeInfo) bool {
		for _, f := range info.FilesChanged {
			if pred(f) {
				return true
			}
		}
		return false
	}
}
