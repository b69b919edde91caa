package tags

import (
	"reflect"
	"sort"
	"testing"

	"smartmr/internal/review"
	"smartmr/internal/scan"
)

func TestDeriveLanguageAndFunctionalTags(t *testing.T) {
	changes := []review.FileChange{
		{Path: "src/app.py"},
		{Path: "web/login.js"},
		{Path: "db/migrations/001_init.py"},
		{Path: "docs/README.md"},
	}

	got := Derive(changes, nil)
	want := []string{"database", "documentation", "javascript", "python", "security"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Derive = %v, want %v", got, want)
	}
}

func TestDeriveDeduplicatesAndSorts(t *testing.T) {
	changes := []review.FileChange{
		{Path: "a.py"},
		{Path: "b.py"},
		{Path: "c.py"},
	}

	got := Derive(changes, nil)
	if !reflect.DeepEqual(got, []string{"python"}) {
		t.Errorf("Derive = %v, want [python]", got)
	}
	if !sort.StringsAreSorted(got) {
		t.Errorf("tags not sorted: %v", got)
	}
}

func TestDeriveResultTags(t *testing.T) {
	tests := []struct {
		name    string
		result  review.Result
		wantTag string
		absent  bool
	}{
		{
			name:    "breaking changes",
			result:  review.Result{HasBreakingChanges: true},
			wantTag: TagBreakingChange,
		},
		{
			name:    "negative performance impact",
			result:  review.Result{PerformanceImpact: review.ImpactNegative},
			wantTag: TagPerformance,
		},
		{
			name:    "positive performance impact",
			result:  review.Result{PerformanceImpact: review.ImpactPositive},
			wantTag: TagPerformance,
		},
		{
			name:    "neutral impact adds nothing",
			result:  review.Result{PerformanceImpact: review.ImpactNeutral},
			wantTag: TagPerformance,
			absent:  true,
		},
		{
			name:    "security findings",
			result:  review.Result{SecurityIssues: []scan.Finding{{Line: 1}}},
			wantTag: TagSecurityReviewNeeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(nil, []review.Result{tt.result})
			has := false
			for _, tag := range got {
				if tag == tt.wantTag {
					has = true
				}
			}
			if has == tt.absent {
				t.Errorf("Derive = %v, tag %q absent=%v", got, tt.wantTag, tt.absent)
			}
		})
	}
}

func TestEnhance(t *testing.T) {
	tests := []struct {
		name   string
		status review.Status
		want   []string
	}{
		{
			name:   "clean run",
			status: review.Status{OverallStatus: review.StatusApproved},
			want:   []string{TagAIReviewed, TagCleanCode, TagReadyForReview},
		},
		{
			name:   "security issues",
			status: review.Status{TotalIssues: 2, SecurityIssueCount: 1},
			want:   []string{TagAIReviewed, TagSecurityReviewNeeded},
		},
		{
			name:   "high severity",
			status: review.Status{TotalIssues: 3, HighSeverityIssues: 1},
			want:   []string{TagAIReviewed, TagHighPriority},
		},
		{
			name:   "many issues",
			status: review.Status{TotalIssues: 11},
			want:   []string{TagAIReviewed, TagNeedsAttention},
		},
		{
			name:   "few issues",
			status: review.Status{TotalIssues: 4},
			want:   []string{TagAIReviewed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enhance(nil, tt.status)
			sort.Strings(tt.want)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Enhance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEnhanceKeepsExistingTags(t *testing.T) {
	got := Enhance([]string{"python"}, review.Status{TotalIssues: 4})
	want := []string{TagAIReviewed, "python"}
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Enhance = %v, want %v", got, want)
	}
}

func TestColorFor(t *testing.T) {
	if got := ColorFor("python"); got != "#3776ab" {
		t.Errorf("ColorFor(python) = %s", got)
	}
	if got := ColorFor("unknown-tag"); got != DefaultColor {
		t.Errorf("ColorFor(unknown) = %s, want default", got)
	}
}
