package report

import (
	"strings"
	"testing"

	"smartmr/internal/review"
	"smartmr/internal/scan"
)

func TestSummaryCommentHeader(t *testing.T) {
	status := review.Status{
		TotalFiles:         2,
		TotalIssues:        3,
		HighSeverityIssues: 1,
		SecurityIssueCount: 1,
		OverallStatus:      review.StatusNeedsAttention,
	}

	comment := SummaryComment(status, nil)

	for _, want := range []string{
		"**Files Reviewed:** 2",
		"**Issues Found:** 3",
		"**High Severity:** 1",
		"**Security Issues:** 1",
		"*Generated by smartmr*",
	} {
		if !strings.Contains(comment, want) {
			t.Errorf("comment missing %q", want)
		}
	}
}

func TestSummaryCommentIssueCap(t *testing.T) {
	issues := make([]review.Issue, 8)
	for i := range issues {
		issues[i] = review.Issue{Line: i + 1, Severity: review.SeverityLow, Description: "nit"}
	}
	results := []review.Result{{File: "big.py", Summary: "Lots of nits", Issues: issues}}

	comment := SummaryComment(review.Status{TotalFiles: 1, TotalIssues: 8}, results)

	if got := strings.Count(comment, "**Line "); got != maxIssuesPerFile {
		t.Errorf("%d issues rendered, want %d", got, maxIssuesPerFile)
	}
	if !strings.Contains(comment, "and 3 more issues") {
		t.Error("missing truncation marker")
	}
}

func TestSummaryCommentErrorFile(t *testing.T) {
	results := []review.Result{{File: "broken.py", Error: "Could not read file"}}

	comment := SummaryComment(review.Status{TotalFiles: 1}, results)

	if !strings.Contains(comment, "❌ broken.py") {
		t.Error("error section missing")
	}
	if !strings.Contains(comment, "**Error:** Could not read file") {
		t.Error("error message missing")
	}
}

func TestSummaryCommentSecuritySection(t *testing.T) {
	results := []review.Result{{
		File:    "settings.py",
		Summary: "ok",
		SecurityIssues: []scan.Finding{
			{File: "settings.py", Line: 3, Description: "Potential hardcoded secret detected"},
		},
	}}

	comment := SummaryComment(review.Status{TotalFiles: 1, SecurityIssueCount: 1}, results)

	if !strings.Contains(comment, "### 🔒 Security Issues") {
		t.Error("security section missing")
	}
	if !strings.Contains(comment, "**settings.py** (Line 3)") {
		t.Error("finding line missing")
	}
	if !strings.Contains(comment, "Address security concerns immediately") {
		t.Error("security recommendation missing")
	}
}

func TestSummaryCommentLineLabel(t *testing.T) {
	results := []review.Result{{
		File:    "a.py",
		Summary: "ok",
		Issues:  []review.Issue{{Line: 0, Severity: review.SeverityLow, Description: "somewhere"}},
	}}

	comment := SummaryComment(review.Status{TotalFiles: 1, TotalIssues: 1}, results)
	if !strings.Contains(comment, "**Line N/A**") {
		t.Error("zero line should render as N/A")
	}
}

func TestRenderHTML(t *testing.T) {
	status := review.Status{TotalFiles: 2, TotalIssues: 1, OverallStatus: review.StatusApproved}
	results := []review.Result{
		{File: "a.py", Summary: "fine", Issues: []review.Issue{{Line: 4, Severity: review.SeverityHigh, Description: "bad"}}},
		{File: "broken.py", Error: "Could not read file"},
	}
	findings := []scan.Finding{{File: "a.py", Line: 4, Description: "Potential xss detected"}}

	html, err := RenderHTML(status, results, findings)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(html, "a.py") {
		t.Error("reviewed file missing")
	}
	if strings.Contains(html, "broken.py") {
		t.Error("errored file should be omitted")
	}
	if !strings.Contains(html, "high-severity") {
		t.Error("high severity styling missing")
	}
	if !strings.Contains(html, "Potential xss detected") {
		t.Error("security finding missing")
	}
}
