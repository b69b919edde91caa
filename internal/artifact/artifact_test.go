package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"smartmr/internal/review"
	"smartmr/internal/scan"
)

func TestStatusRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	status := review.Status{
		TotalFiles:         3,
		TotalIssues:        5,
		HighSeverityIssues: 1,
		SecurityIssueCount: 2,
		OverallStatus:      review.StatusNeedsAttention,
	}

	if err := store.WriteStatus(status); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadStatus()
	if err != nil {
		t.Fatal(err)
	}
	if got != status {
		t.Errorf("got %+v, want %+v", got, status)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	results := []review.Result{
		{
			File:    "a.py",
			Summary: "Minor issues",
			Issues:  []review.Issue{{Line: 3, Severity: review.SeverityLow, Description: "nit"}},
			SecurityIssues: []scan.Finding{
				{File: "a.py", Line: 1, Category: "hardcoded_secret", Severity: scan.SeverityHigh},
			},
		},
		{File: "b.py", Error: "No changes detected"},
	}

	if err := store.WriteResults(results); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadResults()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, results) {
		t.Errorf("got %+v, want %+v", got, results)
	}
}

func TestFindingsNilBecomesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.WriteFindings(nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FindingsFile))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("findings file = %q, want empty JSON array", data)
	}
}

func TestTagsRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	tags := []string{"ai-reviewed", "python", "security"}
	if err := store.WriteTags(tags); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadTags()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, tags) {
		t.Errorf("got %v, want %v", got, tags)
	}
}

func TestReadTagsSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	content := "python\n\n  go  \n\n"
	if err := os.WriteFile(filepath.Join(dir, TagsFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadTags()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"python", "go"}) {
		t.Errorf("got %v", got)
	}
}

func TestWriteApplied(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	applied := Applied{
		AppliedTags:   []string{"ai-reviewed"},
		Success:       true,
		ReviewSummary: review.Status{TotalFiles: 1, OverallStatus: review.StatusApproved},
	}
	if err := store.WriteApplied(applied); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, AppliedFile))
	if err != nil {
		t.Fatal(err)
	}

	var got Applied
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, applied) {
		t.Errorf("got %+v, want %+v", got, applied)
	}
}

func TestReadMissingArtifact(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, err := store.ReadStatus(); err == nil {
		t.Error("expected error for missing status artifact")
	}
	if _, err := store.ReadTags(); err == nil {
		t.Error("expected error for missing tags artifact")
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.WriteReport("<html></html>"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportFile))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<html></html>" {
		t.Errorf("report = %q", data)
	}
}
