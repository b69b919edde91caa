// Package artifact reads and writes the files that carry results
// between pipeline stages. The stages may run as separate process
// invocations (review, tag, report), so these file shapes are a stable
// interface: field names and types must not drift.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"smartmr/internal/review"
	"smartmr/internal/scan"
)

// Artifact file names, matching what CI jobs collect.
const (
	StatusFile   = "ai_review_status.txt"
	ResultsFile  = "review_summary.json"
	FindingsFile = "security_issues.json"
	TagsFile     = "ai_tags.txt"
	AppliedFile  = "applied_tags.json"
	ReportFile   = "review_report.html"
)

// Store reads and writes artifacts under one directory.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Applied records the outcome of the tagging stage.
type Applied struct {
	AppliedTags   []string      `json:"applied_tags"`
	Success       bool          `json:"success"`
	ReviewSummary review.Status `json:"review_summary"`
}

func (s *Store) WriteStatus(status review.Status) error {
	return s.writeJSON(StatusFile, status)
}

func (s *Store) ReadStatus() (review.Status, error) {
	var status review.Status
	err := s.readJSON(StatusFile, &status)
	return status, err
}

func (s *Store) WriteResults(results []review.Result) error {
	return s.writeJSON(ResultsFile, results)
}

func (s *Store) ReadResults() ([]review.Result, error) {
	var results []review.Result
	err := s.readJSON(ResultsFile, &results)
	return results, err
}

func (s *Store) WriteFindings(findings []scan.Finding) error {
	if findings == nil {
		findings = []scan.Finding{}
	}
	return s.writeJSON(FindingsFile, findings)
}

func (s *Store) ReadFindings() ([]scan.Finding, error) {
	var findings []scan.Finding
	err := s.readJSON(FindingsFile, &findings)
	return findings, err
}

// WriteTags stores the tag list newline-separated, one tag per line.
func (s *Store) WriteTags(tags []string) error {
	data := strings.Join(tags, "\n")
	if err := os.WriteFile(s.path(TagsFile), []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", TagsFile, err)
	}
	return nil
}

func (s *Store) ReadTags() ([]string, error) {
	data, err := os.ReadFile(s.path(TagsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TagsFile, err)
	}

	var tags []string
	for _, line := range strings.Split(string(data), "\n") {
		if tag := strings.TrimSpace(line); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

func (s *Store) WriteApplied(applied Applied) error {
	return s.writeJSON(AppliedFile, applied)
}

func (s *Store) WriteReport(html string) error {
	if err := os.WriteFile(s.path(ReportFile), []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ReportFile, err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
