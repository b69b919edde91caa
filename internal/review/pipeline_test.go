package review

import (
	"context"
	"errors"
	"testing"
)

// stubReviewer is the package-local test double; provider-level mocks
// live in pkg/reviewer and cannot be imported here.
type stubReviewer struct {
	responses map[string]string
	failures  map[string]error
	calls     []string
}

func newStubReviewer() *stubReviewer {
	return &stubReviewer{
		responses: make(map[string]string),
		failures:  make(map[string]error),
	}
}

func (s *stubReviewer) ReviewChange(ctx context.Context, change FileChange) (string, error) {
	s.calls = append(s.calls, change.Path)
	if err, ok := s.failures[change.Path]; ok {
		return "", err
	}
	if resp, ok := s.responses[change.Path]; ok {
		return resp, nil
	}
	return `{"summary": "ok", "issues": []}`, nil
}

func (s *stubReviewer) Name() string { return "stub" }

func TestNewPipelineRequiresReviewer(t *testing.T) {
	if _, err := NewPipeline(nil); err == nil {
		t.Fatal("expected error for nil reviewer")
	}
}

func TestPipelineRunOrderAndIsolation(t *testing.T) {
	stub := newStubReviewer()
	stub.failures["b.py"] = errors.New("service unavailable")

	pipeline, err := NewPipeline(stub)
	if err != nil {
		t.Fatal(err)
	}

	changes := []FileChange{
		{Path: "a.py", Diff: "+x", Content: "x = 1\n"},
		{Path: "b.py", Diff: "+y", Content: "y = 2\n"},
		{Path: "c.py", Diff: "+z", Content: "z = 3\n"},
	}

	results, err := pipeline.Run(context.Background(), changes)
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, change := range changes {
		if results[i].File != change.Path {
			t.Errorf("results[%d].File = %s, want %s", i, results[i].File, change.Path)
		}
	}

	// b.py failed but a.py and c.py were still reviewed.
	if results[1].Error == "" {
		t.Error("expected error recorded for b.py")
	}
	if results[0].Error != "" || results[2].Error != "" {
		t.Errorf("unexpected errors: %q, %q", results[0].Error, results[2].Error)
	}
	if len(stub.calls) != 3 {
		t.Errorf("reviewer called %d times, want 3", len(stub.calls))
	}
}

func TestPipelineSkipsWithoutCalling(t *testing.T) {
	tests := []struct {
		name      string
		change    FileChange
		wantError string
	}{
		{
			name:      "unreadable file",
			change:    FileChange{Path: "gone.py", Diff: "+x", Size: 100},
			wantError: ErrMsgUnreadable,
		},
		{
			name:      "no diff",
			change:    FileChange{Path: "same.py", Content: "x = 1\n"},
			wantError: ErrMsgNoDiff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubReviewer()
			pipeline, err := NewPipeline(stub)
			if err != nil {
				t.Fatal(err)
			}

			results, err := pipeline.Run(context.Background(), []FileChange{tt.change})
			if err != nil {
				t.Fatal(err)
			}
			if results[0].Error != tt.wantError {
				t.Errorf("Error = %q, want %q", results[0].Error, tt.wantError)
			}
			if len(stub.calls) != 0 {
				t.Errorf("reviewer should not be called, got %v", stub.calls)
			}
		})
	}
}

func TestPipelineKeepsFindingsOnParseFailure(t *testing.T) {
	stub := newStubReviewer()
	stub.responses["creds.py"] = "sorry, I cannot produce JSON today"

	pipeline, err := NewPipeline(stub)
	if err != nil {
		t.Fatal(err)
	}

	change := FileChange{
		Path:    "creds.py",
		Diff:    "+password",
		Content: `password = "hunter2"`,
	}

	results, err := pipeline.Run(context.Background(), []FileChange{change})
	if err != nil {
		t.Fatal(err)
	}

	result := results[0]
	if result.Error != ErrMsgParseFailed {
		t.Errorf("Error = %q, want %q", result.Error, ErrMsgParseFailed)
	}
	if result.RawResponse == "" {
		t.Error("raw response not preserved")
	}
	if len(result.SecurityIssues) != 1 {
		t.Errorf("heuristic findings lost: %+v", result.SecurityIssues)
	}
}

func TestPipelineAttachesFindingsToValidResult(t *testing.T) {
	stub := newStubReviewer()
	pipeline, err := NewPipeline(stub)
	if err != nil {
		t.Fatal(err)
	}

	change := FileChange{
		Path:    "settings.py",
		Diff:    "+SECRET_KEY",
		Content: "SECRET_KEY = \"abc123\"\n",
	}

	results, err := pipeline.Run(context.Background(), []FileChange{change})
	if err != nil {
		t.Fatal(err)
	}

	result := results[0]
	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.SecurityIssues) != 1 {
		t.Fatalf("got %d findings, want 1", len(result.SecurityIssues))
	}
	if result.SecurityIssues[0].Line != 1 {
		t.Errorf("finding line = %d, want 1", result.SecurityIssues[0].Line)
	}
}

func TestPipelineContextCancellation(t *testing.T) {
	stub := newStubReviewer()
	pipeline, err := NewPipeline(stub)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := pipeline.Run(ctx, []FileChange{{Path: "a.py", Diff: "+x", Content: "x"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results before cancellation was noticed", len(results))
	}
}
