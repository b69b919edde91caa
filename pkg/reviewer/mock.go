package reviewer

import (
	"context"
	"fmt"

	"smartmr/internal/review"
)

// MockReviewer is a deterministic Reviewer for tests: it replies with a
// fixed response per path, or a default, and can be made to fail for
// selected paths.
type MockReviewer struct {
	name            string
	responses       map[string]string
	failures        map[string]error
	defaultResponse string
	calls           []string
}

// NewMockReviewer creates a mock that answers every request with a
// minimal clean review unless configured otherwise.
func NewMockReviewer(name string) *MockReviewer {
	return &MockReviewer{
		name:            name,
		responses:       make(map[string]string),
		failures:        make(map[string]error),
		defaultResponse: `{"summary": "Looks fine", "issues": [], "positive_aspects": [], "has_breaking_changes": false, "performance_impact": "neutral", "follow_up_actions": []}`,
	}
}

// RespondWith sets the raw reply for one file path.
func (m *MockReviewer) RespondWith(path, response string) {
	m.responses[path] = response
}

// FailWith makes requests for path return err.
func (m *MockReviewer) FailWith(path string, err error) {
	m.failures[path] = err
}

// SetDefaultResponse replaces the reply used for unconfigured paths.
func (m *MockReviewer) SetDefaultResponse(response string) {
	m.defaultResponse = response
}

// Calls returns the paths reviewed, in order.
func (m *MockReviewer) Calls() []string {
	return m.calls
}

func (m *MockReviewer) ReviewChange(ctx context.Context, change review.FileChange) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.calls = append(m.calls, change.Path)

	if err, ok := m.failures[change.Path]; ok {
		return "", fmt.Errorf("mock review error for %s: %w", change.Path, err)
	}
	if response, ok := m.responses[change.Path]; ok {
		return response, nil
	}
	return m.defaultResponse, nil
}

func (m *MockReviewer) Name() string {
	return m.name
}

func (m *MockReviewer) GetUsage() UsageStats {
	return UsageStats{TotalRequests: int64(len(m.calls)), Successful: int64(len(m.calls))}
}
