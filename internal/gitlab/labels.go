package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Label is a project label on the host.
type Label struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// ListLabels returns the project's existing labels.
func (c *Client) ListLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.do(ctx, http.MethodGet, "labels?per_page=100", nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// CreateLabel creates one project label. Creating a label that already
// exists returns an APIError with status 409; callers wanting
// idempotent semantics should check existence first or tolerate the
// conflict.
func (c *Client) CreateLabel(ctx context.Context, label Label) error {
	return c.do(ctx, http.MethodPost, "labels", label, nil)
}

// SetMergeRequestLabels replaces the full label set on a merge request.
// The call is not additive: the MR ends up with exactly these labels.
func (c *Client) SetMergeRequestLabels(ctx context.Context, mrIID string, labels []string) error {
	path := fmt.Sprintf("merge_requests/%s", url.PathEscape(mrIID))
	body := map[string]string{"labels": strings.Join(labels, ",")}
	return c.do(ctx, http.MethodPut, path, body, nil)
}
