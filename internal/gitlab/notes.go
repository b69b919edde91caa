package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Position anchors a discussion to a line in the new version of a file.
type Position struct {
	BaseSHA      string `json:"base_sha"`
	StartSHA     string `json:"start_sha"`
	HeadSHA      string `json:"head_sha"`
	PositionType string `json:"position_type"`
	NewPath      string `json:"new_path"`
	NewLine      int    `json:"new_line"`
}

// PostNote posts a plain comment on the merge request.
func (c *Client) PostNote(ctx context.Context, mrIID, body string) error {
	path := fmt.Sprintf("merge_requests/%s/notes", url.PathEscape(mrIID))
	return c.do(ctx, http.MethodPost, path, map[string]string{"body": body}, nil)
}

// PostDiscussion posts a comment anchored to a diff line. With a nil
// position it behaves like PostNote.
func (c *Client) PostDiscussion(ctx context.Context, mrIID, body string, position *Position) error {
	path := fmt.Sprintf("merge_requests/%s/discussions", url.PathEscape(mrIID))

	payload := map[string]interface{}{"body": body}
	if position != nil {
		if position.PositionType == "" {
			position.PositionType = "text"
		}
		payload["position"] = position
	}

	return c.do(ctx, http.MethodPost, path, payload, nil)
}
