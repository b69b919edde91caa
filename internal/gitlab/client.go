// Package gitlab is a minimal client for the GitLab REST v4 endpoints
// the review pipeline needs: merge-request metadata, labels, and notes.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to one GitLab project. Requests authenticate with a
// private token; all calls are scoped to the configured project.
type Client struct {
	baseURL   string
	token     string
	projectID string
	client    *http.Client
}

func NewClient(baseURL, token, projectID string) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		token:     token,
		projectID: projectID,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// MergeRequest is the subset of MR metadata the pipeline consumes.
type MergeRequest struct {
	IID          int      `json:"iid"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Labels       []string `json:"labels"`
	TargetBranch string   `json:"target_branch"`
	SourceBranch string   `json:"source_branch"`
	WebURL       string   `json:"web_url"`
}

// GetMergeRequest fetches metadata for one merge request by IID.
func (c *Client) GetMergeRequest(ctx context.Context, mrIID string) (*MergeRequest, error) {
	var mr MergeRequest
	path := fmt.Sprintf("merge_requests/%s", url.PathEscape(mrIID))
	if err := c.do(ctx, http.MethodGet, path, nil, &mr); err != nil {
		return nil, err
	}
	return &mr, nil
}

// do issues one project-scoped API request. body is JSON-encoded when
// non-nil; out is filled from the response when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/%s",
		c.baseURL, url.PathEscape(c.projectID), path)

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gitlab request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 512)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// APIError is a non-2xx reply from the GitLab API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gitlab API returned status %d: %s", e.StatusCode, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
