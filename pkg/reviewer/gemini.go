package reviewer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"smartmr/internal/review"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiReviewer talks to Google's Gemini generateContent API.
type GeminiReviewer struct {
	config      Config
	baseURL     string
	client      *http.Client
	rateLimiter *RateLimiter
	usage       UsageStats
	mu          sync.Mutex
}

func NewGeminiReviewer(config Config) (*GeminiReviewer, error) {
	if config.Provider != "gemini" {
		return nil, fmt.Errorf("provider must be 'gemini' for GeminiReviewer")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &GeminiReviewer{
		config:      config,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		client:      client,
		rateLimiter: NewRateLimiter(config.RateLimit.RequestsPerMinute, config.RateLimit.Burst),
	}, nil
}

// ReviewChange builds the prompt for one file change, submits it, and
// returns the model's raw text. Retries are bounded and apply only to
// retryable failures.
func (g *GeminiReviewer) ReviewChange(ctx context.Context, change review.FileChange) (string, error) {
	startTime := time.Now()

	prompt, err := BuildPrompt(change)
	if err != nil {
		g.recordFailure()
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	var text string
	var lastErr error

	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if err := g.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		text, lastErr = g.generate(ctx, prompt)
		if lastErr == nil {
			break
		}

		if attempt < g.config.MaxRetries && isRetryable(lastErr) {
			g.recordRetry()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.config.RateLimit.WaitTime * time.Duration(attempt+1)):
			}
			continue
		}
		break
	}

	if lastErr != nil {
		g.recordFailure()
		return "", fmt.Errorf("gemini request failed: %w", lastErr)
	}

	g.recordSuccess(time.Since(startTime))
	return text, nil
}

func (g *GeminiReviewer) Name() string {
	return fmt.Sprintf("gemini-%s", g.config.Model)
}

func (g *GeminiReviewer) GetUsage() UsageStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.usage
}

func (g *GeminiReviewer) generate(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     g.config.Temperature,
			"maxOutputTokens": g.config.MaxTokens,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, g.config.Model, g.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}

	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to unmarshal API response: %w", err)
	}

	if len(apiResponse.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in API response")
	}

	var textBuilder strings.Builder
	for _, part := range apiResponse.Candidates[0].Content.Parts {
		textBuilder.WriteString(part.Text)
	}

	g.mu.Lock()
	g.usage.PromptTokens += int64(apiResponse.UsageMetadata.PromptTokenCount)
	g.usage.CompletionTokens += int64(apiResponse.UsageMetadata.CandidatesTokenCount)
	g.usage.TotalTokens += int64(apiResponse.UsageMetadata.TotalTokenCount)
	g.mu.Unlock()

	return textBuilder.String(), nil
}

// isRetryable reports whether the error looks like a transient network
// or rate-limit failure worth retrying.
func isRetryable(err error) bool {
	errStr := strings.ToLower(err.Error())

	retryable := []string{
		"timeout",
		"deadline exceeded",
		"rate limit",
		"too many requests",
		"429",
		"503",
		"504",
		"temporary",
		"unavailable",
	}

	for _, marker := range retryable {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

func (g *GeminiReviewer) recordSuccess(duration time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.usage.TotalRequests++
	g.usage.Successful++
	g.usage.TotalDuration += duration
}

func (g *GeminiReviewer) recordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.usage.TotalRequests++
	g.usage.Failed++
}

func (g *GeminiReviewer) recordRetry() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.usage.Retried++
}
