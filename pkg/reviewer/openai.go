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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIReviewer talks to the OpenAI chat completions API.
type OpenAIReviewer struct {
	config      Config
	baseURL     string
	client      *http.Client
	rateLimiter *RateLimiter
	usage       UsageStats
	mu          sync.Mutex
}

func NewOpenAIReviewer(config Config) (*OpenAIReviewer, error) {
	if config.Provider != "openai" {
		return nil, fmt.Errorf("provider must be 'openai' for OpenAIReviewer")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &OpenAIReviewer{
		config:      config,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		client:      client,
		rateLimiter: NewRateLimiter(config.RateLimit.RequestsPerMinute, config.RateLimit.Burst),
	}, nil
}

func (o *OpenAIReviewer) ReviewChange(ctx context.Context, change review.FileChange) (string, error) {
	startTime := time.Now()

	prompt, err := BuildPrompt(change)
	if err != nil {
		o.recordFailure()
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	var text string
	var lastErr error

	for attempt := 0; attempt <= o.config.MaxRetries; attempt++ {
		if err := o.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		text, lastErr = o.complete(ctx, prompt)
		if lastErr == nil {
			break
		}

		if attempt < o.config.MaxRetries && isRetryable(lastErr) {
			o.recordRetry()
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(o.config.RateLimit.WaitTime * time.Duration(attempt+1)):
			}
			continue
		}
		break
	}

	if lastErr != nil {
		o.recordFailure()
		return "", fmt.Errorf("openai request failed: %w", lastErr)
	}

	o.recordSuccess(time.Since(startTime))
	return text, nil
}

func (o *OpenAIReviewer) Name() string {
	return fmt.Sprintf("openai-%s", o.config.Model)
}

func (o *OpenAIReviewer) GetUsage() UsageStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.usage
}

func (o *OpenAIReviewer) complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]interface{}{
		"model": o.config.Model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are an expert code reviewer. Respond only with the requested JSON."},
			{"role": "user", "content": prompt},
		},
		"max_tokens":  o.config.MaxTokens,
		"temperature": o.config.Temperature,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.baseURL+"/chat/completions", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
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
			return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("openai API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to unmarshal API response: %w", err)
	}

	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	o.mu.Lock()
	o.usage.PromptTokens += int64(apiResponse.Usage.PromptTokens)
	o.usage.CompletionTokens += int64(apiResponse.Usage.CompletionTokens)
	o.usage.TotalTokens += int64(apiResponse.Usage.TotalTokens)
	o.mu.Unlock()

	return apiResponse.Choices[0].Message.Content, nil
}

func (o *OpenAIReviewer) recordSuccess(duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.usage.TotalRequests++
	o.usage.Successful++
	o.usage.TotalDuration += duration
}

func (o *OpenAIReviewer) recordFailure() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.usage.TotalRequests++
	o.usage.Failed++
}

func (o *OpenAIReviewer) recordRetry() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.usage.Retried++
}
