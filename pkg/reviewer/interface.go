// Package reviewer implements clients for external AI review services.
// A client submits one structured review request per file change and
// returns the service's raw reply; schema validation happens upstream.
package reviewer

import (
	"fmt"
	"time"

	"smartmr/internal/review"
)

// Config holds provider configuration.
type Config struct {
	Provider    string        `json:"provider" yaml:"provider"`
	Model       string        `json:"model" yaml:"model"`
	APIKey      string        `json:"-" yaml:"-"`
	BaseURL     string        `json:"base_url,omitempty" yaml:"base_url"`
	MaxTokens   int           `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64       `json:"temperature" yaml:"temperature"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries  int           `json:"max_retries" yaml:"max_retries"`
	RateLimit   RateLimit     `json:"rate_limit" yaml:"rate_limit"`
}

type RateLimit struct {
	RequestsPerMinute int           `json:"requests_per_minute" yaml:"requests_per_minute"`
	Burst             int           `json:"burst" yaml:"burst"`
	WaitTime          time.Duration `json:"wait_time" yaml:"wait_time"`
}

func DefaultConfig() Config {
	return Config{
		Provider:    "gemini",
		Model:       "gemini-1.5-flash",
		MaxTokens:   4096,
		Temperature: 0.1,
		Timeout:     60 * time.Second,
		MaxRetries:  3,
		RateLimit: RateLimit{
			RequestsPerMinute: 10,
			Burst:             2,
			WaitTime:          5 * time.Second,
		},
	}
}

// AIReviewer extends the pipeline's Reviewer contract with usage
// accounting.
type AIReviewer interface {
	review.Reviewer
	GetUsage() UsageStats
}

type UsageStats struct {
	TotalRequests    int64         `json:"total_requests"`
	Successful       int64         `json:"successful"`
	Failed           int64         `json:"failed"`
	Retried          int64         `json:"retried"`
	TotalTokens      int64         `json:"total_tokens"`
	PromptTokens     int64         `json:"prompt_tokens"`
	CompletionTokens int64         `json:"completion_tokens"`
	TotalDuration    time.Duration `json:"total_duration"`
}

// New creates a reviewer for the configured provider.
func New(config Config) (AIReviewer, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	switch config.Provider {
	case "gemini":
		return NewGeminiReviewer(config)
	case "openai":
		return NewOpenAIReviewer(config)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", config.Provider)
	}
}

func validateConfig(config Config) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if config.Model == "" {
		return fmt.Errorf("model name is required")
	}
	if config.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0")
	}
	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if config.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit requests per minute must be positive")
	}
	return nil
}
