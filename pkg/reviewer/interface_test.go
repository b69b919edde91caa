package reviewer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smartmr/internal/review"
)

func TestNewSelectsProvider(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "key"

	rev, err := New(config)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rev.Name(), "gemini-") {
		t.Errorf("Name = %s, want gemini provider", rev.Name())
	}

	config.Provider = "openai"
	config.Model = "gpt-4o-mini"
	rev, err = New(config)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(rev.Name(), "openai-") {
		t.Errorf("Name = %s, want openai provider", rev.Name())
	}
}

func TestNewUnsupportedProvider(t *testing.T) {
	config := DefaultConfig()
	config.APIKey = "key"
	config.Provider = "llama-at-home"

	if _, err := New(config); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestValidateConfig(t *testing.T) {
	valid := DefaultConfig()
	valid.APIKey = "key"

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.APIKey = "" }},
		{"missing model", func(c *Config) { c.Model = "" }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.Temperature = 1.5 }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }},
	}

	if err := validateConfig(valid); err != nil {
		t.Fatalf("default config with key should validate: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			if err := validateConfig(config); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Provider != "gemini" {
		t.Errorf("Provider = %s", config.Provider)
	}
	if config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v", config.Timeout)
	}
	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", config.MaxRetries)
	}
}

func TestMockReviewer(t *testing.T) {
	mock := NewMockReviewer("test-mock")
	mock.RespondWith("a.py", `{"summary": "custom", "issues": []}`)
	mock.FailWith("b.py", errors.New("boom"))

	ctx := context.Background()

	text, err := mock.ReviewChange(ctx, review.FileChange{Path: "a.py"})
	if err != nil || !strings.Contains(text, "custom") {
		t.Errorf("configured response not returned: %q, %v", text, err)
	}

	if _, err := mock.ReviewChange(ctx, review.FileChange{Path: "b.py"}); err == nil {
		t.Error("configured failure not returned")
	}

	text, err = mock.ReviewChange(ctx, review.FileChange{Path: "c.py"})
	if err != nil || !strings.Contains(text, "Looks fine") {
		t.Errorf("default response not returned: %q, %v", text, err)
	}

	calls := mock.Calls()
	if len(calls) != 3 || calls[0] != "a.py" || calls[2] != "c.py" {
		t.Errorf("calls = %v", calls)
	}
}
