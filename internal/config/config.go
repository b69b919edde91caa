// Package config loads pipeline configuration the layered way: defaults,
// then the optional .smartmr.yml file, then environment variables (the
// GitLab CI predefined variables plus SMARTMR_* overrides).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"smartmr/internal/changeset"
	"smartmr/pkg/reviewer"
)

// ConfigFile is the per-repository configuration file name.
const ConfigFile = ".smartmr.yml"

// GitLab identifies the project and merge request under review.
type GitLab struct {
	ServerURL       string `yaml:"server_url"`
	Token           string `yaml:"-"`
	ProjectID       string `yaml:"project_id"`
	MergeRequestIID string `yaml:"-"`
	TargetBranch    string `yaml:"-"`
}

// Review holds the change-discovery filters.
type Review struct {
	MaxFileSize    int64    `yaml:"max_file_size"`
	IgnorePatterns []string `yaml:"ignore_patterns"`
}

type Config struct {
	GitLab      GitLab          `yaml:"gitlab"`
	AI          reviewer.Config `yaml:"ai"`
	Review      Review          `yaml:"review"`
	ArtifactDir string          `yaml:"artifact_dir"`
}

func Default() Config {
	return Config{
		GitLab: GitLab{ServerURL: "https://gitlab.com"},
		AI:     reviewer.DefaultConfig(),
		Review: Review{
			MaxFileSize:    changeset.DefaultMaxFileSize,
			IgnorePatterns: changeset.DefaultIgnorePatterns,
		},
		ArtifactDir: ".",
	}
}

// Load builds the effective configuration. A missing config file is
// fine; a present but unparseable one is an error so typos do not
// silently fall back to defaults.
func Load() (Config, error) {
	config := Default()

	if err := loadFile(&config); err != nil {
		return config, err
	}
	loadEnv(&config)

	return config, nil
}

func loadFile(config *Config) error {
	path := ConfigFile
	if _, err := os.Stat(path); os.IsNotExist(err) {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ConfigFile)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func loadEnv(config *Config) {
	// GitLab CI predefined variables.
	if v := os.Getenv("CI_SERVER_URL"); v != "" {
		config.GitLab.ServerURL = v
	}
	if v := os.Getenv("GITLAB_PAT"); v != "" {
		config.GitLab.Token = v
	}
	if v := os.Getenv("CI_PROJECT_ID"); v != "" {
		config.GitLab.ProjectID = v
	}
	if v := os.Getenv("CI_MERGE_REQUEST_IID"); v != "" {
		config.GitLab.MergeRequestIID = v
	}
	if v := os.Getenv("CI_MERGE_REQUEST_TARGET_BRANCH_NAME"); v != "" {
		config.GitLab.TargetBranch = v
	}

	// AI provider settings.
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		config.AI.APIKey = v
	}
	if v := os.Getenv("SMARTMR_AI_PROVIDER"); v != "" {
		config.AI.Provider = v
	}
	if v := os.Getenv("SMARTMR_AI_MODEL"); v != "" {
		config.AI.Model = v
	}
	if v := os.Getenv("SMARTMR_AI_BASE_URL"); v != "" {
		config.AI.BaseURL = v
	}
	if v := os.Getenv("SMARTMR_AI_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.AI.MaxTokens = n
		}
	}
	if v := os.Getenv("SMARTMR_AI_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			config.AI.Temperature = f
		}
	}
	if v := os.Getenv("SMARTMR_AI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.AI.Timeout = d
		}
	}
	if v := os.Getenv("SMARTMR_AI_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			config.AI.MaxRetries = n
		}
	}
	if v := os.Getenv("SMARTMR_AI_RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.AI.RateLimit.RequestsPerMinute = n
		}
	}

	// Pipeline settings.
	if v := os.Getenv("SMARTMR_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			config.Review.MaxFileSize = n
		}
	}
	if v := os.Getenv("SMARTMR_ARTIFACT_DIR"); v != "" {
		config.ArtifactDir = v
	}
}

// ValidateReview checks the configuration required before any review
// work starts. Missing host credentials are not fatal here: the review
// stage can still run and emit artifacts, it just cannot post comments.
func (c Config) ValidateReview() error {
	if c.AI.APIKey == "" {
		return errors.New("LLM_API_KEY environment variable not set")
	}
	return nil
}

// ValidateTag checks the configuration the tagging stage needs; all of
// it is required because tagging exists only to mutate the host.
func (c Config) ValidateTag() error {
	var missing []string
	if c.GitLab.Token == "" {
		missing = append(missing, "GITLAB_PAT")
	}
	if c.GitLab.ProjectID == "" {
		missing = append(missing, "CI_PROJECT_ID")
	}
	if c.GitLab.MergeRequestIID == "" {
		missing = append(missing, "CI_MERGE_REQUEST_IID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}

// CanPublish reports whether the host credentials needed to post
// comments and labels are present.
func (c Config) CanPublish() bool {
	return c.GitLab.Token != "" && c.GitLab.ProjectID != "" && c.GitLab.MergeRequestIID != ""
}
