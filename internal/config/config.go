// Package config defines the AutoDoc configuration model: YAML file settings
// with environment overrides for secrets and endpoints.
package config

import (
	"fmt"
	"time"
)

// SnapshotSource selects how repository file listings are fetched.
type SnapshotSource string

const (
	SnapshotSourceAPI SnapshotSource = "api" // forge REST API (default)
	SnapshotSourceGit SnapshotSource = "git" // in-memory git clone fallback
)

// Config is the root configuration object. It is constructed once at process
// start and passed explicitly into the components that need it; nothing reads
// ambient global state after Load returns.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Forge    ForgeConfig    `yaml:"forge"`
	Model    ModelConfig    `yaml:"model"`
	Output   OutputConfig   `yaml:"output"`
	Retry    RetryConfig    `yaml:"retry"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Notify   NotifyConfig   `yaml:"notify"`
	Store    StoreConfig    `yaml:"store"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// WebhookConfig holds inbound webhook verification settings.
type WebhookConfig struct {
	// Secret is the shared HMAC secret. Usually provided via
	// AUTODOC_WEBHOOK_SECRET rather than the config file.
	Secret string `yaml:"secret"`
}

// ForgeConfig holds repository-hosting API settings.
type ForgeConfig struct {
	APIURL string `yaml:"api_url"`
	// Token is the API token, usually via GITHUB_API_TOKEN. Optional: without
	// it public repositories still work at a lower rate limit.
	Token    string         `yaml:"token"`
	Snapshot SnapshotSource `yaml:"snapshot"`
	Timeout  time.Duration  `yaml:"timeout"`
}

// ModelConfig holds model channel settings.
type ModelConfig struct {
	// ChannelURL is the websocket endpoint, usually via AUTODOC_MODEL_URL.
	ChannelURL  string        `yaml:"channel_url"`
	Language    string        `yaml:"language"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// OutputConfig holds artifact output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// RetryConfig holds per-page generation retry settings.
type RetryConfig struct {
	MaxAttempts int              `yaml:"max_attempts"`
	Backoff     RetryBackoffMode `yaml:"backoff"`
	BaseDelay   time.Duration    `yaml:"base_delay"`
	MaxDelay    time.Duration    `yaml:"max_delay"`
}

// ScheduleConfig holds the optional periodic regeneration schedule.
type ScheduleConfig struct {
	Enabled      bool            `yaml:"enabled"`
	Interval     time.Duration   `yaml:"interval"`
	Repositories []RepositoryRef `yaml:"repositories"`
}

// RepositoryRef identifies a repository for scheduled regeneration.
type RepositoryRef struct {
	Owner  string `yaml:"owner"`
	Name   string `yaml:"name"`
	Branch string `yaml:"branch"`
	URL    string `yaml:"url"`
}

// NotifyConfig holds the optional NATS run-outcome publisher settings.
// Publishing is enabled only when URL is non-empty.
type NotifyConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// StoreConfig holds run-history persistence settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default returns a configuration populated with defaults. Load applies file
// and environment values on top of this.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Forge: ForgeConfig{
			APIURL:   "https://api.github.com",
			Snapshot: SnapshotSourceAPI,
			Timeout:  30 * time.Second,
		},
		Model: ModelConfig{
			Language:    "English",
			DialTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Dir: "repo_wiki_generations",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Backoff:     RetryBackoffLinear,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
		},
		Schedule: ScheduleConfig{
			Interval: 24 * time.Hour,
		},
		Notify: NotifyConfig{
			Subject: "autodoc.runs",
		},
		Store: StoreConfig{
			Path: "autodoc.db",
		},
	}
}

// Validate checks invariants on the assembled configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max_attempts must be >=1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry base_delay must be >0")
	}
	if mode := NormalizeRetryBackoff(string(c.Retry.Backoff)); mode == "" {
		return fmt.Errorf("unknown retry backoff mode %q", c.Retry.Backoff)
	}
	switch c.Forge.Snapshot {
	case SnapshotSourceAPI, SnapshotSourceGit:
	default:
		return fmt.Errorf("unknown snapshot source %q", c.Forge.Snapshot)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir must not be empty")
	}
	if c.Schedule.Enabled {
		if c.Schedule.Interval <= 0 {
			return fmt.Errorf("schedule interval must be >0 when enabled")
		}
		for i, r := range c.Schedule.Repositories {
			if r.Owner == "" || r.Name == "" {
				return fmt.Errorf("schedule repository %d missing owner/name", i)
			}
		}
	}
	return nil
}
