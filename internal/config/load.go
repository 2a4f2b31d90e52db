package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by Load. Secrets and endpoints are
// expected via the environment; the YAML file carries everything else.
const (
	EnvWebhookSecret = "AUTODOC_WEBHOOK_SECRET"
	EnvForgeToken    = "GITHUB_API_TOKEN"
	EnvModelURL      = "AUTODOC_MODEL_URL"
	EnvNotifyURL     = "AUTODOC_NATS_URL"
	EnvOutputDir     = "AUTODOC_OUTPUT_DIR"
)

// Load reads the YAML configuration at path (optional: pass "" to use pure
// defaults+env), loads .env files, applies environment overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	// .env / .env.local are developer conveniences; absence is not an error.
	// godotenv never overrides variables already present in the process env.
	_ = godotenv.Load(".env", ".env.local")

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment values over file/default values.
// Environment wins so deployments can keep secrets out of config files.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvWebhookSecret); v != "" {
		cfg.Webhook.Secret = v
	}
	if v := os.Getenv(EnvForgeToken); v != "" {
		cfg.Forge.Token = v
	}
	if v := os.Getenv(EnvModelURL); v != "" {
		cfg.Model.ChannelURL = v
	}
	if v := os.Getenv(EnvNotifyURL); v != "" {
		cfg.Notify.URL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Output.Dir = v
	}
}
