package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
)

// envPrefix marks the variables read by loadEnvConfig.
const envPrefix = "PDFLEAF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	APIKey     string        // PDFLEAF_API_KEY: API key
	ConfigPath string        // PDFLEAF_CONFIG: config file name or path
	BaseURL    string        // PDFLEAF_BASE_URL: service origin
	Timeout    time.Duration // PDFLEAF_TIMEOUT: per-request timeout

	// Tier 2 - Waiting and output
	PollInterval time.Duration // PDFLEAF_POLL_INTERVAL: status poll interval
	MaxWait      time.Duration // PDFLEAF_MAX_WAIT: polling budget
	OutputDir    string        // PDFLEAF_OUTPUT_DIR: default output directory
	Workers      int           // PDFLEAF_WORKERS: parallel conversions

	// Tier 3 - Extended
	PageSize      string // PDFLEAF_PAGE_SIZE: A4, Letter, A3, A5, Legal
	WebhookSecret string // PDFLEAF_WEBHOOK_SECRET: secret for verify and listen
}

// knownEnvVars lists valid PDFLEAF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"PDFLEAF_API_KEY":  true,
	"PDFLEAF_CONFIG":   true,
	"PDFLEAF_BASE_URL": true,
	"PDFLEAF_TIMEOUT":  true,
	// Tier 2 - Waiting and output
	"PDFLEAF_POLL_INTERVAL": true,
	"PDFLEAF_MAX_WAIT":      true,
	"PDFLEAF_OUTPUT_DIR":    true,
	"PDFLEAF_WORKERS":       true,
	// Tier 3 - Extended
	"PDFLEAF_PAGE_SIZE":      true,
	"PDFLEAF_WEBHOOK_SECRET": true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and worker counts are ignored rather than reported.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		APIKey:        os.Getenv("PDFLEAF_API_KEY"),
		ConfigPath:    os.Getenv("PDFLEAF_CONFIG"),
		BaseURL:       os.Getenv("PDFLEAF_BASE_URL"),
		OutputDir:     os.Getenv("PDFLEAF_OUTPUT_DIR"),
		PageSize:      os.Getenv("PDFLEAF_PAGE_SIZE"),
		WebhookSecret: os.Getenv("PDFLEAF_WEBHOOK_SECRET"),
	}

	cfg.Timeout = envDuration("PDFLEAF_TIMEOUT")
	cfg.PollInterval = envDuration("PDFLEAF_POLL_INTERVAL")
	cfg.MaxWait = envDuration("PDFLEAF_MAX_WAIT")

	if workers := os.Getenv("PDFLEAF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// envDuration parses a positive duration variable; anything else is 0.
func envDuration(name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// unknownEnvVars returns the set PDFLEAF_* variables that are not recognized.
func unknownEnvVars() []string {
	var unknown []string
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				unknown = append(unknown, name)
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}

// warnUnknownEnvVars logs warnings for unrecognized PDFLEAF_* variables.
// Helps catch typos like PDFLEAF_APIKEY instead of PDFLEAF_API_KEY.
func warnUnknownEnvVars(w io.Writer) {
	for _, name := range unknownEnvVars() {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}

// applyEnvConfig applies environment variable values to config.
// A set variable overrides the file value; flags are merged afterwards.
// Priority: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if env.APIKey != "" {
		cfg.API.Key = env.APIKey
	}
	if env.BaseURL != "" {
		cfg.API.BaseURL = env.BaseURL
	}
	if env.Timeout > 0 {
		cfg.API.Timeout = env.Timeout.String()
	}

	// Tier 2
	if env.PollInterval > 0 {
		cfg.Wait.PollInterval = env.PollInterval.String()
	}
	if env.MaxWait > 0 {
		cfg.Wait.MaxWait = env.MaxWait.String()
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}

	// Tier 3
	if env.PageSize != "" {
		cfg.PDF.PageSize = env.PageSize
	}
	if env.WebhookSecret != "" {
		cfg.Webhook.Secret = env.WebhookSecret
	}
}
