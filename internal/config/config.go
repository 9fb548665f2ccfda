package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rodrigonormandia/go-pdfleaf/internal/fileutil"
	"github.com/rodrigonormandia/go-pdfleaf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidValue    = errors.New("invalid value")
)

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxLengthField    = 20   // "2.5cm", "1in", "1,2,3,4"
	MaxHTMLLength     = 8192 // Header/footer snippets
	MaxStyleLength    = 1024 // Inline CSS path or name
	MaxListenLength   = 255  // "host:port"
	MaxSecretLength   = 256
	MaxAPIKeyLength   = 256
	MaxPageListLength = 200
)

// maskedSecret replaces secrets in Masked output.
const maskedSecret = "********"

// Config holds the CLI configuration. Every field is optional; empty values
// fall back to the library defaults.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Wait     WaitConfig     `yaml:"wait"`
	PDF      PDFConfig      `yaml:"pdf"`
	Output   OutputConfig   `yaml:"output"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

// APIConfig defines how to reach the conversion service.
type APIConfig struct {
	Key     string `yaml:"key"`     // Prefer PDFLEAF_API_KEY over storing it here
	BaseURL string `yaml:"baseURL"` // Empty = service default
	Timeout string `yaml:"timeout"` // Per-request, e.g. "30s"
}

// WaitConfig defines the polling loop.
type WaitConfig struct {
	PollInterval string `yaml:"pollInterval"` // e.g. "500ms"
	MaxWait      string `yaml:"maxWait"`      // e.g. "2m"
}

// PDFConfig defines rendering options sent with each job.
type PDFConfig struct {
	PageSize           string `yaml:"pageSize"`    // "A4", "Letter", "A3", "A5", "Legal"
	Orientation        string `yaml:"orientation"` // "portrait", "landscape"
	MarginTop          string `yaml:"marginTop"`
	MarginBottom       string `yaml:"marginBottom"`
	MarginLeft         string `yaml:"marginLeft"`
	MarginRight        string `yaml:"marginRight"`
	PageNumbers        *bool  `yaml:"pageNumbers"` // nil = server default
	HeaderHTML         string `yaml:"headerHTML"`
	FooterHTML         string `yaml:"footerHTML"`
	HeaderHeight       string `yaml:"headerHeight"`
	FooterHeight       string `yaml:"footerHeight"`
	ExcludeHeaderPages string `yaml:"excludeHeaderPages"` // "1,2"
	ExcludeFooterPages string `yaml:"excludeFooterPages"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// MarkdownConfig defines how Markdown inputs are turned into HTML.
type MarkdownConfig struct {
	Style     string `yaml:"style"`     // Built-in style name, CSS file path, or inline CSS
	StylesDir string `yaml:"stylesDir"` // Directory of {name}.css overriding built-in styles
}

// WebhookConfig defines the local webhook receiver.
type WebhookConfig struct {
	Secret string `yaml:"secret"`
	Listen string `yaml:"listen"` // default ":8080"
	Path   string `yaml:"path"`   // default "/webhooks/pdfleaf"
}

// Validate checks field lengths, enumerations and durations.
// Called automatically by LoadConfig, but available for configs built from
// flags and environment variables.
func (c *Config) Validate() error {
	if err := validateFieldLength("api.key", c.API.Key, MaxAPIKeyLength); err != nil {
		return err
	}
	if err := validateFieldLength("api.baseURL", c.API.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: api.baseURL %q (must be an http(s) URL)", ErrInvalidValue, c.API.BaseURL)
		}
	}

	durations := []struct {
		field string
		value string
	}{
		{"api.timeout", c.API.Timeout},
		{"wait.pollInterval", c.Wait.PollInterval},
		{"wait.maxWait", c.Wait.MaxWait},
	}
	for _, d := range durations {
		if _, err := parseDuration(d.field, d.value); err != nil {
			return err
		}
	}

	if c.PDF.PageSize != "" {
		switch c.PDF.PageSize {
		case "A4", "Letter", "A3", "A5", "Legal":
			// valid
		default:
			return fmt.Errorf("%w: pdf.pageSize %q (must be A4, Letter, A3, A5, or Legal)", ErrInvalidValue, c.PDF.PageSize)
		}
	}
	if c.PDF.Orientation != "" {
		switch c.PDF.Orientation {
		case "portrait", "landscape":
			// valid
		default:
			return fmt.Errorf("%w: pdf.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.PDF.Orientation)
		}
	}

	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"pdf.marginTop", c.PDF.MarginTop, MaxLengthField},
		{"pdf.marginBottom", c.PDF.MarginBottom, MaxLengthField},
		{"pdf.marginLeft", c.PDF.MarginLeft, MaxLengthField},
		{"pdf.marginRight", c.PDF.MarginRight, MaxLengthField},
		{"pdf.headerHeight", c.PDF.HeaderHeight, MaxLengthField},
		{"pdf.footerHeight", c.PDF.FooterHeight, MaxLengthField},
		{"pdf.headerHTML", c.PDF.HeaderHTML, MaxHTMLLength},
		{"pdf.footerHTML", c.PDF.FooterHTML, MaxHTMLLength},
		{"pdf.excludeHeaderPages", c.PDF.ExcludeHeaderPages, MaxPageListLength},
		{"pdf.excludeFooterPages", c.PDF.ExcludeFooterPages, MaxPageListLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxURLLength},
		{"markdown.style", c.Markdown.Style, MaxStyleLength},
		{"markdown.stylesDir", c.Markdown.StylesDir, MaxStyleLength},
		{"webhook.secret", c.Webhook.Secret, MaxSecretLength},
		{"webhook.listen", c.Webhook.Listen, MaxListenLength},
		{"webhook.path", c.Webhook.Path, MaxURLLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Webhook.Path != "" && !strings.HasPrefix(c.Webhook.Path, "/") {
		return fmt.Errorf("%w: webhook.path %q (must start with /)", ErrInvalidValue, c.Webhook.Path)
	}

	return nil
}

// Timeout returns api.timeout, or 0 when unset.
func (c *Config) Timeout() time.Duration {
	d, _ := parseDuration("api.timeout", c.API.Timeout)
	return d
}

// PollInterval returns wait.pollInterval, or 0 when unset.
func (c *Config) PollInterval() time.Duration {
	d, _ := parseDuration("wait.pollInterval", c.Wait.PollInterval)
	return d
}

// MaxWait returns wait.maxWait, or 0 when unset.
func (c *Config) MaxWait() time.Duration {
	d, _ := parseDuration("wait.maxWait", c.Wait.MaxWait)
	return d
}

// Masked returns a copy with secrets replaced, safe to print.
func (c *Config) Masked() *Config {
	out := *c
	if out.API.Key != "" {
		out.API.Key = maskKey(out.API.Key)
	}
	if out.Webhook.Secret != "" {
		out.Webhook.Secret = maskedSecret
	}
	return &out
}

// maskKey keeps the "pk_live_"/"pk_test_" part of a key so the environment
// is still recognizable.
func maskKey(key string) string {
	for _, prefix := range []string{"pk_live_", "pk_test_", "pk_"} {
		if strings.HasPrefix(key, prefix) {
			return prefix + maskedSecret
		}
	}
	return maskedSecret
}

// parseDuration parses a config duration. Empty means unset (0); negative
// and zero values are rejected.
func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidDuration, field, value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s %q (must be positive)", ErrInvalidDuration, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every value falls back to
// the library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFileStrict(configPath, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists where a config name is looked up, in order: current
// directory then the user config directory, .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "pdfleaf", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing entry of SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", &NotFoundError{Name: name, Tried: tried}
}

// NotFoundError reports every path tried for a config name.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: tried %s", ErrConfigNotFound, strings.Join(e.Tried, ", "))
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}
