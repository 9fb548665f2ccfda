package main

// Notes:
// - loadConfig is tested with an explicit config path; the search path
//   lookup belongs to internal/config.
// - newClient is checked through a recording ClientFactory: option values
//   are not readable from outside the client except for BaseURL.

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadConfig - Precedence
// ---------------------------------------------------------------------------

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfleaf.yaml")
	writeFile(t, path, `api:
  key: pk_live_file
  baseURL: https://file.example.com
  timeout: 10s
pdf:
  pageSize: A4
`)

	t.Run("file only", func(t *testing.T) {
		cfg, _, err := loadConfig(commonFlags{config: path}, apiFlags{})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.API.Key != "pk_live_file" || cfg.PDF.PageSize != "A4" {
			t.Errorf("config = %+v", cfg)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PDFLEAF_API_KEY", "pk_live_env")
		t.Setenv("PDFLEAF_PAGE_SIZE", "Letter")

		cfg, _, err := loadConfig(commonFlags{config: path}, apiFlags{})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.API.Key != "pk_live_env" {
			t.Errorf("API.Key = %q, want pk_live_env", cfg.API.Key)
		}
		if cfg.PDF.PageSize != "Letter" {
			t.Errorf("PDF.PageSize = %q, want Letter", cfg.PDF.PageSize)
		}
		if cfg.API.BaseURL != "https://file.example.com" {
			t.Errorf("API.BaseURL = %q, want file value", cfg.API.BaseURL)
		}
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("PDFLEAF_API_KEY", "pk_live_env")

		cfg, _, err := loadConfig(commonFlags{config: path}, apiFlags{key: "pk_live_flag", timeout: "1m"})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.API.Key != "pk_live_flag" {
			t.Errorf("API.Key = %q, want pk_live_flag", cfg.API.Key)
		}
		if cfg.API.Timeout != "1m" {
			t.Errorf("API.Timeout = %q, want 1m", cfg.API.Timeout)
		}
	})

	t.Run("config from env", func(t *testing.T) {
		t.Setenv("PDFLEAF_CONFIG", path)

		cfg, envCfg, err := loadConfig(commonFlags{}, apiFlags{})
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if envCfg.ConfigPath != path {
			t.Errorf("ConfigPath = %q", envCfg.ConfigPath)
		}
		if cfg.API.Key != "pk_live_file" {
			t.Errorf("API.Key = %q, want pk_live_file", cfg.API.Key)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := loadConfig(commonFlags{config: filepath.Join(t.TempDir(), "nope.yaml")}, apiFlags{})
		if err == nil {
			t.Fatal("loadConfig() error = nil, want error")
		}
		if !strings.HasPrefix(err.Error(), "loading config:") {
			t.Errorf("error = %q, want loading config prefix", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestMergePDFFlags - Rendering flags
// ---------------------------------------------------------------------------

func TestMergePDFFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags pdfFlags
		check func(t *testing.T, p config.PDFConfig)
	}{
		{
			name:  "margin sets all sides",
			flags: pdfFlags{margin: "2cm"},
			check: func(t *testing.T, p config.PDFConfig) {
				for _, m := range []string{p.MarginTop, p.MarginBottom, p.MarginLeft, p.MarginRight} {
					if m != "2cm" {
						t.Errorf("margins = %+v, want all 2cm", p)
						return
					}
				}
			},
		},
		{
			name:  "side flag wins over margin",
			flags: pdfFlags{margin: "2cm", marginTop: "5mm"},
			check: func(t *testing.T, p config.PDFConfig) {
				if p.MarginTop != "5mm" || p.MarginBottom != "2cm" {
					t.Errorf("top/bottom = %q/%q, want 5mm/2cm", p.MarginTop, p.MarginBottom)
				}
			},
		},
		{
			name:  "no-page-numbers wins",
			flags: pdfFlags{pageNumbers: true, noPageNumbers: true},
			check: func(t *testing.T, p config.PDFConfig) {
				if p.PageNumbers == nil || *p.PageNumbers {
					t.Errorf("PageNumbers = %v, want false", p.PageNumbers)
				}
			},
		},
		{
			name:  "unset flags keep config",
			flags: pdfFlags{},
			check: func(t *testing.T, p config.PDFConfig) {
				if p.PageSize != "Legal" || p.PageNumbers == nil || !*p.PageNumbers {
					t.Errorf("config = %+v, want unchanged", p)
				}
			},
		},
		{
			name:  "header and footer",
			flags: pdfFlags{headerHTML: "<b>h</b>", footerHeight: "1cm", excludeHeader: "1"},
			check: func(t *testing.T, p config.PDFConfig) {
				if p.HeaderHTML != "<b>h</b>" || p.FooterHeight != "1cm" || p.ExcludeHeaderPages != "1" {
					t.Errorf("config = %+v", p)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.PDF.PageSize = "Legal"
			cfg.PDF.PageNumbers = pdfleaf.Bool(true)
			mergePDFFlags(tt.flags, cfg)
			tt.check(t, cfg.PDF)
		})
	}
}

func TestMergeWaitFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Wait.MaxWait = "1m"
	mergeWaitFlags(waitFlags{pollInterval: "100ms"}, cfg)

	if cfg.Wait.PollInterval != "100ms" {
		t.Errorf("PollInterval = %q, want 100ms", cfg.Wait.PollInterval)
	}
	if cfg.Wait.MaxWait != "1m" {
		t.Errorf("MaxWait = %q, want 1m", cfg.Wait.MaxWait)
	}
}

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.PDF.PageSize = "Letter"
	cfg.PDF.Orientation = "landscape"
	cfg.PDF.MarginLeft = "1in"
	cfg.PDF.PageNumbers = pdfleaf.Bool(false)
	cfg.PDF.ExcludeFooterPages = "1,2"

	got := buildPDFOptions(cfg)

	if got.PageSize != pdfleaf.PageSizeLetter {
		t.Errorf("PageSize = %q, want Letter", got.PageSize)
	}
	if got.Orientation != pdfleaf.OrientationLandscape {
		t.Errorf("Orientation = %q, want landscape", got.Orientation)
	}
	if got.MarginLeft != "1in" || got.ExcludeFooterPages != "1,2" {
		t.Errorf("options = %+v", got)
	}
	if got.IncludePageNumbers == nil || *got.IncludePageNumbers {
		t.Errorf("IncludePageNumbers = %v, want false", got.IncludePageNumbers)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewLogger
// ---------------------------------------------------------------------------

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("verbose writes debug", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLogger(true, &buf).Debug("polling")
		if !strings.Contains(buf.String(), "polling") {
			t.Errorf("output = %q, want debug line", buf.String())
		}
	})

	t.Run("quiet by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newLogger(false, &buf).Error("boom")
		if buf.Len() != 0 {
			t.Errorf("output = %q, want nothing", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewClient - Client construction from config
// ---------------------------------------------------------------------------

func TestNewClient(t *testing.T) {
	t.Parallel()

	var gotKey string
	var gotOpts int
	env, _, _ := testEnv("")
	env.NewClient = func(apiKey string, opts ...pdfleaf.Option) (apiClient, error) {
		gotKey, gotOpts = apiKey, len(opts)
		return newPDFLeafClient(apiKey, opts...)
	}

	cfg := config.DefaultConfig()
	cfg.API.Key = testAPIKey
	cfg.API.BaseURL = "https://pdf.example.com/"
	cfg.API.Timeout = "5s"
	cfg.Wait.MaxWait = "1m"

	c, err := newClient(cfg, commonFlags{verbose: true}, env)
	if err != nil {
		t.Fatalf("newClient() error = %v", err)
	}

	if gotKey != testAPIKey {
		t.Errorf("api key = %q", gotKey)
	}
	// base URL, user agent, logger, timeout, max wait, status callback
	if gotOpts != 6 {
		t.Errorf("got %d options, want 6", gotOpts)
	}
	if got := c.(*pdfleaf.Client).BaseURL(); got != "https://pdf.example.com" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", got)
	}
}

func TestNewClient_InvalidKey(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv("")
	cfg := config.DefaultConfig()
	cfg.API.Key = "not-a-key"

	if _, err := newClient(cfg, commonFlags{}, env); exitCodeFor(err) != ExitUsage {
		t.Errorf("newClient() error = %v, want usage error", err)
	}
}
