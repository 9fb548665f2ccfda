package main

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
)

// loadConfig resolves the effective configuration.
// Priority: CLI flags > env vars > config file > defaults.
// The returned envConfig carries values with no config file equivalent.
func loadConfig(common commonFlags, api apiFlags) (*config.Config, *envConfig, error) {
	envCfg := loadEnvConfig()

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeAPIFlags(api, cfg)

	return cfg, envCfg, nil
}

// mergeAPIFlags merges connection flags into config. CLI values override config values.
func mergeAPIFlags(f apiFlags, cfg *config.Config) {
	if f.key != "" {
		cfg.API.Key = f.key
	}
	if f.baseURL != "" {
		cfg.API.BaseURL = f.baseURL
	}
	if f.timeout != "" {
		cfg.API.Timeout = f.timeout
	}
}

// mergeWaitFlags merges polling flags into config.
func mergeWaitFlags(f waitFlags, cfg *config.Config) {
	if f.pollInterval != "" {
		cfg.Wait.PollInterval = f.pollInterval
	}
	if f.maxWait != "" {
		cfg.Wait.MaxWait = f.maxWait
	}
}

// mergePDFFlags merges rendering flags into config.
// --margin sets all four sides; a side-specific flag wins over it.
func mergePDFFlags(f pdfFlags, cfg *config.Config) {
	if f.pageSize != "" {
		cfg.PDF.PageSize = f.pageSize
	}
	if f.orientation != "" {
		cfg.PDF.Orientation = f.orientation
	}

	if f.margin != "" {
		cfg.PDF.MarginTop = f.margin
		cfg.PDF.MarginBottom = f.margin
		cfg.PDF.MarginLeft = f.margin
		cfg.PDF.MarginRight = f.margin
	}
	if f.marginTop != "" {
		cfg.PDF.MarginTop = f.marginTop
	}
	if f.marginBottom != "" {
		cfg.PDF.MarginBottom = f.marginBottom
	}
	if f.marginLeft != "" {
		cfg.PDF.MarginLeft = f.marginLeft
	}
	if f.marginRight != "" {
		cfg.PDF.MarginRight = f.marginRight
	}

	switch {
	case f.noPageNumbers:
		cfg.PDF.PageNumbers = pdfleaf.Bool(false)
	case f.pageNumbers:
		cfg.PDF.PageNumbers = pdfleaf.Bool(true)
	}

	if f.headerHTML != "" {
		cfg.PDF.HeaderHTML = f.headerHTML
	}
	if f.footerHTML != "" {
		cfg.PDF.FooterHTML = f.footerHTML
	}
	if f.headerHeight != "" {
		cfg.PDF.HeaderHeight = f.headerHeight
	}
	if f.footerHeight != "" {
		cfg.PDF.FooterHeight = f.footerHeight
	}
	if f.excludeHeader != "" {
		cfg.PDF.ExcludeHeaderPages = f.excludeHeader
	}
	if f.excludeFooter != "" {
		cfg.PDF.ExcludeFooterPages = f.excludeFooter
	}
}

// mergeSourceFlags merges HTML preparation flags into config.
func mergeSourceFlags(f sourceFlags, cfg *config.Config) {
	if f.style != "" {
		cfg.Markdown.Style = f.style
	}
	if f.stylesDir != "" {
		cfg.Markdown.StylesDir = f.stylesDir
	}
}

// buildPDFOptions maps the pdf config section onto request options.
func buildPDFOptions(cfg *config.Config) *pdfleaf.PDFOptions {
	p := cfg.PDF
	return &pdfleaf.PDFOptions{
		PageSize:           pdfleaf.PageSize(p.PageSize),
		Orientation:        pdfleaf.Orientation(p.Orientation),
		MarginTop:          p.MarginTop,
		MarginBottom:       p.MarginBottom,
		MarginLeft:         p.MarginLeft,
		MarginRight:        p.MarginRight,
		IncludePageNumbers: p.PageNumbers,
		HeaderHTML:         p.HeaderHTML,
		FooterHTML:         p.FooterHTML,
		HeaderHeight:       p.HeaderHeight,
		FooterHeight:       p.FooterHeight,
		ExcludeHeaderPages: p.ExcludeHeaderPages,
		ExcludeFooterPages: p.ExcludeFooterPages,
	}
}

// newLogger returns a development logger on w when verbose, else a no-op.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
	return zap.New(core)
}

// lockedWriter serializes writes from concurrent conversions.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// newClient builds an API client from the effective config.
// In verbose mode every status read is echoed to env.Stderr.
func newClient(cfg *config.Config, common commonFlags, env *Environment) (apiClient, error) {
	opts := []pdfleaf.Option{
		pdfleaf.WithBaseURL(cfg.API.BaseURL),
		pdfleaf.WithUserAgent("pdfleaf-cli/" + Version),
		pdfleaf.WithLogger(newLogger(common.verbose, env.Stderr)),
	}
	if d := cfg.Timeout(); d > 0 {
		opts = append(opts, pdfleaf.WithTimeout(d))
	}
	if d := cfg.PollInterval(); d > 0 {
		opts = append(opts, pdfleaf.WithPollInterval(d))
	}
	if d := cfg.MaxWait(); d > 0 {
		opts = append(opts, pdfleaf.WithMaxWait(d))
	}
	if common.verbose && !common.quiet {
		w := &lockedWriter{w: env.Stderr}
		opts = append(opts, pdfleaf.WithStatusCallback(func(jobID string, st pdfleaf.JobStatus) {
			fmt.Fprintf(w, "%s: %s\n", jobID, st.Status)
		}))
	}

	return env.NewClient(cfg.API.Key, opts...)
}
