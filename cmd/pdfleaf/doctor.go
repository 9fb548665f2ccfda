package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
)

// doctorProbeTimeout bounds the connectivity probe when no timeout is configured.
const doctorProbeTimeout = 10 * time.Second

// ErrNotReady is returned by doctor when at least one check failed.
var ErrNotReady = errors.New("not ready (see errors above)")

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	API      apiInfo    `json:"api"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo describes where the configuration came from.
type configInfo struct {
	Source string `json:"source"` // file path, or "defaults"
	Valid  bool   `json:"valid"`
}

// apiInfo holds key and connectivity results. The key itself is never reported.
type apiInfo struct {
	BaseURL       string `json:"base_url"`
	KeyConfigured bool   `json:"key_configured"`
	KeyMode       string `json:"key_mode,omitempty"` // "live", "test"
	Reachable     bool   `json:"reachable"`
	Authenticated bool   `json:"authenticated"`
	LatencyMs     int64  `json:"latency_ms,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	Container     bool     `json:"container"`
	ContainerHint string   `json:"container_hint,omitempty"`
	CI            bool     `json:"ci"`
	UnknownVars   []string `json:"unknown_vars,omitempty"`
}

// systemInfo holds local filesystem checks.
type systemInfo struct {
	TempWritable   bool   `json:"temp_writable"`
	OutputDir      string `json:"output_dir,omitempty"`
	OutputWritable bool   `json:"output_writable,omitempty"`
}

// runDoctor executes the doctor command.
func runDoctor(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	result := diagnose(ctx, flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ErrNotReady
	}
	return nil
}

// diagnose performs all checks. It never fails: problems become entries in
// Errors or Warnings.
func diagnose(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	cfg := checkConfig(result, flags)
	checkAPI(ctx, result, cfg, flags, env)
	checkEnvironment(result)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkConfig loads and validates the effective configuration. A broken
// config is reported and the remaining checks run against defaults.
func checkConfig(result *doctorResult, flags *doctorFlags) *config.Config {
	result.Config.Source = "defaults"
	if name := flags.common.config; name != "" {
		result.Config.Source = name
	} else if name := os.Getenv("PDFLEAF_CONFIG"); name != "" {
		result.Config.Source = name
	}

	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
		applyEnvConfig(loadEnvConfig(), cfg)
		mergeAPIFlags(flags.api, cfg)
		return cfg
	}
	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return cfg
	}
	result.Config.Valid = true
	return cfg
}

// checkAPI verifies the key format, then makes one authenticated read-only
// request to tell an unreachable service from a rejected key.
func checkAPI(ctx context.Context, result *doctorResult, cfg *config.Config, flags *doctorFlags, env *Environment) {
	result.API.BaseURL = pdfleaf.DefaultBaseURL
	if cfg.API.BaseURL != "" {
		result.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	}

	key := cfg.API.Key
	if key == "" {
		result.Errors = append(result.Errors, "API key not set. Set PDFLEAF_API_KEY or use --api-key")
		return
	}
	result.API.KeyConfigured = true
	switch {
	case strings.HasPrefix(key, "pk_live_"):
		result.API.KeyMode = "live"
	case strings.HasPrefix(key, "pk_test_"):
		result.API.KeyMode = "test"
	}

	client, err := newClient(cfg, flags.common, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	if result.API.KeyMode == "" {
		result.Warnings = append(result.Warnings, `API key has no "pk_live_" or "pk_test_" prefix`)
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = doctorProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := env.Now()
	_, err = client.ListWebhooks(probeCtx)
	result.API.LatencyMs = env.Now().Sub(start).Milliseconds()

	var apiErr *pdfleaf.Error
	switch {
	case err == nil:
		result.API.Reachable = true
		result.API.Authenticated = true
	case errors.As(err, &apiErr) && apiErr.Status == pdfleaf.StatusTransport:
		result.Errors = append(result.Errors, fmt.Sprintf("Service unreachable at %s: %v", result.API.BaseURL, err))
	case errors.As(err, &apiErr) && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden):
		result.API.Reachable = true
		result.Errors = append(result.Errors, fmt.Sprintf("API key rejected: %v", err))
	default:
		result.API.Reachable = true
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unexpected answer from the service: %v", err))
	}
}

// checkEnvironment detects container and CI environments and stray
// PDFLEAF_* variables.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	result.Env.UnknownVars = unknownEnvVars()
	for _, name := range result.Env.UnknownVars {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown environment variable %s (typo?)", name))
	}

	if result.Env.CI && os.Getenv("PDFLEAF_API_KEY") == "" && result.API.KeyConfigured {
		result.Warnings = append(result.Warnings, "CI detected with the API key outside PDFLEAF_API_KEY; avoid committing keys to config files")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory and, when configured, the
// default output directory are writable.
func checkSystem(result *doctorResult, cfg *config.Config) {
	if dirWritable(os.TempDir()) {
		result.System.TempWritable = true
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
	}

	if dir := cfg.Output.DefaultDir; dir != "" && !strings.HasSuffix(dir, ".pdf") {
		result.System.OutputDir = dir
		if dirWritable(dir) {
			result.System.OutputWritable = true
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Output directory %s is missing or not writable", dir))
		}
	}
}

func dirWritable(dir string) bool {
	f, err := os.CreateTemp(dir, ".pdfleaf-doctor-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfleaf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Source: %s\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Service")
	fmt.Fprintf(w, "  [OK] Base URL: %s\n", r.API.BaseURL)
	switch {
	case !r.API.KeyConfigured:
		fmt.Fprintln(w, "  [ERROR] API key: not set")
	case r.API.KeyMode != "":
		fmt.Fprintf(w, "  [OK] API key: %s mode\n", r.API.KeyMode)
	default:
		fmt.Fprintln(w, "  [OK] API key: set")
	}
	if r.API.KeyConfigured {
		switch {
		case r.API.Authenticated:
			fmt.Fprintf(w, "  [OK] Authenticated (%d ms)\n", r.API.LatencyMs)
		case r.API.Reachable:
			fmt.Fprintln(w, "  [ERROR] Reachable, not authenticated")
		default:
			fmt.Fprintln(w, "  [ERROR] Unreachable")
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	if r.System.OutputDir != "" {
		if r.System.OutputWritable {
			fmt.Fprintf(w, "  [OK] Output directory: %s\n", r.System.OutputDir)
		} else {
			fmt.Fprintf(w, "  [WARN] Output directory: %s\n", r.System.OutputDir)
		}
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready")
	}
}
