// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"os"
	"strings"
)

// ForAPIKey returns hints for a missing or rejected API key.
// Suggests the environment variable only when it is not already set.
func ForAPIKey() string {
	var hints []string

	if os.Getenv("PDFLEAF_API_KEY") == "" {
		hints = append(hints, "set PDFLEAF_API_KEY or use --api-key")
	}
	hints = append(hints, `keys start with "pk_live_" or "pk_test_"`)

	return formatHints(hints)
}

// ForStatus returns a hint matching an HTTP status returned by the service.
func ForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ForAPIKey()
	case http.StatusPaymentRequired:
		return format("monthly quota exhausted; upgrade the plan or wait for the reset")
	case http.StatusTooManyRequests:
		return format("rate limited; lower --workers or retry later")
	case http.StatusRequestEntityTooLarge:
		return format("HTML too large; inline fewer or smaller images")
	}
	return ""
}

// ForTransport returns a hint for network failures.
func ForTransport() string {
	return format("check connectivity and --base-url; use --timeout for slow networks")
}

// ForWaitTimeout returns a hint about increasing the polling budget.
func ForWaitTimeout(jobID string) string {
	hint := "for large documents, use --max-wait"
	if jobID != "" {
		hint += "; the job keeps running, resume with: pdfleaf wait " + jobID
	}
	return format(hint)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/pdfleaf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/pdfleaf) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/pdfleaf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyle lists the available style names.
func ForStyle(available []string) string {
	if len(available) == 0 {
		return format("pass a CSS file path with --style")
	}
	return format("built-in styles: " + strings.Join(available, ", ") + "; or pass a CSS file path")
}

// ForSignature returns hints for webhook signature mismatches.
func ForSignature() string {
	return format("verify the raw body exactly as received with the secret returned by 'webhook create'")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
