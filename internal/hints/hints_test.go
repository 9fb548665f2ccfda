package hints

// Notes:
// - ForAPIKey tests cannot use t.Parallel() because they use t.Setenv()
//   which modifies process environment.

import (
	"net/http"
	"strings"
	"testing"
)

func TestForAPIKey_EnvUnset(t *testing.T) {
	t.Setenv("PDFLEAF_API_KEY", "")

	hint := ForAPIKey()

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint = %q, want hint prefix", hint)
	}
	if !strings.Contains(hint, "PDFLEAF_API_KEY") {
		t.Error("expected PDFLEAF_API_KEY suggestion")
	}
	if !strings.Contains(hint, "pk_") {
		t.Error("expected key format reminder")
	}
}

func TestForAPIKey_EnvSet(t *testing.T) {
	t.Setenv("PDFLEAF_API_KEY", "pk_test_x")

	hint := ForAPIKey()

	if strings.Contains(hint, "PDFLEAF_API_KEY") {
		t.Error("should not suggest PDFLEAF_API_KEY when already set")
	}
}

func TestForStatus(t *testing.T) {
	t.Setenv("PDFLEAF_API_KEY", "")

	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "PDFLEAF_API_KEY"},
		{http.StatusPaymentRequired, "quota"},
		{http.StatusTooManyRequests, "--workers"},
		{http.StatusRequestEntityTooLarge, "too large"},
		{http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		got := ForStatus(tt.status)
		if tt.want == "" {
			if got != "" {
				t.Errorf("ForStatus(%d) = %q, want empty", tt.status, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("ForStatus(%d) = %q, want it to contain %q", tt.status, got, tt.want)
		}
	}
}

func TestForWaitTimeout(t *testing.T) {
	t.Parallel()

	if got := ForWaitTimeout("job-1"); !strings.Contains(got, "pdfleaf wait job-1") {
		t.Errorf("ForWaitTimeout() = %q, want resume command", got)
	}
	if got := ForWaitTimeout(""); strings.Contains(got, "pdfleaf wait") {
		t.Errorf("ForWaitTimeout(\"\") = %q, want no resume command", got)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains []string
		excludes []string
	}{
		{
			name:     "with user config path",
			paths:    []string{"work.yaml", "/home/u/.config/pdfleaf/work.yaml"},
			contains: []string{"--config", "or create /home/u/.config/pdfleaf/work.yaml"},
		},
		{
			name:     "without user config path",
			paths:    []string{"work.yaml"},
			contains: []string{"--config"},
			excludes: []string{"or create"},
		},
		{
			name:     "nil paths",
			paths:    nil,
			contains: []string{"--config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			for _, s := range tt.contains {
				if !strings.Contains(hint, s) {
					t.Errorf("hint %q missing %q", hint, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(hint, s) {
					t.Errorf("hint %q should not contain %q", hint, s)
				}
			}
		})
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"transport": ForTransport(),
		"output":    ForOutputDirectory(),
		"signature": ForSignature(),
		"style":     ForStyle([]string{"default"}),
		"no styles": ForStyle(nil),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s hint = %q, want hint prefix", name, hint)
		}
	}
}

func TestFormatHints_Empty(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}
