package pipeline

// Notes:
// - Goldmark output is checked by substring: exact markup differs between
//   goldmark releases and is not what these tests are about
// - The cancellation test uses an already-cancelled context; racing a live
//   conversion against a deadline would be flaky

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGoldmarkConverter
// ---------------------------------------------------------------------------

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		markdown     string
		style        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:     "heading becomes title",
			markdown: "# Quarterly Report\n\nBody text.",
			wantContains: []string{
				"<!DOCTYPE html>",
				"<title>Quarterly Report</title>",
				`<h1 id="quarterly-report">Quarterly Report</h1>`,
			},
		},
		{
			name:         "no heading uses default title",
			markdown:     "just text",
			wantContains: []string{"<title>Document</title>"},
		},
		{
			name:         "title is escaped",
			markdown:     "# A & B",
			wantContains: []string{"<title>A &amp; B</title>"},
		},
		{
			name:         "gfm table",
			markdown:     "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:         "raw html escaped",
			markdown:     "<script>alert(1)</script>",
			wantExcludes: []string{"<script>"},
		},
		{
			name:         "code block uses classes by default",
			markdown:     "```go\nfunc main() {}\n```",
			wantContains: []string{`class="chroma"`},
		},
		{
			name:         "code block with named style uses inline colors",
			markdown:     "```go\nfunc main() {}\n```",
			style:        "monokai",
			wantContains: []string{"style="},
		},
		{
			name:         "highlight placeholders converted",
			markdown:     PreprocessMarkdown(context.Background(), "an ==important== word"),
			wantContains: []string{"<mark>important</mark>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewGoldmarkConverter(tt.style).ToHTML(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
			for _, bad := range tt.wantExcludes {
				if strings.Contains(got, bad) {
					t.Errorf("output contains %q:\n%s", bad, got)
				}
			}
		})
	}
}

func TestGoldmarkConverter_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkConverter("").ToHTML(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ToHTML() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestPreprocessMarkdown
// ---------------------------------------------------------------------------

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"crlf", "a\r\nb", "a\nb"},
		{"bare cr", "a\rb", "a\nb"},
		{"bom stripped", "\uFEFF# Title", "# Title"},
		{"blank lines capped", "a\n\n\n\n\nb", "a\n\nb"},
		{"highlight", "==hot==", MarkStartPlaceholder + "hot" + MarkEndPlaceholder},
		{"highlight with spaces inside", "==very hot==", MarkStartPlaceholder + "very hot" + MarkEndPlaceholder},
		{"comparison untouched", "if a == b == c", "if a == b == c"},
		{"across lines untouched", "==a\nb==", "==a\nb=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PreprocessMarkdown(context.Background(), tt.input); got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := PreprocessMarkdown(ctx, "a\r\nb"); got != "a\r\nb" {
		t.Errorf("PreprocessMarkdown() = %q, want input unchanged", got)
	}
}
