package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrEmptyContent is returned when the source has no content.
var ErrEmptyContent = errors.New("content cannot be empty")

// Source is one local document to prepare.
type Source struct {
	// Name is the file name, used to detect Markdown by extension. May be empty.
	Name string
	// Content is the raw Markdown or HTML.
	Content string
	// BaseDir resolves relative asset references. Empty disables inlining.
	BaseDir string
	// CSS is injected as a <style> block. Optional.
	CSS string
	// Markdown forces Markdown conversion regardless of Name.
	Markdown bool
}

// IsMarkdown reports whether s is converted from Markdown.
func (s Source) IsMarkdown() bool {
	if s.Markdown {
		return true
	}
	switch strings.ToLower(filepath.Ext(s.Name)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}

// Preparer turns local sources into self-contained HTML.
type Preparer struct {
	converter HTMLConverter
}

// NewPreparer creates a Preparer. A nil converter selects a GoldmarkConverter
// with class-based highlighting.
func NewPreparer(converter HTMLConverter) *Preparer {
	if converter == nil {
		converter = NewGoldmarkConverter("")
	}
	return &Preparer{converter: converter}
}

// Prepare converts Markdown if needed, injects CSS and inlines local assets.
func (p *Preparer) Prepare(ctx context.Context, src Source) (string, error) {
	if strings.TrimSpace(src.Content) == "" {
		return "", ErrEmptyContent
	}

	htmlContent := src.Content
	if src.IsMarkdown() {
		var err error
		htmlContent, err = p.converter.ToHTML(ctx, PreprocessMarkdown(ctx, src.Content))
		if err != nil {
			return "", err
		}
	}

	htmlContent = InjectCSS(ctx, htmlContent, src.CSS)

	inlined, err := InlineLocalAssets(htmlContent, src.BaseDir)
	if err != nil {
		return "", fmt.Errorf("inlining assets: %w", err)
	}
	return inlined, nil
}
