package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
)

// stdinArg selects standard input as the source.
const stdinArg = "-"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string // stdinArg for standard input
	OutputPath string // "" writes the PDF to stdout
}

// supportedExtensions lists the inputs convert accepts.
var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".html":     true,
	".htm":      true,
}

// discoverFiles finds all convertible files under inputPath.
// A single file must carry a supported extension unless forceMarkdown is set;
// directories are walked and unsupported files skipped.
func discoverFiles(inputPath, outputDir string, forceMarkdown bool) ([]FileToConvert, error) {
	if inputPath == stdinArg {
		return []FileToConvert{{InputPath: stdinArg, OutputPath: outputDir}}, nil
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !forceMarkdown {
			if err := validateExtension(inputPath); err != nil {
				return nil, err
			}
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		if !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// resolveOutputPath determines the PDF output path for an input file.
// An outputDir ending in .pdf is used as the file path itself.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".pdf")
	}

	if strings.HasSuffix(outputDir, ".pdf") {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".pdf")
		}
	}

	return filepath.Join(outputDir, base+".pdf")
}

// validateExtension checks that the file is Markdown or HTML.
func validateExtension(path string) error {
	ext := filepath.Ext(path)
	if !supportedExtensions[strings.ToLower(ext)] {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > pdfleaf.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, pdfleaf.MaxWorkers)
	}
	return nil
}

// htmlOutputPath returns the HTML path corresponding to a PDF path.
func htmlOutputPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, ".pdf") + ".html"
}
