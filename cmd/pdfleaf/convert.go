package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/assets"
	"github.com/rodrigonormandia/go-pdfleaf/internal/fileutil"
	"github.com/rodrigonormandia/go-pdfleaf/internal/pipeline"
)

// filePermissions is rw-r--r--: owner read+write, others read.
const filePermissions = 0o644

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// preparedFile is a discovered file after local HTML preparation.
type preparedFile struct {
	FileToConvert
	html string
	err  error
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, envCfg, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return err
	}
	mergeWaitFlags(flags.wait, cfg)
	mergePDFFlags(flags.pdf, cfg)
	mergeSourceFlags(flags.source, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}

	if len(positional) == 0 {
		return ErrNoInput
	}

	outputDir := flags.output
	if outputDir == "" && !isStdin(positional) {
		outputDir = cfg.Output.DefaultDir
	}

	var files []FileToConvert
	for _, input := range positional {
		found, err := discoverFiles(input, outputDir, flags.source.markdown)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no Markdown or HTML files found in %s", ErrNoInput, strings.Join(positional, ", "))
	}
	if len(files) > 1 && strings.HasSuffix(outputDir, ".pdf") {
		return fmt.Errorf("%w: --output %q names a file but %d inputs were found", ErrUsage, outputDir, len(files))
	}

	css, err := resolveCSS(cfg.Markdown.Style, cfg.Markdown.StylesDir)
	if err != nil {
		return err
	}

	preparer := pipeline.NewPreparer(pipeline.NewGoldmarkConverter(flags.source.codeStyle))
	prepared := prepareFiles(ctx, preparer, files, css, flags.source.markdown, env.Stdin)

	var results []ConversionResult
	if flags.htmlOnly {
		results = writeHTMLOnly(prepared, env.Stdout)
	} else {
		client, err := newClient(cfg, flags.common, env)
		if err != nil {
			return err
		}
		results = convertPrepared(ctx, client, prepared, buildPDFOptions(cfg), workers, flags.html, env.Stdout)
	}

	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
}

func isStdin(args []string) bool {
	return len(args) == 1 && args[0] == stdinArg
}

// resolveCSS turns a style setting into CSS content.
// A value with a path separator or a .css suffix is read from disk, a value
// containing "{" is inline CSS, anything else is a style name looked up in
// stylesDir and then among the built-in styles.
func resolveCSS(style, stylesDir string) (string, error) {
	if style == "" {
		return "", nil
	}

	if fileutil.IsFilePath(style) || strings.HasSuffix(strings.ToLower(style), ".css") {
		data, err := os.ReadFile(style) // #nosec G304 -- path comes from the user's own flags or config
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		return string(data), nil
	}

	if strings.Contains(style, "{") {
		return style, nil
	}

	resolver, err := assets.NewResolver(stylesDir)
	if err != nil {
		return "", err
	}
	css, err := resolver.LoadStyle(style)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", style, err)
	}
	return css, nil
}

// prepareFiles reads each input and turns it into self-contained HTML.
// Failures are recorded per file so one bad input does not stop the batch.
func prepareFiles(ctx context.Context, p *pipeline.Preparer, files []FileToConvert, css string, forceMarkdown bool, stdin io.Reader) []preparedFile {
	out := make([]preparedFile, len(files))
	for i, f := range files {
		out[i].FileToConvert = f

		src, err := readSource(f.InputPath, stdin)
		if err != nil {
			out[i].err = err
			continue
		}
		src.CSS = css
		src.Markdown = forceMarkdown

		out[i].html, out[i].err = p.Prepare(ctx, src)
	}
	return out
}

// readSource loads one input; stdin resolves assets against the working directory.
func readSource(path string, stdin io.Reader) (pipeline.Source, error) {
	if path == stdinArg {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return pipeline.Source{}, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return pipeline.Source{Content: string(data), BaseDir: "."}, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path was discovered from user input
	if err != nil {
		return pipeline.Source{}, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return pipeline.Source{
		Name:    path,
		Content: string(data),
		BaseDir: filepath.Dir(path),
	}, nil
}

// convertPrepared submits every prepared file through ConvertBatch and
// writes the resulting PDFs. Results keep the input order.
func convertPrepared(ctx context.Context, client apiClient, prepared []preparedFile, opts *pdfleaf.PDFOptions, workers int, keepHTML bool, stdout io.Writer) []ConversionResult {
	results := make([]ConversionResult, len(prepared))

	var items []pdfleaf.BatchItem
	var index []int
	for i, p := range prepared {
		results[i] = ConversionResult{InputPath: p.InputPath, OutputPath: p.OutputPath, Err: p.err}
		if p.err != nil {
			continue
		}
		items = append(items, pdfleaf.BatchItem{Name: p.InputPath, HTML: p.html, Options: opts})
		index = append(index, i)
	}

	for j, br := range client.ConvertBatch(ctx, items, workers) {
		i := index[j]
		results[i].Duration = br.Duration
		if br.Err != nil {
			results[i].Err = br.Err
			continue
		}
		results[i].Err = writeOutput(prepared[i].OutputPath, br.PDF, stdout)
		if results[i].Err == nil && keepHTML && prepared[i].OutputPath != "" {
			results[i].Err = writeOutput(htmlOutputPath(prepared[i].OutputPath), []byte(prepared[i].html), stdout)
		}
	}

	return results
}

// writeHTMLOnly writes prepared HTML next to where the PDF would go.
func writeHTMLOnly(prepared []preparedFile, stdout io.Writer) []ConversionResult {
	results := make([]ConversionResult, len(prepared))
	for i, p := range prepared {
		out := p.OutputPath
		if out != "" {
			out = htmlOutputPath(out)
		}
		results[i] = ConversionResult{InputPath: p.InputPath, OutputPath: out, Err: p.err}
		if p.err == nil {
			results[i].Err = writeOutput(out, []byte(p.html), stdout)
		}
	}
	return results
}

// writeOutput writes data atomically to path, or to stdout when path is "".
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: stdout: %w", ErrWritePDF, err)
		}
		return nil
	}
	if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWritePDF, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results and returns the failure count.
// Results written to stdout are not announced.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			// A lone failure is returned to the caller and reported there.
			if len(results) > 1 {
				fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			}
			continue
		}

		if quiet || r.OutputPath == "" {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stderr, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stderr, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stderr, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
