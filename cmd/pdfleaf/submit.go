package main

import (
	"context"
	"fmt"

	"github.com/rodrigonormandia/go-pdfleaf/internal/pipeline"
)

// runSubmit prepares one input, creates a job, and prints its id without
// waiting. Pair with 'pdfleaf wait'.
func runSubmit(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseSubmitFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: submit takes exactly one input file or -", ErrMissingArgument)
	}

	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return err
	}
	mergePDFFlags(flags.pdf, cfg)
	mergeSourceFlags(flags.source, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	input := positional[0]
	if input != stdinArg && !flags.source.markdown {
		if err := validateExtension(input); err != nil {
			return err
		}
	}

	css, err := resolveCSS(cfg.Markdown.Style, cfg.Markdown.StylesDir)
	if err != nil {
		return err
	}
	src, err := readSource(input, env.Stdin)
	if err != nil {
		return err
	}
	src.CSS = css
	src.Markdown = flags.source.markdown

	html, err := pipeline.NewPreparer(pipeline.NewGoldmarkConverter(flags.source.codeStyle)).Prepare(ctx, src)
	if err != nil {
		return err
	}

	client, err := newClient(cfg, flags.common, env)
	if err != nil {
		return err
	}

	resp, err := client.Submit(ctx, html, buildPDFOptions(cfg))
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, resp.JobID)
	if flags.common.verbose && !flags.common.quiet {
		if q := resp.Quota; q != nil {
			fmt.Fprintf(env.Stderr, "quota: %d/%d used, %d remaining\n", q.Used, q.Limit, q.Remaining)
		}
		if rl := resp.RateLimit; rl != nil {
			fmt.Fprintf(env.Stderr, "rate limit: %d/%d remaining, resets at %d\n", rl.Remaining, rl.Limit, rl.Reset)
		}
	}
	return nil
}
