package main

import (
	"context"
	"fmt"
	"io"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
)

// jobArg returns the single job id argument.
func jobArg(cmd string, positional []string) (string, error) {
	if len(positional) != 1 || positional[0] == "" {
		return "", fmt.Errorf("%w: %s takes exactly one job id", ErrMissingArgument, cmd)
	}
	return positional[0], nil
}

// jobCommand is the parsed state shared by status, wait and download.
type jobCommand struct {
	flags  *jobFlags
	cfg    *config.Config
	jobID  string
	client apiClient
}

// setupJobCommand parses flags and builds a client for status, wait and download.
func setupJobCommand(name string, args []string, env *Environment) (*jobCommand, error) {
	flags, positional, err := parseJobFlags(name, args, env.Stderr)
	if err != nil {
		return nil, err
	}
	jobID, err := jobArg(name, positional)
	if err != nil {
		return nil, err
	}

	cfg, _, err := loadConfig(flags.common, flags.api)
	if err != nil {
		return nil, err
	}
	mergeWaitFlags(flags.wait, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(cfg, flags.common, env)
	if err != nil {
		return nil, err
	}
	return &jobCommand{flags: flags, cfg: cfg, jobID: jobID, client: client}, nil
}

// runStatus prints the current state of a job.
func runStatus(ctx context.Context, args []string, env *Environment) error {
	cmd, err := setupJobCommand("status", args, env)
	if err != nil {
		return err
	}

	status, err := cmd.client.GetStatus(ctx, cmd.jobID)
	if err != nil {
		return &jobError{JobID: cmd.jobID, Err: err}
	}

	printStatus(env.Stdout, cmd.jobID, status)
	return nil
}

// runWait polls a job until it finishes and downloads the PDF when -o is given.
func runWait(ctx context.Context, args []string, env *Environment) error {
	cmd, err := setupJobCommand("wait", args, env)
	if err != nil {
		return err
	}
	jobID := cmd.jobID

	// Zero durations select the library defaults.
	status, err := cmd.client.WaitForCompletion(ctx, jobID, cmd.cfg.PollInterval(), cmd.cfg.MaxWait())
	if err != nil {
		return &jobError{JobID: jobID, Err: err}
	}

	if status.Status == pdfleaf.StateFailed {
		msg := status.Error
		if msg == "" {
			msg = "Conversion failed"
		}
		return &jobError{JobID: jobID, Err: &pdfleaf.Error{
			Status:  pdfleaf.StatusConversionFailed,
			Message: msg,
			Err:     pdfleaf.ErrConversionFailed,
		}}
	}

	if cmd.flags.output == "" {
		if !cmd.flags.common.quiet {
			printStatus(env.Stdout, jobID, status)
		}
		return nil
	}
	return downloadTo(ctx, cmd.client, jobID, cmd.flags.output, cmd.flags.common.quiet, env)
}

// runDownload fetches the PDF of a finished job.
func runDownload(ctx context.Context, args []string, env *Environment) error {
	cmd, err := setupJobCommand("download", args, env)
	if err != nil {
		return err
	}

	output := cmd.flags.output
	if output == "" {
		output = cmd.jobID + ".pdf"
	}
	return downloadTo(ctx, cmd.client, cmd.jobID, output, cmd.flags.common.quiet, env)
}

// downloadTo writes the job's PDF to output; "-" writes to stdout.
func downloadTo(ctx context.Context, client apiClient, jobID, output string, quiet bool, env *Environment) error {
	pdf, err := client.Download(ctx, jobID)
	if err != nil {
		return &jobError{JobID: jobID, Err: err}
	}

	if output == stdinArg {
		output = ""
	}
	if err := writeOutput(output, pdf, env.Stdout); err != nil {
		return err
	}
	if !quiet && output != "" {
		fmt.Fprintf(env.Stderr, "Created %s\n", output)
	}
	return nil
}

// printStatus writes one line per job: id, state, then size or error.
func printStatus(w io.Writer, jobID string, st *pdfleaf.JobStatus) {
	switch {
	case st.Size != nil:
		fmt.Fprintf(w, "%s\t%s\t%d bytes\n", jobID, st.Status, *st.Size)
	case st.Error != "":
		fmt.Fprintf(w, "%s\t%s\t%s\n", jobID, st.Status, st.Error)
	default:
		fmt.Fprintf(w, "%s\t%s\n", jobID, st.Status)
	}
}
