package main

import (
	"errors"
	"fmt"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrMissingArgument    = errors.New("missing argument")
	ErrNoInput            = errors.New("no input specified")
	ErrReadInput          = errors.New("failed to read input file")
	ErrReadCSS            = errors.New("failed to read CSS file")
	ErrWritePDF           = errors.New("failed to write PDF file")
	ErrInvalidExtension   = errors.New("file must be .md, .markdown, .html or .htm")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrBatchFailed        = errors.New("conversions failed")
	ErrMissingSecret      = errors.New("webhook secret is required")
	ErrSignatureMismatch  = errors.New("signature does not match")
)

// jobError ties an error to the job it happened on, so hints can point at
// the job id.
type jobError struct {
	JobID string
	Err   error
}

func (e *jobError) Error() string {
	return fmt.Sprintf("job %s: %v", e.JobID, e.Err)
}

func (e *jobError) Unwrap() error {
	return e.Err
}

// usageError wraps a flag parsing error so it maps to ExitUsage.
func usageError(err error) error {
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
