package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
	"github.com/rodrigonormandia/go-pdfleaf/internal/assets"
	"github.com/rodrigonormandia/go-pdfleaf/internal/config"
	"github.com/rodrigonormandia/go-pdfleaf/internal/fileutil"
	"github.com/rodrigonormandia/go-pdfleaf/internal/hints"
	"github.com/rodrigonormandia/go-pdfleaf/internal/pipeline"
)

// Exit codes for the pdfleaf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitAPI     = 4 // Service rejected the request or was unreachable
	ExitJob     = 5 // Conversion failed or did not finish in time
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	// Job outcome (exit 5), checked before ExitAPI since both carry *pdfleaf.Error
	if pdfleaf.IsWaitTimeout(err) || errors.Is(err, pdfleaf.ErrConversionFailed) {
		return ExitJob
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWritePDF) ||
		errors.Is(err, fileutil.ErrPathIsDirectory) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, pipeline.ErrAssetTooLarge) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrMissingArgument) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrMissingSecret) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidDuration) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, pdfleaf.ErrAPIKeyRequired) ||
		errors.Is(err, pdfleaf.ErrInvalidAPIKey) ||
		errors.Is(err, pdfleaf.ErrInvalidPageSize) ||
		errors.Is(err, pdfleaf.ErrInvalidOrientation) ||
		errors.Is(err, pdfleaf.ErrInvalidWebhookURL) ||
		errors.Is(err, pdfleaf.ErrInvalidWebhookEvent) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, pipeline.ErrEmptyContent) {
		return ExitUsage
	}

	// Service and transport errors (exit 4)
	var apiErr *pdfleaf.Error
	if errors.As(err, &apiErr) {
		return ExitAPI
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	if errors.As(err, &notFound) {
		return hints.ForConfigNotFound(notFound.Tried)
	}

	if errors.Is(err, pdfleaf.ErrAPIKeyRequired) || errors.Is(err, pdfleaf.ErrInvalidAPIKey) {
		return hints.ForAPIKey()
	}

	if pdfleaf.IsWaitTimeout(err) {
		var je *jobError
		if errors.As(err, &je) {
			return hints.ForWaitTimeout(je.JobID)
		}
		return hints.ForWaitTimeout("")
	}

	if errors.Is(err, assets.ErrStyleNotFound) {
		return hints.ForStyle(assets.Names())
	}

	if errors.Is(err, ErrSignatureMismatch) {
		return hints.ForSignature()
	}

	if errors.Is(err, ErrWritePDF) {
		return hints.ForOutputDirectory()
	}

	var apiErr *pdfleaf.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == pdfleaf.StatusTransport {
			return hints.ForTransport()
		}
		return hints.ForStatus(apiErr.Status)
	}

	return ""
}
