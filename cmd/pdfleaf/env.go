package main

import (
	"context"
	"io"
	"os"
	"time"

	pdfleaf "github.com/rodrigonormandia/go-pdfleaf"
)

// apiClient is the subset of *pdfleaf.Client the commands use.
type apiClient interface {
	Submit(ctx context.Context, html string, opts *pdfleaf.PDFOptions) (*pdfleaf.ConversionResponse, error)
	GetStatus(ctx context.Context, jobID string) (*pdfleaf.JobStatus, error)
	Download(ctx context.Context, jobID string) ([]byte, error)
	WaitForCompletion(ctx context.Context, jobID string, pollInterval, maxWait time.Duration) (*pdfleaf.JobStatus, error)
	ConvertBatch(ctx context.Context, items []pdfleaf.BatchItem, workers int) []pdfleaf.BatchResult
	CreateWebhook(ctx context.Context, cfg pdfleaf.WebhookConfig) (*pdfleaf.Webhook, error)
	ListWebhooks(ctx context.Context) ([]pdfleaf.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
}

// Compile-time interface implementation check.
var _ apiClient = (*pdfleaf.Client)(nil)

// ClientFactory builds an apiClient. Swapped out in tests.
type ClientFactory func(apiKey string, opts ...pdfleaf.Option) (apiClient, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and client construction.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	Stdin     io.Reader
	NewClient ClientFactory
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Stdin:     os.Stdin,
		NewClient: newPDFLeafClient,
	}
}

func newPDFLeafClient(apiKey string, opts ...pdfleaf.Option) (apiClient, error) {
	c, err := pdfleaf.NewClient(apiKey, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}
