package pdfleaf

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// API paths.
const (
	pathConvert  = "/api/v1/convert"
	pathJobs     = "/api/v1/jobs/"
	pathWebhooks = "/api/v1/webhooks"
)

// Submit creates a conversion job and returns without waiting for it.
// Only the non-zero fields of opts are sent. There is no client-side limit
// on the HTML size; the server is authoritative.
func (c *Client) Submit(ctx context.Context, html string, opts *PDFOptions) (*ConversionResponse, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var resp ConversionResponse
	if err := c.doJSON(ctx, http.MethodPost, pathConvert, newConvertRequest(html, opts), &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("job submitted", zap.String("job_id", resp.JobID))
	return &resp, nil
}

// GetStatus reads the current state of a job. Nothing is cached; an unknown
// id surfaces as the server's HTTP error.
func (c *Client) GetStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	var status JobStatus
	if err := c.doJSON(ctx, http.MethodGet, jobPath(jobID), nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Download fetches the PDF of a job. The job state is not checked first:
// downloading an unfinished job surfaces as the server's HTTP error.
func (c *Client) Download(ctx context.Context, jobID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, jobPath(jobID)+"/download", nil, "application/pdf")
}

// WaitForCompletion polls GetStatus every pollInterval until the job reaches
// a terminal state, and returns that status. Zero durations select
// DefaultPollInterval and DefaultMaxWait.
//
// If maxWait elapses first, the returned *Error has Status 408 and wraps
// ErrWaitTimeout. The last sleep is clamped to the remaining budget, so the
// call returns within roughly one request of maxWait. A failed poll request
// is returned immediately, never retried.
func (c *Client) WaitForCompletion(ctx context.Context, jobID string, pollInterval, maxWait time.Duration) (*JobStatus, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	start := time.Now()
	polls := 0
	for time.Since(start) < maxWait {
		status, err := c.GetStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		polls++

		c.logger.Debug("job status",
			zap.String("job_id", jobID),
			zap.String("status", string(status.Status)),
			zap.Int("poll", polls),
		)
		if c.onStatus != nil {
			c.onStatus(jobID, *status)
		}

		if status.Status.IsTerminal() {
			return status, nil
		}

		remaining := maxWait - time.Since(start)
		if remaining <= 0 {
			break
		}
		if err := sleep(ctx, min(pollInterval, remaining)); err != nil {
			return nil, &Error{Status: StatusTransport, Message: err.Error(), Err: err}
		}
	}

	return nil, &Error{
		Status:  StatusWaitTimeout,
		Message: "Timeout waiting for job completion",
		Err:     fmt.Errorf("%w: job %s after %v", ErrWaitTimeout, jobID, maxWait),
	}
}

// Convert submits html, waits for the job, and downloads the PDF.
// A job that ends "failed" is returned as an *Error carrying the server's
// message (Status 500, wrapping ErrConversionFailed); no download is
// attempted. A panic raised by a status callback is recovered and returned
// as an *Error with Status 0 wrapping ErrInternal.
func (c *Client) Convert(ctx context.Context, html string, opts *PDFOptions) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf = nil
			err = &Error{
				Status:  StatusTransport,
				Message: fmt.Sprintf("internal error: %v", r),
				Err:     fmt.Errorf("%w: %v", ErrInternal, r),
			}
		}
	}()

	job, err := c.Submit(ctx, html, opts)
	if err != nil {
		return nil, err
	}

	status, err := c.WaitForCompletion(ctx, job.JobID, c.pollInterval, c.maxWait)
	if err != nil {
		return nil, err
	}

	if status.Status == StateFailed {
		msg := status.Error
		if msg == "" {
			msg = "Conversion failed"
		}
		return nil, &Error{
			Status:  StatusConversionFailed,
			Message: msg,
			Err:     fmt.Errorf("%w: job %s", ErrConversionFailed, job.JobID),
		}
	}

	return c.Download(ctx, job.JobID)
}

func jobPath(jobID string) string {
	return pathJobs + url.PathEscape(jobID)
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
