package pdfleaf

import "errors"

// Sentinel errors for library operations.
var (
	ErrAPIKeyRequired = errors.New("API key is required")
	ErrInvalidAPIKey  = errors.New(`invalid API key format, API keys should start with "pk_"`)

	// Job lifecycle errors, wrapped by *Error.
	ErrWaitTimeout      = errors.New("timeout waiting for job completion")
	ErrConversionFailed = errors.New("conversion failed")
	ErrInternal         = errors.New("internal error")

	// PDF options validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")

	// Webhook configuration validation errors.
	ErrInvalidWebhookURL   = errors.New("invalid webhook URL")
	ErrInvalidWebhookEvent = errors.New("invalid webhook event")
)

// Status codes used by *Error that do not come from a server response.
const (
	// StatusTransport marks network failures: DNS, refused connections,
	// per-request timeouts, cancellation.
	StatusTransport = 0

	// StatusWaitTimeout marks a client-side polling timeout. A genuine
	// server 408 carries the same code; tell them apart with IsWaitTimeout.
	StatusWaitTimeout = 408

	// StatusConversionFailed is reported when the server finished a job
	// with status "failed".
	StatusConversionFailed = 500
)

// Error is returned by every Client method that performs network I/O.
// Callers discriminate on Status: 0 for transport failures, otherwise the
// HTTP status forwarded from the server (or one of the client-side codes
// above).
type Error struct {
	Status  int
	Message string
	// Data holds the decoded JSON error body, when the server sent one.
	Data map[string]any
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the Status of the first *Error in err's chain,
// or -1 if there is none.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// IsWaitTimeout reports whether err is a client-side polling timeout
// raised by WaitForCompletion.
func IsWaitTimeout(err error) bool {
	return errors.Is(err, ErrWaitTimeout)
}

// IsTransport reports whether err is a network-level failure (Status 0).
func IsTransport(err error) bool {
	return StatusCode(err) == StatusTransport
}
