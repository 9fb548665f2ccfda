package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for payload decoding.
var (
	ErrEmptyPayload   = errors.New("webhook payload is empty")
	ErrInvalidPayload = errors.New("invalid webhook payload")
	ErrUnknownEvent   = errors.New("unknown webhook event")
)

// Event names a webhook subscription and delivery type.
type Event string

// Events.
const (
	EventJobCompleted Event = "job.completed"
	EventJobFailed    Event = "job.failed"
)

// Events returns every event the service can deliver.
func Events() []Event {
	return []Event{EventJobCompleted, EventJobFailed}
}

// IsValid reports whether e is a known event.
func (e Event) IsValid() bool {
	switch e {
	case EventJobCompleted, EventJobFailed:
		return true
	}
	return false
}

// Payload is the JSON body of a delivery. It is untrusted until the raw
// bytes it was decoded from have passed Verify.
type Payload struct {
	Event     Event  `json:"event"`
	JobID     string `json:"job_id"`
	Timestamp string `json:"timestamp"` // ISO-8601, UTC
	Data      Data   `json:"data"`
}

// Data carries the job outcome.
type Data struct {
	Status           string `json:"status"`
	Size             *int64 `json:"size,omitempty"`
	ProcessingTimeMs *int64 `json:"processing_time_ms,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Time parses Timestamp. The service omits the offset on some versions, so
// a bare timestamp is read as UTC.
func (p *Payload) Time() (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, p.Timestamp); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", p.Timestamp, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing webhook timestamp %q: %w", p.Timestamp, err)
	}
	return t, nil
}

// Parse decodes a delivery body. Call it only after Verify succeeded on the
// same bytes.
func Parse(body []byte) (*Payload, error) {
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if !p.Event.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, p.Event)
	}
	if p.JobID == "" {
		return nil, fmt.Errorf("%w: missing job_id", ErrInvalidPayload)
	}
	return &p, nil
}
