package webhook

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"completed", completedBody, nil},
		{"failed", `{"event":"job.failed","job_id":"j","timestamp":"2024-01-01T00:00:00Z","data":{"status":"failed","error":"boom"}}`, nil},
		{"empty", "", ErrEmptyPayload},
		{"not json", "{", ErrInvalidPayload},
		{"unknown event", `{"event":"job.queued","job_id":"j"}`, ErrUnknownEvent},
		{"missing event", `{"job_id":"j"}`, ErrUnknownEvent},
		{"missing job id", `{"event":"job.completed"}`, ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if p.JobID == "" {
				t.Error("JobID empty")
			}
		})
	}
}

func TestParse_FailedCarriesError(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"event":"job.failed","job_id":"j","data":{"status":"failed","error":"boom"}}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Data.Error != "boom" || p.Data.Size != nil {
		t.Errorf("Data = %+v", p.Data)
	}
}

func TestPayloadTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 5, 10, 30, 0, 123000000, time.UTC)

	tests := []struct {
		name      string
		timestamp string
		wantErr   bool
	}{
		{"zulu", "2024-03-05T10:30:00.123Z", false},
		{"offset", "2024-03-05T12:30:00.123+02:00", false},
		{"bare", "2024-03-05T10:30:00.123", false},
		{"garbage", "yesterday", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Payload{Timestamp: tt.timestamp}
			got, err := p.Time()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Time() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Time() error = %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("Time() = %v, want %v", got, want)
			}
		})
	}
}

func TestEvents(t *testing.T) {
	t.Parallel()

	for _, e := range Events() {
		if !e.IsValid() {
			t.Errorf("Events() returned invalid %q", e)
		}
	}
	if Event("job.completed ").IsValid() {
		t.Error("padded event accepted")
	}
}
