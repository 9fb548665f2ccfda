package pdfleaf

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("%w: job j1", ErrWaitTimeout)
	err := &Error{Status: StatusWaitTimeout, Message: "Timeout waiting for job completion", Err: cause}

	if err.Error() != "Timeout waiting for job completion" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrWaitTimeout) {
		t.Error("errors.Is(err, ErrWaitTimeout) = false")
	}
	if got := fmt.Sprintf("%v", err); got != "Timeout waiting for job completion" {
		t.Errorf("%%v = %q", got)
	}
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, -1},
		{"plain error", errors.New("x"), -1},
		{"transport", &Error{Status: 0}, 0},
		{"http", &Error{Status: 404}, 404},
		{"wrapped", fmt.Errorf("converting: %w", &Error{Status: 429}), 429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsWaitTimeout(t *testing.T) {
	t.Parallel()

	// A server 408 shares the status code but is not a polling timeout.
	server408 := &Error{Status: 408, Message: "Request Timeout"}
	if IsWaitTimeout(server408) {
		t.Error("server 408 reported as wait timeout")
	}

	client408 := &Error{Status: 408, Err: ErrWaitTimeout}
	if !IsWaitTimeout(client408) {
		t.Error("client 408 not reported as wait timeout")
	}
}

func TestIsTransport(t *testing.T) {
	t.Parallel()

	if IsTransport(context.Canceled) {
		t.Error("bare context error reported as transport *Error")
	}
	if !IsTransport(&Error{Status: 0, Err: context.Canceled}) {
		t.Error("Status 0 not reported as transport")
	}
	if IsTransport(&Error{Status: 500}) {
		t.Error("Status 500 reported as transport")
	}
}
