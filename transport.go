package pdfleaf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxErrorBodySize caps how much of an error response is read.
const maxErrorBodySize = 1 << 20

// doJSON sends a JSON request and decodes a JSON response into out.
// body and out may be nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	data, err := c.do(ctx, method, path, payload, "application/json")
	if err != nil {
		return err
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{
			Status:  StatusTransport,
			Message: fmt.Sprintf("decoding response from %s %s: %v", method, path, err),
			Err:     err,
		}
	}
	return nil
}

// do performs one request under the per-request timeout and returns the
// raw response body of a 2xx response. Any other outcome is an *Error.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, accept string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, &Error{Status: StatusTransport, Message: err.Error(), Err: err}
	}

	requestID := uuid.NewString()
	c.setHeaders(req, payload != nil, accept, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, transportError(ctx, reqCtx, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, responseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, reqCtx, err)
	}
	return data, nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool, accept, requestID string) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-SDK-Version", SDKVersion)
	req.Header.Set("X-SDK-Platform", SDKPlatform)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
}

// transportError classifies a failed round trip. The per-request deadline
// expiring while the caller's context is still live is reported as
// "request timeout"; everything else keeps the cause's text.
func transportError(parent, reqCtx context.Context, err error) *Error {
	if parent.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return &Error{
			Status:  StatusTransport,
			Message: "request timeout",
			Err:     fmt.Errorf("%w: %v", context.DeadlineExceeded, err),
		}
	}
	return &Error{Status: StatusTransport, Message: err.Error(), Err: err}
}

// responseError builds an *Error from a non-2xx response, preferring the
// server's "detail" field as the message.
func responseError(resp *http.Response) *Error {
	apiErr := &Error{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return apiErr
	}
	apiErr.Data = data

	if detail, ok := data["detail"].(string); ok && detail != "" {
		apiErr.Message = detail
	}
	return apiErr
}
