package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// DefaultMaxBodyBytes caps the size of a delivery body read by Handler.
const DefaultMaxBodyBytes = 1 << 20

// HandlerFunc processes a verified delivery. A returned error makes the
// handler answer 500 so the service records the delivery as failed.
type HandlerFunc func(ctx context.Context, p *Payload) error

// Handler is an http.Handler that verifies each delivery before handing the
// decoded payload to a HandlerFunc.
type Handler struct {
	secret       string
	fn           HandlerFunc
	maxBodyBytes int64
	logger       *zap.Logger
}

// Compile-time interface implementation check.
var _ http.Handler = (*Handler)(nil)

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
// Panics if n <= 0.
func WithMaxBodyBytes(n int64) HandlerOption {
	if n <= 0 {
		panic("webhook: WithMaxBodyBytes must be positive")
	}
	return func(h *Handler) {
		h.maxBodyBytes = n
	}
}

// WithHandlerLogger logs rejected and accepted deliveries.
func WithHandlerLogger(l *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler returns a Handler verifying deliveries against secret, the
// value returned once when the webhook was created.
func NewHandler(secret string, fn HandlerFunc, opts ...HandlerOption) *Handler {
	h := &Handler{
		secret:       secret,
		fn:           fn,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP answers 405 for non-POST requests, 413 for oversized bodies,
// 401 for a missing or wrong signature, 400 for an undecodable payload,
// 500 when the HandlerFunc fails, and 200 otherwise.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, `{"error":"method not allowed"}`)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, `{"error":"payload too large"}`)
			return
		}
		writeJSON(w, http.StatusBadRequest, `{"error":"unreadable body"}`)
		return
	}

	delivery := r.Header.Get(DeliveryHeader)
	if !Verify(body, r.Header.Get(SignatureHeader), h.secret) {
		h.logger.Warn("webhook signature rejected", zap.String("delivery", delivery))
		writeJSON(w, http.StatusUnauthorized, `{"error":"invalid signature"}`)
		return
	}

	p, err := Parse(body)
	if err != nil {
		h.logger.Warn("webhook payload rejected", zap.String("delivery", delivery), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, `{"error":"invalid payload"}`)
		return
	}

	if h.fn != nil {
		if err := h.fn(r.Context(), p); err != nil {
			h.logger.Error("webhook handler failed",
				zap.String("delivery", delivery),
				zap.String("job_id", p.JobID),
				zap.Error(err),
			)
			writeJSON(w, http.StatusInternalServerError, `{"error":"handler failed"}`)
			return
		}
	}

	h.logger.Info("webhook received",
		zap.String("delivery", delivery),
		zap.String("event", string(p.Event)),
		zap.String("job_id", p.JobID),
	)
	writeJSON(w, http.StatusOK, `{"received":true}`)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
