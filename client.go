package pdfleaf

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client defaults.
const (
	DefaultBaseURL      = "https://htmltopdf.buscarid.com"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMaxWait      = 60 * time.Second

	// SDKVersion is sent in X-SDK-Version.
	SDKVersion = "1.0.0"
	// SDKPlatform is sent in X-SDK-Platform.
	SDKPlatform = "go"

	apiKeyPrefix = "pk_"
)

// HTTPClient is the transport the Client sends requests through.
// *http.Client satisfies it; tests and alternative runtimes inject their own.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusFunc observes each status read while waiting for a job.
type StatusFunc func(jobID string, status JobStatus)

// Client talks to the conversion API.
//
// All fields are set at construction and never mutated afterwards, so one
// Client may serve any number of concurrent conversions. Per-call state
// (job id, timers) lives on the caller's stack.
type Client struct {
	apiKey       string
	baseURL      string
	timeout      time.Duration
	pollInterval time.Duration
	maxWait      time.Duration
	userAgent    string
	httpClient   HTTPClient
	logger       *zap.Logger
	onStatus     StatusFunc
}

// Option configures a Client.
type Option func(*Client)

// NewClient creates a Client for the given API key.
// Returns ErrAPIKeyRequired if apiKey is empty and ErrInvalidAPIKey if it
// does not carry the "pk_" prefix.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if !strings.HasPrefix(apiKey, apiKeyPrefix) {
		return nil, ErrInvalidAPIKey
	}

	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		timeout:      DefaultTimeout,
		pollInterval: DefaultPollInterval,
		maxWait:      DefaultMaxWait,
		userAgent:    "pdfleaf-go/" + SDKVersion,
		httpClient:   http.DefaultClient,
		logger:       zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithBaseURL overrides the API origin. A trailing slash is ignored.
// An empty url keeps the default.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithTimeout bounds each individual HTTP request.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("pdfleaf: WithTimeout duration must be positive")
	}
	return func(c *Client) {
		c.timeout = d
	}
}

// WithPollInterval sets the delay between status checks used by Convert.
// Panics if d <= 0.
func WithPollInterval(d time.Duration) Option {
	if d <= 0 {
		panic("pdfleaf: WithPollInterval duration must be positive")
	}
	return func(c *Client) {
		c.pollInterval = d
	}
}

// WithMaxWait sets how long Convert waits for a terminal state.
// Panics if d <= 0.
func WithMaxWait(d time.Duration) Option {
	if d <= 0 {
		panic("pdfleaf: WithMaxWait duration must be positive")
	}
	return func(c *Client) {
		c.maxWait = d
	}
}

// WithHTTPClient replaces the transport. A nil client keeps the default.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger enables debug logging of requests and polls.
// The API key is never logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatusCallback registers fn to be called after every status read in
// WaitForCompletion (and therefore Convert). fn runs on the caller's
// goroutine and must not block for long.
func WithStatusCallback(fn StatusFunc) Option {
	return func(c *Client) {
		c.onStatus = fn
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// BaseURL returns the API origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
