// Package cognite implements the CDF request execution pipeline: request
// building and response handling (JSON/protobuf/raw/empty), cursor and
// partitioned pagination, the Identity and Patch/Update data model, and
// the error taxonomy those layers report through. Authentication and
// retry/transport concerns live in internal/auth and internal/transport;
// this package is the public surface resource-specific collaborators are
// built on (see resources/ for illustrative examples).
package cognite

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
	"github.com/cognitedata-community/cognite-sdk-go/internal/constants"
	"github.com/cognitedata-community/cognite-sdk-go/internal/transport"
)

// Logger is the structured logging sink the client and its collaborators
// report through.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}

// Config resolves the settings a Client is built from — the C10 client
// facade's fluent-builder surface collapsed into a single struct, mirroring
// the teacher's cfclient.Config shape.
type Config struct {
	// BaseURL is the CDF API base, e.g. "https://api.cognitedata.com". It
	// is combined with Project to form "<BaseURL>/api/v1/projects/<Project>".
	BaseURL string

	// Project is the CDF project slug. Required.
	Project string

	// AppName is sent as x-cdp-app on every request. Required.
	AppName string

	// Auth is the credential source used to authenticate requests.
	// Required: New fails BadConfig("auth required") when nil.
	Auth auth.Source

	// HTTPClient optionally supplies a pre-built transport, e.g. one with
	// custom TLS configuration or a shared connection pool.
	HTTPClient *http.Client

	// MaxRetries, MaxRetryDelay, and Timeout configure the retry policy and
	// overall per-request timeout. Zero values fall back to
	// internal/constants defaults.
	MaxRetries    int
	MaxRetryDelay time.Duration
	Timeout       time.Duration

	// Logger and Debug control request/response logging.
	Logger Logger
	Debug  bool
}

// validate checks the required fields and returns a BadConfig Error
// describing the first problem found.
func (c Config) validate() error {
	if c.Project == "" {
		return newPlainError(KindBadConfig, "project is required", nil)
	}

	if c.AppName == "" {
		return newPlainError(KindBadConfig, "appName is required", nil)
	}

	if c.Auth == nil {
		return newPlainError(KindBadConfig, "auth required", nil)
	}

	return nil
}

// Client wires the credential source, retry/auth transport, and request
// builder together and resolves the CDF project base path.
type Client struct {
	transport *transport.Client
	project   string
	appName   string
	logger    Logger
}

// New builds a Client from cfg, validating required fields and applying
// configured defaults. baseURL defaults to the public CDF API when unset.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.cognitedata.com"
	}

	projectBase := fmt.Sprintf("%s/api/v1/projects/%s", trimTrailingSlash(baseURL), cfg.Project)

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = constants.DefaultRetryMax
	}

	maxRetryDelay := cfg.MaxRetryDelay
	if maxRetryDelay == 0 {
		maxRetryDelay = constants.DefaultMaxRetryDelay
	}

	opts := []transport.Option{
		transport.WithLogger(transportLoggerAdapter{logger}),
		transport.WithDebug(cfg.Debug),
		transport.WithRetryConfig(maxRetries, constants.DefaultInitialRetryDelay, maxRetryDelay),
		transport.WithTimeout(cfg.Timeout),
	}

	if cfg.HTTPClient != nil {
		opts = append(opts, transport.WithHTTPClient(cfg.HTTPClient))
	}

	tc := transport.NewClient(projectBase, cfg.Auth, opts...)

	return &Client{
		transport: tc,
		project:   cfg.Project,
		appName:   cfg.AppName,
		logger:    logger,
	}, nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}

	return s
}

func (c *Client) userAgent() string {
	return "cognite-sdk-go/" + constants.SDKVersion
}

// Project returns the CDF project this client is scoped to.
func (c *Client) Project() string { return c.project }

// NewRequest begins building a single-use request against path, relative
// to the client's project base URL.
func (c *Client) NewRequest(method, path string) *Request {
	return newRequest(c, method, path)
}

// Get begins a GET request builder.
func (c *Client) Get(path string) *Request { return c.NewRequest(http.MethodGet, path) }

// Post begins a POST request builder.
func (c *Client) Post(path string) *Request { return c.NewRequest(http.MethodPost, path) }

// Put begins a PUT request builder.
func (c *Client) Put(path string) *Request { return c.NewRequest(http.MethodPut, path) }

// Delete begins a DELETE request builder.
func (c *Client) Delete(path string) *Request { return c.NewRequest(http.MethodDelete, path) }

// transportLoggerAdapter adapts the wider cognite.Logger (Debug/Info/Warn/
// Error) down to transport.Logger (Debug/Error only).
type transportLoggerAdapter struct {
	l Logger
}

func (a transportLoggerAdapter) Debug(msg string, fields map[string]interface{}) {
	a.l.Debug(msg, fields)
}

func (a transportLoggerAdapter) Error(msg string, fields map[string]interface{}) {
	a.l.Error(msg, fields)
}
