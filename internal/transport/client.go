// Package transport implements the authenticated, retry-aware HTTP
// execution layer the rest of the client is built on: C2 (retry) and C3
// (auth) from the request execution pipeline. Resource- and wire-format
// concerns (JSON/protobuf encoding, pagination) live one layer up in
// pkg/cognite; this package only knows about bytes, headers, and status
// codes.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
	"github.com/cognitedata-community/cognite-sdk-go/internal/constants"
)

// ErrMiddlewareFailure wraps failures raised by the auth or retry
// middleware itself, as opposed to the underlying HTTP transport.
var ErrMiddlewareFailure = errors.New("middleware failure")

// Logger is the structured logging sink the transport reports to. It
// mirrors the shape used throughout the rest of the client so a single
// adapter (internal/logging) can satisfy every layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Error(string, map[string]interface{}) {}

// Request is a transport-level request: method, path (relative to the
// client's base URL), headers, query parameters, and a body that is
// either fully buffered or, for the rare case of an unbounded stream, a
// reader that cannot be safely retried.
type Request struct {
	Method  string
	Path    string
	Headers http.Header
	Query   url.Values
	Body    []byte

	// Stream, when non-nil, is used verbatim as the body and disables the
	// retry middleware for this request (a streaming body cannot be
	// rewound for a second attempt, matching the "if the request cannot be
	// cloned, run once" rule in the retry contract).
	Stream io.Reader
}

// Response is the raw, fully-read outcome of a transport.Client.Do call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes Requests through the auth and retry middleware chain
// against a fixed base URL.
type Client struct {
	baseURL      string
	auth         auth.Source
	retryable    *retryablehttp.Client
	plainHTTP    *http.Client
	logger       Logger
	userAgent    string
	debug        bool
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithDebug enables verbose request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithUserAgent overrides the default User-Agent header value.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient supplies a pre-built *http.Client as the transport, e.g.
// one with custom TLS configuration or a connection pool shared with other
// code.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.plainHTTP = h }
}

// WithTimeout overrides the overall per-request timeout. It applies
// whether or not a custom HTTP client was supplied via WithHTTPClient. A
// zero d leaves the underlying client's own timeout untouched
// (constants.DefaultHTTPTimeout for the default client).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetryConfig sets the retry policy. maxRetries is clamped to
// constants.MaxRetryCeiling.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		if maxRetries > constants.MaxRetryCeiling {
			maxRetries = constants.MaxRetryCeiling
		}

		c.retryMax = maxRetries
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// NewClient builds a Client for the given base URL and credential source.
func NewClient(baseURL string, source auth.Source, opts ...Option) *Client {
	c := &Client{
		baseURL:      baseURL,
		auth:         source,
		logger:       noopLogger{},
		userAgent:    "cognite-sdk-go/" + constants.SDKVersion,
		retryMax:     constants.DefaultRetryMax,
		retryWaitMin: constants.DefaultInitialRetryDelay,
		retryWaitMax: constants.DefaultMaxRetryDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.plainHTTP == nil {
		c.plainHTTP = cleanhttp.DefaultPooledClient()
		c.plainHTTP.Timeout = constants.DefaultHTTPTimeout
	}

	base := *c.plainHTTP
	if c.timeout > 0 {
		base.Timeout = c.timeout
	}

	base.Transport = &authRoundTripper{
		next:   cloneOrDefaultTransport(c.plainHTTP.Transport),
		source: c.auth,
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &base
	rc.RetryMax = c.retryMax
	rc.RetryWaitMin = c.retryWaitMin
	rc.RetryWaitMax = c.retryWaitMax
	rc.CheckRetry = checkRetry
	rc.Backoff = jitteredBackoff
	// Once retries are exhausted, hand back the last response (e.g. the
	// final 503) instead of retryablehttp's default "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil // logging goes through our own Logger, not retryablehttp's

	c.retryable = rc

	return c
}

func cloneOrDefaultTransport(t http.RoundTripper) http.RoundTripper {
	if t != nil {
		return t
	}

	return cleanhttp.DefaultPooledTransport()
}

// Do executes req, applying auth headers before every attempt and retrying
// transient failures per the configured policy. A request carrying a
// Stream body bypasses the retry middleware entirely and is sent once.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req.Stream != nil {
		return c.doOnce(ctx, req)
	}

	return c.doRetryable(ctx, req)
}

func (c *Client) buildURL(req *Request) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMiddlewareFailure, err)
	}

	u.Path = joinPath(u.Path, req.Path)

	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	return u.String(), nil
}

func joinPath(base, p string) string {
	switch {
	case base == "":
		return p
	case len(p) > 0 && p[0] == '/':
		return base + p
	default:
		return base + "/" + p
	}
}

// mandatoryHeaders sets the headers every outbound request carries
// regardless of auth/accept/body, plus a client-generated correlation id
// (constants.HeaderClientRequestID) that has no bearing on CDF's own
// behavior but lets a caller tie a logged MiddlewareFailure or transport
// error back to the Do call that produced it. The id is generated once per
// Do call; retries of that call carry the same id.
func (c *Client) mandatoryHeaders(h http.Header) string {
	h.Set("User-Agent", c.userAgent)
	h.Set(constants.HeaderSDK, "go-sdk-v"+constants.SDKVersion)

	id := uuid.NewString()
	h.Set(constants.HeaderClientRequestID, id)

	return id
}

func (c *Client) doRetryable(ctx context.Context, req *Request) (*Response, error) {
	ctx = withRetryState(ctx)

	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	rreq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrMiddlewareFailure, err)
	}

	copyHeaders(rreq.Header, req.Headers)
	clientReqID := c.mandatoryHeaders(rreq.Header)

	if c.debug {
		c.logger.Debug("sending request", map[string]interface{}{"method": req.Method, "path": req.Path, "request_id": clientReqID})
	}

	resp, err := c.retryable.Do(rreq)
	if err != nil {
		c.logger.Error("request failed", map[string]interface{}{"method": req.Method, "path": req.Path, "request_id": clientReqID, "error": err.Error()})

		return nil, fmt.Errorf("%w: [%s] %w", ErrMiddlewareFailure, clientReqID, err)
	}
	defer resp.Body.Close()

	return readResponse(resp)
}

// doOnce sends req exactly once, bypassing the retry client, for bodies
// that cannot be safely replayed (stream uploads).
func (c *Client) doOnce(ctx context.Context, req *Request) (*Response, error) {
	fullURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, req.Stream)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrMiddlewareFailure, err)
	}

	copyHeaders(httpReq.Header, req.Headers)
	c.mandatoryHeaders(httpReq.Header)

	if c.auth != nil {
		if err := c.auth.SetHeaders(ctx, httpReq.Header); err != nil {
			return nil, err
		}
	}

	resp, err := c.plainHTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMiddlewareFailure, err)
	}
	defer resp.Body.Close()

	return readResponse(resp)
}

func readResponse(resp *http.Response) (*Response, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

func copyHeaders(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// authRoundTripper applies the configured credential source before every
// attempt, including retries, so a mid-flight token refresh is picked up
// on the next attempt (C3, run immediately before C2 hands off to the
// transport on each attempt).
type authRoundTripper struct {
	next   http.RoundTripper
	source auth.Source
}

func (a *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if a.source != nil {
		if err := a.source.SetHeaders(req.Context(), req.Header); err != nil {
			return nil, err
		}
	}

	return a.next.RoundTrip(req)
}
