// Package constants centralizes small tunables shared across the client so
// defaults live in one place instead of being repeated at each call site.
package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default overall per-request timeout applied
	// by the transport when the caller does not configure one.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is a shorter timeout for quick out-of-band calls.
	// Nothing in the module applies it at present: the OIDC token exchange
	// runs through http.DefaultClient, which has no timeout.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits and backoff, per spec §4.2.
const (
	// DefaultRetryMax is the default maximum number of retries. The spec
	// clamps any configured value to MaxRetryCeiling.
	DefaultRetryMax = 5

	// MaxRetryCeiling is the hard ceiling maxRetries is clamped to.
	MaxRetryCeiling = 10

	// DefaultInitialRetryDelay is the base delay for the first retry.
	DefaultInitialRetryDelay = 125 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff.
	DefaultMaxRetryDelay = 30 * time.Second
)

// Pagination.
const (
	// DefaultListLimit is the page size requested when a caller does not
	// specify one for list-style endpoints.
	DefaultListLimit = 100

	// DefaultParallelismLimit bounds concurrent partition/task execution
	// when a caller does not specify one.
	DefaultParallelismLimit = 4
)

// HTTP header names used throughout the request pipeline.
const (
	HeaderAutoRetryable = "cdf-is-auto-retryable"
	HeaderRequestID     = "x-request-id"
	HeaderSDK           = "x-cdp-sdk"
	HeaderApp           = "x-cdp-app"

	// HeaderClientRequestID is a client-generated correlation id attached
	// to every outbound request; all retry attempts of one request share
	// it. CDF does not interpret it; it exists so a logged
	// MiddlewareFailure or transport error can be tied back to the request
	// that produced it.
	HeaderClientRequestID = "x-cognite-sdk-request-id"
)

// SDKVersion is embedded in the User-Agent and x-cdp-sdk headers.
const SDKVersion = "0.1.0"
