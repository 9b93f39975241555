package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
	"github.com/cognitedata-community/cognite-sdk-go/internal/constants"
)

// retryClass is the outcome of classifying a response/error pair for the
// retry middleware (spec §4.2).
type retryClass int

const (
	classNone retryClass = iota
	classTransient
	classFatal
	classUnauthorized
)

// ctxRetryStateKey is the context key under which the per-request retry
// state (currently just the "have we already retried a 401" flag) lives.
// Storing it in the request's own context, rather than on the Client,
// keeps it request-scoped even though a single Client serves many
// concurrent requests.
type ctxRetryStateKey struct{}

type retryState struct {
	retriedUnauthorized bool
}

func withRetryState(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxRetryStateKey{}, &retryState{})
}

func retryStateFrom(ctx context.Context) *retryState {
	if s, ok := ctx.Value(ctxRetryStateKey{}).(*retryState); ok {
		return s
	}
	// Called outside of doRetryable, e.g. from a test exercising checkRetry
	// directly. Falling back to a throwaway state keeps the function total
	// rather than panicking.
	return &retryState{}
}

// checkRetry implements retryablehttp.CheckRetry: classify the outcome and
// retry on Transient, retry at most once on Unauthorized, never retry
// Fatal or a successful (None) response. retryablehttp's own RetryMax
// still bounds the total attempt count on top of this.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	state := retryStateFrom(ctx)

	switch classify(resp, err) {
	case classTransient:
		return true, nil
	case classUnauthorized:
		if state.retriedUnauthorized {
			return false, nil
		}

		state.retriedUnauthorized = true

		return true, nil
	case classFatal, classNone:
		return false, nil
	default:
		return false, nil
	}
}

// classify maps a response/error pair to a retryClass per spec §4.2:
// network-level timeouts and connection errors, 5xx/408/429 responses,
// and any response carrying the cdf-is-auto-retryable: true header are
// Transient; a 401 is Unauthorized (retried at most once); everything
// else — including redirect and request-construction failures — is
// Fatal.
func classify(resp *http.Response, err error) retryClass {
	if err != nil {
		if isTransientError(err) {
			return classTransient
		}

		return classFatal
	}

	if resp == nil {
		return classFatal
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return classNone
	case resp.StatusCode == http.StatusUnauthorized:
		return classUnauthorized
	case resp.StatusCode >= 500, resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusTooManyRequests:
		return classTransient
	case strings.EqualFold(resp.Header.Get(constants.HeaderAutoRetryable), "true"):
		return classTransient
	default:
		return classFatal
	}
}

// isTransientError distinguishes network-level I/O failures (worth
// retrying) from errors raised by the auth middleware or while building
// the request or following redirects (not worth retrying: a bad
// credential or a malformed request fails identically on the next
// attempt). http.Client always wraps a RoundTrip/redirect error in
// *url.Error, which itself satisfies net.Error regardless of what it
// wraps, so the underlying cause is unwrapped before the net.Error check.
func isTransientError(err error) bool {
	if errors.Is(err, auth.ErrAuthenticatorFailure) || errors.Is(err, auth.ErrInvalidHeaderValue) {
		return false
	}

	cause := err

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}

	var netErr net.Error

	return errors.As(cause, &netErr)
}
