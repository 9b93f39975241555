package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
)

func TestClient_Do_HappyPath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/assets", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "42", r.URL.Query().Get("limit"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "test-token"})

	resp, err := c.Do(context.Background(), &Request{
		Method: http.MethodGet,
		Path:   "/assets",
		Query:  url.Values{"limit": []string{"42"}},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"items":[]}`, string(resp.Body))
}

func TestClient_Do_RetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "t"},
		WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestClient_Do_PersistentFailureExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "t"},
		WithRetryConfig(3, time.Millisecond, 5*time.Millisecond))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	// RetryMax=3 means 4 total attempts (the original plus three retries).
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestClient_Do_SingleUnauthorizedRetryPicksUpRefreshedToken(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		assert.Equal(t, "Bearer refreshed", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	src := &refreshingSource{tokens: []string{"stale", "refreshed"}}

	c := NewClient(server.URL, src, WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_TwoConsecutiveUnauthorizedStopsAfterSecondAttempt(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "t"},
		WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_FatalStatusIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "t"},
		WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Do_AutoRetryableHeaderForcesRetry(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.Header().Set("cdf-is-auto-retryable", "true")
			w.WriteHeader(http.StatusConflict)

			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "t"},
		WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_Do_StreamBodyBypassesRetry(t *testing.T) {
	t.Parallel()

	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(server.URL, auth.FixedToken{Token: "t"},
		WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	body := newOneShotReader("payload")

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodPut, Path: "/x", Stream: body})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNewClient_WithTimeoutAppliesToDefaultHTTPClient(t *testing.T) {
	t.Parallel()

	c := NewClient("https://example.com", auth.FixedToken{Token: "t"}, WithTimeout(7*time.Second))

	require.NotNil(t, c.retryable.HTTPClient)
	assert.Equal(t, 7*time.Second, c.retryable.HTTPClient.Timeout)
}

func TestNewClient_WithTimeoutOverridesSuppliedHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{Timeout: 45 * time.Second}
	c := NewClient("https://example.com", auth.FixedToken{Token: "t"},
		WithHTTPClient(custom), WithTimeout(2*time.Second))

	assert.Equal(t, 2*time.Second, c.retryable.HTTPClient.Timeout)
	// The caller's own client must not be mutated.
	assert.Equal(t, 45*time.Second, custom.Timeout)
}

func TestClient_Do_AuthFailureIsNotRetried(t *testing.T) {
	t.Parallel()

	var serverCalls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&serverCalls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	failingAuth := &failingSource{err: fmt.Errorf("%w: bad client secret", auth.ErrAuthenticatorFailure)}

	c := NewClient(server.URL, failingAuth,
		WithRetryConfig(5, time.Millisecond, 5*time.Millisecond))

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&failingAuth.calls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&serverCalls))
}

// failingSource always fails to set headers, simulating a hard credential
// failure (e.g. a rejected client secret) that should surface immediately
// rather than be retried as if it were a connectivity error.
type failingSource struct {
	err   error
	calls int32
}

func (f *failingSource) SetHeaders(context.Context, http.Header) error {
	atomic.AddInt32(&f.calls, 1)

	return f.err
}

// refreshingSource hands out tokens[0] on the first call and tokens[len-1]
// on every call thereafter, simulating a credential source whose backing
// token was refreshed after a 401.
type refreshingSource struct {
	tokens []string
	calls  int32
}

func (r *refreshingSource) SetHeaders(_ context.Context, headers http.Header) error {
	i := atomic.AddInt32(&r.calls, 1) - 1
	if int(i) >= len(r.tokens) {
		i = int32(len(r.tokens) - 1)
	}

	headers.Set("Authorization", "Bearer "+r.tokens[i])

	return nil
}

type oneShotReader struct {
	data []byte
	pos  int
}

func newOneShotReader(s string) *oneShotReader {
	return &oneShotReader{data: []byte(s)}
}

func (o *oneShotReader) Read(p []byte) (int, error) {
	if o.pos >= len(o.data) {
		return 0, io.EOF
	}

	n := copy(p, o.data[o.pos:])
	o.pos += n

	return n, nil
}
