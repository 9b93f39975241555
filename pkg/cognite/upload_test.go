package cognite

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadStream_ChunkedWithKnownSize(t *testing.T) {
	t.Parallel()

	const payload = "hello upload"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "*/*", r.Header.Get("Accept"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/octet-stream", r.Header.Get("X-Upload-Content-Type"))
		assert.Equal(t, int64(len(payload)), r.ContentLength)
		assert.Empty(t, r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := UploadStream(context.Background(), server.URL, "application/octet-stream",
		strings.NewReader(payload), true, int64(len(payload)))
	require.NoError(t, err)
}

func TestUploadStream_NonChunkedBuffersEntireBody(t *testing.T) {
	t.Parallel()

	const payload = "buffered payload"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(len(payload)), r.ContentLength)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := UploadStream(context.Background(), server.URL, "", strings.NewReader(payload), false, -1)
	require.NoError(t, err)
}

func TestUploadStream_NonSuccessStatusIsReported(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("expired signature"))
	}))
	defer server.Close()

	err := UploadStream(context.Background(), server.URL, "", strings.NewReader("x"), true, 1)
	require.Error(t, err)

	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindHTTP, cerr.Kind)
	assert.Equal(t, http.StatusForbidden, cerr.Code)
}
