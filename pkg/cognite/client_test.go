package cognite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
)

func TestNew_ValidatesRequiredFields(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)
	assert.Equal(t, KindBadConfig, err.(*Error).Kind)

	_, err = New(Config{Project: "p", AppName: "a"})
	require.Error(t, err)
	assert.Equal(t, KindBadConfig, err.(*Error).Kind)
}

func TestClient_Get_HappyPath(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/my-proj/assets/1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "my-app", r.Header.Get("x-cdp-app"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"externalId":"asset-1"}`))
	}))
	defer server.Close()

	cli, err := New(Config{
		BaseURL: server.URL,
		Project: "my-proj",
		AppName: "my-app",
		Auth:    auth.FixedToken{Token: "tok"},
	})
	require.NoError(t, err)

	type asset struct {
		ExternalID string `json:"externalId"`
	}

	got, err := DecodeJSON[asset](cli.Get("/assets/1").AcceptJSON().Send(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, "asset-1", got.ExternalID)
}

func TestClient_Post_MapsAPIErrorByStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-request-id", "req-123")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":409,"message":"duplicate external id"}}`))
	}))
	defer server.Close()

	cli, err := New(Config{
		BaseURL: server.URL,
		Project: "my-proj",
		AppName: "my-app",
		Auth:    auth.FixedToken{Token: "tok"},
	})
	require.NoError(t, err)

	_, err = cli.Post("/assets").JSON(map[string]string{"externalId": "dup"}).AcceptJSON().Send(context.Background())
	require.Error(t, err)

	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindConflict, cerr.Kind)
	assert.Equal(t, "req-123", cerr.RequestID)
	assert.Equal(t, "409: duplicate external id. RequestId: req-123", cerr.Error())
}
