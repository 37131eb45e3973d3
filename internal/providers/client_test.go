package providers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerlens/internal/providers"
)

func TestGetJSON_DecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","count":3}`))
	}))
	defer srv.Close()

	var out struct {
		Status string `json:"status"`
		Count  int    `json:"count"`
	}
	err := providers.GetJSON(context.Background(), srv.Client(), srv.URL,
		map[string]string{"X-Api-Key": "secret"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, 3, out.Count)
}

func TestGetJSON_NonOKBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := providers.GetJSON(context.Background(), srv.Client(), srv.URL, nil, &out)
	require.Error(t, err)

	assert.Equal(t, providers.FailureRateLimited, providers.Classify(err))
	assert.Contains(t, err.Error(), "slow down")
}

func TestGetJSON_GarbageBodyIsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := providers.GetJSON(context.Background(), srv.Client(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, providers.FailureMalformed, providers.Classify(err))
}

func TestGetJSON_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out map[string]interface{}
	err := providers.GetJSON(ctx, srv.Client(), srv.URL, nil, &out)
	assert.Error(t, err)
}
