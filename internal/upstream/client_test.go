package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, calls *atomic.Int32, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Execute_Object(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "TokenID=abc&DisplayName=Guest", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"mentions": 42, "score": 0.125}`)) //nolint:errcheck
	})

	c := NewClient(time.Second, discardLogger())
	raw, err := c.Execute(context.Background(), srv.URL+"/GetOverallData?TokenID=abc&DisplayName=Guest")
	require.NoError(t, err)

	obj, ok := raw.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, json.Number("42"), obj["mentions"])
	assert.Equal(t, json.Number("0.125"), obj["score"])
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_Execute_Array(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"a"},{"name":"b"}]`)) //nolint:errcheck
	})

	raw, err := NewClient(time.Second, discardLogger()).Execute(context.Background(), srv.URL)
	require.NoError(t, err)

	list, ok := raw.([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestClient_Execute_Null(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`)) //nolint:errcheck
	})

	raw, err := NewClient(time.Second, discardLogger()).Execute(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClient_Execute_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		kind     Kind
		status   int
		contains string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			kind:     KindStatus,
			status:   http.StatusInternalServerError,
			contains: "HTTP 500",
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			kind:     KindStatus,
			status:   http.StatusNotFound,
			contains: "HTTP 404",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"broken":`)) //nolint:errcheck
			},
			kind:     KindDecode,
			status:   http.StatusOK,
			contains: "malformed JSON",
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>no results found</html>`)) //nolint:errcheck
			},
			kind:     KindDecode,
			status:   http.StatusOK,
			contains: "malformed JSON",
		},
		{
			name:     "empty body",
			handler:  func(w http.ResponseWriter, r *http.Request) {},
			kind:     KindDecode,
			status:   http.StatusOK,
			contains: "empty response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := newTestServer(t, &calls, tt.handler)

			raw, err := NewClient(time.Second, discardLogger()).Execute(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Nil(t, raw)

			var terr *TransportError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.kind, terr.Kind)
			assert.Equal(t, tt.status, terr.StatusCode)
			assert.Contains(t, terr.Error(), tt.contains)
			assert.EqualValues(t, 1, calls.Load(), "expected a single attempt")
		})
	}
}

func TestClient_Execute_Timeout_NoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	c := NewClient(50*time.Millisecond, discardLogger())
	start := time.Now()
	_, err := c.Execute(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, KindTimeout, terr.Kind)
	assert.Contains(t, terr.Error(), "timed out")
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_Execute_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(time.Second, discardLogger()).Execute(context.Background(), addr)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, KindNetwork, terr.Kind)
}

func TestClient_Execute_InvalidURL(t *testing.T) {
	_, err := NewClient(time.Second, discardLogger()).Execute(context.Background(), "://bad")

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, KindNetwork, terr.Kind)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(0, discardLogger()).Timeout())
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t,
		"https://x/GetPosts?TokenID=REDACTED&DisplayName=Guest",
		RedactURL("https://x/GetPosts?TokenID=secret&DisplayName=Guest"))
	assert.Equal(t, "https://x/GetPosts?TokenID=REDACTED", RedactURL("https://x/GetPosts?TokenID=secret"))
}
