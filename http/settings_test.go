package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/scratches"
	scratcheshttp "github.com/fwojciec/scratches/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time verification that SettingsClient implements scratches.SettingsStore
var _ scratches.SettingsStore = (*scratcheshttp.SettingsClient)(nil)

// syncServer is an in-memory settings endpoint.
type syncServer struct {
	mu       sync.Mutex
	doc      []byte
	token    string
	requests int
}

func (s *syncServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if r.URL.Path != "/settings" {
		http.NotFound(w, r)
		return
	}
	if s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if s.doc == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(s.doc)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		s.doc = data
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestSettingsClient_ReadSettings(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND when nothing is stored", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(&syncServer{})
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL)

		_, err := c.ReadSettings(context.Background())
		require.Error(t, err)
		assert.Equal(t, scratches.ENOTFOUND, scratches.ErrorCode(err))
	})

	t.Run("returns stored document", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(&syncServer{doc: []byte(`{"titleFormat":"h2"}`)})
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL + "/")

		data, err := c.ReadSettings(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"titleFormat":"h2"}`, string(data))
	})

	t.Run("treats empty body as not found", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(&syncServer{doc: []byte("  ")})
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL)

		_, err := c.ReadSettings(context.Background())
		assert.Equal(t, scratches.ENOTFOUND, scratches.ErrorCode(err))
	})

	t.Run("returns EUNAUTHORIZED for a bad token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(&syncServer{doc: []byte(`{}`), token: "secret"})
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL, scratcheshttp.WithToken("wrong"))

		_, err := c.ReadSettings(context.Background())
		assert.Equal(t, scratches.EUNAUTHORIZED, scratches.ErrorCode(err))
	})

	t.Run("returns error with body for server failures", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "database down", http.StatusInternalServerError)
		}))
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL)

		_, err := c.ReadSettings(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
		assert.Contains(t, err.Error(), "database down")
	})

	t.Run("rejects oversized documents", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat(" ", scratcheshttp.MaxSettingsSize+1)))
		}))
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL)

		_, err := c.ReadSettings(context.Background())
		assert.Equal(t, scratches.EINVALID, scratches.ErrorCode(err))
	})

	t.Run("returns EINVALID without a base URL", func(t *testing.T) {
		t.Parallel()

		c := scratcheshttp.NewSettingsClient("")

		_, err := c.ReadSettings(context.Background())
		assert.Equal(t, scratches.EINVALID, scratches.ErrorCode(err))
	})
}

func TestSettingsClient_WriteSettings(t *testing.T) {
	t.Parallel()

	t.Run("round trips through the endpoint", func(t *testing.T) {
		t.Parallel()

		srv := &syncServer{token: "secret"}
		server := httptest.NewServer(srv)
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL, scratcheshttp.WithToken("secret"))
		ctx := context.Background()

		require.NoError(t, c.WriteSettings(ctx, []byte(`{"titleFormat":"bold"}`)))

		data, err := c.ReadSettings(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"titleFormat":"bold"}`, string(data))
	})

	t.Run("maps rejected documents to EINVALID", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad template", http.StatusBadRequest)
		}))
		defer server.Close()

		c := scratcheshttp.NewSettingsClient(server.URL)

		err := c.WriteSettings(context.Background(), []byte(`{}`))
		assert.Equal(t, scratches.EINVALID, scratches.ErrorCode(err))
		assert.Contains(t, scratches.ErrorMessage(err), "bad template")
	})
}
