package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Run("sends user agent", func(t *testing.T) {
		var gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAgent = r.Header.Get("User-Agent")
			w.Write([]byte("hello"))
		}))
		defer server.Close()

		client := NewClient("TestAgent/1.0", 5*time.Second)
		body, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
		assert.Equal(t, "TestAgent/1.0", gotAgent)
		assert.Equal(t, "TestAgent/1.0", client.UserAgent())
	})

	t.Run("bad status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewClient("TestAgent/1.0", 5*time.Second)
		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client := NewClient("TestAgent/1.0", 50*time.Millisecond)
		start := time.Now()
		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("canceled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("unreachable"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient("TestAgent/1.0", 5*time.Second)
		_, err := client.Get(ctx, server.URL)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("invalid url", func(t *testing.T) {
		client := NewClient("TestAgent/1.0", 5*time.Second)
		_, err := client.Get(context.Background(), "://bad")
		assert.Error(t, err)
	})
}
