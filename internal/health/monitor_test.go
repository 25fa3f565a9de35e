package health_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vidora/vidora/internal/health"
)

func TestMonitor_Probe(t *testing.T) {
	ctx := context.Background()

	t.Run("starts down until first successful probe", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		m := health.NewMonitor(map[string]string{"comment": server.URL + "/health"}, health.Config{})

		assert.False(t, m.IsUp("comment"))

		m.Probe(ctx, "comment")
		assert.True(t, m.IsUp("comment"))
	})

	t.Run("single failed probe flips down, single success flips up", func(t *testing.T) {
		var healthy atomic.Bool
		healthy.Store(true)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if healthy.Load() {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		m := health.NewMonitor(map[string]string{"comment": server.URL + "/health"}, health.Config{})

		m.Probe(ctx, "comment")
		assert.True(t, m.IsUp("comment"))

		healthy.Store(false)
		m.Probe(ctx, "comment")
		assert.False(t, m.IsUp("comment"))

		// State is sticky between probes: repeated reads stay down.
		assert.False(t, m.IsUp("comment"))

		healthy.Store(true)
		m.Probe(ctx, "comment")
		assert.True(t, m.IsUp("comment"))
	})

	t.Run("non-2xx counts as down", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		m := health.NewMonitor(map[string]string{"comment": server.URL + "/health"}, health.Config{})
		m.Probe(ctx, "comment")
		assert.False(t, m.IsUp("comment"))
	})

	t.Run("unreachable endpoint counts as down", func(t *testing.T) {
		m := health.NewMonitor(map[string]string{"comment": "http://127.0.0.1:1/health"}, health.Config{})
		m.Probe(ctx, "comment")
		assert.False(t, m.IsUp("comment"))
	})

	t.Run("probe is bounded by the configured timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		m := health.NewMonitor(map[string]string{"comment": server.URL + "/health"}, health.Config{
			ProbeTimeout: 50 * time.Millisecond,
		})

		start := time.Now()
		m.Probe(ctx, "comment")
		assert.Less(t, time.Since(start), time.Second)
		assert.False(t, m.IsUp("comment"))
	})

	t.Run("unknown service reports down", func(t *testing.T) {
		m := health.NewMonitor(map[string]string{}, health.Config{})
		assert.False(t, m.IsUp("nope"))
	})
}

func TestMonitor_Run(t *testing.T) {
	var probes atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := health.NewMonitor(map[string]string{"comment": server.URL + "/health"}, health.Config{
		ProbeInterval: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	// One immediate probe plus at least one interval probe.
	assert.Eventually(t, func() bool { return probes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsUp("comment"))

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor loop did not stop on context cancellation")
	}
}
