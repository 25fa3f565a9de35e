// Copyright (c) 2025 Vidora
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/vidora/vidora/internal/pkg/log"
)

const (
	// DefaultProbeInterval is how often each dependency is probed.
	DefaultProbeInterval = 30 * time.Second
	// DefaultProbeTimeout bounds a single liveness check.
	DefaultProbeTimeout = 2 * time.Second
)

// Config configures a Monitor.
type Config struct {
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
	// HTTPClient overrides the probe client. The monitor always applies its
	// own per-probe timeout on top of it.
	HTTPClient *http.Client
}

// target is one monitored dependency. The up flag is written only by the
// monitor's own loop and read lock-free by request handlers.
type target struct {
	healthURL string
	up        atomic.Bool
}

// Monitor tracks liveness of dependent services. The target set is fixed at
// construction, so IsUp never takes a lock: each read is a single atomic
// load of the last probe result, stale by at most one probe interval.
type Monitor struct {
	targets  map[string]*target
	interval time.Duration
	timeout  time.Duration
	client   *http.Client
}

// NewMonitor creates a monitor for the given service name -> health URL set.
// All targets start DOWN until the first successful probe.
func NewMonitor(targets map[string]string, cfg Config) *Monitor {
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = DefaultProbeInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	m := &Monitor{
		targets:  make(map[string]*target, len(targets)),
		interval: cfg.ProbeInterval,
		timeout:  cfg.ProbeTimeout,
		client:   client,
	}
	for name, url := range targets {
		m.targets[name] = &target{healthURL: url}
	}
	return m
}

// IsUp returns the last probed state for the service. Unknown service names
// report false: writes fail closed, reads degrade.
func (m *Monitor) IsUp(name string) bool {
	t, ok := m.targets[name]
	if !ok {
		return false
	}
	return t.up.Load()
}

// Probe performs one liveness check against the named service and records
// the result. Any transport error, timeout, or non-2xx response flips the
// service DOWN; any success flips it UP. No hysteresis: a single probe
// decides the state.
func (m *Monitor) Probe(ctx context.Context, name string) {
	t, ok := m.targets[name]
	if !ok {
		return
	}

	up := m.check(ctx, t.healthURL)
	was := t.up.Swap(up)

	// Log only on transitions to keep a flapping dependency from flooding
	// the log.
	switch {
	case up && !was:
		log.Info("health: service %q is back ONLINE", name)
	case !up && was:
		log.Error("health: service %q is DOWN", name)
	}
}

// check runs a single bounded GET against the health endpoint.
func (m *Monitor) check(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	res, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	return res.StatusCode >= 200 && res.StatusCode < 300
}

// probeAll probes every registered target once.
func (m *Monitor) probeAll(ctx context.Context) {
	for name := range m.targets {
		m.Probe(ctx, name)
	}
}

// Run probes all targets immediately, then on a fixed interval until ctx is
// cancelled. Probe failures never stop the loop; it terminates only with
// process shutdown.
func (m *Monitor) Run(ctx context.Context) {
	m.probeAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.probeAll(ctx)
		}
	}
}

// AlwaysUp reports every dependency as healthy. Used when a dependency runs
// inside the same process and there is nothing to probe.
type AlwaysUp struct{}

// IsUp always answers true
func (AlwaysUp) IsUp(string) bool { return true }
