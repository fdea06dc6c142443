package metrics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jxwalker/gitnr/internal/config"
)

// Manager accumulates counters for one invocation and writes them as a
// Prometheus textfile. A nil Manager is valid and records nothing.
type Manager struct {
	path string
	mu   sync.Mutex

	cacheHits   int64
	cacheMisses int64
	fetches     int64
	fetchBytes  int64
	fetchErrors int64
}

func New(cfg *config.Config) *Manager {
	if cfg == nil || !cfg.Metrics.PrometheusTextfile.Enabled || cfg.Metrics.PrometheusTextfile.Path == "" {
		return nil
	}
	p := cfg.Metrics.PrometheusTextfile.Path
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	return &Manager{path: p}
}

func (m *Manager) IncCacheHit() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.cacheHits++
	m.mu.Unlock()
}

func (m *Manager) IncCacheMiss() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.cacheMisses++
	m.mu.Unlock()
}

// ObserveFetch records one network fetch of n bytes.
func (m *Manager) ObserveFetch(n int, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if err != nil {
		m.fetchErrors++
		return
	}
	m.fetchBytes += int64(n)
}

// Write replaces the textfile with the current counters.
func (m *Manager) Write() error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := os.CreateTemp(filepath.Dir(m.path), ".metrics.tmp.*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := m.encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), m.path)
}

// encode writes the textfile body. Writing stops at the first error.
func (m *Manager) encode(w io.Writer) error {
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	counter := func(name, help string, v int64) {
		printf("# HELP %s %s\n", name, help)
		printf("# TYPE %s counter\n", name)
		printf("%s %d\n", name, v)
	}
	counter("gitnr_cache_hits_total", "Template bodies served from the content cache.", m.cacheHits)
	counter("gitnr_cache_misses_total", "Content cache lookups that required a fetch.", m.cacheMisses)
	counter("gitnr_fetches_total", "Network fetches attempted.", m.fetches)
	counter("gitnr_fetch_errors_total", "Network fetches that failed.", m.fetchErrors)
	counter("gitnr_fetch_bytes_total", "Bytes received from successful fetches.", m.fetchBytes)

	printf("# HELP gitnr_metrics_timestamp_seconds UNIX timestamp when this file was written.\n")
	printf("# TYPE gitnr_metrics_timestamp_seconds gauge\n")
	printf("gitnr_metrics_timestamp_seconds %d\n", time.Now().Unix())
	return err
}
