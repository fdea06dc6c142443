package cache

import "sync"

// RefreshTracker implements the --refresh flag: while enabled, the first
// lookup of each distinct key in this process is treated as a miss and later
// lookups follow the normal TTL. A nil tracker never forces a miss.
type RefreshTracker struct {
	enabled bool

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRefreshTracker(enabled bool) *RefreshTracker {
	return &RefreshTracker{enabled: enabled, seen: map[string]struct{}{}}
}

func (t *RefreshTracker) Enabled() bool { return t != nil && t.enabled }

// Revalidate reports whether key must be fetched again and records that it was.
func (t *RefreshTracker) Revalidate(key string) bool {
	if !t.Enabled() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[key]; ok {
		return false
	}
	t.seen[key] = struct{}{}
	return true
}
