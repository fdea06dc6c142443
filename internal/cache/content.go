package cache

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/jxwalker/gitnr/internal/logging"
)

// TTL is how long a cached body or catalog is served without revalidation.
const TTL = time.Hour

const contentFile = "template-content.json"

type contentEntry struct {
	Updated time.Time `json:"updated"`
	Content string    `json:"content"`
}

// Content is the locator -> body store persisted as one JSON map.
// Every Set rewrites the whole file.
type Content struct {
	path    string
	refresh *RefreshTracker
	log     *logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	loaded  bool
	entries map[string]contentEntry
}

type Option func(*Content)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(c *Content) { c.now = now } }

func WithLogger(l *logging.Logger) Option { return func(c *Content) { c.log = l } }

// WithRefresh makes the first lookup of each key miss.
func WithRefresh(t *RefreshTracker) Option { return func(c *Content) { c.refresh = t } }

// NewContent opens the content store in dir. Nothing is read until the first lookup.
func NewContent(dir string, opts ...Option) *Content {
	c := &Content{path: filepath.Join(dir, contentFile), now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Content) Path() string { return c.path }

// Get returns the body for key when present and not older than TTL.
func (c *Content) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	if c.refresh.Revalidate(key) {
		c.log.Debugf("cache revalidate %s", logging.SanitizeURL(key))
		return "", false
	}
	e, ok := c.entries[key]
	if !ok {
		c.log.Debugf("cache miss %s", logging.SanitizeURL(key))
		return "", false
	}
	if Expired(e.Updated, c.now()) {
		c.log.Debugf("cache expired %s (updated %s)", logging.SanitizeURL(key), e.Updated.Format(time.RFC3339))
		return "", false
	}
	c.log.Debugf("cache hit %s", logging.SanitizeURL(key))
	return e.Content, true
}

// Set stores body under key and writes the full map back to disk.
func (c *Content) Set(key, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	c.entries[key] = contentEntry{Updated: c.now().UTC(), Content: body}
	if err := WriteJSON(c.path, c.entries); err != nil {
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	return nil
}

// Len reports how many entries are stored, fresh or not.
func (c *Content) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.load()
	return len(c.entries)
}

func (c *Content) load() {
	if c.loaded {
		return
	}
	c.loaded = true
	c.entries = map[string]contentEntry{}
	if _, err := ReadJSON(c.path, &c.entries); err != nil {
		// unreadable stores are rebuilt from scratch on the next Set
		c.log.Warnf("ignoring content cache %s: %v", c.path, err)
		c.entries = map[string]contentEntry{}
	}
}

// Expired reports whether a value stamped at updated is older than TTL at now.
func Expired(updated, now time.Time) bool {
	return now.Sub(updated) > TTL
}
