package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jxwalker/gitnr/internal/logging"
	"github.com/jxwalker/gitnr/internal/metrics"
	"github.com/jxwalker/gitnr/internal/template"
)

// ErrFileNotFound is returned for a File template whose path does not exist.
var ErrFileNotFound = errors.New("template file not found")

// Getter performs one GET and returns the body.
type Getter interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

// Store is the content cache.
type Store interface {
	Get(key string) (string, bool)
	Set(key, body string) error
}

// Resolver turns identifiers into bodies. File templates are read from disk on
// every call and returned as-is; fetched bodies are trimmed and go through the
// content cache.
type Resolver struct {
	Endpoints template.Endpoints
	HTTP      Getter
	Cache     Store
	Log       *logging.Logger
	Metrics   *metrics.Manager
}

var _ template.BodySource = (*Resolver)(nil)

// Body implements template.BodySource.
func (r *Resolver) Body(ctx context.Context, id template.Identifier) (string, error) {
	loc, err := id.Locator(r.Endpoints)
	if err != nil {
		return "", err
	}
	if id.Kind == template.File {
		return readFile(loc)
	}
	if r.Cache != nil {
		if body, ok := r.Cache.Get(loc); ok {
			r.Metrics.IncCacheHit()
			return body, nil
		}
		r.Metrics.IncCacheMiss()
	}
	b, err := r.HTTP.Get(ctx, loc, nil)
	r.Metrics.ObserveFetch(len(b), err)
	if err != nil {
		return "", err
	}
	body := strings.TrimSpace(string(b))
	if r.Cache != nil {
		if err := r.Cache.Set(loc, body); err != nil {
			return "", fmt.Errorf("cache %s: %w", logging.SanitizeURL(loc), err)
		}
	}
	r.Log.Debugf("fetched %s (%d bytes)", logging.SanitizeURL(loc), len(body))
	return body, nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
