package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jxwalker/gitnr/internal/cache"
	"github.com/jxwalker/gitnr/internal/logging"
	"github.com/jxwalker/gitnr/internal/template"
)

// Tabs is the order catalogs are shown in.
var Tabs = []template.Kind{template.TopTal, template.GitHub, template.GitHubGlobal, template.GitHubCommunity}

// Catalog is the list of templates one provider offers.
type Catalog struct {
	Kind    template.Kind
	Updated time.Time
	Entries []template.Identifier
}

// Getter performs one GET and returns the body.
type Getter interface {
	Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

type Endpoints struct {
	GitHubAPI string
	TopTalAPI string
}

// Set loads catalogs lazily. The GitHub listing and the TopTal listing are each
// loaded at most once per Set; a failed load is remembered and returned to every
// later caller without retrying. The two listings never affect each other.
type Set struct {
	Dir       string
	Endpoints Endpoints
	HTTP      Getter
	// Token is sent as a Bearer token to the GitHub API when set.
	Token   string
	Refresh *cache.RefreshTracker
	Log     *logging.Logger
	Now     func() time.Time

	github lazy[githubListing]
	toptal lazy[toptalListing]
}

type lazy[T any] struct {
	once sync.Once
	val  *T
	err  error
}

func (l *lazy[T]) get(load func() (*T, error)) (*T, error) {
	l.once.Do(func() { l.val, l.err = load() })
	return l.val, l.err
}

// Has reports whether k is backed by a catalog.
func Has(k template.Kind) bool {
	for _, t := range Tabs {
		if t == k {
			return true
		}
	}
	return false
}

// Get returns the catalog for kind, loading its listing on first use.
func (s *Set) Get(ctx context.Context, kind template.Kind) (*Catalog, error) {
	switch kind {
	case template.TopTal:
		l, err := s.toptal.get(func() (*toptalListing, error) {
			return loadListing(ctx, s, "toptal", func(l *toptalListing) time.Time { return l.Updated }, s.fetchTopTal)
		})
		if err != nil {
			return nil, err
		}
		return &Catalog{Kind: kind, Updated: l.Updated, Entries: l.Templates}, nil
	case template.GitHub, template.GitHubGlobal, template.GitHubCommunity:
		l, err := s.github.get(func() (*githubListing, error) {
			return loadListing(ctx, s, "github", func(l *githubListing) time.Time { return l.Updated }, s.fetchGitHub)
		})
		if err != nil {
			return nil, err
		}
		c := &Catalog{Kind: kind, Updated: l.Updated}
		switch kind {
		case template.GitHub:
			c.Entries = l.Root
		case template.GitHubGlobal:
			c.Entries = l.Global
		default:
			c.Entries = l.Community
		}
		return c, nil
	default:
		return nil, fmt.Errorf("no catalog for %s templates", kind)
	}
}

// All loads every catalog in tab order and stops at the first failure.
func (s *Set) All(ctx context.Context) ([]*Catalog, error) {
	out := make([]*Catalog, 0, len(Tabs))
	for _, k := range Tabs {
		c, err := s.Get(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("load %s catalog: %w", k.Label(), err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Set) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// loadListing serves the persisted listing while it is younger than cache.TTL
// and otherwise fetches a new one that fully replaces the file.
func loadListing[T any](ctx context.Context, s *Set, name string, updated func(*T) time.Time, fetch func(context.Context) (*T, error)) (*T, error) {
	path := cache.CollectionPath(s.Dir, name)
	if !s.Refresh.Revalidate(path) {
		var cached T
		ok, err := cache.ReadJSON(path, &cached)
		switch {
		case err != nil:
			s.Log.Warnf("ignoring catalog cache %s: %v", path, err)
		case ok && !cache.Expired(updated(&cached), s.now()):
			s.Log.Debugf("catalog %s loaded from %s", name, path)
			return &cached, nil
		}
	}
	s.Log.Infof("refreshing %s catalog", name)
	fresh, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := cache.WriteJSON(path, fresh); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return fresh, nil
}
