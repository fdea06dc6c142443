package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/jxwalker/gitnr/internal/cache"
	"github.com/jxwalker/gitnr/internal/catalog"
	"github.com/jxwalker/gitnr/internal/config"
	friendly "github.com/jxwalker/gitnr/internal/errors"
	"github.com/jxwalker/gitnr/internal/fetch"
	"github.com/jxwalker/gitnr/internal/history"
	"github.com/jxwalker/gitnr/internal/logging"
	"github.com/jxwalker/gitnr/internal/metrics"
	"github.com/jxwalker/gitnr/internal/resolver"
	"github.com/jxwalker/gitnr/internal/template"
)

// Prog is the command name used in reconstructed invocations.
const Prog = "gitnr"

// App holds everything one invocation shares. It is built once in main and
// passed down; nothing in the packages below keeps global state.
type App struct {
	Config   *config.Config
	Log      *logging.Logger
	CacheDir string
	HTTP     *fetch.Client
	Refresh  *cache.RefreshTracker
	Content  *cache.Content
	Catalogs *catalog.Set
	Resolver *resolver.Resolver
	Parser   *template.Parser
	Metrics  *metrics.Manager
}

type Options struct {
	// Refresh forces one revalidation per cache key and catalog.
	Refresh bool
	Log     *logging.Logger
	// HTTPClient replaces the configured client, mainly for tests.
	HTTPClient *http.Client
}

func New(cfg *config.Config, opts Options) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	dir := cache.Dir(cfg)
	hc := fetch.New(cfg, log)
	if opts.HTTPClient != nil {
		hc = fetch.NewWithHTTPClient(opts.HTTPClient, cfg.Network.UserAgent, log)
	}
	refresh := cache.NewRefreshTracker(opts.Refresh)
	content := cache.NewContent(dir, cache.WithLogger(log), cache.WithRefresh(refresh))
	m := metrics.New(cfg)

	a := &App{
		Config:   cfg,
		Log:      log,
		CacheDir: dir,
		HTTP:     hc,
		Refresh:  refresh,
		Content:  content,
		Parser:   &template.Parser{},
		Metrics:  m,
	}
	a.Catalogs = &catalog.Set{
		Dir: dir,
		Endpoints: catalog.Endpoints{
			GitHubAPI: cfg.Sources.GitHub.APIBase,
			TopTalAPI: cfg.Sources.TopTal.APIBase,
		},
		HTTP:    hc,
		Token:   strings.TrimSpace(os.Getenv(cfg.Sources.GitHub.TokenEnv)),
		Refresh: refresh,
		Log:     log,
	}
	a.Resolver = &resolver.Resolver{
		Endpoints: a.Endpoints(),
		HTTP:      hc,
		Cache:     content,
		Log:       log,
		Metrics:   m,
	}
	return a
}

func (a *App) Endpoints() template.Endpoints {
	return template.Endpoints{
		GitHubRaw: a.Config.Sources.GitHub.RawBase,
		TopTalAPI: a.Config.Sources.TopTal.APIBase,
	}
}

// Generate builds the document for l.
func (a *App) Generate(ctx context.Context, l template.List) (string, error) {
	return l.Content(ctx, a.Resolver)
}

// OpenHistory returns nil when history is disabled.
func (a *App) OpenHistory() (*history.DB, error) {
	if !a.Config.History.Enabled {
		return nil, nil
	}
	return history.Open(a.CacheDir)
}

// Close flushes metrics and releases the log file, if any.
func (a *App) Close() error {
	err := a.Metrics.Write()
	if err != nil {
		a.Log.Errorf("write metrics: %v", err)
	}
	if cerr := a.Log.Close(); err == nil {
		err = cerr
	}
	return err
}

// Explain turns a failure from Generate or the catalogs into a UserFriendlyError
// when it recognises it, and returns err unchanged otherwise.
func (a *App) Explain(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var uf *friendly.UserFriendlyError
	if errors.As(err, &uf) {
		return err
	}
	var fe *template.FetchError
	hasID := errors.As(err, &fe)

	var se *fetch.StatusError
	switch {
	case errors.Is(err, resolver.ErrFileNotFound):
		path := ""
		if hasID {
			path = fe.ID.Name()
		}
		return friendly.PathError(path, err)
	case errors.Is(err, template.ErrInvalidURL):
		msg := "Invalid URL"
		if hasID {
			msg += ": " + fe.ID.Name()
		}
		return friendly.NewFriendlyError(msg,
			"Pass an absolute http(s) URL, e.g. url:https://example.com/.gitignore").WithDetails(err)
	case hasID && fetch.IsNotFound(err):
		return friendly.TemplateNotFound(fe.ID.Arg(), a.suggest(ctx, fe.ID), err)
	case errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden || se.Code == http.StatusTooManyRequests):
		provider := ""
		if strings.HasPrefix(se.URL, a.Config.Sources.GitHub.APIBase+"/") {
			provider = "github"
		}
		return friendly.AuthError(provider, se.Code, a.Config.Sources.GitHub.TokenEnv, err)
	case isNetworkError(err):
		return friendly.NetworkError(err)
	}
	return err
}

// suggest looks up similar names in id's catalog. Catalog failures yield no suggestions.
func (a *App) suggest(ctx context.Context, id template.Identifier) []string {
	if !catalog.Has(id.Kind) {
		return nil
	}
	c, err := a.Catalogs.Get(ctx, id.Kind)
	if err != nil {
		a.Log.Debugf("no suggestions for %s: %v", id.Arg(), err)
		return nil
	}
	names := catalog.Suggest(c.Entries, id.Name(), 5)
	for i, n := range names {
		names[i] = id.Kind.Prefix() + n
	}
	return names
}

func isNetworkError(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
