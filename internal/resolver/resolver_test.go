package resolver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/jxwalker/gitnr/internal/cache"
	"github.com/jxwalker/gitnr/internal/fetch"
	"github.com/jxwalker/gitnr/internal/template"
	"github.com/jxwalker/gitnr/internal/testutil"
)

func newResolver(t *testing.T, srv *testutil.MockHTTPServer, opts ...cache.Option) *Resolver {
	t.Helper()
	return &Resolver{
		Endpoints: template.Endpoints{GitHubRaw: srv.URL + "/raw", TopTalAPI: srv.URL + "/tt"},
		HTTP:      fetch.NewWithHTTPClient(srv.Client(), "test", nil),
		Cache:     cache.NewContent(t.TempDir(), opts...),
	}
}

func TestBodyFetchesTrimsAndCaches(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddResponse("/raw/github/gitignore/main/Rust.gitignore", testutil.MockResponse{StatusCode: 200, Body: "\n\ntarget/\n\n"})

	r := newResolver(t, srv)
	id := template.New(template.GitHub, "Rust")
	for i := 0; i < 3; i++ {
		got, err := r.Body(context.Background(), id)
		if err != nil {
			t.Fatalf("Body: %v", err)
		}
		if got != "target/" {
			t.Fatalf("body = %q", got)
		}
	}
	if n := srv.Hits("/raw/github/gitignore/main/Rust.gitignore"); n != 1 {
		t.Fatalf("expected one network fetch, got %d", n)
	}
}

func TestBodyRefreshRevalidatesOnce(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddResponse("/tt/go", testutil.MockResponse{StatusCode: 200, Body: "*.test"})

	dir := t.TempDir()
	seed := cache.NewContent(dir)
	if err := seed.Set(srv.URL+"/tt/go", "stale"); err != nil {
		t.Fatal(err)
	}
	r := newResolver(t, srv)
	r.Cache = cache.NewContent(dir, cache.WithRefresh(cache.NewRefreshTracker(true)))

	id := template.New(template.TopTal, "go")
	for i := 0; i < 2; i++ {
		got, err := r.Body(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if got != "*.test" {
			t.Fatalf("round %d: body = %q", i, got)
		}
	}
	if n := srv.Hits("/tt/go"); n != 1 {
		t.Fatalf("expected one revalidation, got %d", n)
	}
}

func TestBodyFileBypassesCache(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	r := newResolver(t, srv)

	p := testutil.TempFile(t, "local.ignore", "one\n")
	id := template.New(template.File, p)
	if got, _ := r.Body(context.Background(), id); got != "one\n" {
		t.Fatalf("body = %q", got)
	}
	if err := os.WriteFile(p, []byte("two\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Body(context.Background(), id); got != "two\n" {
		t.Fatalf("file body served stale: %q", got)
	}

	_, err := r.Body(context.Background(), template.New(template.File, p+".missing"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestSingleFileKeepsLeadingWhitespace(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	r := newResolver(t, srv)

	p := testutil.TempFile(t, "indented.ignore", "\n\n  # indented\nb\n")
	id := template.New(template.File, p)
	got, err := template.List{id}.Content(context.Background(), r)
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	want := id.Banner() + "\n\n\n  # indented\nb"
	if got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestBodyStatusErrorNotCached(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	r := newResolver(t, srv)

	id := template.New(template.GitHub, "Nope")
	for i := 0; i < 2; i++ {
		_, err := r.Body(context.Background(), id)
		if !fetch.IsNotFound(err) {
			t.Fatalf("expected 404, got %v", err)
		}
	}
	if n := srv.Hits("/raw/github/gitignore/main/Nope.gitignore"); n != 2 {
		t.Fatalf("failures must not be cached, got %d hits", n)
	}
}

type countingGetter struct{ n int32 }

func (g *countingGetter) Get(context.Context, string, map[string]string) ([]byte, error) {
	atomic.AddInt32(&g.n, 1)
	return []byte("x"), nil
}

func TestBodyInvalidURL(t *testing.T) {
	g := &countingGetter{}
	r := &Resolver{Endpoints: template.DefaultEndpoints, HTTP: g}
	_, err := r.Body(context.Background(), template.Identifier{Input: "url:nope", Kind: template.URL})
	if !errors.Is(err, template.ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	if g.n != 0 {
		t.Fatalf("invalid URL must not hit the network")
	}
}

func TestBodyWithoutCache(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddResponse("/any", testutil.MockResponse{StatusCode: http.StatusOK, Body: " body "})
	r := &Resolver{HTTP: fetch.NewWithHTTPClient(srv.Client(), "", nil)}
	got, err := r.Body(context.Background(), template.Identifier{Input: srv.URL + "/any", Kind: template.URL})
	if err != nil || got != "body" {
		t.Fatalf("got %q %v", got, err)
	}
}
