package catalog

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jxwalker/gitnr/internal/cache"
	"github.com/jxwalker/gitnr/internal/fetch"
	"github.com/jxwalker/gitnr/internal/template"
	"github.com/jxwalker/gitnr/internal/testutil"
)

const treePath = "/repos/github/gitignore/git/trees/main"

const treeJSON = `{
  "sha": "abc",
  "truncated": false,
  "tree": [
    {"path": "Go.gitignore", "type": "blob"},
    {"path": "Global", "type": "tree"},
    {"path": "Global/Linux.gitignore", "type": "blob"},
    {"path": "README.md", "type": "blob"},
    {"path": "Rust.gitignore", "type": "blob"},
    {"path": "community", "type": "tree"},
    {"path": "community/Golang/Hugo.gitignore", "type": "blob"},
    {"path": "community/Golang", "type": "tree"},
    {"path": "other/Thing.gitignore", "type": "blob"}
  ]
}`

func newSet(t *testing.T, srv *testutil.MockHTTPServer) *Set {
	t.Helper()
	return &Set{
		Dir:       t.TempDir(),
		Endpoints: Endpoints{GitHubAPI: srv.URL, TopTalAPI: srv.URL + "/tt"},
		HTTP:      fetch.NewWithHTTPClient(srv.Client(), "test", nil),
	}
}

func names(ids []template.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Arg()
	}
	return out
}

func TestGitHubPartition(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddJSONResponse(treePath, 200, treeJSON)

	s := newSet(t, srv)
	s.Token = "secret"
	ctx := context.Background()
	want := map[template.Kind][]string{
		template.GitHub:          {"gh:Go", "gh:Rust"},
		template.GitHubGlobal:    {"ghg:Linux"},
		template.GitHubCommunity: {"ghc:Golang/Hugo"},
	}
	for kind, w := range want {
		c, err := s.Get(ctx, kind)
		if err != nil {
			t.Fatalf("Get(%s): %v", kind, err)
		}
		if got := names(c.Entries); !reflect.DeepEqual(got, w) {
			t.Fatalf("%s entries = %v, want %v", kind, got, w)
		}
	}
	if n := srv.Hits(treePath); n != 1 {
		t.Fatalf("tree fetched %d times, want 1", n)
	}
	reqs := srv.Requests()
	if got := reqs[0].Header.Get("Accept"); got != githubAccept {
		t.Fatalf("Accept = %q", got)
	}
	if got := reqs[0].Header.Get("Authorization"); got != "Bearer secret" {
		t.Fatalf("Authorization = %q", got)
	}
	if reqs[0].URL.Query().Get("recursive") != "true" {
		t.Fatalf("tree listing not recursive: %s", reqs[0].URL)
	}
}

func TestTopTalList(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddResponse("/tt/list", testutil.MockResponse{Body: "go\n\njetbrains+all\r\nrust\n"})

	c, err := newSet(t, srv).Get(context.Background(), template.TopTal)
	if err != nil {
		t.Fatal(err)
	}
	if got := names(c.Entries); !reflect.DeepEqual(got, []string{"tt:go", "tt:jetbrains+all", "tt:rust"}) {
		t.Fatalf("entries = %v", got)
	}
	if q := srv.Requests()[0].URL.Query().Get("format"); q != "lines" {
		t.Fatalf("format = %q", q)
	}
}

func TestCatalogPersistedAndTTL(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddResponse("/tt/list", testutil.MockResponse{Body: "go\nrust\n"})

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first := newSet(t, srv)
	first.Now = func() time.Time { return now }
	if _, err := first.Get(context.Background(), template.TopTal); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cache.CollectionPath(first.Dir, "toptal")); err != nil {
		t.Fatalf("catalog not persisted: %v", err)
	}

	// fresh file: no network
	srv.AddResponse("/tt/list", testutil.MockResponse{Body: "zig\n"})
	second := &Set{Dir: first.Dir, Endpoints: first.Endpoints, HTTP: first.HTTP, Now: func() time.Time { return now.Add(59 * time.Minute) }}
	c, err := second.Get(context.Background(), template.TopTal)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Entries) != 2 || srv.Hits("/tt/list") != 1 {
		t.Fatalf("expected cached catalog, got %v after %d fetches", names(c.Entries), srv.Hits("/tt/list"))
	}

	// stale file: replaced, not merged
	third := &Set{Dir: first.Dir, Endpoints: first.Endpoints, HTTP: first.HTTP, Now: func() time.Time { return now.Add(2 * time.Hour) }}
	c, err = third.Get(context.Background(), template.TopTal)
	if err != nil {
		t.Fatal(err)
	}
	if got := names(c.Entries); !reflect.DeepEqual(got, []string{"tt:zig"}) {
		t.Fatalf("stale catalog not replaced: %v", got)
	}
}

func TestRefreshForcesOneReload(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddJSONResponse(treePath, 200, treeJSON)

	seed := newSet(t, srv)
	if _, err := seed.Get(context.Background(), template.GitHub); err != nil {
		t.Fatal(err)
	}
	s := &Set{Dir: seed.Dir, Endpoints: seed.Endpoints, HTTP: seed.HTTP, Refresh: cache.NewRefreshTracker(true)}
	for _, k := range []template.Kind{template.GitHub, template.GitHubGlobal, template.GitHubCommunity} {
		if _, err := s.Get(context.Background(), k); err != nil {
			t.Fatal(err)
		}
	}
	if n := srv.Hits(treePath); n != 2 {
		t.Fatalf("expected exactly one refetch under refresh, got %d total", n)
	}
}

func TestFailureReplayedAndIsolated(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddResponse(treePath, testutil.MockResponse{StatusCode: 403})
	srv.AddResponse("/tt/list", testutil.MockResponse{Body: "go\n"})

	s := newSet(t, srv)
	ctx := context.Background()
	_, err1 := s.Get(ctx, template.GitHub)
	_, err2 := s.Get(ctx, template.GitHubGlobal)
	if err1 == nil || err2 == nil {
		t.Fatalf("expected GitHub failures")
	}
	if err1 != err2 {
		t.Fatalf("failure should be replayed identically: %v vs %v", err1, err2)
	}
	var se *fetch.StatusError
	if !errors.As(err1, &se) || se.Code != 403 {
		t.Fatalf("expected wrapped 403, got %v", err1)
	}
	if n := srv.Hits(treePath); n != 1 {
		t.Fatalf("failed load retried: %d hits", n)
	}
	if _, err := s.Get(ctx, template.TopTal); err != nil {
		t.Fatalf("TopTal should be unaffected: %v", err)
	}
	if _, err := s.All(ctx); err == nil || !strings.Contains(err.Error(), "GitHub") {
		t.Fatalf("All should stop on the GitHub failure, got %v", err)
	}
}

func TestInvalidTreeJSON(t *testing.T) {
	srv := testutil.NewMockHTTPServer()
	defer srv.Close()
	srv.AddJSONResponse(treePath, 200, "{not json")
	if _, err := newSet(t, srv).Get(context.Background(), template.GitHub); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestGetUnknownKind(t *testing.T) {
	s := &Set{}
	if _, err := s.Get(context.Background(), template.URL); err == nil {
		t.Fatalf("expected error for URL kind")
	}
	if Has(template.File) || !Has(template.GitHubGlobal) {
		t.Fatalf("Has mismatch")
	}
}

func TestFilter(t *testing.T) {
	entries := []template.Identifier{
		template.New(template.GitHub, "JetBrains"),
		template.New(template.GitHub, "Go"),
		template.New(template.GitHub, "Jekyll"),
		template.New(template.GitHub, "Rust"),
		template.New(template.GitHub, "jenkins_home"),
	}
	got := names(Filter(entries, "JE"))
	want := []string{"gh:JetBrains", "gh:Jekyll", "gh:jenkins_home"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %v, want %v", got, want)
	}
	if len(Filter(entries, "")) != len(entries) {
		t.Fatalf("empty filter should keep everything")
	}
	if len(Filter(entries, "zzz")) != 0 {
		t.Fatalf("expected no matches")
	}
}

func TestSuggest(t *testing.T) {
	entries := []template.Identifier{
		template.New(template.GitHub, "Rust"),
		template.New(template.GitHub, "Ruby"),
		template.New(template.GitHub, "Go"),
		template.New(template.GitHub, "Python"),
	}
	got := Suggest(entries, "rst", 5)
	if len(got) == 0 || got[0] != "Rust" {
		t.Fatalf("Suggest(rst) = %v", got)
	}
	got = Suggest(entries, "Rsut", 5)
	found := false
	for _, s := range got {
		if s == "Rust" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Suggest(Rsut) = %v, want Rust included", got)
	}
	if got := Suggest(entries, "py", 1); len(got) != 1 || got[0] != "Python" {
		t.Fatalf("Suggest(py, 1) = %v", got)
	}
	if Suggest(entries, "", 5) != nil {
		t.Fatalf("empty name should give no suggestions")
	}
}
