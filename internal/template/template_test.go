package template

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var noFiles = &Parser{Exists: func(string) bool { return false }}

func TestParseRules(t *testing.T) {
	p := &Parser{Exists: func(s string) bool { return s == "local.ignore" || s == "tt:x" }}
	tests := []struct {
		input string
		kind  Kind
		name  string
	}{
		{"gh:Rust", GitHub, "Rust"},
		{"gh:Rust.gitignore", GitHub, "Rust"},
		{"Rust", GitHub, "Rust"},
		{"Go.gitignore", GitHub, "Go"},
		{"Global/Linux", GitHubGlobal, "Linux"},
		{"global/macOS.gitignore", GitHubGlobal, "macOS"},
		{"ghg:Linux", GitHubGlobal, "Linux"},
		{"ghg:Global/Linux", GitHubGlobal, "Linux"},
		{"Community/Golang/Hugo", GitHubCommunity, "Golang/Hugo"},
		{"ghc:Golang/Hugo.gitignore", GitHubCommunity, "Golang/Hugo"},
		{"tt:JetBrains+all", TopTal, "JetBrains+all"},
		{"tt:go.stack", TopTal, "go"},
		{"tt:visualstudio.patch", TopTal, "visualstudio"},
		{"repo:github/gitignore/main/Go.gitignore", GitHubRepo, "github/gitignore/main/Go.gitignore"},
		{"github/gitignore/main/Go.gitignore", GitHubRepo, "github/gitignore/main/Go.gitignore"},
		{"https://example.com/x.gitignore", URL, "https://example.com/x.gitignore"},
		{"url:https://example.com/y", URL, "https://example.com/y"},
		{"local.ignore", File, "local.ignore"},
		{"file:/etc/ignore", File, "/etc/ignore"},
		{"  gh:Rust  ", GitHub, "Rust"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id := p.Parse(tt.input)
			if id.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", id.Kind, tt.kind)
			}
			if id.Name() != tt.name {
				t.Fatalf("name = %q, want %q", id.Name(), tt.name)
			}
		})
	}
}

func TestPrefixAlwaysWins(t *testing.T) {
	// each of these would match a heuristic rule without the prefix
	p := &Parser{Exists: func(string) bool { return true }}
	inputs := map[string]Kind{
		"gh:community/Foo":             GitHub,
		"gh:a/b/c/d":                   GitHub,
		"ghg:https://example.com/x":    GitHubGlobal,
		"tt:global/Linux":              TopTal,
		"repo:Rust":                    GitHubRepo,
		"file:https://example.com/x":   File,
		"ghc:owner/repo/branch/path":   GitHubCommunity,
		"url:community/not-really-url": URL,
	}
	for in, want := range inputs {
		if got := p.Parse(in).Kind; got != want {
			t.Errorf("%s: kind = %s, want %s", in, got, want)
		}
	}
}

func TestLocator(t *testing.T) {
	e := Endpoints{GitHubRaw: "https://raw.example", TopTalAPI: "https://tt.example/api"}
	tests := []struct {
		input string
		want  string
	}{
		{"gh:Rust", "https://raw.example/github/gitignore/main/Rust.gitignore"},
		{"ghg:Linux", "https://raw.example/github/gitignore/main/Global/Linux.gitignore"},
		{"ghc:Golang/Hugo", "https://raw.example/github/gitignore/main/community/Golang/Hugo.gitignore"},
		{"repo:owner/repo/main/.gitignore", "https://raw.example/owner/repo/main/.gitignore"},
		{"tt:JetBrains+all", "https://tt.example/api/JetBrains+all"},
		{"url:https://example.com/a?b=c", "https://example.com/a?b=c"},
		{"file:./x.ignore", "./x.ignore"},
	}
	for _, tt := range tests {
		got, err := noFiles.Parse(tt.input).Locator(e)
		if err != nil {
			t.Fatalf("%s: %v", tt.input, err)
		}
		if got != tt.want {
			t.Fatalf("%s: locator = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLocatorEndToEnd(t *testing.T) {
	id := noFiles.Parse("gh:Rust")
	if id.Kind != GitHub || id.Name() != "Rust" {
		t.Fatalf("unexpected identifier %+v", id)
	}
	loc, err := id.Locator(DefaultEndpoints)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(loc, "/Rust.gitignore") {
		t.Fatalf("locator = %q", loc)
	}
}

func TestLocatorInvalidURL(t *testing.T) {
	_, err := noFiles.Parse("url:not a url").Locator(DefaultEndpoints)
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
	_, err = Identifier{Input: "x", Kind: "bogus"}.Locator(DefaultEndpoints)
	var uk *UnknownKindError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
}

func TestBanner(t *testing.T) {
	id := noFiles.Parse("gh:Rust")
	title := "###  GitHub: Rust  ###"
	rule := "###" + strings.Repeat("-", len(title)-4) + "###"
	want := rule + "\n" + title + "\n" + rule + "\n"
	if got := id.Banner(); got != want {
		t.Fatalf("banner mismatch:\n%s\nwant:\n%s", got, want)
	}
	if got := id.Content("\n\ntarget/\n\n"); got != want+"\n\n\ntarget/" {
		t.Fatalf("content = %q", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"github":    GitHub,
		"gh":        GitHub,
		"ghg:":      GitHubGlobal,
		"Global":    GitHubGlobal,
		"community": GitHubCommunity,
		"toptal":    TopTal,
		"tt":        TopTal,
		"repo":      GitHubRepo,
	}
	for in, want := range tests {
		got, ok := ParseKind(in)
		if !ok || got != want {
			t.Errorf("ParseKind(%q) = %s, %v", in, got, ok)
		}
	}
	if _, ok := ParseKind("svn"); ok {
		t.Fatalf("expected unknown kind")
	}
}

func TestParseArgs(t *testing.T) {
	l := noFiles.ParseArgs([]string{"gh:Rust,tt:Go", "ghg:Linux  ghc:Golang/Hugo", ",,"})
	want := []Identifier{New(GitHub, "Rust"), New(TopTal, "Go"), New(GitHubGlobal, "Linux"), New(GitHubCommunity, "Golang/Hugo")}
	if len(l) != len(want) {
		t.Fatalf("got %d identifiers: %+v", len(l), l)
	}
	for i := range want {
		if l[i] != want[i] {
			t.Fatalf("[%d] = %+v, want %+v", i, l[i], want[i])
		}
	}
}

func TestCommand(t *testing.T) {
	l := List{noFiles.Parse("gh:Rust"), noFiles.Parse("Global/Linux"), noFiles.Parse("tt:go.stack")}
	if got := l.Command("gitnr"); got != "gitnr create gh:Rust ghg:Linux tt:go" {
		t.Fatalf("command = %q", got)
	}
	// the command reproduces the selection
	again := noFiles.ParseArgs(strings.Fields(l.Command("gitnr"))[2:])
	for i := range l {
		if again[i].Kind != l[i].Kind || again[i].Name() != l[i].Name() {
			t.Fatalf("round trip mismatch at %d: %+v vs %+v", i, again[i], l[i])
		}
	}
}

type mapSource struct {
	bodies map[string]string
	calls  []string
	fail   string
}

func (m *mapSource) Body(_ context.Context, id Identifier) (string, error) {
	m.calls = append(m.calls, id.Arg())
	if id.Arg() == m.fail {
		return "", errors.New("boom")
	}
	return m.bodies[id.Arg()], nil
}

func TestContentSingleIsVerbatim(t *testing.T) {
	src := &mapSource{bodies: map[string]string{"gh:Rust": "target/\ntarget/\n\n\n*.rs.bk"}}
	l := List{noFiles.Parse("gh:Rust")}
	got, err := l.Content(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	want := l[0].Banner() + "\n" + "target/\ntarget/\n\n\n*.rs.bk"
	if got != want {
		t.Fatalf("single content mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestContentMergeDedups(t *testing.T) {
	src := &mapSource{bodies: map[string]string{
		"gh:Rust":          "# Generated\ntarget/\n\n\n\n*.iml\n.idea/",
		"tt:JetBrains+all": "# JetBrains\n.idea/\n*.iml\n\n\nout/\ntarget/\nout/",
	}}
	l := List{noFiles.Parse("gh:Rust"), noFiles.Parse("tt:JetBrains+all")}
	got, err := l.Content(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	sections := strings.Split(got, "\n\n###")
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d:\n%s", len(sections), got)
	}
	if !strings.Contains(sections[0], "GitHub: Rust") || !strings.Contains(sections[1], "TopTal: JetBrains+all") {
		t.Fatalf("sections out of order:\n%s", got)
	}
	seen := map[string]bool{}
	for _, line := range strings.Split(got, "\n") {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "###") {
			continue
		}
		if seen[line] {
			t.Fatalf("duplicate line %q in:\n%s", line, got)
		}
		seen[line] = true
	}
	for _, want := range []string{"# Generated", "target/", "*.iml", ".idea/", "# JetBrains", "out/"} {
		if !seen[want] {
			t.Fatalf("missing first occurrence of %q", want)
		}
	}
	if strings.Contains(got, "\n\n\n") {
		t.Fatalf("blank runs not collapsed:\n%q", got)
	}
}

func TestContentAbortsOnFirstFailure(t *testing.T) {
	src := &mapSource{fail: "tt:Go", bodies: map[string]string{}}
	l := noFiles.ParseArgs([]string{"gh:Rust", "tt:Go", "ghg:Linux"})
	_, err := l.Content(context.Background(), src)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.ID.Arg() != "tt:Go" {
		t.Fatalf("expected FetchError for tt:Go, got %v", err)
	}
	if len(src.calls) != 2 {
		t.Fatalf("fetches after failure: %v", src.calls)
	}
}

func TestDedupLines(t *testing.T) {
	got := DedupLines([]string{"a\r\nb\n\n\n\nc\n", "b\nd\n\n\na\n\n\ne", "", "\n\n\nd"})
	want := []string{"a\nb\n\nc", "d\n\ne", "", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
