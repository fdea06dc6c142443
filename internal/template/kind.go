package template

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies where a template body comes from.
type Kind string

const (
	GitHub          Kind = "github"
	GitHubGlobal    Kind = "github-global"
	GitHubCommunity Kind = "github-community"
	GitHubRepo      Kind = "github-repo"
	TopTal          Kind = "toptal"
	URL             Kind = "url"
	File            Kind = "file"
)

// ErrInvalidURL is returned when a Url template does not hold an absolute URL.
var ErrInvalidURL = errors.New("invalid URL")

// Endpoints are the remote bases locators are built from.
type Endpoints struct {
	GitHubRaw string
	TopTalAPI string
}

// DefaultEndpoints point at the public providers.
var DefaultEndpoints = Endpoints{
	GitHubRaw: "https://raw.githubusercontent.com",
	TopTalAPI: "https://www.toptal.com/developers/gitignore/api",
}

// kindSpec describes how one Kind turns an input string into a name and a locator.
type kindSpec struct {
	prefix string
	label  string
	// folder is stripped case-insensitively after the prefix, e.g. "global/".
	folder   string
	suffixes []string
	locator  func(e Endpoints, name string) (string, error)
}

func githubFile(dir string) func(Endpoints, string) (string, error) {
	return func(e Endpoints, name string) (string, error) {
		return fmt.Sprintf("%s/github/gitignore/main/%s%s.gitignore", e.GitHubRaw, dir, name), nil
	}
}

var kindSpecs = map[Kind]kindSpec{
	GitHub: {
		prefix:   "gh:",
		label:    "GitHub",
		suffixes: []string{".gitignore"},
		locator:  githubFile(""),
	},
	GitHubGlobal: {
		prefix:   "ghg:",
		label:    "GitHub Global",
		folder:   "global/",
		suffixes: []string{".gitignore"},
		locator:  githubFile("Global/"),
	},
	GitHubCommunity: {
		prefix:   "ghc:",
		label:    "GitHub Community",
		folder:   "community/",
		suffixes: []string{".gitignore"},
		locator:  githubFile("community/"),
	},
	GitHubRepo: {
		prefix: "repo:",
		label:  "Repo",
		locator: func(e Endpoints, name string) (string, error) {
			return e.GitHubRaw + "/" + strings.TrimPrefix(name, "/"), nil
		},
	},
	TopTal: {
		prefix:   "tt:",
		label:    "TopTal",
		suffixes: []string{".gitignore", ".patch", ".stack"},
		locator: func(e Endpoints, name string) (string, error) {
			return e.TopTalAPI + "/" + name, nil
		},
	},
	URL: {
		prefix: "url:",
		label:  "URL",
		locator: func(_ Endpoints, name string) (string, error) {
			if !isAbsoluteURL(name) {
				return "", fmt.Errorf("%w: %s", ErrInvalidURL, name)
			}
			u, _ := url.Parse(name)
			return u.String(), nil
		},
	},
	File: {
		prefix: "file:",
		label:  "File",
		locator: func(_ Endpoints, name string) (string, error) {
			return name, nil
		},
	},
}

// Kinds lists every kind in prefix-match order.
var Kinds = []Kind{GitHub, GitHubGlobal, GitHubCommunity, TopTal, GitHubRepo, URL, File}

// Prefix returns the explicit input prefix for k, e.g. "gh:".
func (k Kind) Prefix() string { return kindSpecs[k].prefix }

// Label is the human name used in banners and tab titles.
func (k Kind) Label() string { return kindSpecs[k].label }

func (k Kind) Valid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// ParseKind accepts a Kind value, its prefix with or without the colon, or a short alias.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "global":
		return GitHubGlobal, true
	case "community":
		return GitHubCommunity, true
	case "repo":
		return GitHubRepo, true
	}
	for _, k := range Kinds {
		if s == string(k) || s == k.Prefix() || s+":" == k.Prefix() {
			return k, true
		}
	}
	return "", false
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	// single-letter schemes are drive letters, not URLs
	if len(u.Scheme) < 2 {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}
