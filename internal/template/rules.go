package template

import (
	"os"
	"strings"
)

// rule maps an un-prefixed input to a Kind. Rules are tried in order and the
// first match wins; GitHub is the fallback when none match.
type rule struct {
	name  string
	match func(p *Parser, input string) bool
	kind  Kind
}

var rules = []rule{
	{name: "absolute-url", kind: URL, match: func(_ *Parser, s string) bool { return isAbsoluteURL(s) }},
	{name: "existing-path", kind: File, match: func(p *Parser, s string) bool { return p.exists(s) }},
	{name: "repo-path", kind: GitHubRepo, match: func(_ *Parser, s string) bool { return strings.Count(s, "/") >= 3 }},
	{name: "community-folder", kind: GitHubCommunity, match: func(_ *Parser, s string) bool { return hasFoldPrefix(s, "community/") }},
	{name: "global-folder", kind: GitHubGlobal, match: func(_ *Parser, s string) bool { return hasFoldPrefix(s, "global/") }},
}

// Parser resolves raw strings into Identifiers.
type Parser struct {
	// Exists reports whether a local path exists. Defaults to os.Stat.
	Exists func(path string) bool
}

var defaultParser = &Parser{}

// Parse resolves input with the default filesystem check.
func Parse(input string) Identifier { return defaultParser.Parse(input) }

// Parse never fails: an explicit prefix wins, then the heuristic rules, then GitHub.
func (p *Parser) Parse(input string) Identifier {
	input = strings.TrimSpace(input)
	for _, k := range Kinds {
		if strings.HasPrefix(input, k.Prefix()) {
			return Identifier{Input: input, Kind: k}
		}
	}
	for _, r := range rules {
		if r.match(p, input) {
			return Identifier{Input: input, Kind: r.kind}
		}
	}
	return Identifier{Input: input, Kind: GitHub}
}

func (p *Parser) exists(path string) bool {
	if path == "" {
		return false
	}
	if p != nil && p.Exists != nil {
		return p.Exists(path)
	}
	_, err := os.Stat(path)
	return err == nil
}

func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
