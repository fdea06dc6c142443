package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jxwalker/gitnr/internal/template"
)

// Filter keeps entries whose name contains text, ignoring case. Order is preserved.
func Filter(entries []template.Identifier, text string) []template.Identifier {
	if text == "" {
		return entries
	}
	needle := strings.ToLower(text)
	out := make([]template.Identifier, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name()), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Suggest returns up to n names from entries that look like name. Ordered
// subsequence matches come first, then close edits.
func Suggest(entries []template.Identifier, name string, n int) []string {
	name = strings.TrimSpace(name)
	if name == "" || n <= 0 || len(entries) == 0 {
		return nil
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}

	var out []string
	seen := map[string]bool{}
	add := func(s string) {
		if !seen[s] && len(out) < n {
			seen[s] = true
			out = append(out, s)
		}
	}

	ranks := fuzzy.RankFindFold(name, names)
	sort.Stable(ranks)
	for _, r := range ranks {
		add(r.Target)
	}

	type candidate struct {
		name string
		dist int
	}
	maxDist := len(name) / 3
	if maxDist < 2 {
		maxDist = 2
	}
	lower := strings.ToLower(name)
	var near []candidate
	for _, s := range names {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(s)); d <= maxDist {
			near = append(near, candidate{s, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool { return near[i].dist < near[j].dist })
	for _, c := range near {
		add(c.name)
	}
	return out
}
