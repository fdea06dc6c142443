package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jxwalker/gitnr/internal/template"
)

const githubAccept = "application/vnd.github+json"

// githubListing is persisted as collections/github.json. One tree listing
// feeds the root, Global, and community catalogs.
type githubListing struct {
	Updated   time.Time             `json:"updated"`
	Root      []template.Identifier `json:"root"`
	Global    []template.Identifier `json:"global"`
	Community []template.Identifier `json:"community"`
}

type treeResponse struct {
	SHA       string     `json:"sha"`
	Truncated bool       `json:"truncated"`
	Tree      []treeItem `json:"tree"`
}

type treeItem struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

func (s *Set) fetchGitHub(ctx context.Context) (*githubListing, error) {
	url := s.Endpoints.GitHubAPI + "/repos/github/gitignore/git/trees/main?recursive=true"
	headers := map[string]string{"Accept": githubAccept}
	if s.Token != "" {
		headers["Authorization"] = "Bearer " + s.Token
	}
	b, err := s.HTTP.Get(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("GitHub API error when fetching repo tree: %w", err)
	}
	var tree treeResponse
	if err := json.Unmarshal(b, &tree); err != nil {
		return nil, fmt.Errorf("parse GitHub tree response: %w", err)
	}
	if tree.Truncated {
		s.Log.Warnf("GitHub tree listing was truncated; some templates may be missing")
	}
	return partitionTree(tree.Tree, s.now()), nil
}

// partitionTree sorts .gitignore blobs into the three GitHub catalogs by directory.
func partitionTree(items []treeItem, now time.Time) *githubListing {
	l := &githubListing{
		Updated:   now.UTC(),
		Root:      []template.Identifier{},
		Global:    []template.Identifier{},
		Community: []template.Identifier{},
	}
	for _, it := range items {
		if it.Type == "tree" {
			continue
		}
		p, ok := strings.CutSuffix(it.Path, ".gitignore")
		if !ok {
			continue
		}
		switch {
		case !strings.Contains(p, "/"):
			l.Root = append(l.Root, template.New(template.GitHub, p))
		case strings.HasPrefix(p, "Global/"):
			l.Global = append(l.Global, template.New(template.GitHubGlobal, strings.TrimPrefix(p, "Global/")))
		case strings.HasPrefix(p, "community/"):
			l.Community = append(l.Community, template.New(template.GitHubCommunity, strings.TrimPrefix(p, "community/")))
		}
	}
	return l
}
