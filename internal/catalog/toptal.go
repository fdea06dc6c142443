package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jxwalker/gitnr/internal/template"
)

// toptalListing is persisted as collections/toptal.json.
type toptalListing struct {
	Updated   time.Time             `json:"updated"`
	Templates []template.Identifier `json:"templates"`
}

func (s *Set) fetchTopTal(ctx context.Context) (*toptalListing, error) {
	b, err := s.HTTP.Get(ctx, s.Endpoints.TopTalAPI+"/list?format=lines", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch template list from TopTal: %w", err)
	}
	l := &toptalListing{Updated: s.now().UTC(), Templates: []template.Identifier{}}
	for _, line := range strings.Split(string(b), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		l.Templates = append(l.Templates, template.New(template.TopTal, name))
	}
	return l, nil
}
