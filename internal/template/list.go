package template

import (
	"context"
	"strings"
)

// BodySource returns the trimmed body for one template.
type BodySource interface {
	Body(ctx context.Context, id Identifier) (string, error)
}

// BodyFunc adapts a function to BodySource.
type BodyFunc func(ctx context.Context, id Identifier) (string, error)

func (f BodyFunc) Body(ctx context.Context, id Identifier) (string, error) { return f(ctx, id) }

// List is an ordered template selection. Duplicates are allowed and order is output order.
type List []Identifier

// ParseArgs splits every argument on commas and whitespace and parses each piece.
func (p *Parser) ParseArgs(args []string) List {
	var l List
	for _, a := range args {
		fields := strings.FieldsFunc(a, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		for _, f := range fields {
			l = append(l, p.Parse(f))
		}
	}
	return l
}

// ParseArgs uses the default filesystem check.
func ParseArgs(args []string) List { return defaultParser.ParseArgs(args) }

// Command rebuilds the invocation that reproduces l.
func (l List) Command(prog string) string {
	parts := make([]string, 0, len(l)+2)
	parts = append(parts, prog, "create")
	for _, id := range l {
		parts = append(parts, id.Arg())
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Content fetches every body in order and builds the document. A single template
// is returned as banner plus body; several are deduplicated across the whole list.
// The first failed fetch aborts.
func (l List) Content(ctx context.Context, src BodySource) (string, error) {
	if len(l) == 0 {
		return "", nil
	}
	bodies := make([]string, len(l))
	for i, id := range l {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		b, err := src.Body(ctx, id)
		if err != nil {
			return "", &FetchError{ID: id, Err: err}
		}
		bodies[i] = b
	}
	if len(l) == 1 {
		return l[0].Content(bodies[0]), nil
	}
	bodies = DedupLines(bodies)
	sections := make([]string, len(l))
	for i, id := range l {
		sections[i] = id.Content(bodies[i])
	}
	return strings.Join(sections, "\n\n"), nil
}

// FetchError names the template whose body could not be obtained.
type FetchError struct {
	ID  Identifier
	Err error
}

func (e *FetchError) Error() string { return e.ID.Arg() + ": " + e.Err.Error() }

func (e *FetchError) Unwrap() error { return e.Err }
