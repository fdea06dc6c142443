package template

import (
	"strings"
	"unicode/utf8"
)

// Identifier is a template reference as the user typed it plus the resolved Kind.
// Two identifiers are equal when both fields are equal.
type Identifier struct {
	Input string `json:"input"`
	Kind  Kind   `json:"kind"`
}

// New builds an Identifier for name under kind, adding the kind's prefix.
func New(kind Kind, name string) Identifier {
	return Identifier{Input: kind.Prefix() + name, Kind: kind}
}

// Name is the input with the prefix, folder, and known suffix removed.
func (id Identifier) Name() string {
	spec := kindSpecs[id.Kind]
	name := strings.TrimPrefix(id.Input, spec.prefix)
	if spec.folder != "" && hasFoldPrefix(name, spec.folder) {
		name = name[len(spec.folder):]
	}
	for _, s := range spec.suffixes {
		if strings.HasSuffix(name, s) {
			name = strings.TrimSuffix(name, s)
			break
		}
	}
	return name
}

// Arg is the canonical command-line form, e.g. "gh:Rust".
func (id Identifier) Arg() string { return id.Kind.Prefix() + id.Name() }

func (id Identifier) Title() string { return id.Kind.Label() + ": " + id.Name() }

func (id Identifier) String() string { return id.Arg() }

// Locator returns the URL or path the body is fetched from.
func (id Identifier) Locator(e Endpoints) (string, error) {
	spec, ok := kindSpecs[id.Kind]
	if !ok {
		return "", &UnknownKindError{Kind: id.Kind}
	}
	return spec.locator(e, id.Name())
}

// Banner is the three-line title block placed above a body.
func (id Identifier) Banner() string {
	title := "###  " + id.Title() + "  ###"
	rule := "###" + strings.Repeat("-", utf8.RuneCountInString(title)-4) + "###"
	return rule + "\n" + title + "\n" + rule + "\n"
}

// Content wraps body with the banner.
func (id Identifier) Content(body string) string {
	return strings.TrimSpace(id.Banner() + "\n" + body)
}

type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string { return "unknown template kind: " + string(e.Kind) }
