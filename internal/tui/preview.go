package tui

import (
	"fmt"
	"strings"

	"github.com/jxwalker/gitnr/internal/template"
)

// PreviewMode is the preview sub-state.
type PreviewMode int

const (
	PreviewDefault PreviewMode = iota
	CopiedContent
	CopiedCommand
)

// PreviewState holds a generated document and what the user is doing with it.
type PreviewState struct {
	Templates template.List
	Content   string
	Command   string
	Mode      PreviewMode
	scroll    int
	rows      int
}

// NewPreviewState takes an already generated document for l.
func NewPreviewState(l template.List, content, prog string) *PreviewState {
	return &PreviewState{
		Templates: l,
		Content:   content,
		Command:   l.Command(prog),
	}
}

// Title names the single template, or counts the selection.
func (p *PreviewState) Title() string {
	if len(p.Templates) == 1 {
		return fmt.Sprintf(" Preview: %s ", p.Templates[0].Name())
	}
	return fmt.Sprintf(" Preview: Selected (%d) ", len(p.Templates))
}

func (p *PreviewState) LineCount() int {
	return strings.Count(p.Content, "\n") + 1
}

func (p *PreviewState) Scroll() int { return p.scroll }

// SetRows records how many lines fit on screen and re-clamps the offset.
func (p *PreviewState) SetRows(n int) {
	p.rows = n
	p.scroll = clamp(p.scroll, 0, p.maxScroll())
}

// maxScroll is the offset that puts the last line on the bottom row. Before
// the page size is known every line may be the first one shown.
func (p *PreviewState) maxScroll() int {
	if p.rows <= 0 {
		return p.LineCount() - 1
	}
	return max(p.LineCount()-p.rows, 0)
}

// ScrollBy moves the offset by delta, clamped to [0, maxScroll].
func (p *PreviewState) ScrollBy(delta int) {
	p.scroll = clamp(p.scroll+delta, 0, p.maxScroll())
}

func (p *PreviewState) ScrollTop() { p.scroll = 0 }

func (p *PreviewState) ScrollBottom() { p.scroll = p.maxScroll() }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
