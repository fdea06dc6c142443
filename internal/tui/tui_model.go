package tui

import (
	"time"

	"github.com/jxwalker/gitnr/internal/catalog"
	"github.com/jxwalker/gitnr/internal/template"
)

// scrollDebounce drops wheel events that arrive this soon after the last accepted one.
const scrollDebounce = 15 * time.Millisecond

// fastStep is the cursor step with shift (keyboard) or shift/alt (wheel).
const fastStep = 10

type viewKind int

const (
	viewHome viewKind = iota
	viewPreview
)

// pane is one catalog tab: every entry, the entries matching the filter, and a cursor into the latter.
type pane struct {
	kind    template.Kind
	updated time.Time
	items   []template.Identifier
	visible []template.Identifier
	cursor  int
}

// Selection is one picked template together with the tab it was picked from.
type Selection struct {
	Kind template.Kind
	ID   template.Identifier
}

// TUIModel is the session state. It is only touched from the bubbletea update loop.
type TUIModel struct {
	view       viewKind
	panes      []*pane
	tab        int
	filter     string
	selected   []Selection
	preview    *PreviewState
	lastScroll time.Time
	now        func() time.Time
}

// NewTUIModel builds one pane per catalog, in the order given.
func NewTUIModel(cats []*catalog.Catalog) *TUIModel {
	m := &TUIModel{now: time.Now}
	for _, c := range cats {
		p := &pane{kind: c.Kind, updated: c.Updated, items: c.Entries, visible: c.Entries}
		m.panes = append(m.panes, p)
	}
	return m
}

func (m *TUIModel) active() *pane {
	if len(m.panes) == 0 {
		return &pane{}
	}
	return m.panes[m.tab]
}

// NextTab and PrevTab wrap around and re-apply the filter to the new pane.
func (m *TUIModel) NextTab() {
	if len(m.panes) == 0 {
		return
	}
	m.tab = (m.tab + 1) % len(m.panes)
	m.applyFilter()
}

func (m *TUIModel) PrevTab() {
	if len(m.panes) == 0 {
		return
	}
	m.tab = (m.tab + len(m.panes) - 1) % len(m.panes)
	m.applyFilter()
}

// Move shifts the cursor by delta, wrapping modulo the visible length.
func (m *TUIModel) Move(delta int) {
	p := m.active()
	n := len(p.visible)
	if n == 0 {
		return
	}
	step := delta
	if step > n {
		step = n
	} else if step < -n {
		step = -n
	}
	p.cursor = ((p.cursor+step)%n + n) % n
}

func (m *TUIModel) Top() { m.active().cursor = 0 }

func (m *TUIModel) Bottom() {
	p := m.active()
	p.cursor = max(len(p.visible)-1, 0)
}

// Highlighted returns the identifier under the cursor.
func (m *TUIModel) Highlighted() (template.Identifier, bool) {
	p := m.active()
	if p.cursor < 0 || p.cursor >= len(p.visible) {
		return template.Identifier{}, false
	}
	return p.visible[p.cursor], true
}

// Toggle adds the highlighted entry to the selection, or removes it if already present.
func (m *TUIModel) Toggle() {
	id, ok := m.Highlighted()
	if !ok {
		return
	}
	s := Selection{Kind: m.active().kind, ID: id}
	for i, cur := range m.selected {
		if cur == s {
			m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			return
		}
	}
	m.selected = append(m.selected, s)
}

func (m *TUIModel) Selected() []Selection { return m.selected }

// picked reports whether id from the active tab is in the selection.
func (m *TUIModel) picked(id template.Identifier) bool {
	s := Selection{Kind: m.active().kind, ID: id}
	for _, cur := range m.selected {
		if cur == s {
			return true
		}
	}
	return false
}

// SelectedList returns the selection as a template list in pick order.
func (m *TUIModel) SelectedList() template.List {
	l := make(template.List, len(m.selected))
	for i, s := range m.selected {
		l[i] = s.ID
	}
	return l
}

// SetFilter replaces the filter text and re-filters the active pane.
func (m *TUIModel) SetFilter(text string) {
	if text == m.filter {
		return
	}
	m.filter = text
	m.applyFilter()
}

func (m *TUIModel) Filter() string { return m.filter }

func (m *TUIModel) Filtering() bool { return m.filter != "" }

func (m *TUIModel) applyFilter() {
	p := m.active()
	p.visible = catalog.Filter(p.items, m.filter)
	if p.cursor >= len(p.visible) {
		p.cursor = max(len(p.visible)-1, 0)
	}
}

// acceptScroll reports whether a wheel event at now passes the debounce and records it if so.
func (m *TUIModel) acceptScroll() bool {
	now := m.now()
	if now.Sub(m.lastScroll) <= scrollDebounce {
		return false
	}
	m.lastScroll = now
	return true
}

func (m *TUIModel) OpenPreview(p *PreviewState) {
	m.preview = p
	m.view = viewPreview
}

// ClosePreview returns to Home and discards the preview.
func (m *TUIModel) ClosePreview() {
	m.preview = nil
	m.view = viewHome
}

func (m *TUIModel) Preview() *PreviewState { return m.preview }
