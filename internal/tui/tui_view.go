package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

type TUIView struct {
	theme  Theme
	vp     viewport.Model
	width  int
	height int
}

func NewTUIView() *TUIView {
	return &TUIView{
		theme: defaultTheme(),
		vp:    viewport.New(0, 0),
	}
}

func (v *TUIView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// ResetPreview forgets the previous document's viewport state.
func (v *TUIView) ResetPreview() {
	v.vp = viewport.New(0, 0)
}

func (v *TUIView) View(model *TUIModel, controller *TUIController) string {
	if v.width == 0 {
		return "Loading..."
	}
	if model.view == viewPreview && model.Preview() != nil {
		return v.renderPreview(model.Preview())
	}
	return v.renderHome(model, controller)
}

func (v *TUIView) renderHome(model *TUIModel, controller *TUIController) string {
	header := v.renderHeader(model)
	footer := v.renderFooter([][2]string{
		{"Quit", "Ctrl+C"},
		{"Tabs", "←→"},
		{"List", "↑↓ or wheel (+Shift=fast)"},
		{"Select", "Enter"},
		{"Filter", "start typing"},
		{"Current", "Shift+C"},
		{"Selection", "Shift+S"},
	})
	bodyH := v.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 5 {
		bodyH = 5
	}
	leftW := v.width * 2 / 3
	rightW := v.width - leftW

	list := v.box(leftW, bodyH, v.renderList(model, leftW-4, bodyH-2))
	filter := v.box(rightW, 3, v.theme.label.Render("Filter ")+controller.filterInput.View())
	selH := bodyH - lipgloss.Height(filter)
	if selH < 3 {
		selH = 3
	}
	sel := v.box(rightW, selH, v.renderSelection(model, rightW-4, selH-2))
	right := lipgloss.JoinVertical(lipgloss.Left, filter, sel)

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, right)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (v *TUIView) renderHeader(model *TUIModel) string {
	tabs := make([]string, len(model.panes))
	for i, p := range model.panes {
		st := v.theme.tabInactive
		if i == model.tab {
			st = v.theme.tabActive
		}
		tabs[i] = st.Render(p.kind.Label())
	}
	line := strings.Join(tabs, "  ")
	logo := v.theme.logo.Render("gitnr")
	if gap := v.width - lipgloss.Width(line) - lipgloss.Width(logo); gap > 0 {
		line += strings.Repeat(" ", gap) + logo
	}

	p := model.active()
	info := fmt.Sprintf("%d of %d templates", len(p.visible), len(p.items))
	if !p.updated.IsZero() {
		info += " · updated " + humanize.Time(p.updated)
	}
	return line + "\n" + v.theme.label.Render(info)
}

func (v *TUIView) renderList(model *TUIModel, width, rows int) string {
	p := model.active()
	if len(p.visible) == 0 {
		return v.theme.label.Render("(no templates)")
	}
	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	end := min(start+rows, len(p.visible))

	var b strings.Builder
	for i := start; i < end; i++ {
		id := p.visible[i]
		mark := "  "
		if model.picked(id) {
			mark = v.theme.picked.Render("✓ ")
		}
		name := truncateMiddle(id.Name(), max(width-2, 1))
		st := v.theme.row
		if i == p.cursor {
			st = v.theme.rowSelected
		}
		b.WriteString(mark + st.Render(name))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (v *TUIView) renderSelection(model *TUIModel, width, rows int) string {
	sel := model.Selected()
	lines := []string{v.theme.title.Render(fmt.Sprintf("Selection (%d)", len(sel)))}
	for i, s := range sel {
		if len(lines) == rows {
			lines[rows-1] = v.theme.label.Render(fmt.Sprintf("… %d more", len(sel)-i+1))
			break
		}
		lines = append(lines, truncateMiddle(s.Kind.Label()+" - "+s.ID.Name(), max(width, 1)))
	}
	return strings.Join(lines, "\n")
}

// previewChrome renders the preview title and footer and returns the height
// left for the bordered body.
func (v *TUIView) previewChrome(p *PreviewState) (title, footer string, bodyH int) {
	footer = v.renderFooter([][2]string{
		{"Back", "Esc"},
		{"Quit", "Ctrl+C"},
		{"Scroll", "↑↓ Home End or wheel"},
		{"Copy Template", "Shift+C"},
		{"Copy Command", "Shift+X"},
	})
	title = v.theme.title.Render(p.Title())
	bodyH = max(v.height-lipgloss.Height(title)-lipgloss.Height(footer), 3)
	return title, footer, bodyH
}

// PreviewRows is the number of document lines visible at the current size.
func (v *TUIView) PreviewRows(p *PreviewState) int {
	if v.width == 0 {
		return 0
	}
	_, _, bodyH := v.previewChrome(p)
	return max(bodyH-2, 1)
}

func (v *TUIView) renderPreview(p *PreviewState) string {
	title, footer, bodyH := v.previewChrome(p)

	if p.Mode != PreviewDefault {
		popup := v.renderPopup(p)
		body := lipgloss.Place(v.width, bodyH, lipgloss.Center, lipgloss.Center, popup)
		return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
	}

	v.vp.Width = max(v.width-4, 1)
	v.vp.Height = v.PreviewRows(p)
	v.vp.SetContent(p.Content)
	v.vp.SetYOffset(p.Scroll())
	body := v.box(v.width, bodyH, v.vp.View())
	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

func (v *TUIView) renderPopup(p *PreviewState) string {
	var b strings.Builder
	if p.Mode == CopiedContent {
		b.WriteString(v.theme.ok.Render("Template copied to clipboard"))
	} else {
		b.WriteString(v.theme.ok.Render("CLI command copied to clipboard"))
		b.WriteString("\n\n" + p.Command)
	}
	b.WriteString("\n\n" + v.theme.label.Render("Note: You may need to paste the copied content before exiting"))
	b.WriteString("\n" + v.theme.footer.Render("press any key to continue"))
	w := min(max(lipgloss.Width(b.String())+4, 40), max(v.width-4, 20))
	return v.theme.border.Width(w).Render(b.String())
}

func (v *TUIView) renderFooter(items [][2]string) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it[0] + " " + v.theme.key.Render(it[1])
	}
	return v.theme.footer.Width(v.width).Render(strings.Join(parts, "  │  "))
}

// box draws a bordered panel of the given outer size.
func (v *TUIView) box(width, height int, content string) string {
	return v.theme.border.Width(max(width-2, 1)).Height(max(height-2, 1)).Render(content)
}
