package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/gitnr/internal/template"
)

// Builder produces the merged document for a template list.
type Builder func(ctx context.Context, l template.List) (string, error)

// Clipboard is the system clipboard, swapped out in tests.
type Clipboard interface {
	WriteAll(text string) error
}

type TUIController struct {
	model       *TUIModel
	view        *TUIView
	root        tea.Model
	ctx         context.Context
	build       Builder
	clip        Clipboard
	prog        string
	filterInput textinput.Model
	err         error
}

func NewTUIController(ctx context.Context, model *TUIModel, view *TUIView, build Builder, clip Clipboard, prog string) *TUIController {
	filterInput := textinput.New()
	filterInput.Placeholder = "start typing..."
	filterInput.Prompt = ""
	filterInput.Focus()

	return &TUIController{
		model:       model,
		view:        view,
		ctx:         ctx,
		build:       build,
		clip:        clip,
		prog:        prog,
		filterInput: filterInput,
	}
}

// SetModel records the tea.Model handed back from Update.
func (c *TUIController) SetModel(m tea.Model) { c.root = m }

// Err is the failure that ended the session, if any.
func (c *TUIController) Err() error { return c.err }

func (c *TUIController) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func (c *TUIController) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.view.SetSize(msg.Width, msg.Height)
		if p := c.model.Preview(); p != nil {
			p.SetRows(c.view.PreviewRows(p))
		}
		return c.root, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return c.root, tea.Quit
		}
		if c.model.view == viewPreview {
			return c.handlePreviewKeys(msg)
		}
		return c.handleHomeKeys(msg)

	case tea.MouseMsg:
		if c.model.view == viewPreview {
			return c.handlePreviewMouse(msg)
		}
		return c.handleHomeMouse(msg)

	case tickMsg:
		return c.root, tickCmd()
	}

	// cursor blink and friends
	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	return c.root, cmd
}

func (c *TUIController) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isRune(msg, 'S'):
		if len(c.model.Selected()) == 0 {
			return c.root, nil
		}
		return c.openPreview(c.model.SelectedList())
	case isRune(msg, 'C'):
		id, ok := c.model.Highlighted()
		if !ok {
			return c.root, nil
		}
		return c.openPreview(template.List{id})
	}

	switch msg.Type {
	case tea.KeyLeft:
		c.model.PrevTab()
	case tea.KeyRight:
		c.model.NextTab()
	case tea.KeyEnter:
		c.model.Toggle()
	case tea.KeyUp:
		c.model.Move(-1)
	case tea.KeyDown:
		c.model.Move(1)
	case tea.KeyShiftUp:
		c.model.Move(-fastStep)
	case tea.KeyShiftDown:
		c.model.Move(fastStep)
	case tea.KeyHome:
		c.model.Top()
	case tea.KeyEnd:
		c.model.Bottom()
	case tea.KeyEsc:
		c.filterInput.SetValue("")
		c.model.SetFilter("")
	case tea.KeySpace:
		if !c.model.Filtering() {
			return c.root, nil
		}
		return c.updateFilter(msg)
	default:
		return c.updateFilter(msg)
	}
	return c.root, nil
}

func (c *TUIController) updateFilter(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	c.filterInput, cmd = c.filterInput.Update(msg)
	c.model.SetFilter(c.filterInput.Value())
	return c.root, cmd
}

func (c *TUIController) handleHomeMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseLeft:
		c.model.Toggle()
	case tea.MouseWheelUp:
		if c.model.acceptScroll() {
			c.model.Move(-wheelStep(msg))
		}
	case tea.MouseWheelDown:
		if c.model.acceptScroll() {
			c.model.Move(wheelStep(msg))
		}
	}
	return c.root, nil
}

// openPreview builds the document synchronously. A failure ends the session.
func (c *TUIController) openPreview(l template.List) (tea.Model, tea.Cmd) {
	content, err := c.build(c.ctx, l)
	if err != nil {
		c.err = err
		return c.root, tea.Quit
	}
	p := NewPreviewState(l, content, c.prog)
	p.SetRows(c.view.PreviewRows(p))
	c.model.OpenPreview(p)
	c.view.ResetPreview()
	return c.root, nil
}

func (c *TUIController) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := c.model.Preview()
	switch p.Mode {
	case CopiedContent:
		if !isRune(msg, 'c') && !isRune(msg, 'C') {
			p.Mode = PreviewDefault
		}
		return c.root, nil
	case CopiedCommand:
		if !isRune(msg, 'x') && !isRune(msg, 'X') {
			p.Mode = PreviewDefault
		}
		return c.root, nil
	}

	switch {
	case isRune(msg, 'C'):
		return c.copy(p.Content, CopiedContent)
	case isRune(msg, 'X'):
		return c.copy(p.Command, CopiedCommand)
	}

	switch msg.Type {
	case tea.KeyEsc:
		c.model.ClosePreview()
	case tea.KeyUp:
		p.ScrollBy(-1)
	case tea.KeyDown:
		p.ScrollBy(1)
	case tea.KeyHome:
		p.ScrollTop()
	case tea.KeyEnd:
		p.ScrollBottom()
	}
	return c.root, nil
}

func (c *TUIController) copy(text string, mode PreviewMode) (tea.Model, tea.Cmd) {
	if err := c.clip.WriteAll(text); err != nil {
		c.err = err
		return c.root, tea.Quit
	}
	c.model.Preview().Mode = mode
	return c.root, nil
}

func (c *TUIController) handlePreviewMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	p := c.model.Preview()
	if p.Mode != PreviewDefault {
		if msg.Type == tea.MouseLeft {
			p.Mode = PreviewDefault
		}
		return c.root, nil
	}
	switch msg.Type {
	case tea.MouseWheelUp:
		if c.model.acceptScroll() {
			p.ScrollBy(-wheelStep(msg))
		}
	case tea.MouseWheelDown:
		if c.model.acceptScroll() {
			p.ScrollBy(wheelStep(msg))
		}
	}
	return c.root, nil
}

func isRune(msg tea.KeyMsg, r rune) bool {
	return msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) == 1 && msg.Runes[0] == r
}

func wheelStep(msg tea.MouseMsg) int {
	if msg.Shift || msg.Alt {
		return fastStep
	}
	return 1
}
