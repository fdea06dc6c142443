package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jxwalker/gitnr/internal/catalog"
)

type model struct {
	tuiModel      *TUIModel
	tuiView       *TUIView
	tuiController *TUIController
}

type tickMsg time.Time

type Options struct {
	// Prog is the command name shown in the copied CLI command.
	Prog string
	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard
}

// New creates a new TUI model that implements the tea.Model interface.
// It orchestrates the MVC components: TUIModel, TUIView, and TUIController.
func New(ctx context.Context, cats []*catalog.Catalog, build Builder, opts Options) tea.Model {
	if opts.Prog == "" {
		opts.Prog = "gitnr"
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	tuiModel := NewTUIModel(cats)
	tuiView := NewTUIView()
	tuiController := NewTUIController(ctx, tuiModel, tuiView, build, opts.Clipboard, opts.Prog)

	m := &model{
		tuiModel:      tuiModel,
		tuiView:       tuiView,
		tuiController: tuiController,
	}

	tuiController.SetModel(m)

	return m
}

func (m *model) Init() tea.Cmd {
	return m.tuiController.Init()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.tuiController.Update(msg)
}

func (m *model) View() string {
	return m.tuiView.View(m.tuiModel, m.tuiController)
}

// Run drives an interactive session on the alternate screen until the user
// quits. A preview or clipboard failure ends the session and is returned.
func Run(ctx context.Context, cats []*catalog.Catalog, build Builder, opts Options) error {
	m := New(ctx, cats, build, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*model); ok {
		return fm.tuiController.Err()
	}
	return nil
}

func tickCmd() tea.Cmd {
	d := 250 * time.Millisecond
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}
