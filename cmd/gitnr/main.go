package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"

	"github.com/jxwalker/gitnr/internal/fetch"
)

var version = "dev"

var errBanner = lipgloss.NewStyle().Bold(true).
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("196"))

func main() {
	fetch.Version = version
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errBanner.Render(" Error "), err)
}
