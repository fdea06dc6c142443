package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jxwalker/gitnr/internal/app"
	friendly "github.com/jxwalker/gitnr/internal/errors"
	"github.com/jxwalker/gitnr/internal/history"
	"github.com/jxwalker/gitnr/internal/template"
)

func newCreateCmd(o *globalOpts) *cobra.Command {
	var (
		save bool
		file string
	)
	cmd := &cobra.Command{
		Use:   "create TEMPLATE...",
		Short: "Generate a .gitignore from templates",
		Long: `Generate a .gitignore from one or more templates, separated by spaces or commas.

Examples:
  gitnr create gh:Go tt:JetBrains+all
  gitnr create Go,Global/macOS -s
  gitnr create repo:owner/repo/main/.gitignore -f build/.gitignore`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			ctx := cmd.Context()

			l := a.Parser.ParseArgs(args)
			if len(l) == 0 {
				return friendly.NewFriendlyError("No templates given",
					"Pass at least one template, e.g. gitnr create gh:Go")
			}
			content, err := a.Generate(ctx, l)
			if err != nil {
				return a.Explain(ctx, err)
			}

			dest := ""
			switch {
			case file != "":
				dest = file
			case save:
				dest = ".gitignore"
			}
			if dest == "" {
				fmt.Fprintln(cmd.OutOrStdout(), content)
			} else {
				if err := writeDocument(dest, content); err != nil {
					return err
				}
				a.Log.Infof("wrote %s", dest)
			}
			recordHistory(a, l, dest, len(content))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "write to ./.gitignore")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to `PATH`")
	return cmd
}

// writeDocument replaces path with content. The file always ends with a newline.
func writeDocument(path, content string) error {
	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return friendly.PathError(path, fmt.Errorf("%s is a directory", path))
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return friendly.PathError(path, err)
	}
	return nil
}

// recordHistory logs failures and never fails the command.
func recordHistory(a *app.App, l template.List, dest string, n int) {
	db, err := a.OpenHistory()
	if err != nil {
		a.Log.Warnf("history: %v", err)
		return
	}
	if db == nil {
		return
	}
	defer func() { _ = db.Close() }()

	if dest == "" {
		dest = "stdout"
	}
	ids := make([]string, len(l))
	for i, id := range l {
		ids[i] = id.Arg()
	}
	if err := db.Record(history.Entry{Command: l.Command(app.Prog), Templates: ids, Dest: dest, Bytes: n}); err != nil {
		a.Log.Warnf("history: %v", err)
	}
}
