package main

import (
	"github.com/spf13/cobra"

	"github.com/jxwalker/gitnr/internal/app"
	"github.com/jxwalker/gitnr/internal/tui"
)

func newSearchCmd(o *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Browse and preview templates interactively",
		Long: `Open the interactive browser. Templates from every catalog are listed in tabs;
pick several with Enter, preview them with Shift+S and copy the result or the
equivalent create command from the preview.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd, true)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			ctx := cmd.Context()

			cats, err := a.Catalogs.All(ctx)
			if err != nil {
				return a.Explain(ctx, err)
			}
			err = tui.Run(ctx, cats, a.Generate, tui.Options{Prog: app.Prog})
			return a.Explain(ctx, err)
		},
	}
}
