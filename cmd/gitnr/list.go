package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jxwalker/gitnr/internal/catalog"
	friendly "github.com/jxwalker/gitnr/internal/errors"
	"github.com/jxwalker/gitnr/internal/template"
)

func newListCmd(o *globalOpts) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:       "list [github|global|community|toptal]",
		Short:     "Print available template names",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"github", "global", "community", "toptal"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := catalog.Tabs
			if len(args) == 1 {
				k, ok := template.ParseKind(args[0])
				if !ok || !catalog.Has(k) {
					return friendly.NewFriendlyError(
						fmt.Sprintf("Unknown catalog: %s", args[0]),
						"Use one of: github, global, community, toptal")
				}
				kinds = []template.Kind{k}
			}

			a, err := o.newApp(cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()
			ctx := cmd.Context()

			out := cmd.OutOrStdout()
			for i, k := range kinds {
				c, err := a.Catalogs.Get(ctx, k)
				if err != nil {
					return a.Explain(ctx, err)
				}
				if len(kinds) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "# %s\n", k.Label())
				}
				for _, id := range catalog.Filter(c.Entries, strings.TrimSpace(filter)) {
					fmt.Fprintln(out, id.Arg())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only names containing `TEXT` (case-insensitive)")
	return cmd
}
