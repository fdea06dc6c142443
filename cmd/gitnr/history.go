package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	friendly "github.com/jxwalker/gitnr/internal/errors"
)

func newHistoryCmd(o *globalOpts) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently generated files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(cmd, false)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			out := cmd.OutOrStdout()
			db, err := a.OpenHistory()
			if err != nil {
				return friendly.DatabaseError(a.CacheDir, err)
			}
			if db == nil {
				fmt.Fprintln(out, "history is disabled (history.enabled: false)")
				return nil
			}
			defer func() { _ = db.Close() }()

			entries, err := db.List(limit)
			if err != nil {
				return friendly.DatabaseError(db.Path, err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no history yet")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-16s %-12s %8s  %s\n",
					humanize.Time(e.CreatedAt), e.Dest, humanize.Bytes(uint64(e.Bytes)), e.Command)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "show at most `N` entries")
	return cmd
}
