package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jxwalker/gitnr/internal/cache"
	friendly "github.com/jxwalker/gitnr/internal/errors"
)

func newCacheCmd(o *globalOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached templates and catalogs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := o.loadConfig(cmd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cache.Dir(cfg))
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List cache files with their size and age",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := o.loadConfig(cmd)
				if err != nil {
					return err
				}
				dir := cache.Dir(cfg)
				files, err := cache.Files(dir)
				if err != nil {
					return friendly.PathError(dir, err)
				}
				out := cmd.OutOrStdout()
				if len(files) == 0 {
					fmt.Fprintf(out, "%s is empty\n", dir)
					return nil
				}
				now := time.Now()
				var total int64
				for _, f := range files {
					rel, err := filepath.Rel(dir, f.Path)
					if err != nil {
						rel = f.Path
					}
					fmt.Fprintf(out, "%-40s %10s  written %s\n", rel, humanize.Bytes(uint64(f.Size)), humanize.RelTime(f.ModTime, now, "ago", "from now"))
					total += f.Size
				}
				fmt.Fprintf(out, "%d files, %s in %s\n", len(files), humanize.Bytes(uint64(total)), dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove everything under the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := o.loadConfig(cmd)
				if err != nil {
					return err
				}
				dir := cache.Dir(cfg)
				n, err := cache.Clear(dir)
				if err != nil {
					return friendly.PathError(dir, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries from %s\n", n, dir)
				return nil
			},
		},
	)
	return cmd
}
