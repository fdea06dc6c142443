package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jxwalker/gitnr/internal/cache"
	"github.com/jxwalker/gitnr/internal/config"
	"github.com/jxwalker/gitnr/internal/history"
	"github.com/jxwalker/gitnr/internal/system"
)

// Check represents a single diagnostic check
type Check struct {
	Name string
	Run  func(ctx context.Context) CheckResult
}

// CheckResult represents the result of a diagnostic check
type CheckResult struct {
	Passed     bool
	Warning    bool // Passed but with warnings
	Message    string
	Suggestion string
}

const lowDiskSpace = 50 << 20

func newDoctorCmd(o *globalOpts) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, cache and provider connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgErr := o.loadConfig(cmd)
			return runDoctor(cmd.Context(), cmd.OutOrStdout(), cfg, cfgErr, verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show timings for each check")
	return cmd
}

func doctorChecks(cfg *config.Config, cfgErr error) []Check {
	checks := []Check{{
		Name: "Configuration",
		Run: func(ctx context.Context) CheckResult {
			if cfgErr != nil {
				return CheckResult{Message: "Config could not be loaded", Suggestion: cfgErr.Error()}
			}
			return CheckResult{Passed: true, Message: fmt.Sprintf("version %d", cfg.Version)}
		},
	}}
	if cfgErr != nil {
		return checks
	}
	dir := cache.Dir(cfg)

	checks = append(checks,
		Check{
			Name: "Cache directory writable",
			Run: func(ctx context.Context) CheckResult {
				if err := tryWrite(dir); err != nil {
					return CheckResult{
						Message:    err.Error(),
						Suggestion: "Set cache.dir in your config to a writable directory",
					}
				}
				return CheckResult{Passed: true, Message: dir}
			},
		},
		Check{
			Name: "Disk space",
			Run: func(ctx context.Context) CheckResult {
				_ = os.MkdirAll(dir, 0o755)
				available, err := system.AvailableSpace(dir)
				if err != nil {
					return CheckResult{Passed: true, Warning: true, Message: fmt.Sprintf("Could not check disk space: %v", err)}
				}
				if available < lowDiskSpace {
					return CheckResult{
						Passed:     true,
						Warning:    true,
						Message:    fmt.Sprintf("Low disk space: %s free", humanize.Bytes(available)),
						Suggestion: "Cache writes may fail; free some space or move cache.dir",
					}
				}
				return CheckResult{Passed: true, Message: fmt.Sprintf("%s available", humanize.Bytes(available))}
			},
		},
		Check{
			Name: "History database",
			Run: func(ctx context.Context) CheckResult {
				if !cfg.History.Enabled {
					return CheckResult{Passed: true, Message: "disabled"}
				}
				db, err := history.Open(dir)
				if err != nil {
					return CheckResult{Message: err.Error(), Suggestion: "Set history.enabled: false to skip recording"}
				}
				defer func() { _ = db.Close() }()
				entries, err := db.List(0)
				if err != nil {
					return CheckResult{Message: err.Error(), Suggestion: fmt.Sprintf("Remove it and start over:\n  rm %s", db.Path)}
				}
				return CheckResult{Passed: true, Message: fmt.Sprintf("%d entries in %s", len(entries), db.Path)}
			},
		},
		Check{
			Name: "Cached catalogs",
			Run: func(ctx context.Context) CheckResult {
				var parts []string
				stale := false
				for _, src := range []string{"github", "toptal"} {
					fi, err := os.Stat(cache.CollectionPath(dir, src))
					if err != nil {
						parts = append(parts, src+": not cached")
						continue
					}
					if cache.Expired(fi.ModTime(), time.Now()) {
						stale = true
					}
					parts = append(parts, fmt.Sprintf("%s: %s", src, humanize.Time(fi.ModTime())))
				}
				r := CheckResult{Passed: true, Message: strings.Join(parts, ", ")}
				if stale {
					r.Suggestion = "Stale catalogs are refreshed automatically on next use"
				}
				return r
			},
		},
		Check{
			Name: "GitHub token",
			Run: func(ctx context.Context) CheckResult {
				env := cfg.Sources.GitHub.TokenEnv
				if strings.TrimSpace(os.Getenv(env)) == "" {
					return CheckResult{
						Passed:     true,
						Warning:    true,
						Message:    env + " not set (60 API requests per hour)",
						Suggestion: "export " + env + "=ghp_... to raise the GitHub API rate limit",
					}
				}
				return CheckResult{Passed: true, Message: env + " is set"}
			},
		},
	)

	endpoints := []struct{ name, url string }{
		{"GitHub API reachable", cfg.Sources.GitHub.APIBase},
		{"GitHub raw content reachable", cfg.Sources.GitHub.RawBase},
		{"TopTal API reachable", cfg.Sources.TopTal.APIBase},
	}
	for _, ep := range endpoints {
		checks = append(checks, Check{
			Name: ep.name,
			Run: func(ctx context.Context) CheckResult {
				if err := system.CheckEndpoint(ctx, ep.url); err != nil {
					return CheckResult{Message: err.Error()}
				}
				return CheckResult{Passed: true, Message: ep.url}
			},
		})
	}

	checks = append(checks, Check{
		Name: "Proxy settings",
		Run: func(ctx context.Context) CheckResult {
			proxies := system.ProxySettings()
			if len(proxies) == 0 {
				return CheckResult{Passed: true, Message: "none"}
			}
			keys := make([]string, 0, len(proxies))
			for k := range proxies {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = k + "=" + proxies[k]
			}
			return CheckResult{Passed: true, Message: strings.Join(parts, " ")}
		},
	})
	return checks
}

func runDoctor(ctx context.Context, w io.Writer, cfg *config.Config, cfgErr error, verbose bool) error {
	fmt.Fprintln(w, "Running gitnr diagnostics...")
	fmt.Fprintln(w)

	checks := doctorChecks(cfg, cfgErr)
	results := make([]CheckResult, len(checks))
	durations := make([]time.Duration, len(checks))
	// checks are independent; the slow ones are network dials
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			start := time.Now()
			results[i] = check.Run(gctx)
			durations[i] = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	var passed, failed, warnings int
	for i, check := range checks {
		result := results[i]
		duration := durations[i]

		symbol := "✓"
		switch {
		case !result.Passed:
			symbol = "✗"
			failed++
		case result.Warning:
			symbol = "⚠"
			warnings++
			passed++
		default:
			passed++
		}

		fmt.Fprintf(w, "%s %s", symbol, check.Name)
		if verbose {
			fmt.Fprintf(w, " (%.2fs)", duration.Seconds())
		}
		fmt.Fprintln(w)
		if result.Message != "" {
			fmt.Fprintf(w, "  %s\n", result.Message)
		}
		if result.Suggestion != "" {
			for _, line := range strings.Split(result.Suggestion, "\n") {
				fmt.Fprintf(w, "  → %s\n", line)
			}
		}
	}

	fmt.Fprintf(w, "\n%d passed, %d warnings, %d failed\n", passed, warnings, failed)
	if failed > 0 {
		return fmt.Errorf("%d checks failed", failed)
	}
	return nil
}

func tryWrite(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".gitnr-write-test")
	defer func() { _ = os.Remove(tmp) }()
	return os.WriteFile(tmp, []byte("test"), 0o644)
}
