package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jxwalker/gitnr/internal/app"
	"github.com/jxwalker/gitnr/internal/cache"
	"github.com/jxwalker/gitnr/internal/config"
	friendly "github.com/jxwalker/gitnr/internal/errors"
	"github.com/jxwalker/gitnr/internal/logging"
)

// globalOpts are the persistent flags shared by every command.
type globalOpts struct {
	configPath string
	refresh    bool
	logLevel   string
	jsonLogs   bool
}

func newRootCmd() *cobra.Command {
	o := &globalOpts{}
	root := &cobra.Command{
		Use:   app.Prog,
		Short: "Generate .gitignore files from GitHub and TopTal templates",
		Long: `gitnr builds a .gitignore from one or more templates.

Templates come from github/gitignore (gh:, ghg: for Global/, ghc: for community/),
the TopTal API (tt:), any GitHub repo path (repo:owner/repo/ref/path), a URL (url:)
or a local file (file:). Without a prefix the kind is inferred.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "path to YAML config (default $GITNR_CONFIG or ~/.config/gitnr/config.yml)")
	pf.BoolVarP(&o.refresh, "refresh", "r", false, "ignore cached templates and catalogs for this run")
	pf.StringVar(&o.logLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.BoolVar(&o.jsonLogs, "json", false, "JSON log output")

	root.AddCommand(
		newCreateCmd(o),
		newSearchCmd(o),
		newListCmd(o),
		newCacheCmd(o),
		newHistoryCmd(o),
		newDoctorCmd(o),
		newVersionCmd(),
	)
	return root
}

func (o *globalOpts) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := o.configPath
	explicit := cmd.Flags().Changed("config") || strings.TrimSpace(os.Getenv("GITNR_CONFIG")) != ""
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, friendly.ConfigError(path, err)
	}
	return cfg, nil
}

// newApp builds the application context. Interactive sessions log to
// <cache dir>/gitnr.log, or nowhere, so the terminal UI stays clean.
func (o *globalOpts) newApp(cmd *cobra.Command, interactive bool) (*app.App, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	jsonOut := o.jsonLogs || strings.EqualFold(cfg.Logging.Format, "json")

	var log *logging.Logger
	switch {
	case !interactive:
		log = logging.NewWithWriter(level, jsonOut, cmd.ErrOrStderr())
	case cfg.Logging.File:
		log, err = logging.NewFile(level, jsonOut, filepath.Join(cache.Dir(cfg), "gitnr.log"))
		if err != nil {
			return nil, friendly.PathError(filepath.Join(cache.Dir(cfg), "gitnr.log"), err)
		}
	default:
		log = logging.Discard()
	}
	return app.New(cfg, app.Options{Refresh: o.refresh, Log: log}), nil
}
