package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGitHubRawBase = "https://raw.githubusercontent.com"
	DefaultGitHubAPIBase = "https://api.github.com"
	DefaultTopTalAPIBase = "https://www.toptal.com/developers/gitignore/api"
	DefaultTokenEnv      = "GITHUB_TOKEN"
)

// Config mirrors the YAML schema. Every field is optional; Default() fills the gaps.
type Config struct {
	Version int     `yaml:"version"`
	Cache   Cache   `yaml:"cache"`
	Network Network `yaml:"network"`
	Sources Sources `yaml:"sources"`
	Logging Logging `yaml:"logging"`
	History History `yaml:"history"`
	Metrics Metrics `yaml:"metrics"`
}

type Cache struct {
	// Dir overrides the per-user cache directory.
	Dir string `yaml:"dir"`
}

type Network struct {
	// TimeoutSeconds of 0 disables the client timeout.
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
}

type Sources struct {
	GitHub GitHubSource `yaml:"github"`
	TopTal TopTalSource `yaml:"toptal"`
}

type GitHubSource struct {
	RawBase  string `yaml:"raw_base"`
	APIBase  string `yaml:"api_base"`
	TokenEnv string `yaml:"token_env"`
}

type TopTalSource struct {
	APIBase string `yaml:"api_base"`
}

type Logging struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // human|json
	// File sends interactive-session logs to <cache dir>/gitnr.log instead of discarding them.
	File bool `yaml:"file"`
}

type History struct {
	Enabled bool `yaml:"enabled"`
}

type Metrics struct {
	PrometheusTextfile PromTextfile `yaml:"prometheus_textfile"`
}

type PromTextfile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{Version: 1, History: History{Enabled: true}}
	c.applyDefaults()
	return c
}

// DefaultPath resolves the config location: $GITNR_CONFIG, then ~/.config/gitnr/config.yml.
func DefaultPath() string {
	if env := strings.TrimSpace(os.Getenv("GITNR_CONFIG")); env != "" {
		return env
	}
	h, err := os.UserHomeDir()
	if err != nil || h == "" {
		return ""
	}
	return filepath.Join(h, ".config", "gitnr", "config.yml")
}

// LoadOrDefault loads path when it exists. A missing file is not an error unless
// the caller named it explicitly.
func LoadOrDefault(path string, explicit bool) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(expanded); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("config file not found: %s", expanded)
	}
	return Load(expanded)
}

// Load reads, parses, expands, and validates a YAML config file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	c := Config{History: History{Enabled: true}}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", expanded, err)
	}
	if c.Version == 0 {
		c.Version = 1
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Sources.GitHub.RawBase == "" {
		c.Sources.GitHub.RawBase = DefaultGitHubRawBase
	}
	if c.Sources.GitHub.APIBase == "" {
		c.Sources.GitHub.APIBase = DefaultGitHubAPIBase
	}
	if c.Sources.GitHub.TokenEnv == "" {
		c.Sources.GitHub.TokenEnv = DefaultTokenEnv
	}
	if c.Sources.TopTal.APIBase == "" {
		c.Sources.TopTal.APIBase = DefaultTopTalAPIBase
	}
	c.Sources.GitHub.RawBase = strings.TrimRight(c.Sources.GitHub.RawBase, "/")
	c.Sources.GitHub.APIBase = strings.TrimRight(c.Sources.GitHub.APIBase, "/")
	c.Sources.TopTal.APIBase = strings.TrimRight(c.Sources.TopTal.APIBase, "/")
}

func (c *Config) expandPaths() error {
	var err error
	if c.Cache.Dir, err = expandTilde(c.Cache.Dir); err != nil {
		return err
	}
	if c.Metrics.PrometheusTextfile.Path, err = expandTilde(c.Metrics.PrometheusTextfile.Path); err != nil {
		return err
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.Network.TimeoutSeconds < 0 {
		return fmt.Errorf("network.timeout_seconds must be >= 0")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "human", "json":
	default:
		return fmt.Errorf("logging.format invalid: %s", c.Logging.Format)
	}
	bases := map[string]string{
		"sources.github.raw_base": c.Sources.GitHub.RawBase,
		"sources.github.api_base": c.Sources.GitHub.APIBase,
		"sources.toptal.api_base": c.Sources.TopTal.APIBase,
	}
	for field, raw := range bases {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL: %q", field, raw)
		}
	}
	if c.Metrics.PrometheusTextfile.Enabled && c.Metrics.PrometheusTextfile.Path == "" {
		return fmt.Errorf("metrics.prometheus_textfile.path is required when enabled")
	}
	return nil
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}
