package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/flagx"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

// Config holds runtime settings for the agentdesk CLI.
//
// Fields:
//   - APIBaseURL: base URL of the agent API.
//   - DBPath: SQLite database holding the credential. ":memory:" keeps it
//     for the life of the process; empty disables credential storage, so
//     the client stays anonymous.
//   - RequestTimeout: bound on every API request and cache fetch.
//   - PreviewDir: where avatar previews are written. Empty uses a directory
//     under os.TempDir.
//   - LogFormat: "text" (slog) or "json" (zerolog).
//   - Debug: enables debug logging.
//   - SignOutOnUnauthorized: drop the credential and cached data when the
//     server answers an authenticated call with 401.
type Config struct {
	APIBaseURL            string
	DBPath                string
	RequestTimeout        time.Duration
	PreviewDir            string
	LogFormat             logging.Format
	Debug                 bool
	SignOutOnUnauthorized bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3333"
	c.DBPath = "agentdesk.db"
	c.RequestTimeout = 10 * time.Second
	c.PreviewDir = ""
	c.LogFormat = logging.FormatText
	c.Debug = false
	c.SignOutOnUnauthorized = true
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	switch logging.Format(strings.ToLower(string(c.LogFormat))) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
