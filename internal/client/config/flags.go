package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/flagx"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

var knownFlags = []string{"-a", "-d", "-t", "-p", "-l", "-v"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the agent API
//	-d string   SQLite database for the session (":memory:" or "" for none)
//	-t int      request timeout in seconds
//	-p string   directory for avatar previews
//	-l string   log format: text or json
//	-v          debug logging
//
// Arguments are first narrowed with flagx.FilterArgs so flags owned by other
// loaders do not fail the parse.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("agentdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the agent API")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "SQLite file for the session")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.PreviewDir, "p", cfg.PreviewDir, "directory for avatar previews")
	format := fs.String("l", string(cfg.LogFormat), "log format: text or json")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.LogFormat = logging.Format(*format)
	return nil
}
