package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/dmitrijs2005/agentdesk/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched. Durations use
// timex.Duration, so they may be strings like "3s" or integer nanoseconds.
type JSONConfig struct {
	APIBaseURL            *string         `json:"api_base_url"`
	DBPath                *string         `json:"db_path"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	PreviewDir            *string         `json:"preview_dir"`
	LogFormat             *string         `json:"log_format"`
	Debug                 *bool           `json:"debug"`
	SignOutOnUnauthorized *bool           `json:"sign_out_on_unauthorized"`
}

// parseJSON overlays cfg with the file at path. An empty path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PreviewDir != nil {
		cfg.PreviewDir = *jc.PreviewDir
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = logging.Format(*jc.LogFormat)
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	if jc.SignOutOnUnauthorized != nil {
		cfg.SignOutOnUnauthorized = *jc.SignOutOnUnauthorized
	}
	return nil
}
