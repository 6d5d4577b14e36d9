// Package config loads runtime configuration for the agentdesk CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config, or $AGENTDESK_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the agent API
//	-d string   SQLite file for the session
//	-t int      request timeout (seconds)
//	-p string   directory for avatar previews
//	-l string   log format (text|json)
//	-v          debug logging
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:3333",
//	  "db_path": "agentdesk.db",
//	  "request_timeout": "10s",
//	  "preview_dir": "/tmp/agentdesk-previews",
//	  "log_format": "json",
//	  "debug": false,
//	  "sign_out_on_unauthorized": true
//	}
package config
