// Package config loads docket's settings.
//
// # Resolution Order
//
//  1. A .env file (the -env flag, otherwise ./.env when present) is loaded
//     into the process environment without overriding existing variables.
//  2. The TOML file (the -config flag, otherwise ~/.config/docket/config.toml)
//     is parsed. A missing file means defaults.
//  3. DOCKET_* environment variables override file values.
//  4. The -source flag overrides everything.
//
// The result is validated: source "api" without an api_url is an error,
// since there is no sensible default address.
//
// # TOML Format
//
//	api_url = "http://localhost:5000"
//	source = "api"            # or "mock"
//	request_timeout = "10s"
//	export_dir = "~/Documents/docket"
//	log_dir = "~/.local/share/docket/logs"
//	log_level = "info"
//	date_layout = "2 Jan 2006"
//	bulk_policy = "per-item"  # or "all-or-nothing"
//	bulk_concurrency = 8
//	toast_duration = "2s"
//	print_command = "lp"
//	open_command = "xdg-open"
//
// Durations accept Go duration strings or bare seconds, quoted or as TOML
// numbers.
//
// # Environment
//
//   - DOCKET_API_URL
//   - DOCKET_SOURCE
//   - DOCKET_EXPORT_DIR
//   - DOCKET_LOG_LEVEL
//   - DOCKET_BULK_POLICY
//
// # Logging
//
// SetupLogger writes slog text records to <log_dir>/docket.log. The same file
// backs the activity overlay in the UI.
package config
