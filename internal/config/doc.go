// Package config loads telly's settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults (see Default)
//  2. The TOML file, ~/.config/telly/config.toml unless a path is given
//  3. TELLY_API_BASE, TELLY_LOG_LEVEL and TELLY_LOG_FILE, taken from the
//     process environment or from a .env file next to the config file
//
// A missing config file is not an error. Blank values fall back to the
// defaults, and a leading ~ is expanded in every path.
//
// Example config.toml:
//
//	api_base = "https://api.tvmaze.com"
//	page = 0
//	min_query_length = 2
//	debounce = "500ms"
//	request_timeout = "10s"
//	log_file = "~/.local/state/telly/telly.log"   # "off" disables logging
//	log_level = "info"
//
//	[cache]
//	size = 256
//	ttl = "10m"
//
//	[rate_limit]
//	requests = 20
//	window = "10s"
//
// Load validates the merged result. Callers that change fields afterwards
// (command line flags, for example) should call Validate again.
package config
