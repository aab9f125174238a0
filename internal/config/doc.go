// Package config loads ctx-theatre settings.
//
// Settings are layered, later layers winning:
//  1. built-in defaults (Default)
//  2. a YAML file, ~/.config/ctx-theatre/config.yaml unless --config names one
//  3. a .env file in the working directory and CTX_* environment variables,
//     real environment variables taking precedence over .env entries
//  4. command-line flags, applied by the cli package
//
// File and environment layers are merged with mergo, so a zero value in a
// layer (an empty string, retries: 0) leaves the lower layer's value in place.
// Set CTX_RETRIES=0 to disable retries.
//
// Example config.yaml:
//
//	feed_url: https://ctxlivetheatre.com/rss/all/
//	category: Productions
//	store_path: ~/.local/share/ctx-theatre/productions.json
//	timeout: 30s
//	retries: 2
//	log_level: info
package config
