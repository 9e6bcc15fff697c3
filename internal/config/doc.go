// Package config loads and validates aircheck's TOML configuration.
//
// Configuration resolves from an explicit path, then
// ~/.config/aircheck/config.toml, then ./aircheck.toml. Missing files fall
// back to built-in defaults so the CLI stays usable before `aircheck config
// init` has been run.
package config
