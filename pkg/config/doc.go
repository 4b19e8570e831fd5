// Package config loads zprof settings.
//
// Settings are layered, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the managed tree's config.toml, when present
//  3. ZPROF_* environment variables, with "__" separating sections
//     (ZPROF_UNINSTALL__KEEP_BACKUPS=true sets uninstall.keep_backups)
//  4. explicit overrides, typically from command-line flags
package config
