// Package paths provides centralized path handling for zprof.
//
// Every entry point receives a Paths value instead of reading the
// environment itself, so tests can point the whole system at isolated
// roots. FromEnvironment is the only place that consults HOME and
// ZPROF_HOME, and it is only called by the command line layer.
//
// # Managed tree
//
//	~/.zsh-profiles/
//	    config.toml            settings file
//	    profiles/<name>/       one directory per profile
//	    shared/                data shared between profiles
//	    cache/                 downloaded frameworks and plugins
//	    backups/pre-zprof/     the pre-install snapshot (manifest.toml + payloads)
//
// Safety snapshots taken before an uninstall live outside the managed tree
// in ~/.zprof-safety so that cleanup cannot remove them.
package paths
