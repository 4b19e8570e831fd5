// Package snapshot creates, loads and verifies the pre-install snapshot of
// the user's shell configuration.
//
// A snapshot is a protected directory holding one payload file per backed
// up entry, named exactly as in the home directory, plus a manifest.toml
// describing them. The manifest is written last and atomically: its
// presence is what makes a snapshot discoverable, so a crash half-way
// through creation leaves nothing that later code would trust.
//
// Once written a snapshot is immutable. Create returns an existing
// snapshot untouched, and nothing in this package rewrites a manifest.
package snapshot
