// Package conflict decides what to do with a restoration target that
// already exists in the home directory.
//
// A missing destination is never a conflict. For existing destinations the
// non-interactive answer is always BackupThenOverwrite, and any answer the
// prompter cannot turn into a valid choice falls back to the same policy,
// so user data is never silently destroyed.
package conflict
