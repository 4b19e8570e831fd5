// Package testutil provides utilities for testing zprof components.
//
// Key components:
//   - TestEnvironment: home directory and managed tree on an isolated
//     filesystem, either in memory or in a temp directory
//   - FaultFS: afero wrapper that fails selected operations on selected
//     paths, used to drive rollback and partial-cleanup scenarios
//   - MockPrompter / MockProbe: testify mocks for the injected capabilities
//
// Usage guidelines:
//   - Prefer EnvMemoryOnly; use EnvIsolated only where real OS semantics
//     (permission bits, rename) are what is being tested
//   - Define test data inline
//   - Permission-based failures are simulated with FaultFS, never with
//     chmod, since tests may run as root
package testutil
