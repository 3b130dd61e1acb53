// Package testutil provides utilities for testing fixlinks components.
//
// Key components:
//   - Tree helpers (CreateFile, CreateDir, CreateSymlink) that build a rootfs
//     under t.TempDir()
//   - Symlink assertions (AssertSymlink, AssertResolvesTo)
//   - FaultFS: a types.FS wrapper that injects errors per operation and path
//     and records every call, used to drive the failure policy in tests
package testutil
