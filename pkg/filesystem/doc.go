// Package filesystem provides filesystem implementations for fixlinks.
//
// This package contains implementations of the types.FS interface:
// the host OS filesystem and an afero-backed filesystem.
package filesystem
