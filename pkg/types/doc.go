// Package types defines the core types and interfaces used throughout fixlinks.
// This includes the FS interface consumed by the walker, the entry and link
// target types produced while walking, and the Result returned by a run.
package types
