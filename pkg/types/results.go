package types

import "time"

// Change describes a link whose target was rewritten (or would be, in dry-run mode).
type Change struct {
	Path      string `json:"path"`
	Depth     int    `json:"depth"`
	Kind      string `json:"kind"` // what the new target resolves to: "D" or "F"
	OldTarget string `json:"oldTarget"`
	NewTarget string `json:"newTarget"`
	DryRun    bool   `json:"dryRun"`
}

// Failure records a local failure and what the walk did about it.
type Failure struct {
	Path   string `json:"path"`
	Code   string `json:"code"`
	Error  string `json:"error"`
	Action string `json:"action"`
}

// Result is the outcome of a single walk over a rootfs.
type Result struct {
	Root      string        `json:"root"`
	DryRun    bool          `json:"dryRun"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`

	Visited     int `json:"visited"`
	Symlinks    int `json:"symlinks"`
	Relative    int `json:"relative"`
	Unreachable int `json:"unreachable"`

	Changes       []Change  `json:"changes"`
	Failures      []Failure `json:"failures"`
	AbandonedDirs []string  `json:"abandonedDirs"`
	Aborted       bool      `json:"aborted"`
}

// HasFailures reports whether any local failure was recorded
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}
