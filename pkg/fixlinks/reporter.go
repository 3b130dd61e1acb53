package fixlinks

import "github.com/arthur-debert/fixlinks/pkg/types"

// Reporter receives one call per rewritten (or, in dry-run, rewritable) link
type Reporter interface {
	LinkRewritten(change types.Change)
}

// ReporterFunc adapts a function to Reporter
type ReporterFunc func(change types.Change)

// LinkRewritten calls f(change)
func (f ReporterFunc) LinkRewritten(change types.Change) {
	f(change)
}

type nopReporter struct{}

func (nopReporter) LinkRewritten(types.Change) {}
