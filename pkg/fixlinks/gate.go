package fixlinks

import (
	"strings"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"github.com/arthur-debert/fixlinks/pkg/types"
)

// Outcome is what the gate did with a rewritten target
type Outcome int

const (
	// OutcomeUnreachable means the candidate does not exist; the link is untouched
	OutcomeUnreachable Outcome = iota
	// OutcomeSwapped means the old link was removed and the relative one created
	OutcomeSwapped
	// OutcomePlanned means the candidate exists but dry-run kept the link as is
	OutcomePlanned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSwapped:
		return "swapped"
	case OutcomePlanned:
		return "planned"
	default:
		return "unreachable"
	}
}

// Gate checks that a rewritten target resolves before swapping it in.
type Gate struct {
	fs            types.FS
	maxPathLength int
	dryRun        bool
}

// NewGate creates a gate. maxPathLength counts the terminating NUL, like PATH_MAX.
func NewGate(fsys types.FS, maxPathLength int, dryRun bool) *Gate {
	return &Gate{
		fs:            fsys,
		maxPathLength: maxPathLength,
		dryRun:        dryRun,
	}
}

// Apply replaces entry's link with one pointing at rewritten, if
// entry.Dir/rewritten exists. The swap is remove-then-create.
func (g *Gate) Apply(entry types.Entry, target types.LinkTarget, rewritten string) (Outcome, *types.Change, error) {
	candidate := joinPath(entry.Dir, rewritten)
	if len(candidate)+1 > g.maxPathLength {
		return OutcomeUnreachable, nil, fxerrors.Newf(fxerrors.ErrPathTooLong,
			"path length %d exceeds maximum of %d", len(candidate)+1, g.maxPathLength).
			WithDetail("path", entry.Path).
			WithDetail("candidate", candidate)
	}

	if err := g.fs.Access(candidate); err != nil {
		return OutcomeUnreachable, nil, nil
	}

	change := &types.Change{
		Path:      entry.Path,
		Depth:     entry.Depth,
		Kind:      g.kindOf(candidate),
		OldTarget: target.Raw,
		NewTarget: rewritten,
		DryRun:    g.dryRun,
	}
	if g.dryRun {
		return OutcomePlanned, change, nil
	}

	if err := g.fs.Remove(entry.Path); err != nil {
		return OutcomeUnreachable, nil, fsError(err, fxerrors.ErrRemove, "can't remove old symlink", entry.Path)
	}

	if err := g.fs.Symlink(rewritten, entry.Path); err != nil {
		// The old link is gone at this point; keep its target in the error so it can be restored
		return OutcomeUnreachable, nil, fsError(err, fxerrors.ErrSymlinkCreate, "can't create symlink", entry.Path).
			WithDetail("target", rewritten).
			WithDetail("oldTarget", target.Raw)
	}

	return OutcomeSwapped, change, nil
}

func (g *Gate) kindOf(candidate string) string {
	if info, err := g.fs.Stat(candidate); err == nil && info.IsDir() {
		return types.KindDir.String()
	}
	return types.KindFile.String()
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
