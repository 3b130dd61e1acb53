package fixlinks

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"github.com/arthur-debert/fixlinks/pkg/logging"
	"github.com/arthur-debert/fixlinks/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultMaxPathLength matches Linux PATH_MAX
const DefaultMaxPathLength = 4096

// Options configures a Fixer
type Options struct {
	FS     types.FS
	Policy Policy
	// MaxPathLength bounds every path the walk builds, terminator included
	MaxPathLength int
	DryRun        bool
	Reporter      Reporter
}

// Fixer walks a rootfs and rewrites its absolute symlinks.
type Fixer struct {
	fs       types.FS
	policy   Policy
	maxPath  int
	dryRun   bool
	gate     *Gate
	reporter Reporter
	logger   zerolog.Logger
}

// New creates a Fixer from opts
func New(opts Options) *Fixer {
	maxPath := opts.MaxPathLength
	if maxPath <= 0 {
		maxPath = DefaultMaxPathLength
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}
	policy := opts.Policy
	if policy.Mode == "" {
		policy.Mode = DefaultPolicy().Mode
	}

	return &Fixer{
		fs:       opts.FS,
		policy:   policy,
		maxPath:  maxPath,
		dryRun:   opts.DryRun,
		gate:     NewGate(opts.FS, maxPath, opts.DryRun),
		reporter: reporter,
		logger:   logging.GetLogger("fixlinks"),
	}
}

// frame is one directory level of the walk. Frames live on an explicit
// stack so the walk depth is not bounded by the goroutine stack.
type frame struct {
	dir     string
	depth   int
	entries []fs.DirEntry
	next    int
}

// Run walks root depth first. Each entry goes through the link pipeline
// before the walker descends into it, so a directory's subtree is finished
// before its next sibling is looked at.
//
// Per-entry failures are logged and recorded in the Result; the returned
// error is non-nil only when the policy aborted the walk, the context was
// cancelled, root itself could not be listed, or FailOnError is set and
// failures were recorded.
func (f *Fixer) Run(ctx context.Context, root string) (*types.Result, error) {
	root = filepath.Clean(root)
	result := &types.Result{
		Root:      root,
		DryRun:    f.dryRun,
		StartedAt: time.Now(),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	logger := f.logger.With().Str("root", root).Logger()
	done := logging.LogOperationStart(logger, "walk")
	defer done()

	top, err := f.open(root, 0)
	if err != nil {
		f.fail(result, err)
		result.Aborted = true
		return result, err
	}
	stack := []*frame{top}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			result.Aborted = true
			return result, err
		}

		cur := stack[len(stack)-1]
		if cur.next >= len(cur.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		de := cur.entries[cur.next]
		cur.next++

		path := joinPath(cur.dir, de.Name())
		if len(path)+1 > f.maxPath {
			err := fxerrors.Newf(fxerrors.ErrListingTooLong,
				"path length has got too long (%d > %d)", len(path)+1, f.maxPath).
				WithDetail("path", path)
			if f.fail(result, err) == ActionAbort {
				result.Aborted = true
				return result, err
			}
			result.AbandonedDirs = append(result.AbandonedDirs, cur.dir)
			stack = stack[:len(stack)-1]
			continue
		}

		entry := types.Entry{
			Name:  de.Name(),
			Dir:   cur.dir,
			Path:  path,
			Kind:  kindOf(de),
			Depth: cur.depth,
		}
		result.Visited++

		if err := f.process(entry, result); err != nil {
			switch f.fail(result, err) {
			case ActionAbort:
				result.Aborted = true
				return result, err
			case ActionAbandonDir:
				result.AbandonedDirs = append(result.AbandonedDirs, cur.dir)
				stack = stack[:len(stack)-1]
				continue
			}
		}

		if entry.Kind != types.KindDir {
			continue
		}
		child, err := f.open(entry.Path, entry.Depth+1)
		if err != nil {
			if f.fail(result, err) == ActionAbort {
				result.Aborted = true
				return result, err
			}
			continue
		}
		stack = append(stack, child)
	}

	logger.Info().
		Int("visited", result.Visited).
		Int("rewritten", len(result.Changes)).
		Int("failures", len(result.Failures)).
		Msg("Walk completed")

	if f.policy.FailOnError && result.HasFailures() {
		return result, fxerrors.Newf(fxerrors.ErrFailures,
			"%d link(s) could not be processed", len(result.Failures)).
			WithDetail("path", root)
	}
	return result, nil
}

// open lists dir. depth is the depth of the entries it contains.
func (f *Fixer) open(dir string, depth int) (*frame, error) {
	entries, err := f.fs.ReadDir(dir)
	if err != nil {
		return nil, fxerrors.Wrapf(err, fxerrors.ErrDirOpen, "cannot open directory '%s'", dir).
			WithDetail("path", dir)
	}
	return &frame{dir: dir, depth: depth, entries: entries}, nil
}

// process runs Inspect -> Rewrite -> Gate for one entry
func (f *Fixer) process(entry types.Entry, result *types.Result) error {
	target, isLink, err := Inspect(f.fs, entry)
	if err != nil {
		return err
	}
	if !isLink {
		return nil
	}
	result.Symlinks++

	if !target.Absolute {
		result.Relative++
		f.logger.Trace().Str("path", entry.Path).Str("target", target.Raw).Msg("Relative link, skipped")
		return nil
	}

	rewritten, err := Rewrite(target.Raw, entry.Depth)
	if err != nil {
		return fxerrors.Wrap(err, fxerrors.GetErrorCode(err), "rewrite failed").WithDetail("path", entry.Path)
	}

	outcome, change, err := f.gate.Apply(entry, target, rewritten)
	if err != nil {
		return err
	}

	switch outcome {
	case OutcomeUnreachable:
		result.Unreachable++
		f.logger.Debug().
			Str("path", entry.Path).
			Str("target", target.Raw).
			Str("candidate", rewritten).
			Msg("Resource link inaccessible, skipped")
	case OutcomeSwapped, OutcomePlanned:
		result.Changes = append(result.Changes, *change)
		f.logger.Info().
			Str("path", entry.Path).
			Int("depth", entry.Depth).
			Str("from", target.Raw).
			Str("to", rewritten).
			Bool("dryRun", outcome == OutcomePlanned).
			Msg("Link rewritten")
		f.reporter.LinkRewritten(*change)
	}
	return nil
}

// fail logs and records err and returns the policy's decision
func (f *Fixer) fail(result *types.Result, err error) Action {
	action := f.policy.Decide(err)
	code := fxerrors.GetErrorCode(err)
	path := fxerrors.GetPath(err)

	f.logger.Error().
		Err(err).
		Str("path", path).
		Str("code", string(code)).
		Str("action", action.String()).
		Msg("Failed to process entry")

	result.Failures = append(result.Failures, types.Failure{
		Path:   path,
		Code:   string(code),
		Error:  err.Error(),
		Action: action.String(),
	})
	return action
}

func kindOf(de fs.DirEntry) types.EntryKind {
	switch {
	case de.Type()&fs.ModeSymlink != 0:
		return types.KindSymlink
	case de.IsDir():
		return types.KindDir
	default:
		return types.KindFile
	}
}
