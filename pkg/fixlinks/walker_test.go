package fixlinks

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"github.com/arthur-debert/fixlinks/pkg/filesystem"
	"github.com/arthur-debert/fixlinks/pkg/testutil"
	"github.com/arthur-debert/fixlinks/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func newRoot(t *testing.T) string {
	t.Helper()
	testutil.SkipOnWindows(t)
	return t.TempDir()
}

// backends are the types.FS implementations the walker runs over
var backends = []struct {
	name string
	fs   func() types.FS
}{
	{"os", filesystem.NewOS},
	{"afero", func() types.FS { return filesystem.NewAferoFS(afero.NewOsFs()) }},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, fsys types.FS)) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.fs())
		})
	}
}

func run(t *testing.T, opts Options, root string) *types.Result {
	t.Helper()
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	result, err := New(opts).Run(context.Background(), root)
	require.NoError(t, err)
	return result
}

func TestRun_RewritesToRootRelative(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		lib := testutil.CreateFile(t, root, "usr/lib/libx.so", "elf")
		tool := testutil.CreateSymlink(t, "/usr/lib/libx.so", filepath.Join(root, "usr/bin/tool"))

		var reported []types.Change
		result := run(t, Options{FS: fsys, Reporter: ReporterFunc(func(c types.Change) {
			reported = append(reported, c)
		})}, root)

		testutil.AssertSymlink(t, tool, "../../usr/lib/libx.so")
		testutil.AssertResolvesTo(t, tool, lib)

		require.Len(t, result.Changes, 1)
		assert.Equal(t, result.Changes, reported)
		assert.Equal(t, 2, result.Changes[0].Depth)
		assert.Equal(t, "F", result.Changes[0].Kind)
		assert.Equal(t, 1, result.Symlinks)
		assert.Empty(t, result.Failures)
		assert.False(t, result.Aborted)
	})
}

func TestRun_MissingTargetLeavesLinkAlone(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		testutil.CreateDir(t, root, "usr/lib")
		tool := testutil.CreateSymlink(t, "/usr/lib/libx.so", filepath.Join(root, "usr/bin/tool"))

		result := run(t, Options{FS: fsys}, root)

		testutil.AssertSymlink(t, tool, "/usr/lib/libx.so")
		assert.Empty(t, result.Changes)
		assert.Equal(t, 1, result.Unreachable)
		assert.Empty(t, result.Failures)
	})
}

func TestRun_RelativeLinksUntouched(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "b", "")
	a := testutil.CreateSymlink(t, "b", filepath.Join(root, "a"))
	dangling := testutil.CreateSymlink(t, "../nowhere", filepath.Join(root, "x/y/dangling"))
	fsys := testutil.NewFaultFS(filesystem.NewOS())

	result := run(t, Options{FS: fsys}, root)

	testutil.AssertSymlink(t, a, "b")
	testutil.AssertSymlink(t, dangling, "../nowhere")
	assert.Equal(t, 2, result.Relative)
	assert.Empty(t, result.Changes)
	assert.Empty(t, fsys.CallsFor(testutil.OpAccess))
	assert.Empty(t, fsys.CallsFor(testutil.OpRemove))
}

func TestRun_RootLevelLinks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		testutil.CreateFile(t, root, "lib/ld-linux.so.2", "")
		lib64 := testutil.CreateSymlink(t, "/lib", filepath.Join(root, "lib64"))
		self := testutil.CreateSymlink(t, "/", filepath.Join(root, "rootfs"))

		result := run(t, Options{FS: fsys}, root)

		testutil.AssertSymlink(t, lib64, "lib")
		testutil.AssertSymlink(t, self, ".")
		require.Len(t, result.Changes, 2)
		for _, c := range result.Changes {
			assert.Equal(t, 0, c.Depth)
			assert.Equal(t, "D", c.Kind)
		}
	})
}

func TestRun_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		testutil.CreateFile(t, root, "usr/lib/libx.so", "")
		testutil.CreateFile(t, root, "etc/alternatives/vi", "")
		testutil.CreateSymlink(t, "/usr/lib/libx.so", filepath.Join(root, "usr/bin/tool"))
		testutil.CreateSymlink(t, "/etc/alternatives/vi", filepath.Join(root, "usr/bin/vi"))
		testutil.CreateSymlink(t, "/missing", filepath.Join(root, "usr/bin/broken"))

		first := run(t, Options{FS: fsys}, root)
		require.Len(t, first.Changes, 2)

		second := run(t, Options{FS: fsys}, root)
		assert.Empty(t, second.Changes)
		assert.Equal(t, 2, second.Relative)
		assert.Equal(t, 1, second.Unreachable)
		testutil.AssertSymlink(t, filepath.Join(root, "usr/bin/vi"), "../../etc/alternatives/vi")
	})
}

func TestRun_ParentOfRootStaysInsideTree(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		base := newRoot(t)
		testutil.CreateFile(t, base, "outside", "host")
		root := testutil.CreateDir(t, base, "rootfs")
		inner := testutil.CreateFile(t, root, "outside", "inner")
		link := testutil.CreateSymlink(t, "/../outside", filepath.Join(root, "l"))

		result := run(t, Options{FS: fsys}, root)

		testutil.AssertSymlink(t, link, "outside")
		testutil.AssertResolvesTo(t, link, inner)
		data, err := os.ReadFile(link)
		require.NoError(t, err)
		assert.Equal(t, "inner", string(data))
		require.Len(t, result.Changes, 1)
	})
}

func TestRun_DryRun(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		testutil.CreateFile(t, root, "usr/lib/libx.so", "")
		tool := testutil.CreateSymlink(t, "/usr/lib/libx.so", filepath.Join(root, "usr/bin/tool"))

		result := run(t, Options{FS: fsys, DryRun: true}, root)

		testutil.AssertSymlink(t, tool, "/usr/lib/libx.so")
		require.Len(t, result.Changes, 1)
		assert.True(t, result.Changes[0].DryRun)
		assert.True(t, result.DryRun)
		assert.Equal(t, "../../usr/lib/libx.so", result.Changes[0].NewTarget)
	})
}

func TestRun_PreOrderTraversal(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "a/x", "")
	testutil.CreateFile(t, root, "a/sub/y", "")
	testutil.CreateFile(t, root, "b", "")
	fsys := testutil.NewFaultFS(filesystem.NewOS())

	result := run(t, Options{FS: fsys}, root)

	want := []string{
		filepath.Join(root, "a"),
		filepath.Join(root, "a/sub"),
		filepath.Join(root, "a/sub/y"),
		filepath.Join(root, "a/x"),
		filepath.Join(root, "b"),
	}
	assert.Equal(t, want, fsys.CallsFor(testutil.OpLstat))
	assert.Equal(t, 5, result.Visited)
}

func TestRun_DoesNotFollowDirectoryLinks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		testutil.CreateFile(t, root, "usr/lib/libx.so", "")
		testutil.CreateSymlink(t, "/usr/lib/libx.so", filepath.Join(root, "usr/lib/libx.so.1"))
		testutil.CreateSymlink(t, "/usr/lib", filepath.Join(root, "lib"))
		faulty := testutil.NewFaultFS(fsys)

		result := run(t, Options{FS: faulty}, root)

		assert.NotContains(t, faulty.CallsFor(testutil.OpReadDir), filepath.Join(root, "lib"))
		testutil.AssertSymlink(t, filepath.Join(root, "lib"), "usr/lib")
		testutil.AssertSymlink(t, filepath.Join(root, "usr/lib/libx.so.1"), "../../usr/lib/libx.so")
		assert.Len(t, result.Changes, 2)
	})
}

func TestRun_DeepTree(t *testing.T) {
	forEachBackend(t, func(t *testing.T, fsys types.FS) {
		root := newRoot(t)
		testutil.CreateFile(t, root, "target", "")

		const levels = 150
		dir := filepath.Join(root, strings.TrimSuffix(strings.Repeat("d/", levels), "/"))
		link := testutil.CreateSymlink(t, "/target", filepath.Join(dir, "link"))

		result := run(t, Options{FS: fsys}, root)

		testutil.AssertSymlink(t, link, strings.Repeat("../", levels)+"target")
		testutil.AssertResolvesTo(t, link, filepath.Join(root, "target"))
		require.Len(t, result.Changes, 1)
		assert.Equal(t, levels, result.Changes[0].Depth)
	})
}

func TestRun_ListingTooLongAbandonsDirectory(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	testutil.CreateFile(t, root, "deep/"+strings.Repeat("a", 40), "")
	skipped := testutil.CreateSymlink(t, "/target", filepath.Join(root, "deep/zlink"))
	fixed := testutil.CreateSymlink(t, "/target", filepath.Join(root, "other/zlink"))

	// Room for "<root>/other/../target" but not for "<root>/deep/aaaa..."
	maxPath := len(root) + 26

	result := run(t, Options{MaxPathLength: maxPath}, root)

	testutil.AssertSymlink(t, skipped, "/target")
	testutil.AssertSymlink(t, fixed, "../target")

	require.Len(t, result.Failures, 1)
	assert.Equal(t, string(fxerrors.ErrListingTooLong), result.Failures[0].Code)
	assert.Equal(t, ActionAbandonDir.String(), result.Failures[0].Action)
	assert.Equal(t, []string{filepath.Join(root, "deep")}, result.AbandonedDirs)
}

func TestRun_PathTooLongSkipsEntryOnly(t *testing.T) {
	root := newRoot(t)
	long := "/" + strings.Repeat("x", 50)
	testutil.CreateFile(t, root, "target", "")
	l := testutil.CreateSymlink(t, long, filepath.Join(root, "l"))
	m := testutil.CreateSymlink(t, "/target", filepath.Join(root, "m"))

	result := run(t, Options{MaxPathLength: len(root) + 20}, root)

	testutil.AssertSymlink(t, l, long)
	testutil.AssertSymlink(t, m, "target")
	require.Len(t, result.Failures, 1)
	assert.Equal(t, string(fxerrors.ErrPathTooLong), result.Failures[0].Code)
	assert.Equal(t, l, result.Failures[0].Path)
	assert.Empty(t, result.AbandonedDirs)
}

func TestRun_ResourceExhaustionAbandonsDirectory(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	a := testutil.CreateSymlink(t, "/target", filepath.Join(root, "d1/a"))
	b := testutil.CreateSymlink(t, "/target", filepath.Join(root, "d1/b"))
	c := testutil.CreateSymlink(t, "/target", filepath.Join(root, "d2/c"))

	fsys := testutil.NewFaultFS(filesystem.NewOS()).
		Fail(testutil.OpReadlink, a, &fs.PathError{Op: "readlink", Path: a, Err: unix.ENOMEM})

	result := run(t, Options{FS: fsys}, root)

	testutil.AssertSymlink(t, a, "/target")
	testutil.AssertSymlink(t, b, "/target")
	testutil.AssertSymlink(t, c, "../target")
	assert.NotContains(t, fsys.CallsFor(testutil.OpLstat), b)
	assert.Equal(t, []string{filepath.Join(root, "d1")}, result.AbandonedDirs)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, string(fxerrors.ErrResourceExhausted), result.Failures[0].Code)
}

func TestRun_EntryFailuresContinue(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	a := testutil.CreateSymlink(t, "/target", filepath.Join(root, "a"))
	b := testutil.CreateSymlink(t, "/target", filepath.Join(root, "b"))
	c := testutil.CreateSymlink(t, "/target", filepath.Join(root, "c"))

	fsys := testutil.NewFaultFS(filesystem.NewOS()).
		Fail(testutil.OpLstat, a, &fs.PathError{Op: "lstat", Path: a, Err: unix.EACCES}).
		Fail(testutil.OpRemove, b, &fs.PathError{Op: "remove", Path: b, Err: unix.EPERM})

	result := run(t, Options{FS: fsys}, root)

	testutil.AssertSymlink(t, a, "/target")
	testutil.AssertSymlink(t, b, "/target")
	testutil.AssertSymlink(t, c, "target")
	require.Len(t, result.Failures, 2)
	assert.Equal(t, string(fxerrors.ErrLstat), result.Failures[0].Code)
	assert.Equal(t, a, result.Failures[0].Path)
	assert.Equal(t, string(fxerrors.ErrRemove), result.Failures[1].Code)
	assert.Equal(t, b, result.Failures[1].Path)
	assert.Len(t, result.Changes, 1)
}

func TestRun_SkippedDirectoryIsStillWalked(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	link := testutil.CreateSymlink(t, "/target", filepath.Join(root, "a/link"))

	dir := filepath.Join(root, "a")
	fsys := testutil.NewFaultFS(filesystem.NewOS()).
		Fail(testutil.OpLstat, dir, &fs.PathError{Op: "lstat", Path: dir, Err: unix.EACCES})

	result := run(t, Options{FS: fsys}, root)

	testutil.AssertSymlink(t, link, "../target")
	require.Len(t, result.Failures, 1)
	assert.Equal(t, ActionSkipEntry.String(), result.Failures[0].Action)
	assert.Equal(t, dir, result.Failures[0].Path)
	assert.Empty(t, result.AbandonedDirs)
}

func TestRun_DirOpenFailureSkipsSubtree(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	locked := testutil.CreateSymlink(t, "/target", filepath.Join(root, "a/link"))
	sibling := testutil.CreateSymlink(t, "/target", filepath.Join(root, "b/link"))

	dir := filepath.Join(root, "a")
	fsys := testutil.NewFaultFS(filesystem.NewOS()).
		Fail(testutil.OpReadDir, dir, &fs.PathError{Op: "open", Path: dir, Err: unix.EACCES})

	result := run(t, Options{FS: fsys}, root)

	testutil.AssertSymlink(t, locked, "/target")
	testutil.AssertSymlink(t, sibling, "../target")
	require.Len(t, result.Failures, 1)
	assert.Equal(t, string(fxerrors.ErrDirOpen), result.Failures[0].Code)
	assert.Equal(t, dir, result.Failures[0].Path)
}

func TestRun_StopOnFirstError(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	a := testutil.CreateSymlink(t, "/target", filepath.Join(root, "a"))
	b := testutil.CreateSymlink(t, "/target", filepath.Join(root, "b"))

	fsys := testutil.NewFaultFS(filesystem.NewOS()).
		Fail(testutil.OpLstat, a, &fs.PathError{Op: "lstat", Path: a, Err: unix.EIO})

	result, err := New(Options{FS: fsys, Policy: Policy{Mode: ModeStop}}).Run(context.Background(), root)

	require.Error(t, err)
	assert.True(t, fxerrors.IsErrorCode(err, fxerrors.ErrLstat))
	assert.True(t, result.Aborted)
	testutil.AssertSymlink(t, b, "/target")
	assert.Equal(t, ActionAbort.String(), result.Failures[0].Action)
}

func TestRun_FailOnError(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	a := testutil.CreateSymlink(t, "/target", filepath.Join(root, "a"))
	b := testutil.CreateSymlink(t, "/target", filepath.Join(root, "b"))

	fsys := testutil.NewFaultFS(filesystem.NewOS()).
		Fail(testutil.OpLstat, a, &fs.PathError{Op: "lstat", Path: a, Err: unix.EIO})

	result, err := New(Options{
		FS:     fsys,
		Policy: Policy{Mode: ModeContinue, FailOnError: true},
	}).Run(context.Background(), root)

	require.Error(t, err)
	assert.True(t, fxerrors.IsErrorCode(err, fxerrors.ErrFailures))
	assert.False(t, result.Aborted)
	// best effort still happened
	testutil.AssertSymlink(t, b, "target")
}

func TestRun_RootNotListable(t *testing.T) {
	root := filepath.Join(newRoot(t), "missing")

	result, err := New(Options{FS: filesystem.NewOS()}).Run(context.Background(), root)

	require.Error(t, err)
	assert.True(t, fxerrors.IsErrorCode(err, fxerrors.ErrDirOpen))
	assert.True(t, result.Aborted)
	assert.Len(t, result.Failures, 1)
}

func TestRun_ContextCancelled(t *testing.T) {
	root := newRoot(t)
	testutil.CreateFile(t, root, "target", "")
	link := testutil.CreateSymlink(t, "/target", filepath.Join(root, "link"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := New(Options{FS: filesystem.NewOS()}).Run(ctx, root)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, result.Aborted)
	testutil.AssertSymlink(t, link, "/target")
}

func TestNew_Defaults(t *testing.T) {
	f := New(Options{FS: filesystem.NewOS()})
	assert.Equal(t, DefaultMaxPathLength, f.maxPath)
	assert.Equal(t, DefaultPolicy(), f.policy)
	assert.NotNil(t, f.reporter)
}
