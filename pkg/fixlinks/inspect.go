package fixlinks

import (
	"errors"
	"io/fs"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"github.com/arthur-debert/fixlinks/pkg/types"
	"golang.org/x/sys/unix"
)

// Inspect reads the link target of entry. The boolean is false when the
// entry is not a symlink, in which case the pipeline stops for it.
func Inspect(fsys types.FS, entry types.Entry) (types.LinkTarget, bool, error) {
	info, err := fsys.Lstat(entry.Path)
	if err != nil {
		return types.LinkTarget{}, false, fsError(err, fxerrors.ErrLstat, "lstat failed", entry.Path)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return types.LinkTarget{}, false, nil
	}

	raw, err := fsys.Readlink(entry.Path)
	if err != nil {
		// Replaced by a non-link since lstat
		if errors.Is(err, unix.EINVAL) {
			return types.LinkTarget{}, false, nil
		}
		return types.LinkTarget{}, false, fsError(err, fxerrors.ErrReadlink, "readlink failed", entry.Path)
	}

	target := types.NewLinkTarget(raw)
	if !target.Absolute {
		return target, true, nil
	}

	// Some filesystems report a zero size for links; the guard only applies
	// when lstat gave us a real length.
	if size := info.Size(); size > 0 && int64(len(raw)) > size {
		return types.LinkTarget{}, false, fxerrors.Newf(fxerrors.ErrLinkChanged,
			"symlink increased in size between lstat and readlink (%d > %d)", len(raw), size).
			WithDetail("path", entry.Path)
	}

	return target, true, nil
}
