package fixlinks

import (
	"errors"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"golang.org/x/sys/unix"
)

// fsError wraps a filesystem error under code, promoting allocation
// failures reported by the kernel to ErrResourceExhausted.
func fsError(err error, code fxerrors.ErrorCode, msg, path string) *fxerrors.FixlinksError {
	if errors.Is(err, unix.ENOMEM) || errors.Is(err, unix.ENOBUFS) {
		code = fxerrors.ErrResourceExhausted
	}
	return fxerrors.Wrap(err, code, msg).WithDetail("path", path)
}
