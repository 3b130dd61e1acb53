package fixlinks

import (
	"math"
	"strings"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
)

const parentSegment = "../"

// Rewrite turns an absolute link target into the relative target that
// denotes the same root-relative location from a link at the given depth.
//
//	Rewrite("/usr/lib/libx.so", 2) == "../../usr/lib/libx.so"
func Rewrite(target string, depth int) (string, error) {
	if !strings.HasPrefix(target, "/") {
		return "", fxerrors.Newf(fxerrors.ErrInvalidInput, "target %q is not absolute", target)
	}
	if depth < 0 {
		return "", fxerrors.Newf(fxerrors.ErrInvalidInput, "negative depth %d", depth)
	}

	rest := rootRelative(target)

	if depth > (math.MaxInt-len(rest))/len(parentSegment) {
		return "", fxerrors.Newf(fxerrors.ErrResourceExhausted,
			"rewrite buffer for depth %d does not fit in memory", depth)
	}

	var b strings.Builder
	b.Grow(len(parentSegment)*depth + len(rest))
	for i := 0; i < depth; i++ {
		b.WriteString(parentSegment)
	}
	b.WriteString(rest)

	// A link to "/" directly under the root
	if b.Len() == 0 {
		return ".", nil
	}
	return b.String(), nil
}

// rootRelative strips the leading slashes of target together with any "."
// and ".." segments directly under the root, where ".." stays at the root.
// Later segments are left alone; they may cross symlinks inside the tree.
func rootRelative(target string) string {
	rest := strings.TrimLeft(target, "/")
	for {
		switch {
		case rest == "." || rest == "..":
			return ""
		case strings.HasPrefix(rest, "./"):
			rest = strings.TrimLeft(rest[len("./"):], "/")
		case strings.HasPrefix(rest, "../"):
			rest = strings.TrimLeft(rest[len("../"):], "/")
		default:
			return rest
		}
	}
}
