package types

import "strings"

// EntryKind tags a listed filesystem object
type EntryKind int

const (
	// KindFile covers regular files and anything that is neither a directory nor a symlink
	KindFile EntryKind = iota
	KindDir
	KindSymlink
)

// String returns the short tag used in progress lines
func (k EntryKind) String() string {
	switch k {
	case KindDir:
		return "D"
	case KindSymlink:
		return "L"
	default:
		return "F"
	}
}

// Entry is one object inside a directory frame of the walk.
type Entry struct {
	Name  string    `json:"name"`
	Dir   string    `json:"dir"`
	Path  string    `json:"path"`
	Kind  EntryKind `json:"kind"`
	Depth int       `json:"depth"`
}

// LinkTarget is the raw target read from a symlink.
type LinkTarget struct {
	Raw      string `json:"raw"`
	Absolute bool   `json:"absolute"`
}

// NewLinkTarget classifies a raw target string
func NewLinkTarget(raw string) LinkTarget {
	return LinkTarget{
		Raw:      raw,
		Absolute: strings.HasPrefix(raw, "/"),
	}
}
