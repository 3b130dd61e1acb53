package types

import (
	"io/fs"
)

// FS is the filesystem interface required for fixlinks operations.
// Every call operates on a single path and is synchronous.
type FS interface {
	// Directory operations
	ReadDir(name string) ([]fs.DirEntry, error)

	// Metadata
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)

	// Access reports whether name exists, following symlinks
	Access(name string) error

	// Symlink operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)

	Remove(name string) error
}
