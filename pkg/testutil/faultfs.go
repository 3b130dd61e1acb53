package testutil

import (
	"io/fs"
	"sync"

	"github.com/arthur-debert/fixlinks/pkg/types"
)

// Op names a types.FS method for fault injection
type Op string

const (
	OpReadDir  Op = "readdir"
	OpStat     Op = "stat"
	OpLstat    Op = "lstat"
	OpAccess   Op = "access"
	OpSymlink  Op = "symlink"
	OpReadlink Op = "readlink"
	OpRemove   Op = "remove"
)

// Call is one recorded FS call
type Call struct {
	Op   Op
	Path string
}

// FaultFS wraps a types.FS, failing selected (op, path) pairs and
// recording every call it sees.
type FaultFS struct {
	types.FS

	mu     sync.Mutex
	faults map[Call]error
	links  map[string]string
	calls  []Call
}

// NewFaultFS wraps base
func NewFaultFS(base types.FS) *FaultFS {
	return &FaultFS{
		FS:     base,
		faults: make(map[Call]error),
		links:  make(map[string]string),
	}
}

// Fail makes op on path return err
func (f *FaultFS) Fail(op Op, path string, err error) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[Call{Op: op, Path: path}] = err
	return f
}

// OverrideReadlink makes Readlink(path) return target, simulating a link
// that changed after it was lstat'ed.
func (f *FaultFS) OverrideReadlink(path, target string) *FaultFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links[path] = target
	return f
}

// Calls returns the calls recorded so far
func (f *FaultFS) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsFor returns the recorded calls of a single op
func (f *FaultFS) CallsFor(op Op) []string {
	var paths []string
	for _, c := range f.Calls() {
		if c.Op == op {
			paths = append(paths, c.Path)
		}
	}
	return paths
}

func (f *FaultFS) record(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := Call{Op: op, Path: path}
	f.calls = append(f.calls, c)
	return f.faults[c]
}

func (f *FaultFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.record(OpReadDir, name); err != nil {
		return nil, err
	}
	return f.FS.ReadDir(name)
}

func (f *FaultFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.record(OpStat, name); err != nil {
		return nil, err
	}
	return f.FS.Stat(name)
}

func (f *FaultFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.record(OpLstat, name); err != nil {
		return nil, err
	}
	return f.FS.Lstat(name)
}

func (f *FaultFS) Access(name string) error {
	if err := f.record(OpAccess, name); err != nil {
		return err
	}
	return f.FS.Access(name)
}

func (f *FaultFS) Symlink(oldname, newname string) error {
	if err := f.record(OpSymlink, newname); err != nil {
		return err
	}
	return f.FS.Symlink(oldname, newname)
}

func (f *FaultFS) Readlink(name string) (string, error) {
	if err := f.record(OpReadlink, name); err != nil {
		return "", err
	}
	f.mu.Lock()
	target, ok := f.links[name]
	f.mu.Unlock()
	if ok {
		return target, nil
	}
	return f.FS.Readlink(name)
}

func (f *FaultFS) Remove(name string) error {
	if err := f.record(OpRemove, name); err != nil {
		return err
	}
	return f.FS.Remove(name)
}

var _ types.FS = (*FaultFS)(nil)
