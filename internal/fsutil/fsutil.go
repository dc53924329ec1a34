// Package fsutil provides path helpers and the filesystem probe used while
// constructing toolchains.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Concat joins a sysroot with an absolute-style suffix without collapsing
// the components: Concat("/opt/qnx", "/usr/lib") == "/opt/qnx/usr/lib".
// An empty root yields the suffix unchanged.
func Concat(root string, parts ...string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(root, "/"))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			sb.WriteByte('/')
		}
		sb.WriteString(p)
	}
	out := sb.String()
	if out == "" && root == "/" {
		return "/"
	}
	return out
}

// IsAbs reports whether a target path is absolute.
func IsAbs(p string) bool { return strings.HasPrefix(p, "/") }

// Prober answers filesystem questions during toolchain construction.
type Prober interface {
	// Exists reports whether p names an existing file or directory.
	Exists(p string) bool
	// IsDir reports whether p names an existing directory.
	IsDir(p string) bool
	// ReadDir lists the entry names of directory p, sorted.
	ReadDir(p string) ([]string, error)
}

// OS probes the host filesystem.
type OS struct{}

// Exists reports whether p exists on disk.
func (OS) Exists(p string) bool {
	_, err := os.Stat(filepath.FromSlash(p))
	return err == nil
}

// IsDir reports whether p is a directory on disk.
func (OS) IsDir(p string) bool {
	fi, err := os.Stat(filepath.FromSlash(p))
	return err == nil && fi.IsDir()
}

// ReadDir lists a host directory.
func (OS) ReadDir(p string) ([]string, error) {
	entries, err := os.ReadDir(filepath.FromSlash(p))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)
	return names, nil
}

// Map is an in-memory Prober over a set of file paths. Parent directories
// are implied.
type Map struct {
	files map[string]struct{}
	dirs  map[string]map[string]struct{}
}

// NewMap builds a Map holding files.
func NewMap(files ...string) *Map {
	m := &Map{files: map[string]struct{}{}, dirs: map[string]map[string]struct{}{}}
	for _, f := range files {
		m.Add(f)
	}
	return m
}

// Add records a file and all its parent directories.
func (m *Map) Add(file string) {
	file = path.Clean(file)
	m.files[file] = struct{}{}
	for cur := file; cur != "/" && cur != "."; {
		parent := path.Dir(cur)
		children, ok := m.dirs[parent]
		if !ok {
			children = map[string]struct{}{}
			m.dirs[parent] = children
		}
		children[path.Base(cur)] = struct{}{}
		cur = parent
	}
}

// Exists reports whether p was added or is an implied directory.
func (m *Map) Exists(p string) bool {
	p = path.Clean(p)
	if _, ok := m.files[p]; ok {
		return true
	}
	_, ok := m.dirs[p]
	return ok
}

// IsDir reports whether p is an implied directory.
func (m *Map) IsDir(p string) bool {
	_, ok := m.dirs[path.Clean(p)]
	return ok
}

// ReadDir lists the implied children of p.
func (m *Map) ReadDir(p string) ([]string, error) {
	children, ok := m.dirs[path.Clean(p)]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}
	names := make([]string, 0, len(children))
	for n := range children {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// FindFile returns the first dir/name that exists, searching dirs in order.
func FindFile(p Prober, name string, dirs []string) (string, bool) {
	for _, d := range dirs {
		if d == "" {
			continue
		}
		candidate := path.Join(d, name)
		if p.Exists(candidate) && !p.IsDir(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// IsNotExist reports whether err means a missing path.
func IsNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
