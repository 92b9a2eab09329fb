// Package scanner reads the immediate entries of a skills directory without
// following symlinks. It is the single primitive every view and mutation
// precondition is built on: one call is one directory listing, so callers can
// reason about scan cost directly.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/rayhashcell/skills-manager/pkg/errdefs"
)

// Kind classifies a directory entry.
type Kind int

const (
	// KindDir is a real directory.
	KindDir Kind = iota
	// KindSymlink is a symlink, regardless of whether its target resolves.
	KindSymlink
	// KindOther is anything else (regular files, sockets, ...).
	KindOther
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry is one visible entry of a scanned directory.
type Entry struct {
	// Name is the entry's base name.
	Name string
	// Kind distinguishes directories, symlinks, and everything else.
	Kind Kind
	// LinkTarget is the raw (unresolved) symlink target. Empty unless Kind
	// is KindSymlink. Broken symlinks keep their target verbatim.
	LinkTarget string
}

// ScanDir lists the immediate entries of path, skipping hidden entries (names
// starting with "."). Entry symlinks are never followed: a symlink to a
// directory is reported as a symlink, and a broken symlink is reported the
// same as a live one. The path itself is resolved normally, so a skills
// directory reached through a symlink scans fine. A missing path yields
// (nil, nil) since an absent directory simply has nothing in it; a path that
// exists but is not a directory is an InvalidPath error.
func ScanDir(path string) ([]Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errdefs.IOFailure(err, "stat %q", path)
	}
	if !info.IsDir() {
		return nil, errdefs.InvalidPath(path)
	}

	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, errdefs.IOFailure(err, "read directory %q", path)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}

		entry := Entry{Name: name, Kind: KindOther}
		switch {
		case de.Type()&os.ModeSymlink != 0:
			entry.Kind = KindSymlink
			target, err := os.Readlink(filepath.Join(path, name))
			if err != nil {
				return nil, errdefs.IOFailure(err, "read symlink %q", name)
			}
			entry.LinkTarget = target
		case de.IsDir():
			entry.Kind = KindDir
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
