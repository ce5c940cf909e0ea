package mirror

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Walk traverses root depth-first in lexical order and reports every entry to visit
// before any of its children. The root itself is not reported.
// A root given as symbolic link is resolved first, entries are reported below the resolved root.
// The filter is consulted once per entry: Skip drops the entry (and for directories the
// whole subtree), CopyOnly reports it without descending, Descend reports it and walks into it.
func Walk(root string, filter Filter, visit Visitor) error {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return fsError("walk", root, err)
	}
	root = resolved
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fsError("walk", path, walkErr)
		}
		if path == root {
			return nil
		}
		entry, err := newTreeEntry(root, path, d)
		if err != nil {
			return err
		}
		decision := filter(entry)
		if decision == Skip {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := visit(entry); err != nil {
			return err
		}
		if decision == CopyOnly && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
}

func newTreeEntry(root string, path string, d fs.DirEntry) (TreeEntry, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return TreeEntry{}, fsError("walk", path, err)
	}
	entry := TreeEntry{
		Path:    path,
		Rel:     rel,
		Name:    d.Name(),
		Dir:     d.IsDir(),
		Regular: d.Type().IsRegular(),
		Symlink: d.Type()&fs.ModeSymlink != 0,
	}
	if entry.Symlink {
		//dangling links are neither directory nor file and are thereby dropped by the default filter
		if target, statErr := os.Stat(path); statErr == nil {
			entry.Regular = target.Mode().IsRegular()
		}
	}
	return entry, nil
}

// ExclusionFilter is the default filter of a mirror run:
// directories are descended into unless their name is excluded, files are copied,
// symbolic links are kept if they point to a regular file, anything else is skipped.
func ExclusionFilter(exclusions ExclusionSet) Filter {
	return func(entry TreeEntry) Decision {
		switch {
		case entry.Dir:
			if exclusions.Contains(entry.Name) {
				return Skip
			}
			return Descend
		case entry.Regular:
			return CopyOnly
		default:
			return Skip
		}
	}
}
