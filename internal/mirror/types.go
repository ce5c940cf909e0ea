package mirror

import "path/filepath"

// Decision is the verdict of a Filter for a single tree entry.
type Decision int

const (
	Skip     Decision = iota //neither copied nor descended into
	CopyOnly                 //copied, children (if any) are not visited
	Descend                  //copied and, for directories, walked into
)

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case CopyOnly:
		return "copy"
	case Descend:
		return "descend"
	default:
		return "unknown"
	}
}

// TreeEntry is a node encountered while walking a source tree.
type TreeEntry struct {
	Path    string //absolute, system-native
	Rel     string //relative to the walked root
	Name    string //base name
	Dir     bool   //real directory (symbolic links to directories are not)
	Regular bool   //regular file, for symbolic links the target is inspected
	Symlink bool
}

// Filter decides for every entry whether it is copied and/or descended into.
type Filter func(entry TreeEntry) Decision

// Visitor is called for every entry that passed the filter, parents before children.
type Visitor func(entry TreeEntry) error

// Request holds everything a single mirror run needs. It is built fresh for every invocation.
type Request struct {
	Source      string //absolute source root
	Destination string //absolute destination root, recreated on every run
	Exclusions  ExclusionSet
}

// Target yields the destination path corresponding to the given entry.
func (r Request) Target(entry TreeEntry) string {
	return filepath.Join(r.Destination, entry.Rel)
}

// Report summarizes a completed mirror run.
type Report struct {
	Directories int
	Files       int
	Links       int
	Bytes       int64
}
