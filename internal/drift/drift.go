// Package drift compares an existing profile copy with the tree a fresh mirror run would produce.
// It only reports, nothing is modified.
package drift

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/n2code/copyprofile/internal/mirror"
)

type Status rune

const (
	InSync   Status = '='
	Modified Status = '!'
	Missing  Status = '-' //present in source, absent in copy
	Stale    Status = '+' //present in copy only
)

func (s Status) String() string {
	switch s {
	case InSync:
		return "In sync"
	case Modified:
		return "Modified"
	case Missing:
		return "Missing"
	case Stale:
		return "Stale"
	default:
		return "Unknown"
	}
}

func (s Status) RepresentsChange() bool {
	return s != InSync
}

type Entry struct {
	Rel         string //relative to both roots, system-native
	Dir         bool
	Status      Status
	source      string
	copy        string
	typeChanged bool //directory, link or file on one side but not on the other
}

// TypeChanged reports a modification where source and copy are not of the same kind.
func (e Entry) TypeChanged() bool {
	return e.typeChanged
}

// Inspect walks both trees and yields one entry per path, sorted by path.
// If the destination does not exist all source entries are reported as missing.
func Inspect(req mirror.Request) ([]Entry, error) {
	planned, err := mirror.Plan(req)
	if err != nil {
		return nil, err
	}
	expected := make(map[string]mirror.TreeEntry, len(planned))
	for _, entry := range planned {
		expected[entry.Rel] = entry
	}

	var entries []Entry
	seen := make(map[string]bool, len(planned))
	if _, statErr := os.Lstat(req.Destination); statErr == nil {
		everything := func(mirror.TreeEntry) mirror.Decision { return mirror.Descend }
		err = mirror.Walk(req.Destination, everything, func(present mirror.TreeEntry) error {
			entry := Entry{Rel: present.Rel, Dir: present.Dir, Status: Stale, copy: present.Path}
			if wanted, found := expected[present.Rel]; found {
				seen[present.Rel] = true
				entry.source = wanted.Path
				entry.typeChanged = wanted.Dir != present.Dir || wanted.Symlink != present.Symlink
				same, err := equivalent(wanted, present)
				if err != nil {
					return err
				}
				entry.Status = map[bool]Status{true: InSync, false: Modified}[same]
			}
			entries = append(entries, entry)
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return nil, &mirror.FilesystemError{Op: "stat", Path: req.Destination, Err: statErr}
	}

	for _, wanted := range planned {
		if !seen[wanted.Rel] {
			entries = append(entries, Entry{Rel: wanted.Rel, Dir: wanted.Dir, Status: Missing, source: wanted.Path})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rel < entries[j].Rel })
	return entries, nil
}

func equivalent(wanted mirror.TreeEntry, present mirror.TreeEntry) (bool, error) {
	switch {
	case wanted.Dir || present.Dir:
		return wanted.Dir == present.Dir, nil
	case wanted.Symlink || present.Symlink:
		if wanted.Symlink != present.Symlink {
			return false, nil
		}
		wantedTarget, err := os.Readlink(wanted.Path)
		if err != nil {
			return false, &mirror.FilesystemError{Op: "read", Path: wanted.Path, Err: err}
		}
		presentTarget, err := os.Readlink(present.Path)
		if err != nil {
			return false, &mirror.FilesystemError{Op: "read", Path: present.Path, Err: err}
		}
		return wantedTarget == presentTarget, nil
	default:
		wantedContent, presentContent, err := readBoth(wanted.Path, present.Path)
		if err != nil {
			return false, err
		}
		return bytes.Equal(wantedContent, presentContent), nil
	}
}

// Diff renders the changes needed to turn the copy into the source version as patch text.
// Only modified text files have a diff, ok is false otherwise (also if the type changed).
func (e Entry) Diff() (patch string, ok bool, err error) {
	if e.Status != Modified || e.Dir || e.typeChanged {
		return "", false, nil
	}
	wanted, present, err := readBoth(e.source, e.copy)
	if err != nil {
		return "", false, err
	}
	if isBinary(wanted) || isBinary(present) {
		return "", false, nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(present), string(wanted), true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(string(present), diffs)), true, nil
}

func readBoth(first string, second string) ([]byte, []byte, error) {
	firstContent, err := os.ReadFile(first)
	if err != nil {
		return nil, nil, &mirror.FilesystemError{Op: "read", Path: first, Err: err}
	}
	secondContent, err := os.ReadFile(second)
	if err != nil {
		return nil, nil, &mirror.FilesystemError{Op: "read", Path: second, Err: err}
	}
	return firstContent, secondContent, nil
}

func isBinary(content []byte) bool {
	const sniffLength = 8000
	if len(content) > sniffLength {
		content = content[:sniffLength]
	}
	return bytes.IndexByte(content, 0) >= 0
}

// Filter drops all entries whose status is not a change.
func Filter(entries []Entry) (changes []Entry) {
	for _, entry := range entries {
		if entry.Status.RepresentsChange() {
			changes = append(changes, entry)
		}
	}
	return
}
