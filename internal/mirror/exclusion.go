package mirror

import (
	"sort"
	"strings"
)

// ExclusionSet holds directory base names which block descent during a walk.
// Matching is exact and case-sensitive, names are never interpreted as paths or patterns.
type ExclusionSet map[string]struct{}

func NewExclusionSet(names ...string) ExclusionSet {
	set := make(ExclusionSet, len(names))
	set.Add(names...)
	return set
}

// Add inserts the given names, empty names are ignored.
func (s ExclusionSet) Add(names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		s[name] = struct{}{}
	}
}

func (s ExclusionSet) Contains(name string) bool {
	_, found := s[name]
	return found
}

// Sorted lists all names in lexical order so that logs and tests are reproducible.
func (s ExclusionSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s ExclusionSet) String() string {
	return strings.Join(s.Sorted(), ", ")
}
