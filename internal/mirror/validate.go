package mirror

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate rejects requests which would make the copy read its own output or destroy its input:
//  - the source must not lie inside (or be) the destination because the destination gets removed first
//  - the destination may only lie inside the source if one of its ancestors below the source root
//    (or the destination directory itself) carries an excluded name, otherwise the walk would descend into it
func Validate(req Request) error {
	for _, path := range []string{req.Source, req.Destination} {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("%w: %s", ErrRelativePath, path)
		}
	}
	source := filepath.Clean(req.Source)
	destination := filepath.Clean(req.Destination)

	if _, inside := relativeBelow(source, destination); inside || source == destination {
		return fmt.Errorf("%w: %s contains %s", ErrSourceInsideDestination, destination, source)
	}
	if rel, inside := relativeBelow(destination, source); inside {
		for _, name := range strings.Split(rel, string(filepath.Separator)) {
			if req.Exclusions.Contains(name) {
				return nil
			}
		}
		return fmt.Errorf("%w: %s is below %s, exclude one of its parent directories", ErrDestinationInsideSource, destination, source)
	}
	return nil
}

// relativeBelow yields the path of child relative to parent if child is located strictly below parent.
func relativeBelow(child string, parent string) (rel string, inside bool) {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}
