package copyprofile

import "github.com/n2code/copyprofile/internal/mirror"

// Copier mirrors a project into the contrib profile directory of its web root. Retrieve a handle using Open.
type Copier interface {

	// Request returns the resolved source, destination and exclusions every other call operates on.
	Request() mirror.Request

	// CopyProfile deletes the destination and copies the filtered project tree into it.
	// If the destination already holds content and a confirm callback is given, the user is asked first.
	// Declining leaves everything untouched and is not an error, aborting the choice yields ErrAborted.
	// Any filesystem failure stops the copy immediately, there is no rollback.
	CopyProfile(confirm RequestChoice) error

	// PrintTree prints the entries a copy would create as a tree, the destination is not touched.
	PrintTree() error

	// PrintStatus compares an existing copy with the project tree and lists all differences grouped by status.
	// With showDiff set a patch is printed for every modified text file.
	PrintStatus(showDiff bool) (inSync bool, err error)
}

// RequestChoice represents a single-choice decision callback, the first option is considered the default "yes"-like choice.
// If the choice is aborted an empty string must be returned.
// If cleanup is set the implementation is recommended to remove the choice presentation after selection.
type RequestChoice func(request string, options []string, cleanup bool) (choice string)

const ChoiceAborted = ""
