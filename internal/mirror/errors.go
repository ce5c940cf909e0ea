package mirror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotDirectory            = errors.New("not a directory")
	ErrRelativePath            = errors.New("path is not absolute")
	ErrSourceInsideDestination = errors.New("source is located inside the destination")
	ErrDestinationInsideSource = errors.New("destination is located inside the source without an excluded ancestor")
)

// FilesystemError reports any failure to remove, create, read, or write a path.
// A mirror run aborts on the first one, the destination is left as it is.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s %s", e.Op, e.Path)
	if e.Err != nil {
		fmt.Fprint(&msg, ": ", e.Err)
	}
	return msg.String()
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func fsError(op string, path string, err error) error {
	var existing *FilesystemError
	if errors.As(err, &existing) {
		return err
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}
