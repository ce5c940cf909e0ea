package copyprofile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/n2code/copyprofile/internal/mirror"
	out "github.com/n2code/copyprofile/internal/output"
)

func (c *copier) CopyProfile(confirm RequestChoice) error {
	req := c.Request()
	if confirm != nil {
		occupied, err := hasContent(req.Destination)
		if err != nil {
			return newCommandError("destination check failed", err)
		}
		if occupied {
			question := c.printer.Sprintf("Replace everything in %s%s%s?", out.Bold, c.displayablePath(req.Destination), out.Reset)
			switch confirm(question, []string{"Yes", "No"}, false) {
			case "Yes":
			case ChoiceAborted:
				return ErrAborted
			default:
				c.Print(out.Normal, "Nothing copied.\n")
				return nil
			}
		}
	}

	c.Print(out.Verbose, "Copying %s\n     to %s\n  excluding: %s\n", c.displayablePath(req.Source), c.displayablePath(req.Destination), req.Exclusions)
	report, err := mirror.Mirror(req)
	if err != nil {
		var fsErr *mirror.FilesystemError
		if errors.As(err, &fsErr) {
			return newCommandError(fmt.Sprintf("copy to %s failed", c.displayablePath(req.Destination)), err)
		}
		return newCommandError("copy refused", err)
	}

	c.Print(out.Normal, "Copied %d %s and %d %s (%s)", report.Files, out.Plural(report.Files, "file", "files"), report.Directories, out.Plural(report.Directories, "directory", "directories"), out.Filesize(report.Bytes))
	if report.Links > 0 {
		c.Print(out.Normal, ", recreated %d %s", report.Links, out.Plural(report.Links, "link", "links"))
	}
	c.Print(out.Normal, " to %s\n", c.displayablePath(req.Destination))
	return nil
}

// hasContent reports whether anything but an empty directory exists at path.
func hasContent(path string) (bool, error) {
	stat, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !stat.IsDir() {
		return true, nil
	}
	dir, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer dir.Close()
	if _, err = dir.Readdirnames(1); errors.Is(err, io.EOF) {
		return false, nil
	}
	return err == nil, err
}
