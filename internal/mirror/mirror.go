package mirror

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
)

const directoryPermissions = 0o755
const filePermissions = 0o644

// Mirror recreates the destination and copies the filtered source tree into it.
// Any failure aborts the run and is reported as *FilesystemError (or a validation error),
// no rollback is attempted, a later successful run replaces whatever was left behind.
func Mirror(req Request) (report Report, err error) {
	if err = Validate(req); err != nil {
		return
	}
	if err = checkSource(req.Source); err != nil { //before anything gets deleted
		return
	}
	if err = Recreate(req.Destination); err != nil {
		return
	}
	log.Debug().Str("source", req.Source).Str("destination", req.Destination).Strs("exclusions", req.Exclusions.Sorted()).Msg("mirroring")

	err = Walk(req.Source, ExclusionFilter(req.Exclusions), func(entry TreeEntry) error {
		target := req.Target(entry)
		switch {
		case entry.Dir:
			//pre-order walk guarantees that the parent already exists
			if err := os.Mkdir(target, directoryPermissions); err != nil {
				return fsError("mkdir", target, err)
			}
			report.Directories++
		case entry.Symlink:
			if err := copyLink(entry.Path, target); err != nil {
				return err
			}
			report.Links++
		default:
			written, err := copyFile(entry.Path, target)
			if err != nil {
				return err
			}
			report.Files++
			report.Bytes += written
		}
		log.Debug().Str("path", entry.Rel).Bool("dir", entry.Dir).Msg("mirrored")
		return nil
	})
	return
}

// Plan lists the entries a mirror run of the request would create, in walk order.
// The destination is neither inspected nor modified.
func Plan(req Request) (entries []TreeEntry, err error) {
	if err = checkSource(req.Source); err != nil {
		return
	}
	err = Walk(req.Source, ExclusionFilter(req.Exclusions), func(entry TreeEntry) error {
		entries = append(entries, entry)
		return nil
	})
	return
}

// Recreate removes whatever exists at path (file or directory tree) and creates an empty directory in its place,
// including missing parents.
func Recreate(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fsError("remove", path, err)
	}
	if err := os.MkdirAll(path, directoryPermissions); err != nil {
		return fsError("mkdir", path, err)
	}
	return nil
}

func checkSource(source string) error {
	stat, err := os.Stat(source)
	if err != nil {
		return fsError("stat", source, err)
	}
	if !stat.IsDir() {
		return fsError("stat", source, ErrNotDirectory)
	}
	return nil
}

// copyFile duplicates the content, keeps executable bits and the modification time of the source.
func copyFile(source string, target string) (written int64, err error) {
	in, err := os.Open(source)
	if err != nil {
		return 0, fsError("read", source, err)
	}
	defer in.Close()

	stat, err := in.Stat()
	if err != nil {
		return 0, fsError("read", source, err)
	}
	mode := fs.FileMode(filePermissions) | stat.Mode().Perm()&0o111

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return 0, fsError("write", target, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fsError("write", target, closeErr)
		}
	}()

	if written, err = io.Copy(out, in); err != nil {
		return written, fsError("write", target, fmt.Errorf("copying from %s: %w", source, err))
	}
	if err = os.Chtimes(target, stat.ModTime(), stat.ModTime()); err != nil {
		return written, fsError("write", target, err)
	}
	return written, nil
}

func copyLink(source string, target string) error {
	link, err := os.Readlink(source)
	if err != nil {
		return fsError("read", source, err)
	}
	if err := os.Symlink(link, target); err != nil {
		return fsError("write", target, err)
	}
	return nil
}
