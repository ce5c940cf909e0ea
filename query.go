package copyprofile

import (
	"path/filepath"

	"github.com/n2code/copyprofile/internal/drift"
	"github.com/n2code/copyprofile/internal/mirror"
	out "github.com/n2code/copyprofile/internal/output"
)

func colorForStatus(status drift.Status) out.SgrModifier {
	switch status {
	case drift.Modified:
		return out.Magenta
	case drift.Missing:
		return out.Yellow
	case drift.Stale:
		return out.Red
	default:
		return out.Green
	}
}

func (c *copier) PrintTree() error {
	req := c.Request()
	entries, err := mirror.Plan(req)
	if err != nil {
		return newCommandError("source scan failed", err)
	}

	tree := out.NewVisualFileTree(c.displayablePath(req.Destination) + " [profile]")
	dirs, files := 0, 0
	for _, entry := range entries {
		switch {
		case entry.Dir:
			tree.InsertDir(entry.Rel)
			dirs++
		case entry.Symlink:
			tree.InsertPath(entry.Rel, c.printer.Colorize(out.Cyan, "@")+" ")
			files++
		default:
			tree.InsertPath(entry.Rel, "")
			files++
		}
	}
	c.Print(out.Required, "%s", tree.Render())
	c.Print(out.Normal, "\n%d %s, %d %s\n", dirs, out.Plural(dirs, "directory", "directories"), files, out.Plural(files, "file", "files"))
	c.Print(out.Verbose, "excluded directory names: %s\n", req.Exclusions)
	return nil
}

func (c *copier) PrintStatus(showDiff bool) (inSync bool, err error) {
	req := c.Request()
	entries, err := drift.Inspect(req)
	if err != nil {
		return false, newCommandError("comparison failed", err)
	}

	buckets := make(map[drift.Status][]drift.Entry)
	for _, entry := range entries {
		buckets[entry.Status] = append(buckets[entry.Status], entry)
	}
	inSync = len(drift.Filter(entries)) == 0

	c.Print(out.Normal, "\n")
	c.Print(out.Verbose, " %s (%d %s)\n\n", drift.InSync, len(buckets[drift.InSync]), out.Plural(buckets[drift.InSync], "entry", "entries"))

	//stale copies first because they vanish on the next copy anyway, modifications last as they may need inspection
	for _, status := range []drift.Status{drift.Stale, drift.Missing, drift.Modified} {
		bucket := buckets[status]
		if len(bucket) == 0 {
			continue
		}
		c.Print(out.Normal, " %s (%d %s)\n", status, len(bucket), out.Plural(bucket, "entry", "entries"))
		for _, entry := range bucket {
			display := entry.Rel
			if entry.Dir {
				display += string(filepath.Separator)
			}
			c.Print(out.Normal, "  ")
			c.Print(out.Required, "%s[%c] %s%s\n", colorForStatus(status), rune(status), display, out.Reset)
			if status == drift.Modified && showDiff {
				c.printDiff(entry)
			}
		}
		c.Print(out.Normal, "\n")
	}

	if inSync {
		c.Print(out.Normal, " Copy at %s in sync with the project.\n\n", c.displayablePath(req.Destination))
	} else {
		c.Print(out.Normal, " Run the copy to replace %s.\n\n", c.displayablePath(req.Destination))
	}
	return inSync, nil
}

func (c *copier) printDiff(entry drift.Entry) {
	if entry.TypeChanged() {
		c.Print(out.Required, "%s\n", out.Indent(6, c.printer.Sprintf("%s(type differs)%s", out.Dim, out.Reset)))
		return
	}
	patch, ok, err := entry.Diff()
	switch {
	case err != nil:
		c.Print(out.Error, "%s\n", out.Indent(6, c.printer.Sprintf("%s%s%s", out.Invert, err, out.Reset)))
	case !ok:
		c.Print(out.Required, "%s\n", out.Indent(6, c.printer.Sprintf("%s(binary content differs)%s", out.Dim, out.Reset)))
	default:
		c.Print(out.Required, "%s\n", out.Indent(6, patch))
	}
}
