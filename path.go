package copyprofile

import (
	"path/filepath"
	"strings"

	out "github.com/n2code/copyprofile/internal/output"
)

const projectRootScheme = "project:" + string(filepath.Separator) + string(filepath.Separator)

func (c *copier) displayablePath(absolutePath string) string {
	pleasant := pleasantPath(filepath.Clean(absolutePath), c.resolved.SourceRoot, mustGetwd(), true, false)
	if c.printer.UsesEscapes() && strings.HasPrefix(pleasant, projectRootScheme) {
		pleasant = strings.Replace(pleasant, projectRootScheme, out.TerminalFormatAsDim(projectRootScheme), 1)
	}
	return pleasant
}

const dot string = "."
const dirSeparator = string(filepath.Separator)
const dotDirSeparator = dot + dirSeparator
const doubleDot = dot + dot
const doubleDotDirSeparator = doubleDot + dirSeparator

func isChildOf(child string, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return !(rel == dot || rel == doubleDot || strings.HasPrefix(rel, doubleDotDirSeparator))
}

// pleasantPath turns an absolute path into something easily understandable from the current context.
// If the working directory is inside the project a relative path is emitted, with leading "./" to stress relativity (opt-out possible).
// If the current location is outside the project an anchored path is printed and the project root is abbreviated.
// If the [absolute] input path is a target outside the project it is reflected unchanged.
func pleasantPath(absolute string, root string, wd string, collapseRoot bool, omitDotSlash bool) string {
	if wdAboveRoot := !isChildOf(wd, root) && wd != root; wdAboveRoot {
		if !collapseRoot || !isChildOf(absolute, root) {
			return absolute
		}
		anchored, _ := filepath.Rel(root, absolute) //error impossible because both are rooted
		return projectRootScheme + anchored
	}

	prefix := ""
	relative, _ := filepath.Rel(wd, absolute) //error impossible because both are rooted
	if relative == dot {
		return relative
	}
	if !omitDotSlash && !strings.HasPrefix(relative, doubleDotDirSeparator) && relative != doubleDot {
		prefix = dotDirSeparator
	}
	return prefix + relative
}
