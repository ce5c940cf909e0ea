package copyprofile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/n2code/copyprofile/internal/composer"
	"github.com/n2code/copyprofile/internal/mirror"
	"github.com/n2code/copyprofile/internal/options"
	out "github.com/n2code/copyprofile/internal/output"
)

type VerbosityLevel int

// CreateConfig holds a set of common configuration switches that concern all calls to the copyprofile API.
// The zero value is a sensible default.
type CreateConfig struct {
	Verbosity    VerbosityLevel
	AllowEscapes bool //colors and other terminal control sequences
}

const (
	DefaultVerbosity VerbosityLevel = iota //normal level of information, all noteworthy facts without too much noise
	VerboseMode                            //exhaustive information about what is happening, repeating context
	QuietMode                              //only output errors and information that was explicitly requested (-> Print* functions)
)

// Open reads the composer project in the given directory and resolves where its profile copy belongs.
// Overrides take precedence over the settings stored in the project (usually they stem from command line flags).
func Open(projectDir string, config CreateConfig, overrides options.Settings) (Copier, error) {
	handle := makeCopier(config)
	project, err := composer.LoadProject(mustAbsFilepath(projectDir))
	if err != nil {
		return nil, fmt.Errorf("project load error: %w", err)
	}
	handle.resolved, err = options.Resolve(project, overrides)
	if err != nil {
		return nil, fmt.Errorf("project setup error: %w", err)
	}
	return handle, nil
}

type copier struct {
	resolved options.Resolved
	printer  out.Printer
}

func makeCopier(config CreateConfig) (instance *copier) {
	classes := []out.Class{out.Required, out.Error}
	switch config.Verbosity {
	case VerboseMode:
		classes = append(classes, out.Verbose)
		fallthrough
	case DefaultVerbosity:
		classes = append(classes, out.Normal)
	}
	return &copier{printer: out.NewPrinter(classes, config.AllowEscapes)}
}

func (c *copier) Request() mirror.Request {
	return c.resolved.Request()
}

// Print outputs the formatted text if the class is enabled, escape sequences are dropped if not allowed.
func (c *copier) Print(class out.Class, format string, values ...interface{}) {
	c.printer.Out(class, "%s", c.printer.Sprintf(format, values...))
}

// mustAbsFilepath calls filepath.Abs and asserts that it is successful
func mustAbsFilepath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}
