package options

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/n2code/copyprofile/internal/composer"
	"github.com/n2code/copyprofile/internal/mirror"
)

const (
	CorePackage       = "drupal/core"
	CorePackageType   = "drupal-core"
	VersionControlDir = ".git"
)

// ProfilesSubdirectory is where contributed profiles live inside the web root.
var ProfilesSubdirectory = filepath.Join("profiles", "contrib")

// ResolutionError reports that an input of the mirror run could not be determined.
type ResolutionError struct {
	Input string
	Err   error
}

func (e *ResolutionError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "cannot determine %s", e.Input)
	if e.Err != nil {
		fmt.Fprint(&msg, ": ", e.Err)
	}
	return msg.String()
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Resolved holds the fully determined inputs of a mirror run, all paths absolute.
type Resolved struct {
	SourceRoot      string
	WebRoot         string
	VendorDir       string
	ProfileName     string
	DestinationRoot string
	Exclusions      mirror.ExclusionSet
}

func (r Resolved) Request() mirror.Request {
	return mirror.Request{Source: r.SourceRoot, Destination: r.DestinationRoot, Exclusions: r.Exclusions}
}

// Resolve combines the project metadata, the stored settings and the given overrides (usually command line flags).
func Resolve(project *composer.Project, overrides Settings) (resolved Resolved, err error) {
	stored, err := Load(project)
	if err != nil {
		return Resolved{}, &ResolutionError{Input: "settings", Err: err}
	}
	settings := stored.Merge(overrides)

	resolved.SourceRoot = realpath(project.Dir())

	configuredWebRoot, err := webRoot(project, settings)
	if err != nil {
		return Resolved{}, &ResolutionError{Input: "web root", Err: err}
	}
	resolved.WebRoot = realpath(configuredWebRoot)

	resolved.VendorDir = project.VendorDir()
	if resolved.VendorDir == "" {
		return Resolved{}, &ResolutionError{Input: "vendor directory"}
	}

	resolved.ProfileName = settings.ProfileName
	if resolved.ProfileName == "" {
		resolved.ProfileName = project.ShortName()
	}
	if err := ValidateName(resolved.ProfileName); err != nil {
		return Resolved{}, &ResolutionError{Input: "profile name", Err: err}
	}
	resolved.DestinationRoot = filepath.Join(resolved.WebRoot, ProfilesSubdirectory, resolved.ProfileName)

	resolved.Exclusions = mirror.NewExclusionSet()
	if !settings.omitDefaults() {
		resolved.Exclusions.Add(
			filepath.Base(configuredWebRoot),
			filepath.Base(resolved.WebRoot),
			filepath.Base(resolved.VendorDir),
			VersionControlDir,
		)
	}
	for _, name := range settings.Excludes {
		if strings.ContainsAny(name, `/\`) {
			log.Warn().Str("exclude", name).Msg("excludes match directory names only, entry containing a path separator never matches")
		}
		resolved.Exclusions.Add(name)
	}

	log.Info().
		Str("source", resolved.SourceRoot).
		Str("destination", resolved.DestinationRoot).
		Strs("exclusions", resolved.Exclusions.Sorted()).
		Msg("resolved profile copy")
	return resolved, nil
}

// webRoot is configured explicitly or the parent of the core package installation.
func webRoot(project *composer.Project, settings Settings) (string, error) {
	if settings.WebRoot != "" {
		return project.Resolve(settings.WebRoot), nil
	}
	corePath, err := project.InstallPath(CorePackage, CorePackageType)
	if err != nil {
		return "", fmt.Errorf(`set "web-root" or install %s: %w`, CorePackage, err)
	}
	return filepath.Dir(corePath), nil
}

// ValidateName checks that the name is a single path segment which is neither "." nor "..".
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("empty name")
	case name == "." || name == "..":
		return fmt.Errorf("invalid name: %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name must not contain path separators: %q", name)
	}
	return nil
}

// realpath resolves symbolic links of the longest existing prefix of the path.
func realpath(path string) string {
	path = filepath.Clean(path)
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(realpath(parent), filepath.Base(path))
}
