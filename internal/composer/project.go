// Package composer reads the parts of a composer project's metadata needed to locate
// the web root, the vendor directory and the profile name.
package composer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const ManifestFileName = "composer.json"
const defaultVendorDir = "vendor"
const envVendorDir = "COMPOSER_VENDOR_DIR"

var ErrPackageNotInstalled = errors.New("package not installed")

type manifest struct {
	Name   string                     `json:"name"`
	Type   string                     `json:"type"`
	Extra  map[string]json.RawMessage `json:"extra"`
	Config struct {
		VendorDir string `json:"vendor-dir"`
	} `json:"config"`
}

// Project is a parsed composer.json together with the directory it was found in.
type Project struct {
	dir      string //absolute, system-native
	manifest manifest
}

// LoadProject parses the composer.json inside the given directory.
func LoadProject(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(abs, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("composer manifest load failed (%s): %w", path, err)
	}
	project := &Project{dir: abs}
	if err := json.Unmarshal(data, &project.manifest); err != nil {
		return nil, fmt.Errorf("composer manifest parse failed (%s): %w", path, err)
	}
	return project, nil
}

func (p *Project) Dir() string {
	return p.dir
}

// Name yields the full package name ("vendor/name") of the project, possibly empty.
func (p *Project) Name() string {
	return p.manifest.Name
}

// ShortName is the part of the package name after the vendor prefix, empty if the name is not of the form "vendor/name".
func (p *Project) ShortName() string {
	parts := strings.Split(p.manifest.Name, "/")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// VendorDir yields the absolute dependency directory honoring COMPOSER_VENDOR_DIR and config.vendor-dir.
func (p *Project) VendorDir() string {
	dir := defaultVendorDir
	if configured := p.manifest.Config.VendorDir; configured != "" {
		dir = configured
	}
	if env := os.Getenv(envVendorDir); env != "" {
		dir = env
	}
	return p.Resolve(dir)
}

// Resolve anchors a path from the project metadata at the project directory.
func (p *Project) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.dir, filepath.FromSlash(path))
}

// Extra decodes the "extra" block with the given key into out. Found is false if the block is absent.
func (p *Project) Extra(key string, out interface{}) (found bool, err error) {
	raw, found := p.manifest.Extra[key]
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf(`composer extra "%s" malformed: %w`, key, err)
	}
	return true, nil
}
