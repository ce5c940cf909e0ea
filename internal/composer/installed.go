package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const installersExtraKey = "installer-paths"

type installedPackage struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	InstallPath string `json:"install-path"` //relative to vendor/composer, only written by composer 2
}

// InstallPath determines the absolute directory a package was installed to.
// The installed.json written by composer is consulted first, the installer-paths of the
// project (as used by composer/installers) are the fallback. The package type is only needed for
// "type:..." installer-paths and may be empty.
func (p *Project) InstallPath(name string, packageType string) (string, error) {
	installed, err := p.installedPackages()
	if err != nil {
		return "", err
	}
	for _, pkg := range installed {
		if pkg.Name != name {
			continue
		}
		if pkg.InstallPath != "" {
			return filepath.Join(p.VendorDir(), "composer", filepath.FromSlash(pkg.InstallPath)), nil
		}
		if pkg.Type != "" {
			packageType = pkg.Type
		}
		if path, found, err := p.installerPath(name, packageType); err != nil || found {
			return path, err
		}
		return filepath.Join(p.VendorDir(), filepath.FromSlash(name)), nil
	}
	if path, found, err := p.installerPath(name, packageType); err != nil || found {
		return path, err
	}
	return "", fmt.Errorf("%w: %s", ErrPackageNotInstalled, name)
}

// installedPackages reads vendor/composer/installed.json in either the composer 1 (plain list)
// or composer 2 (object with "packages") format. A missing file yields no packages.
func (p *Project) installedPackages() ([]installedPackage, error) {
	path := filepath.Join(p.VendorDir(), "composer", "installed.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("installed packages load failed (%s): %w", path, err)
	}

	var packages []installedPackage
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &packages)
	} else {
		var wrapper struct {
			Packages []installedPackage `json:"packages"`
		}
		err = json.Unmarshal(data, &wrapper)
		packages = wrapper.Packages
	}
	if err != nil {
		return nil, fmt.Errorf("installed packages parse failed (%s): %w", path, err)
	}
	return packages, nil
}

// installerPath matches the package against the installer-paths of the project.
// Exact package names take precedence over "vendor:" and "type:" selectors.
func (p *Project) installerPath(name string, packageType string) (path string, found bool, err error) {
	var installerPaths map[string][]string
	if _, err = p.Extra(installersExtraKey, &installerPaths); err != nil {
		return
	}
	vendor, shortName := name, name
	if i := strings.Index(name, "/"); i >= 0 {
		vendor, shortName = name[:i], name[i+1:]
	}

	templates := make([]string, 0, len(installerPaths))
	for template := range installerPaths {
		templates = append(templates, template)
	}
	sort.Strings(templates) //map order must not decide between equally ranked matches

	selectors := []string{name, "vendor:" + vendor}
	if packageType != "" {
		selectors = append(selectors, "type:"+packageType)
	}
	for _, selector := range selectors {
		for _, template := range templates {
			for _, candidate := range installerPaths[template] {
				if candidate != selector {
					continue
				}
				expanded := strings.NewReplacer("{$name}", shortName, "{$vendor}", vendor, "{$type}", packageType).Replace(template)
				return p.Resolve(strings.TrimSuffix(expanded, "/")), true, nil
			}
		}
	}
	return "", false, nil
}
