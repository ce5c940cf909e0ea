// Package options merges the user settings of all configuration layers and resolves them
// into the inputs of a mirror run.
package options

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/n2code/copyprofile/internal/composer"
)

// ExtraKey names the block inside the "extra" section of composer.json holding the settings.
const ExtraKey = "drupal-copy-profile"

// FileName is the optional settings file in the project root, it takes precedence over composer.json.
const FileName = "copyprofile.toml"

// Settings is one configuration layer. Zero values mean "not set in this layer".
type Settings struct {
	Excludes     []string `json:"excludes" toml:"excludes"`
	OmitDefaults *bool    `json:"omit-defaults" toml:"omit-defaults"`
	ProfileName  string   `json:"profile-name" toml:"profile-name"`
	WebRoot      string   `json:"web-root" toml:"web-root"` //relative to the project directory unless absolute
}

// Merge lays the given layer over s: excludes accumulate in order, everything else is replaced if set.
func (s Settings) Merge(layer Settings) Settings {
	merged := s
	merged.Excludes = append(append([]string(nil), s.Excludes...), layer.Excludes...)
	if layer.OmitDefaults != nil {
		omit := *layer.OmitDefaults
		merged.OmitDefaults = &omit
	}
	if layer.ProfileName != "" {
		merged.ProfileName = layer.ProfileName
	}
	if layer.WebRoot != "" {
		merged.WebRoot = layer.WebRoot
	}
	return merged
}

func (s Settings) omitDefaults() bool {
	return s.OmitDefaults != nil && *s.OmitDefaults
}

// Load reads the settings stored with the project: the composer.json extra block overlaid by the settings file.
func Load(project *composer.Project) (settings Settings, err error) {
	if _, err = project.Extra(ExtraKey, &settings); err != nil {
		return Settings{}, err
	}
	var file Settings
	found, err := loadToml(filepath.Join(project.Dir(), FileName), &file)
	if err != nil {
		return Settings{}, err
	}
	if found {
		settings = settings.Merge(file)
	}
	return settings, nil
}

func loadToml(path string, out interface{}) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("settings load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("settings parse failed (%s): %w", path, err)
	}
	return true, nil
}
