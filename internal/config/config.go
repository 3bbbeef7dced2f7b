// Package config loads the YAML settings file cppcheck-pp reads its
// defaults from, translating it into the preproc.Settings shape the
// core consumes.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/manan288/cppcheck/preproc"
)

// File is the on-disk shape of a settings YAML document, e.g.:
//
//	defines: "DEBUG;VERSION=2"
//	include_paths:
//	  - include
//	  - vendor/include
//	inline_suppressions: true
//	debug_warnings: false
//	disabled:
//	  - missingInclude
type File struct {
	Defines            string   `yaml:"defines"`
	IncludePaths       []string `yaml:"include_paths"`
	InlineSuppressions bool     `yaml:"inline_suppressions"`
	DebugWarnings      bool     `yaml:"debug_warnings"`
	Enabled            []string `yaml:"enabled"`
	Disabled           []string `yaml:"disabled"`
}

// Load reads and parses a settings file. A missing path is not an
// error: it returns an empty File so callers can treat "no config
// given" and "empty config file" identically.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errors.Wrapf(err, "reading settings file %q", path)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing settings file %q", path)
	}
	return &f, nil
}

// ToSettings builds a preproc.Settings from the file, gating diagnostics
// on Disabled taking precedence over an explicit Enabled allow-list, and
// wiring supp as the destination for inline suppression markers.
func (f *File) ToSettings(supp preproc.SuppressionSink) *preproc.Settings {
	disabled := map[string]bool{}
	for _, id := range f.Disabled {
		disabled[id] = true
	}
	allow := map[string]bool{}
	for _, id := range f.Enabled {
		allow[id] = true
	}
	hasAllowList := len(allow) > 0

	return &preproc.Settings{
		UserDefines:        f.Defines,
		InlineSuppressions: f.InlineSuppressions,
		DebugWarnings:      f.DebugWarnings,
		Suppressions:       supp,
		Enabled: func(id string) bool {
			if disabled[id] {
				return false
			}
			if hasAllowList {
				return allow[id]
			}
			return true
		},
	}
}
