package manifest

import (
	"path/filepath"
)

// Manifest is a parsed configen manifest.
type Manifest struct {
	Version      string            `yaml:"version" validate:"required,eq=1"`
	Header       string            `yaml:"header,omitempty"`
	Output       Output            `yaml:"output"`
	DefaultFlags DefaultFlags      `yaml:"default_flags,omitempty"`
	KnownTypes   map[string]string `yaml:"known_types,omitempty" validate:"dive,keys,qualified,endkeys,oneof=bool int float string"`
	Structures   []Structure       `yaml:"structures,omitempty" validate:"dive"`
	Targets      []Target          `yaml:"targets" validate:"required,min=1,dive"`

	// Path is the file the manifest was loaded from; empty when parsed
	// from bytes.
	Path string `yaml:"-"`
}

// Output configures where generated files go.
type Output struct {
	Dir     string `yaml:"dir" validate:"required"`
	Package string `yaml:"package" validate:"required,goident"`
}

// DefaultFlags become meta fields of every generated struct.
type DefaultFlags struct {
	Convert   string `yaml:"convert,omitempty" validate:"omitempty,oneof=none partial object all"`
	Recursive *bool  `yaml:"recursive,omitempty"`
}

// Structure declares a config struct generated elsewhere that targets of
// this manifest may reference.
type Structure struct {
	// Name is the qualified source struct, e.g. example.com/other.Pool.
	Name string `yaml:"name" validate:"required,qualified"`
	// Package is the import path of the generated struct; empty means the
	// output package.
	Package string `yaml:"package,omitempty"`
	// Type is the generated struct name; empty means <Name>Conf.
	Type string `yaml:"type,omitempty" validate:"omitempty,goident"`
}

// Target is one callable to generate a config for.
type Target struct {
	// Name is the qualified function or struct type.
	Name string `yaml:"name" validate:"required,qualified"`
	// Constructor overrides New<Type> for struct targets.
	Constructor string         `yaml:"constructor,omitempty" validate:"omitempty,goident"`
	Defaults    map[string]any `yaml:"defaults,omitempty"`
}

// OutputDir returns the output directory, resolved against the manifest's
// directory when relative.
func (m *Manifest) OutputDir() string {
	if m.Path == "" || filepath.IsAbs(m.Output.Dir) {
		return m.Output.Dir
	}

	return filepath.Join(filepath.Dir(m.Path), m.Output.Dir)
}

// TargetNames returns the qualified target names in manifest order.
func (m *Manifest) TargetNames() []string {
	names := make([]string, 0, len(m.Targets))
	for _, t := range m.Targets {
		names = append(names, t.Name)
	}

	return names
}
