package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile loads, normalizes and validates a manifest. Files ending in .hcl
// are parsed as HCL, everything else as YAML.
func LoadFile(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", filename, err)
	}

	var m *Manifest
	if IsHCL(filename) {
		m, err = parseHCL(data, filename)
	} else {
		m, err = parseYAML(data, filename)
	}

	if err != nil {
		return nil, err
	}

	m.Path = filename
	applyDefaults(m)

	if err := Validate(m); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", filename, err)
	}

	return m, nil
}

// Parse parses YAML data into a manifest and applies defaults. It does not
// validate.
func Parse(data []byte) (*Manifest, error) {
	m, err := parseYAML(data, "manifest")
	if err != nil {
		return nil, err
	}

	applyDefaults(m)

	return m, nil
}

// ParseHCL parses HCL data into a manifest and applies defaults. It does
// not validate.
func ParseHCL(data []byte, filename string) (*Manifest, error) {
	m, err := parseHCL(data, filename)
	if err != nil {
		return nil, err
	}

	applyDefaults(m)

	return m, nil
}

// IsHCL reports whether filename names an HCL manifest.
func IsHCL(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".hcl")
}

// Marshal serializes a manifest to YAML.
func Marshal(m *Manifest) ([]byte, error) {
	return yaml.Marshal(m)
}

func parseYAML(data []byte, filename string) (*Manifest, error) {
	var m Manifest

	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML %s: %w", filename, err)
	}

	return &m, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(m *Manifest) {
	if m.Version == "" {
		m.Version = "1"
	}

	if m.Output.Dir == "" {
		m.Output.Dir = "./conf"
	}

	if m.Output.Package == "" {
		m.Output.Package = packageFromDir(m.Output.Dir)
	}
}

func packageFromDir(dir string) string {
	base := path.Base(filepath.ToSlash(filepath.Clean(dir)))

	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, base)

	if name == "" || name[0] >= '0' && name[0] <= '9' {
		return "conf"
	}

	return name
}
