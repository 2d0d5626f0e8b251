package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML accepts either a bare qualified name or a mapping.
func (t *Target) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		*t = Target{Name: name}

		return nil

	case yaml.MappingNode:
		// Alias type avoids recursing into this method.
		type plain Target

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*t = Target(p)

		return nil

	default:
		return fmt.Errorf("line %d: target must be a name or a mapping", node.Line)
	}
}

// MarshalYAML writes targets without options in shorthand form.
func (t Target) MarshalYAML() (any, error) {
	if t.Constructor == "" && len(t.Defaults) == 0 {
		return t.Name, nil
	}

	type plain Target

	return plain(t), nil
}
