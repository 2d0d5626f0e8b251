package analyze

import (
	"strings"
)

// NotFoundError reports a qualified name that does not resolve to a
// callable: the package failed to load, the name is not declared, or a type
// has no constructor.
type NotFoundError struct {
	Name        string
	Reason      string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	var sb strings.Builder

	sb.WriteString("callable " + e.Name + " not found")

	if e.Reason != "" {
		sb.WriteString(": " + e.Reason)
	}

	if len(e.Suggestions) > 0 {
		sb.WriteString(" (did you mean " + strings.Join(e.Suggestions, ", ") + "?)")
	}

	return sb.String()
}

// IntrospectionError reports an object that exists but cannot be introspected
// as a callable.
type IntrospectionError struct {
	Name   string
	Reason string
}

func (e *IntrospectionError) Error() string {
	return "cannot introspect " + e.Name + ": " + e.Reason
}
