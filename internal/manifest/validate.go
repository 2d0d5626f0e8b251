package manifest

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/go-playground/validator/v10"

	"configen/internal/common"
)

// NewValidator returns a validator with the manifest's custom tags
// registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterCustomValidators(v); err != nil {
		return nil, err
	}

	return v, nil
}

// RegisterCustomValidators registers the goident and qualified tags.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("goident", validateGoIdent); err != nil {
		return err
	}

	return v.RegisterValidation("qualified", validateQualified)
}

// validateGoIdent accepts a Go identifier that is not a keyword.
func validateGoIdent(fl validator.FieldLevel) bool {
	s := fl.Field().String()

	return token.IsIdentifier(s)
}

// validateQualified accepts import/path.Name.
func validateQualified(fl validator.FieldLevel) bool {
	_, name, ok := common.SplitQualified(fl.Field().String())

	return ok && token.IsIdentifier(name)
}

// Validate checks the manifest structure. All problems are reported
// together.
func Validate(m *Manifest) error {
	if m == nil {
		return errors.New("manifest is nil")
	}

	v, err := NewValidator()
	if err != nil {
		return fmt.Errorf("failed to set up validator: %w", err)
	}

	var errs []error

	if err := v.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}

		for _, fe := range verrs {
			errs = append(errs, describe(fe))
		}
	}

	seen := make(map[string]int, len(m.Targets))

	for i, t := range m.Targets {
		key := t.Name + "#" + t.Constructor
		if first, ok := seen[key]; ok {
			errs = append(errs, fmt.Errorf("targets[%d]: duplicate target %q (first at targets[%d])", i, t.Name, first))
			continue
		}

		seen[key] = i
	}

	structures := make(map[string]struct{}, len(m.Structures))

	for i, s := range m.Structures {
		if _, ok := structures[s.Name]; ok {
			errs = append(errs, fmt.Errorf("structures[%d]: duplicate structure %q", i, s.Name))
			continue
		}

		structures[s.Name] = struct{}{}
	}

	return errors.Join(errs...)
}

func describe(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Manifest.")

	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "goident":
		return fmt.Errorf("%s: %q is not a Go identifier", field, fe.Value())
	case "qualified":
		return fmt.Errorf("%s: %q is not a qualified name (want import/path.Name)", field, fe.Value())
	case "oneof":
		return fmt.Errorf("%s: %q must be one of [%s]", field, fe.Value(), fe.Param())
	case "min":
		return fmt.Errorf("%s must have at least %s entries", field, fe.Param())
	case "eq":
		return fmt.Errorf("%s: unsupported value %q (want %s)", field, fe.Value(), fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", field, fe.Tag())
	}
}
