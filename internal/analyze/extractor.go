package analyze

import (
	"fmt"
	"go/types"
	"maps"
	"slices"
	"strings"

	"configen/internal/common"
	"configen/internal/match"
)

const maxSuggestions = 3

// Extractor turns qualified names into Callables.
type Extractor struct {
	analyzer *Analyzer
}

// NewExtractor creates an Extractor backed by the given Analyzer.
func NewExtractor(analyzer *Analyzer) *Extractor {
	return &Extractor{analyzer: analyzer}
}

// Extract introspects the callable named by qualified, e.g.
// "configen/examples/service.NewServer" or "configen/examples/service.Server".
// Struct types are introspected through their New<Type> constructor.
func (e *Extractor) Extract(qualified string) (*Callable, error) {
	return e.ExtractConstructor(qualified, "")
}

// ExtractConstructor is Extract with an explicit constructor name for struct
// targets. An empty constructor means New<Type>.
func (e *Extractor) ExtractConstructor(qualified, constructor string) (*Callable, error) {
	pkgPath, name, ok := common.SplitQualified(qualified)
	if !ok {
		return nil, &NotFoundError{Name: qualified, Reason: "malformed qualified name"}
	}

	pkg, err := e.analyzer.Package(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", qualified, err)
	}

	if pkg.Broken() {
		if ierr := e.methodExpression(qualified, pkgPath, name); ierr != nil {
			return nil, ierr
		}

		return nil, &NotFoundError{
			Name:   qualified,
			Reason: fmt.Sprintf("package %s failed to load: %v", pkgPath, pkg.Err()),
		}
	}

	obj := pkg.Types.Scope().Lookup(name)
	if obj == nil {
		return nil, &NotFoundError{
			Name:        qualified,
			Reason:      "no such declaration in " + pkgPath,
			Suggestions: suggest(pkg.Types.Scope(), name, nil),
		}
	}

	switch o := obj.(type) {
	case *types.Func:
		return e.fromFunc(pkg, o, qualified)
	case *types.TypeName:
		return e.fromType(pkg, o, qualified, constructor)
	case *types.Const:
		return nil, &IntrospectionError{Name: qualified, Reason: "is a constant, not a callable"}
	case *types.Var:
		return nil, &IntrospectionError{Name: qualified, Reason: "is a variable, not a callable"}
	default:
		return nil, &IntrospectionError{Name: qualified, Reason: fmt.Sprintf("unsupported object %T", obj)}
	}
}

// methodExpression detects "pkg.Type.Method" names: the first split yields a
// package path that does not load, but its own last element is a type.
func (e *Extractor) methodExpression(qualified, pkgPath, method string) error {
	typePkg, typeName, ok := common.SplitQualified(pkgPath)
	if !ok {
		return nil
	}

	pkg, err := e.analyzer.Package(typePkg)
	if err != nil || pkg.Broken() {
		return nil
	}

	tn, ok := pkg.Types.Scope().Lookup(typeName).(*types.TypeName)
	if !ok {
		return nil
	}

	if m, _, _ := types.LookupFieldOrMethod(types.NewPointer(tn.Type()), true, tn.Pkg(), method); m == nil {
		return nil
	}

	return &IntrospectionError{Name: qualified, Reason: "method expressions are not supported"}
}

func (e *Extractor) fromFunc(pkg *PackageInfo, fn *types.Func, qualified string) (*Callable, error) {
	if fd := pkg.funcDecl(fn.Name()); fd != nil && fd.Body == nil {
		return nil, &IntrospectionError{Name: qualified, Reason: "function has no Go body"}
	}

	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return nil, &IntrospectionError{Name: qualified, Reason: "not a function signature"}
	}

	c := &Callable{
		ID:     TypeID{PkgPath: pkg.Path, Name: fn.Name()},
		Schema: qualified,
		Kind:   CallableFunc,
		Func:   fn,
	}

	if st := constructedStruct(fn, sig); st != nil {
		c.Schema = common.Qualify(pkg.Path, st.Obj().Name())
		c.Kind = CallableConstructor
	}

	c.Params, c.DroppedContext = parameters(sig)

	return c, nil
}

func (e *Extractor) fromType(pkg *PackageInfo, tn *types.TypeName, qualified, constructor string) (*Callable, error) {
	if _, ok := tn.Type().Underlying().(*types.Struct); !ok || tn.IsAlias() {
		return nil, &IntrospectionError{
			Name:   qualified,
			Reason: fmt.Sprintf("type %s is not a struct", tn.Name()),
		}
	}

	if constructor == "" {
		constructor = "New" + tn.Name()
	}

	fn, ok := pkg.Types.Scope().Lookup(constructor).(*types.Func)
	if !ok {
		isFunc := func(o types.Object) bool {
			_, f := o.(*types.Func)
			return f
		}

		return nil, &NotFoundError{
			Name:        qualified,
			Reason:      "no constructor " + constructor,
			Suggestions: suggest(pkg.Types.Scope(), constructor, isFunc),
		}
	}

	c, err := e.fromFunc(pkg, fn, common.Qualify(pkg.Path, fn.Name()))
	if err != nil {
		return nil, err
	}

	c.Schema = qualified
	c.Kind = CallableConstructor

	return c, nil
}

// constructedStruct returns the struct T when fn is named New<T> and returns
// T or *T as its first result.
func constructedStruct(fn *types.Func, sig *types.Signature) *types.Named {
	if sig.Results().Len() == 0 || !strings.HasPrefix(fn.Name(), "New") {
		return nil
	}

	t := sig.Results().At(0).Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() != fn.Pkg() {
		return nil
	}

	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}

	if fn.Name() != "New"+named.Obj().Name() {
		return nil
	}

	return named
}

// parameters lists sig's parameters. A leading context.Context is dropped.
func parameters(sig *types.Signature) ([]Parameter, bool) {
	params := sig.Params()
	out := make([]Parameter, 0, params.Len())
	dropped := false

	for i := range params.Len() {
		v := params.At(i)

		if i == 0 && isContext(v.Type()) {
			dropped = true

			continue
		}

		name := v.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("arg%d", i)
		}

		out = append(out, Parameter{
			Name:     name,
			Type:     v.Type(),
			Variadic: sig.Variadic() && i == params.Len()-1,
		})
	}

	return out, dropped
}

func isContext(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return false
	}

	return named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"
}

// suggest ranks exported names in scope accepted by keep against name.
func suggest(scope *types.Scope, name string, keep func(types.Object) bool) []string {
	var names []string

	for _, n := range scope.Names() {
		obj := scope.Lookup(n)
		if !obj.Exported() || (keep != nil && !keep(obj)) {
			continue
		}

		names = append(names, n)
	}

	return match.Suggest(name, names, maxSuggestions, match.DefaultThreshold)
}

// ApplyDefaults attaches defaults to params by parameter name. It returns a
// new slice and the sorted default keys that matched no parameter.
func ApplyDefaults(params []Parameter, defaults map[string]any) ([]Parameter, []string) {
	out := slices.Clone(params)
	used := make(map[string]bool, len(defaults))

	for i := range out {
		if v, ok := defaults[out[i].Name]; ok {
			out[i].Default = Default{Value: v, Set: true}
			used[out[i].Name] = true
		}
	}

	var unknown []string

	for _, k := range slices.Sorted(maps.Keys(defaults)) {
		if !used[k] {
			unknown = append(unknown, k)
		}
	}

	return out, unknown
}
