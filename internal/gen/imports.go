package gen

import (
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"configen/internal/resolve"
	"configen/internal/schema"
)

// ImportRef locates the generated struct of a schema.
type ImportRef struct {
	// Path is the import path of the package declaring the struct; empty
	// means the output package itself.
	Path string
	// Alias is the import name used in generated code.
	Alias string
	// TypeName is the struct name, e.g. "InnerConf".
	TypeName string
}

// ImportMap maps each referenced schema to its generated struct.
type ImportMap map[resolve.SchemaID]ImportRef

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// BuildImportMap records where every referenced schema lives: schemas built
// in this run live in the output package, external ones come from
// structures. Rendering a reference to any other schema fails.
func BuildImportMap(local []*schema.ConfigSchema, structures map[resolve.SchemaID]ImportRef) ImportMap {
	m := make(ImportMap, len(local)+len(structures))

	paths := make([]string, 0, len(structures))
	for _, ref := range structures {
		if ref.Path != "" && !slices.Contains(paths, ref.Path) {
			paths = append(paths, ref.Path)
		}
	}

	slices.Sort(paths)

	aliases := make(map[string]string, len(paths))
	used := make(map[string]bool, len(paths))

	for _, p := range paths {
		alias := importAlias(p)
		for n := 2; used[alias]; n++ {
			alias = importAlias(p) + strconv.Itoa(n)
		}

		used[alias] = true
		aliases[p] = alias
	}

	for id, ref := range structures {
		if ref.Path != "" && ref.Alias == "" {
			ref.Alias = aliases[ref.Path]
		}

		if ref.TypeName == "" {
			ref.TypeName = schema.StructName(id)
		}

		m[id] = ref
	}

	for _, s := range local {
		m[s.ID] = ImportRef{TypeName: s.Name}
	}

	return m
}

var versionSuffix = regexp.MustCompile(`^v[0-9]+$`)

// importAlias derives a valid identifier from an import path:
// "example.com/other/conf" -> "conf", "gopkg.in/yaml.v3" -> "yaml".
func importAlias(importPath string) string {
	base := path.Base(importPath)
	if versionSuffix.MatchString(base) {
		base = path.Base(path.Dir(importPath))
	}

	base, _, _ = strings.Cut(base, ".")

	var sb strings.Builder

	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		}
	}

	alias := sb.String()
	if alias == "" || unicode.IsDigit(rune(alias[0])) {
		alias = "pkg" + alias
	}

	return alias
}

// qualifier returns "alias." for refs outside the output package.
func (r ImportRef) qualifier() string {
	if r.Path == "" {
		return ""
	}

	return r.Alias + "."
}

// spec returns the import statement for r; the alias is omitted when it
// matches the package's last path element.
func (r ImportRef) spec() importSpec {
	if r.Alias == path.Base(r.Path) {
		return importSpec{Path: r.Path}
	}

	return importSpec{Alias: r.Alias, Path: r.Path}
}
