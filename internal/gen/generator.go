package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"configen/internal/common"
	"configen/internal/resolve"
	"configen/internal/schema"
)

// Banner is the first line of every generated file.
const Banner = "// Code generated by configen. DO NOT EDIT."

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is where the unformatted sidecar goes when formatting fails.
	// Empty disables the sidecar.
	OutputDir string
	// Header is emitted as comment lines after the banner.
	Header string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: "conf",
		OutputDir:   "./conf",
	}
}

// Generator renders ConfigSchemas into Go source.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "service_inner.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
	// Schema is the schema the file was rendered from.
	Schema resolve.SchemaID
}

// FileName returns the output file name of a schema:
// "configen/examples/service.Inner" -> "service_inner.go". A schema whose
// struct was renamed to avoid a collision is named after its struct, so
// "SvcInnerConf2" of ".../svc.Inner" -> "svc_svc_inner2.go".
func FileName(s *schema.ConfigSchema) string {
	name := s.ID.Name()
	if s.Name != "" && s.Name != schema.StructName(s.ID) {
		name = s.Name
		if i := strings.LastIndex(name, "Conf"); i > 0 {
			name = name[:i] + name[i+len("Conf"):]
		}
	}

	return common.SnakeCase(common.PkgAlias(s.ID.PkgPath())) + "_" + common.SnakeCase(name) + ".go"
}

// UniqueFileName returns filename, or filename with a "_N" suffix when used
// already holds it, and marks the result as used.
func UniqueFileName(filename string, used map[string]bool) string {
	name := filename
	base := strings.TrimSuffix(filename, ".go")

	for n := 2; used[name]; n++ {
		name = base + "_" + strconv.Itoa(n) + ".go"
	}

	used[name] = true

	return name
}

// Generate renders schemas in the given order. It stops at the first
// schema that fails to render.
func (g *Generator) Generate(schemas []*schema.ConfigSchema, imports ImportMap) ([]GeneratedFile, error) {
	files := make([]GeneratedFile, 0, len(schemas))
	used := make(map[string]bool, len(schemas))

	for _, s := range schemas {
		file, err := g.Render(s, imports)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", s.ID, err)
		}

		file.Filename = UniqueFileName(file.Filename, used)
		files = append(files, file)
	}

	return files, nil
}

// Render renders one schema. It is a pure function of the schema, the
// import map and the generator configuration. If gofmt fails, the raw
// source is returned together with the error.
func (g *Generator) Render(s *schema.ConfigSchema, imports ImportMap) (GeneratedFile, error) {
	file := GeneratedFile{Filename: FileName(s), Schema: s.ID}

	data, err := g.buildTemplateData(s, imports)
	if err != nil {
		return file, err
	}

	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return file, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort sidecar to aid debugging.
		_ = writeDebugUnformatted(g.config.OutputDir, file.Filename, buf.Bytes())

		file.Content = buf.Bytes()

		return file, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	file.Content = formatted

	return file, nil
}

// templateData holds all data needed for the config template.
type templateData struct {
	Banner      string
	Source      string
	Header      []string
	PackageName string
	Imports     []importSpec
	Enums       []enumDecl
	StructName  string
	Fields      []fieldData
	Unresolved  []schema.UnresolvedField
	Defaults    []defaultData
}

type fieldData struct {
	Name string
	Type string
	Tag  string
}

type defaultData struct {
	Name string
	Expr string
}

type enumConst struct {
	Name   string
	Member string
}

// enumDecl is a generated string type standing in for a source enumeration.
type enumDecl struct {
	TypeName string
	Source   string
	Consts   []enumConst
}

func (e enumDecl) constFor(member string) (string, bool) {
	for _, c := range e.Consts {
		if c.Member == member {
			return c.Name, true
		}
	}

	return "", false
}

func (g *Generator) buildTemplateData(s *schema.ConfigSchema, imports ImportMap) (*templateData, error) {
	ctx := &exprContext{
		imports:   imports,
		enumTypes: enumDecls(s),
		used:      make(map[string]importSpec),
	}

	data := &templateData{
		Banner:      Banner,
		Source:      s.Source,
		Header:      headerLines(g.config.Header),
		PackageName: g.config.PackageName,
		StructName:  s.Name,
	}

	for _, u := range s.Unresolved {
		u.Reason = commentText(u.Reason)
		data.Unresolved = append(data.Unresolved, u)
	}

	for _, e := range s.Enums() {
		data.Enums = append(data.Enums, ctx.enumTypes[e.Name])
	}

	var errs []error

	for _, f := range slices.Concat(s.Meta, s.Fields) {
		typ, err := ctx.typeExpr(f.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", f.Key, err))

			continue
		}

		data.Fields = append(data.Fields, fieldData{Name: f.Name, Type: typ, Tag: structTag(f)})

		if !f.Default.Set {
			continue
		}

		expr, err := ctx.valueExpr(f.Type, f.Default.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("default of %s: %w", f.Key, err))

			continue
		}

		data.Defaults = append(data.Defaults, defaultData{Name: f.Name, Expr: expr})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, p := range slices.Sorted(maps.Keys(ctx.used)) {
		data.Imports = append(data.Imports, ctx.used[p])
	}

	return data, nil
}

// enumDecls names a generated type per enumeration used by s:
// "<Struct><Enum>", with the package alias added when two enums share a name.
func enumDecls(s *schema.ConfigSchema) map[string]enumDecl {
	enums := s.Enums()

	count := make(map[string]int, len(enums))
	for _, e := range enums {
		count[e.EnumName()]++
	}

	out := make(map[string]enumDecl, len(enums))

	for _, e := range enums {
		typeName := s.Name + e.EnumName()
		if count[e.EnumName()] > 1 {
			pkg, _, _ := common.SplitQualified(e.Name)
			typeName = s.Name + common.ExportedName(common.PkgAlias(pkg)) + e.EnumName()
		}

		out[e.Name] = enumDecl{
			TypeName: typeName,
			Source:   e.Name,
			Consts:   enumConsts(typeName, e.EnumName(), e.Members),
		}
	}

	return out
}

// enumConsts names members "<Type><Member>", dropping a member prefix equal
// to the enum name ("LevelDebug" of Level -> "<Type>Debug") unless that
// makes two names equal.
func enumConsts(typeName, enumName string, members []string) []enumConst {
	trimmed := make([]string, len(members))
	seen := make(map[string]bool, len(members))
	clash := false

	for i, m := range members {
		t := strings.TrimPrefix(m, enumName)
		if t == "" || !token.IsExported(t) {
			t = m
		}

		clash = clash || seen[t]
		seen[t] = true
		trimmed[i] = t
	}

	consts := make([]enumConst, len(members))

	for i, m := range members {
		suffix := trimmed[i]
		if clash {
			suffix = m
		}

		consts[i] = enumConst{Name: typeName + common.ExportedName(suffix), Member: m}
	}

	return consts
}

// structTag returns the tag of a field: key tags for every supported loader,
// omitempty for optional fields and validate:"required" for required ones.
func structTag(f schema.Field) string {
	key := f.Key
	opt := key
	if f.Type.IsOptional() {
		opt += ",omitempty"
	}

	tag := fmt.Sprintf(`koanf:%q yaml:%q json:%q`, key, opt, opt)
	if f.Required {
		tag += ` validate:"required"`
	}

	return "`" + tag + "`"
}

// commentText escapes line breaks so text fits on one comment line.
func commentText(s string) string {
	return strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`).Replace(s)
}

func headerLines(header string) []string {
	header = strings.TrimRight(header, "\n")
	if header == "" {
		return nil
	}

	lines := strings.Split(header, "\n")
	for i, l := range lines {
		if l = strings.TrimRight(l, " \t"); l == "" {
			lines[i] = "//"
		} else {
			lines[i] = "// " + l
		}
	}

	return lines
}

var configTemplate = template.Must(template.New("config").Parse(`{{.Banner}}
// Source: {{.Source}}
{{if .Header}}
{{range .Header}}{{.}}
{{end}}{{end}}
package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range $e := .Enums}}
// {{$e.TypeName}} holds a member name of {{$e.Source}}.
type {{$e.TypeName}} string

const (
{{range $e.Consts}}	{{.Name}} {{$e.TypeName}} = "{{.Member}}"
{{end}})
{{end}}
// {{.StructName}} configures {{.Source}}.
type {{.StructName}} struct {
{{range .Fields}}	{{.Name}} {{.Type}} {{.Tag}}
{{end}}{{range .Unresolved}}	// {{.Name}}: skipped: {{.Reason}}
{{end}}}

// Default{{.StructName}} returns a {{.StructName}} holding the defaults of {{.Source}}.
func Default{{.StructName}}() {{.StructName}} {
	return {{.StructName}}{
{{range .Defaults}}		{{.Name}}: {{.Expr}},
{{end}}	}
}
`))
