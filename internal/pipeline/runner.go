package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"configen/internal/analyze"
	"configen/internal/diagnostic"
	"configen/internal/gen"
	"configen/internal/logger"
	"configen/internal/manifest"
	"configen/internal/resolve"
	"configen/internal/schema"
)

// Options control a run.
type Options struct {
	// Strict fails the run on any warning.
	Strict bool
	// Check compares generated files with the output directory instead of
	// writing them.
	Check bool
	// Dump logs every built schema at debug level.
	Dump bool
	// OutputDir overrides the manifest's output directory.
	OutputDir string
}

// Result is the outcome of running one manifest.
type Result struct {
	Manifest    string
	OutputDir   string
	Schemas     []*schema.ConfigSchema
	Linkage     *schema.Linkage
	Files       []gen.GeneratedFile
	Drift       []gen.Drift
	Diagnostics diagnostic.Diagnostics
}

// Failed reports whether the run should exit non-zero.
func (r *Result) Failed(strict bool) bool {
	return r.Diagnostics.HasErrors() || len(r.Drift) > 0 || (strict && r.Diagnostics.HasWarnings())
}

// Runner runs one manifest.
type Runner struct {
	manifest  *manifest.Manifest
	opts      Options
	analyzer  *analyze.Analyzer
	extractor *analyze.Extractor
	resolver  *resolve.Resolver
	builder   *schema.Builder
	generator *gen.Generator
}

// NewRunner prepares a Runner for m. Packages are resolved relative to the
// manifest's directory.
func NewRunner(m *manifest.Manifest, opts Options) (*Runner, error) {
	classifier, err := analyze.NewTypesClassifier(m.KnownTypes)
	if err != nil {
		return nil, fmt.Errorf("known_types: %w", err)
	}

	dir := ""
	if m.Path != "" {
		dir = filepath.Dir(m.Path)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = m.OutputDir()
	}

	opts.OutputDir = outputDir

	analyzer := analyze.NewAnalyzer(dir)

	return &Runner{
		manifest:  m,
		opts:      opts,
		analyzer:  analyzer,
		extractor: analyze.NewExtractor(analyzer),
		resolver:  resolve.NewResolver(classifier, resolve.NewContext()),
		builder: schema.NewBuilder(schema.Flags{
			Convert:   m.DefaultFlags.Convert,
			Recursive: m.DefaultFlags.Recursive,
		}),
		generator: gen.NewGenerator(gen.GeneratorConfig{
			PackageName: m.Output.Package,
			OutputDir:   outputDir,
			Header:      m.Header,
		}),
	}, nil
}

// extracted pairs a manifest target with its callable.
type extracted struct {
	target   manifest.Target
	callable *analyze.Callable
}

// Run processes the manifest. Problems with individual targets end up in
// the result's diagnostics; the error is reserved for cancellation and
// I/O failures.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := logger.FromContext(ctx).With("manifest", r.manifest.Path)

	res := &Result{Manifest: r.manifest.Path, OutputDir: r.opts.OutputDir}

	callables, err := r.extractAll(ctx, log, &res.Diagnostics)
	if err != nil {
		return res, err
	}

	rc := r.resolver.Context()
	for _, s := range r.manifest.Structures {
		rc.Register(s.Name)
	}

	for _, c := range callables {
		rc.Register(c.callable.Schema)
	}

	for _, c := range callables {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		s, diags := r.build(c)
		res.Diagnostics.Merge(diags)
		res.Schemas = append(res.Schemas, s)

		if r.opts.Dump {
			log.Debug("built schema", "schema", s.ID, "dump", spew.Sdump(s))
		}
	}

	schema.UniqueNames(res.Schemas)

	linkage, err := schema.LinkAll(res.Schemas)
	res.Linkage = linkage

	if err != nil {
		reportCycles(err, &res.Diagnostics)
		degradeBlocked(res.Schemas, linkage, &res.Diagnostics)
	}

	emit := make([]*schema.ConfigSchema, 0, len(linkage.Order))
	for _, id := range linkage.Order {
		if i := slices.IndexFunc(res.Schemas, func(s *schema.ConfigSchema) bool { return s.ID == id }); i >= 0 {
			emit = append(emit, res.Schemas[i])
		}
	}

	imports := gen.BuildImportMap(emit, r.structureRefs())

	res.Files = r.render(emit, imports, &res.Diagnostics)

	if err := r.output(log, res); err != nil {
		return res, err
	}

	logDiagnostics(log, res.Diagnostics)

	return res, nil
}

// extractAll introspects every target in manifest order. A target whose
// schema was already produced by an earlier target is reported and
// skipped.
func (r *Runner) extractAll(ctx context.Context, log logger.Logger, diags *diagnostic.Diagnostics) ([]extracted, error) {
	var out []extracted

	seen := make(map[string]string, len(r.manifest.Targets))

	for _, t := range r.manifest.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debug("extracting target", "target", t.Name)

		c, err := r.extractor.ExtractConstructor(t.Name, t.Constructor)
		if err != nil {
			reportExtractError(t.Name, err, diags)
			continue
		}

		if prev, dup := seen[c.Schema]; dup {
			diags.AddError(diagnostic.CodeIntrospection,
				fmt.Sprintf("schema %s is already generated from target %s", c.Schema, prev), c.Schema, "")

			continue
		}

		seen[c.Schema] = t.Name

		if c.DroppedContext {
			diags.AddInfo(diagnostic.CodeContextParam,
				"leading context.Context parameter is supplied at call time and is not configurable", c.Schema, "")
		}

		out = append(out, extracted{target: t, callable: c})
	}

	return out, nil
}

func reportExtractError(name string, err error, diags *diagnostic.Diagnostics) {
	var notFound *analyze.NotFoundError
	if errors.As(err, &notFound) {
		diags.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.SeverityError,
			Code:        diagnostic.CodeNotFound,
			Schema:      name,
			Message:     notFound.Error(),
			Suggestions: notFound.Suggestions,
		})

		return
	}

	diags.AddError(diagnostic.CodeIntrospection, err.Error(), name, "")
}

// build resolves the callable's parameters and builds its schema.
func (r *Runner) build(c extracted) (*schema.ConfigSchema, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	params, unknown := analyze.ApplyDefaults(c.callable.Params, c.target.Defaults)
	for _, k := range unknown {
		diags.AddWarning(diagnostic.CodeUnknownDefault,
			fmt.Sprintf("default %q matches no parameter of %s", k, c.callable.ID), c.callable.Schema, k)
	}

	in := schema.Input{
		ID:     resolve.SchemaID(c.callable.Schema),
		Source: c.callable.ID.String(),
		Params: make([]schema.Param, 0, len(params)),
	}

	for _, p := range params {
		in.Params = append(in.Params, schema.Param{
			Name:       p.Name,
			Type:       r.resolver.ResolveParameter(p.Type, p.Variadic),
			Default:    p.Default.Value,
			HasDefault: p.Default.Set,
		})
	}

	s, built := r.builder.Build(in)
	diags.Merge(built)

	return s, diags
}

func reportCycles(err error, diags *diagnostic.Diagnostics) {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}

	for _, e := range errs {
		var cycle *schema.CycleError
		if !errors.As(e, &cycle) {
			diags.AddError(diagnostic.CodeCycle, e.Error(), "", "")
			continue
		}

		for _, m := range cycle.Members {
			diags.AddError(diagnostic.CodeCycle, cycle.Error(), m.String(), "")
		}
	}
}

// degradeBlocked turns fields that reference cyclic schemas into
// unresolved fields so the referencing schema still compiles.
func degradeBlocked(schemas []*schema.ConfigSchema, linkage *schema.Linkage, diags *diagnostic.Diagnostics) {
	for _, s := range schemas {
		if _, ok := linkage.Blocked[s.ID]; !ok {
			continue
		}

		degradeRefs(s, func(ref resolve.SchemaID) (string, bool) {
			if !linkage.Cyclic(ref) {
				return "", false
			}

			return fmt.Sprintf("references schema %s which is part of a reference cycle", ref), true
		}, diagnostic.CodeCycleDependency, diags)
	}
}

// degradeRefs moves every field of s with a reference that bad rejects to
// the unresolved list and reports it under code.
func degradeRefs(s *schema.ConfigSchema, bad func(resolve.SchemaID) (string, bool), code string, diags *diagnostic.Diagnostics) {
	var keys, reasons []string

	for _, f := range s.Fields {
		for _, ref := range f.Type.Refs() {
			if reason, ok := bad(ref); ok {
				keys = append(keys, f.Key)
				reasons = append(reasons, reason)

				break
			}
		}
	}

	for i, key := range keys {
		s.Degrade(key, reasons[i])
		diags.AddWarning(code, reasons[i], s.ID.String(), key)
	}
}

// render renders schemas in emission order. A schema that fails to render
// gets a render error and no file; fields of later schemas that reference
// it are degraded so their files still compile.
func (r *Runner) render(emit []*schema.ConfigSchema, imports gen.ImportMap, diags *diagnostic.Diagnostics) []gen.GeneratedFile {
	files := make([]gen.GeneratedFile, 0, len(emit))
	used := make(map[string]bool, len(emit))
	failed := make(map[resolve.SchemaID]bool)

	for _, s := range emit {
		if len(failed) > 0 {
			degradeRefs(s, func(ref resolve.SchemaID) (string, bool) {
				if !failed[ref] {
					return "", false
				}

				return fmt.Sprintf("references schema %s which could not be rendered", ref), true
			}, diagnostic.CodeRender, diags)
		}

		file, err := r.generator.Render(s, imports)
		if err != nil {
			failed[s.ID] = true
			diags.AddError(diagnostic.CodeRender, strings.ReplaceAll(err.Error(), "\n", "; "), s.ID.String(), "")

			continue
		}

		file.Filename = gen.UniqueFileName(file.Filename, used)
		files = append(files, file)
	}

	return files
}

// structureRefs maps the manifest's external structures to import refs.
func (r *Runner) structureRefs() map[resolve.SchemaID]gen.ImportRef {
	refs := make(map[resolve.SchemaID]gen.ImportRef, len(r.manifest.Structures))
	for _, s := range r.manifest.Structures {
		refs[resolve.SchemaID(s.Name)] = gen.ImportRef{Path: s.Package, TypeName: s.Type}
	}

	return refs
}

func (r *Runner) output(log logger.Logger, res *Result) error {
	if r.opts.Check {
		drift, err := gen.CheckFiles(res.Files, res.OutputDir)
		if err != nil {
			return err
		}

		res.Drift = drift
		for _, d := range drift {
			log.Warn("generated file is out of date", "file", filepath.Join(res.OutputDir, d.Filename))
		}

		return nil
	}

	if len(res.Files) == 0 {
		return nil
	}

	if err := gen.WriteFiles(res.Files, res.OutputDir); err != nil {
		return err
	}

	for _, f := range res.Files {
		log.Info("wrote file", "file", filepath.Join(res.OutputDir, f.Filename), "schema", f.Schema)
	}

	return nil
}

func logDiagnostics(log logger.Logger, diags diagnostic.Diagnostics) {
	for _, d := range diags.Errors {
		log.Error(d.Message, "code", d.Code, "schema", d.Schema, "field", d.Field)
	}

	for _, d := range diags.Warnings {
		log.Warn(d.Message, "code", d.Code, "schema", d.Schema, "field", d.Field)
	}

	for _, d := range diags.Infos {
		log.Debug(d.Message, "code", d.Code, "schema", d.Schema, "field", d.Field)
	}
}
