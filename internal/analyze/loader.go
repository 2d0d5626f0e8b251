package analyze

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"sync"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// Analyzer loads Go packages on demand and caches them by import path.
// One Analyzer serves one manifest run.
type Analyzer struct {
	dir      string
	mu       sync.Mutex
	packages map[string]*PackageInfo
}

// PackageInfo holds a loaded package. Errors are kept rather than returned
// so that a broken package only fails the targets that live in it.
type PackageInfo struct {
	Path   string
	Name   string
	Types  *types.Package
	Syntax []*ast.File
	Errors []error
}

// Broken reports whether the package has no usable type information.
func (p *PackageInfo) Broken() bool {
	return p.Types == nil || (len(p.Errors) > 0 && p.Types.Scope().Len() == 0)
}

// Err returns the package errors joined, or nil.
func (p *PackageInfo) Err() error {
	return errors.Join(p.Errors...)
}

// NewAnalyzer creates a new Analyzer. dir is the working directory used to
// resolve import paths; empty means the current directory.
func NewAnalyzer(dir string) *Analyzer {
	return &Analyzer{
		dir:      dir,
		packages: make(map[string]*PackageInfo),
	}
}

// LoadPackages loads the given import paths that are not cached yet.
// Paths are import paths (e.g., "configen/examples/service"). Load failures
// are kept on the returned PackageInfo rather than returned.
func (a *Analyzer) LoadPackages(paths ...string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var missing []string

	for _, p := range paths {
		if _, ok := a.packages[p]; !ok {
			missing = append(missing, p)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, missing...)
	if err != nil {
		// Recorded per path so each target reports it as not found.
		for _, p := range missing {
			a.packages[p] = &PackageInfo{
				Path:   p,
				Errors: []error{fmt.Errorf("failed to load packages: %w", err)},
			}
		}

		return nil
	}

	for _, pkg := range pkgs {
		info := &PackageInfo{
			Path:   pkg.PkgPath,
			Name:   pkg.Name,
			Types:  pkg.Types,
			Syntax: pkg.Syntax,
		}

		for _, e := range pkg.Errors {
			info.Errors = append(info.Errors, e)
		}

		a.packages[pkg.PkgPath] = info
	}

	// A path go list could not resolve may come back under a different key.
	for _, p := range missing {
		if _, ok := a.packages[p]; !ok {
			a.packages[p] = &PackageInfo{
				Path:   p,
				Errors: []error{fmt.Errorf("package %s not found", p)},
			}
		}
	}

	return nil
}

// Package returns the loaded package, loading it first if necessary.
func (a *Analyzer) Package(path string) (*PackageInfo, error) {
	if err := a.LoadPackages(path); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.packages[path], nil
}

// funcDecl finds the syntax of a package-level function.
func (p *PackageInfo) funcDecl(name string) *ast.FuncDecl {
	for _, file := range p.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if ok && fd.Recv == nil && fd.Name.Name == name {
				return fd
			}
		}
	}

	return nil
}
