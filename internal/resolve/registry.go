// Package resolve classifies import strings as internal/stdlib/third-party
// and resolves call-site references to the qualified names of project-wide
// definitions: a registry built once per
// re-index from the set of discovered files, plus the two resolution
// contracts (imports, calls) that consume it.
package resolve

import (
	"path/filepath"
	"strings"

	"github.com/vibegraph/vibegraph/internal/fqn"
)

// rootPrefixes are stripped from a file's directory chain before it is
// turned into a dotted module name, mirroring the common source-root
// conventions (bare repository root is always a fallback).
var rootPrefixes = []string{"src/", "lib/"}

// Registry maps dotted internal module names to the project-relative file
// path that defines them, built once per re-index from a directory walk.
type Registry struct {
	byDotted map[string]string // dotted module name -> file path
	dirs     map[string]string // directory -> lexically-smallest file inside it
}

// NewRegistry builds a module registry from every discovered project-relative
// file path.
func NewRegistry(paths []string) *Registry {
	r := &Registry{byDotted: make(map[string]string), dirs: make(map[string]string)}
	for _, p := range paths {
		r.add(p)
	}
	return r
}

func (r *Registry) add(path string) {
	path = filepath.ToSlash(path)
	dir := filepath.ToSlash(filepath.Dir(path))
	if cur, ok := r.dirs[dir]; !ok || path < cur {
		r.dirs[dir] = path
	}

	dotted := fqn.FileModuleName(path)
	r.byDotted[dotted] = path

	for _, prefix := range rootPrefixes {
		if strings.HasPrefix(path, prefix) {
			stripped := fqn.FileModuleName(strings.TrimPrefix(path, prefix))
			if stripped != "" {
				if _, exists := r.byDotted[stripped]; !exists {
					r.byDotted[stripped] = path
				}
			}
		}
	}

	// __init__/index-style package markers elevate the containing directory
	// itself to a dotted module, so "pkg/sub/__init__.py" also registers "pkg.sub".
	base := filepath.Base(path)
	if base == "__init__.py" || base == "index.ts" || base == "index.js" || base == "mod.rs" {
		dir := filepath.ToSlash(filepath.Dir(path))
		if dir != "." {
			dirDotted := strings.ReplaceAll(dir, "/", ".")
			if _, exists := r.byDotted[dirDotted]; !exists {
				r.byDotted[dirDotted] = path
			}
		}
	}
}

// Lookup returns the file path registered for a dotted module name.
func (r *Registry) Lookup(dotted string) (string, bool) {
	p, ok := r.byDotted[dotted]
	return p, ok
}

// DirFile returns a representative file for a directory (the lexically
// smallest one discovered in it), used for Go-style package-path resolution
// where the import path names a directory, not a single file. The choice of
// representative is deterministic so re-indexes produce identical edges.
func (r *Registry) DirFile(dir string) (string, bool) {
	p, ok := r.dirs[filepath.ToSlash(dir)]
	return p, ok
}

// PathFromRelativeImport resolves a "./x" or "../y" style specifier against
// the directory of the importing file.
func PathFromRelativeImport(specifier, fromFile string) string {
	dir := filepath.Dir(fromFile)
	joined := filepath.ToSlash(filepath.Join(dir, specifier))
	return joined
}
