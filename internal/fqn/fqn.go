// Package fqn builds the qualified names the identifier scheme hashes:
// dotted module names derived from file paths, and within-file symbol
// paths nested under them.
package fqn

import (
	"path/filepath"
	"strings"
)

// FileModuleName returns the dotted module name for a file: "pkg/sub/mod.py"
// -> "pkg.sub.mod". Used both as a module node's own qualified_name and as
// the module registry's lookup key, so an import's dotted name and the
// importee's module node agree on one name. Package-marker files
// (__init__.py, index.ts) fold into the containing directory's name.
func FileModuleName(relPath string) string {
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) > 0 && parts[len(parts)-1] == "index" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}

// Nest builds a node's within-file qualified name by appending name to its
// enclosing container's qualified name ("ClassA" + "method_b" ->
// "ClassA.method_b"). An empty parent yields the bare name, for top-level
// symbols.
func Nest(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
