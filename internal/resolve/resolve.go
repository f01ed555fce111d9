package resolve

import "strings"

// Category classifies a resolved import.
type Category string

const (
	Internal   Category = "internal"
	StdLib     Category = "stdlib"
	ThirdParty Category = "thirdparty"
)

// Resolution is the result of resolving one import string.
type Resolution struct {
	Category Category
	Path     string // project-relative file path, set only when Category == Internal
}

// Resolve classifies importString, written in fromFile, against the
// registry: relative imports ("./x", "../y") are resolved against fromFile's
// directory before consulting the registry; absolute dotted imports consult
// the registry first, then the target language's static standard-library
// set, falling back to ThirdParty.
func Resolve(language, importString, fromFile string, reg *Registry) Resolution {
	if strings.HasPrefix(importString, ".") {
		candidate := PathFromRelativeImport(importString, fromFile)
		if path, ok := matchRegistryPath(reg, candidate); ok {
			return Resolution{Category: Internal, Path: path}
		}
		return Resolution{Category: ThirdParty}
	}

	dotted := normalizeImportString(language, importString)
	if path, ok := reg.Lookup(dotted); ok {
		return Resolution{Category: Internal, Path: path}
	}
	// Go-style package-path imports name a directory, not a single dotted
	// file, and carry the module path as a prefix the registry never sees
	// ("github.com/org/repo/internal/store" vs "internal/store"). Strip
	// leading segments until a discovered directory matches, then resolve
	// to a representative file so the edge lands on a real module node.
	if language == "go" {
		segs := strings.Split(strings.Trim(importString, "/"), "/")
		for i := 0; i < len(segs); i++ {
			if path, ok := reg.DirFile(strings.Join(segs[i:], "/")); ok {
				return Resolution{Category: Internal, Path: path}
			}
		}
	}
	// Rust use paths carry a crate-root prefix and usually name a symbol
	// inside the module ("crate::store::Node"), so the registry is consulted
	// on progressively shorter prefixes of the path after stripping the
	// crate-relative keyword.
	if language == "rust" {
		trimmed := dotted
		for _, p := range []string{"crate.", "self.", "super."} {
			trimmed = strings.TrimPrefix(trimmed, p)
		}
		segs := strings.Split(trimmed, ".")
		for end := len(segs); end > 0; end-- {
			if path, ok := reg.Lookup(strings.Join(segs[:end], ".")); ok {
				return Resolution{Category: Internal, Path: path}
			}
		}
	}

	if isStdlib(language, importString) {
		return Resolution{Category: StdLib}
	}
	return Resolution{Category: ThirdParty}
}

// normalizeImportString turns a language's native import syntax into the
// dotted form the registry keys on. Python/Ruby already use dots; JS/TS/Go
// use slash-separated paths.
func normalizeImportString(language, importString string) string {
	switch language {
	case "python", "ruby":
		return importString
	case "rust":
		return strings.ReplaceAll(importString, "::", ".")
	default:
		return strings.ReplaceAll(strings.Trim(importString, "/"), "/", ".")
	}
}

// matchRegistryPath checks whether a resolved relative-import candidate path
// (with no guaranteed extension) matches a registered file, by one lookup of
// its dotted form in the registry; no file suffixes are tried.
func matchRegistryPath(reg *Registry, candidate string) (string, bool) {
	dotted := strings.ReplaceAll(candidate, "/", ".")
	if path, ok := reg.Lookup(dotted); ok {
		return path, true
	}
	// Candidate may already include a directory that resolves to a package
	// marker (__init__.py, index.ts, mod.rs); FileModuleName already folds
	// those into the directory's own dotted name in the registry.
	return "", false
}
