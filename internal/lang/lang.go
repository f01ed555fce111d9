// Package lang declares the per-language grammar tables the extractors and
// parser pool dispatch on.
package lang

// Language identifies a supported source language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	CPP        Language = "cpp"
	C          Language = "c"
	CSharp     Language = "csharp"
	PHP        Language = "php"
	Ruby       Language = "ruby"
)

// LanguageSpec holds the tree-sitter node-type vocabulary for one language.
type LanguageSpec struct {
	Language Language

	// FileExtensions maps extensions (including the leading dot) to this spec.
	FileExtensions []string

	// FunctionNodeTypes are node kinds that introduce a function or method.
	FunctionNodeTypes []string
	// ClassNodeTypes are node kinds that introduce a class-like container
	// (class, struct, interface, trait, impl, enum).
	ClassNodeTypes []string
	// FieldNodeTypes are node kinds for field/member declarations.
	FieldNodeTypes []string
	// ModuleNodeTypes are the root node kind(s) for a parsed file.
	ModuleNodeTypes []string
	// CallNodeTypes are node kinds representing a call expression.
	CallNodeTypes []string
	// ImportNodeTypes are node kinds representing a plain import statement.
	ImportNodeTypes []string
	// ImportFromTypes are node kinds representing a from-style import.
	ImportFromTypes []string
	// DecoratorNodeTypes are node kinds representing a decorator/annotation.
	DecoratorNodeTypes []string
	// PackageIndicators are file names that mark a directory as a package root.
	PackageIndicators []string
}

var registry = map[string]*LanguageSpec{}
var byLanguage = map[Language]*LanguageSpec{}

// Register adds a language spec, indexed by each of its file extensions.
func Register(spec *LanguageSpec) {
	byLanguage[spec.Language] = spec
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the spec registered for a file extension, if any.
func ForExtension(ext string) (*LanguageSpec, bool) {
	spec, ok := registry[ext]
	return spec, ok
}

// ForLanguage returns the spec registered for a Language, if any.
func ForLanguage(l Language) (*LanguageSpec, bool) {
	spec, ok := byLanguage[l]
	return spec, ok
}

// LanguageForExtension returns the Language registered for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec, ok := registry[ext]
	if !ok {
		return "", false
	}
	return spec.Language, true
}

// AllLanguages returns every registered Language.
func AllLanguages() []Language {
	out := make([]Language, 0, len(byLanguage))
	for l := range byLanguage {
		out = append(out, l)
	}
	return out
}

// Contains reports whether s appears in list.
func Contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
