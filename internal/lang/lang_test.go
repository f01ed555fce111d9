package lang

import "testing"

func TestForExtensionResolvesAllTwelveLanguages(t *testing.T) {
	cases := map[string]Language{
		".py":  Python,
		".js":  JavaScript,
		".ts":  TypeScript,
		".tsx": TSX,
		".go":  Go,
		".rs":  Rust,
		".java": Java,
		".cpp": CPP,
		".c":   C,
		".cs":  CSharp,
		".php": PHP,
		".rb":  Ruby,
	}
	for ext, want := range cases {
		spec, ok := ForExtension(ext)
		if !ok {
			t.Fatalf("no spec registered for %q", ext)
		}
		if spec.Language != want {
			t.Fatalf("%q registered as %q, want %q", ext, spec.Language, want)
		}
	}
}

func TestLanguageForExtensionUnknown(t *testing.T) {
	if _, ok := LanguageForExtension(".scala"); ok {
		t.Fatalf("expected .scala to be unregistered after dropping non-spec languages")
	}
}

func TestForLanguageRoundTrips(t *testing.T) {
	spec, ok := ForLanguage(Python)
	if !ok {
		t.Fatalf("expected Python spec to be registered")
	}
	if !Contains(spec.FileExtensions, ".py") {
		t.Fatalf("expected Python spec to list .py, got %v", spec.FileExtensions)
	}
}
