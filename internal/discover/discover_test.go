package discover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverBasic(t *testing.T) {
	dir := t.TempDir()

	// Create a Go file and a Python file
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("def main(): pass\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	files, err := Discover(ctx, dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}

	// Verify file info is populated
	for _, f := range files {
		if f.Path == "" {
			t.Error("expected non-empty Path")
		}
		if f.RelPath == "" {
			t.Error("expected non-empty RelPath")
		}
		if f.Language == "" {
			t.Error("expected non-empty Language")
		}
	}
}

func TestDiscoverCancellation(t *testing.T) {
	dir := t.TempDir()

	// Create a file so the directory isn't empty
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // pre-cancel

	_, err := Discover(ctx, dir, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDiscoverRespectsIgnoreFile(t *testing.T) {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "dist"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"keep.py":        "def keep(): pass\n",
		"dist/bundle.py": "def bundled(): pass\n",
		"scratch.py":     "def scratch(): pass\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	ignore := "# build output\ndist/\nscratch.py\n"
	if err := os.WriteFile(filepath.Join(dir, DefaultIgnoreFile), []byte(ignore), 0o600); err != nil {
		t.Fatal(err)
	}

	found, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 || found[0].RelPath != "keep.py" {
		t.Fatalf("expected only keep.py to survive the ignore file, got %+v", found)
	}
}

func TestDiscoverSkipsBuiltinDenyList(t *testing.T) {
	dir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "node_modules", "pkg", "index.js"), []byte("function f() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("function g() {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	found, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(found) != 1 || found[0].RelPath != "app.js" {
		t.Fatalf("expected node_modules to be skipped, got %+v", found)
	}
}

func TestIgnoredPath(t *testing.T) {
	patterns := []string{"dist/", "*.gen.py"}
	tests := []struct {
		rel  string
		want bool
	}{
		{"main.py", false},
		{"dist/bundle.py", true},
		{"pkg/dist/deep.py", true},
		{"api.gen.py", true},
		{"node_modules/x/y.js", true},
		{"vibegraph_context/graph.db", true},
		{"pkg/util.py", false},
		{"cache.tmp", true},
	}
	for _, tt := range tests {
		if got := IgnoredPath(tt.rel, patterns); got != tt.want {
			t.Errorf("IgnoredPath(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}
