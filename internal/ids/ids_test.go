package ids

import "testing"

func TestNodeIDStableAcrossCalls(t *testing.T) {
	a := NodeID("pkg/mod.go", "Handler.Serve")
	b := NodeID("pkg/mod.go", "Handler.Serve")
	if a != b {
		t.Fatalf("expected deterministic ID, got %q and %q", a, b)
	}
}

func TestNodeIDDiffersByFile(t *testing.T) {
	a := NodeID("pkg/a.go", "f")
	b := NodeID("pkg/b.go", "f")
	if a == b {
		t.Fatalf("expected different files with the same qualified name to produce different IDs")
	}
}

func TestNodeIDNormalisesBackslashes(t *testing.T) {
	a := NodeID("pkg/mod.go", "f")
	b := NodeID(`pkg\mod.go`, "f")
	if a != b {
		t.Fatalf("expected path normalisation to make backslash and forward-slash paths equivalent, got %q and %q", a, b)
	}
}

func TestPlaceholderIDUsesExternalFile(t *testing.T) {
	p := PlaceholderID("requests.get")
	direct := NodeID("<external>", "requests.get")
	if p != direct {
		t.Fatalf("expected PlaceholderID to match NodeID with the external file path")
	}
}
