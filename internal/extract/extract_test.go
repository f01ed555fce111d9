package extract

import (
	"testing"

	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/store"
)

func findNode(t *testing.T, nodes []*store.Node, qn string) *store.Node {
	t.Helper()
	for _, n := range nodes {
		if n.QualifiedName == qn {
			return n
		}
	}
	t.Fatalf("node %q not found among %d nodes", qn, len(nodes))
	return nil
}

func TestExtractPython(t *testing.T) {
	src := []byte(`import os
from pkg.util import helper as h


class Greeter:
    """Greets people."""

    def __init__(self, name):
        self.name = name

    def greet(self):
        h.log(self.name)
        return os.getenv("X")
`)
	res := Extract(lang.Python, "pkg/greeter.py", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	cls := findNode(t, res.Nodes, "pkg.greeter.Greeter")
	if cls.Kind != store.KindClass {
		t.Errorf("Greeter kind = %s, want class", cls.Kind)
	}
	if cls.Docstring != "Greets people." {
		t.Errorf("docstring = %q", cls.Docstring)
	}
	greet := findNode(t, res.Nodes, "pkg.greeter.Greeter.greet")
	if greet.Kind != store.KindMethod {
		t.Errorf("greet kind = %s, want method", greet.Kind)
	}
	if len(res.Calls) == 0 {
		t.Error("expected call references from greet body")
	}
	if len(res.Imports) != 2 {
		t.Errorf("imports = %d, want 2", len(res.Imports))
	}
}

func TestExtractPythonModuleVariable(t *testing.T) {
	src := []byte(`VERSION = "1.2.3"
_cache: dict = {}


def read():
    local = 1
    return local
`)
	res := Extract(lang.Python, "config.py", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	version := findNode(t, res.Nodes, "config.VERSION")
	if version.Kind != store.KindVariable {
		t.Errorf("VERSION kind = %s, want variable", version.Kind)
	}
	if version.Visibility != store.VisibilityPublic {
		t.Errorf("VERSION visibility = %s, want public", version.Visibility)
	}
	cache := findNode(t, res.Nodes, "config._cache")
	if cache.Visibility != store.VisibilityPrivate {
		t.Errorf("_cache visibility = %s, want private", cache.Visibility)
	}
	// Function-local assignments never become variable nodes.
	for _, n := range res.Nodes {
		if n.Name == "local" {
			t.Error("function-local assignment extracted as a module variable")
		}
	}
}

func TestExtractRustUse(t *testing.T) {
	src := []byte(`use std::collections::{HashMap, HashSet};
use crate::store::Node as GraphNode;

fn main() {}
`)
	res := Extract(lang.Rust, "main.rs", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(res.Imports))
	}
	if res.Imports[0].Raw != "std::collections" {
		t.Errorf("grouped use raw = %q, want the common prefix std::collections", res.Imports[0].Raw)
	}
	if res.Imports[1].Raw != "crate::store::Node" || res.Imports[1].Alias != "GraphNode" {
		t.Errorf("aliased use = %+v, want crate::store::Node as GraphNode", res.Imports[1])
	}
}

func TestExtractGoReceiverMethod(t *testing.T) {
	src := []byte(`package svc

import "fmt"

type Server struct{}

func (s *Server) Start() error {
	fmt.Println("starting")
	return nil
}
`)
	res := Extract(lang.Go, "svc/server.go", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	srv := findNode(t, res.Nodes, "svc.server.Server")
	if srv.Kind != store.KindStruct {
		t.Errorf("Server kind = %s, want struct", srv.Kind)
	}
	start := findNode(t, res.Nodes, "svc.server.Server.Start")
	if start.Kind != store.KindMethod {
		t.Errorf("Start kind = %s, want method", start.Kind)
	}
	foundContains := false
	for _, c := range res.Contains {
		if c.ParentName == "Server" && c.ChildID == start.ID {
			foundContains = true
		}
	}
	if !foundContains {
		t.Error("expected a Contains reference from Server to Start, resolved by the driver rather than a same-file edge")
	}
}

func TestExtractRustImpl(t *testing.T) {
	src := []byte(`struct Counter {
    value: i32,
}

impl Display for Counter {
    fn increment(&mut self) {
        self.value += 1;
    }
}
`)
	res := Extract(lang.Rust, "counter.rs", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	findNode(t, res.Nodes, "counter.Counter")
	incr := findNode(t, res.Nodes, "counter.Counter.increment")

	foundContains := false
	for _, c := range res.Contains {
		if c.ParentName == "Counter" && c.ChildID == incr.ID {
			foundContains = true
		}
	}
	if !foundContains {
		t.Error("expected a Contains reference from Counter to increment")
	}

	foundImplements := false
	for _, inh := range res.Inherits {
		if inh.FromName == "Counter" && inh.Target == "Display" && inh.Relation == store.RelationImplements {
			foundImplements = true
		}
	}
	if !foundImplements {
		t.Error("expected an implements reference from Counter naming Display, resolved by the driver")
	}
}

// TestExtractRustImplCrossFileSelf documents that the impl's Self type name
// is handed to the driver unresolved: nothing here assumes Counter lives in
// this file, which is the point of the Contains/FromName indirection.
func TestExtractRustImplCrossFileSelf(t *testing.T) {
	src := []byte(`impl Counter {
    fn reset(&mut self) {
        self.value = 0;
    }
}
`)
	res := Extract(lang.Rust, "counter_reset.rs", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	reset := findNode(t, res.Nodes, "counter_reset.Counter.reset")
	if len(res.Contains) != 1 || res.Contains[0].ParentName != "Counter" || res.Contains[0].ChildID != reset.ID {
		t.Fatalf("expected a single Contains reference naming Counter, got %+v", res.Contains)
	}
}

func TestExtractGenericJavaClass(t *testing.T) {
	src := []byte(`public class Widget {
    public void render() {
        System.out.println("rendering");
    }
}
`)
	res := Extract(lang.Java, "Widget.java", src)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	findNode(t, res.Nodes, "Widget.Widget")
	findNode(t, res.Nodes, "Widget.Widget.render")
	if len(res.Calls) != 0 {
		t.Errorf("generic extractor should not emit calls, got %d", len(res.Calls))
	}
}
