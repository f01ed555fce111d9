package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vibegraph/vibegraph/internal/extract"
	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/parser"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func printAST(node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}
	parentKind := "nil"
	if node.Parent() != nil {
		parentKind = node.Parent().Kind()
	}
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	fmt.Printf("%s%s (parent=%s) %q\n", prefix, node.Kind(), parentKind, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printAST(node.Child(i), source, indent+1)
	}
}

// dumpFile parses one file by its extension, prints the raw syntax tree,
// then runs the extractor over it and prints the resulting nodes and
// references.
func dumpFile(path string) error {
	l, ok := lang.LanguageForExtension(filepath.Ext(path))
	if !ok {
		return fmt.Errorf("no language registered for %s", path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := parser.Parse(l, source)
	if err != nil {
		return err
	}
	fmt.Printf("=== %s AST ===\n", l)
	printAST(tree.RootNode(), source, 0)
	tree.Close()

	res := extract.Extract(l, filepath.ToSlash(path), source)
	if res.Err != nil {
		return res.Err
	}
	fmt.Println("\n=== EXTRACTED NODES ===")
	for _, n := range res.Nodes {
		fmt.Printf("%s %s [%s] lines %d-%d %s\n", n.Kind, n.QualifiedName, n.Visibility, n.StartLine, n.EndLine, n.Signature)
	}
	fmt.Println("\n=== EXTRACTED EDGES ===")
	for _, e := range res.Edges {
		fmt.Printf("%s -> %s (%s)\n", e.FromID, e.ToID, e.Relation)
	}
	for _, c := range res.Calls {
		fmt.Printf("call %s (line %d)\n", c.Callee, c.SiteLine)
	}
	for _, imp := range res.Imports {
		fmt.Printf("import %s (line %d)\n", imp.Raw, imp.SiteLine)
	}
	for _, inh := range res.Inherits {
		fmt.Printf("%s %s (line %d)\n", inh.Relation, inh.Target, inh.SiteLine)
	}
	return nil
}

func main() {
	if len(os.Args) > 1 {
		if err := dumpFile(os.Args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		return
	}

	// Test Go - check if var groups have wrapping
	goCode := []byte("package main\n\nvar globalVar = 42\n\nvar (\n\ta = 1\n\tb = 2\n)\n")
	fmt.Println("=== GO AST ===")
	tree, err := parser.Parse(lang.Go, goCode)
	if err != nil {
		fmt.Println("Error:", err)
	}
	if tree != nil {
		printAST(tree.RootNode(), goCode, 0)
		tree.Close()
	}

	// Test Rust
	rustCode := []byte("pub static X: i32 = 5;\nconst Y: &str = \"hello\";\n")
	fmt.Println("\n=== RUST AST ===")
	tree2, err := parser.Parse(lang.Rust, rustCode)
	if err != nil {
		fmt.Println("Error:", err)
	}
	if tree2 != nil {
		printAST(tree2.RootNode(), rustCode, 0)
		tree2.Close()
	}

	// Test Python decorated function
	pyCode := []byte("@app.route('/api')\ndef handler():\n    pass\n")
	fmt.Println("\n=== PYTHON DECORATED FUNC ===")
	tree3, err := parser.Parse(lang.Python, pyCode)
	if err != nil {
		fmt.Println("Error:", err)
	}
	if tree3 != nil {
		printAST(tree3.RootNode(), pyCode, 0)
		tree3.Close()
	}

	// Test Python with type annotation assignment
	pyCode2 := []byte("x: int = 5\nlogger: Logger = get_logger()\n")
	fmt.Println("\n=== PYTHON TYPE ANNOTATED ASSIGNMENT ===")
	tree4, err := parser.Parse(lang.Python, pyCode2)
	if err != nil {
		fmt.Println("Error:", err)
	}
	if tree4 != nil {
		printAST(tree4.RootNode(), pyCode2, 0)
		tree4.Close()
	}

	os.Exit(0)
}
