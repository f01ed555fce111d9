// Package extract implements the per-language structural extractors: each
// consumes a parsed syntax tree and produces an unresolved (nodes, edges)
// batch plus raw call/import references for the resolver.
package extract

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/ids"
	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/parser"
	"github.com/vibegraph/vibegraph/internal/store"
)

// CallRef is an unresolved call-site reference produced by an extractor,
// handed to the resolver for project-wide lookup.
type CallRef struct {
	FromID   string // node ID of the enclosing function/method
	Callee   string // callee text as written ("f", "pkg.Func", "obj.method")
	SiteLine int
}

// ImportRef is a raw import statement, handed to the resolver for
// internal/stdlib/third-party classification and edge construction. Raw
// always names the module being imported, never a from-import's symbol, so
// classification and the imports edge always target the module itself.
type ImportRef struct {
	FromID   string // node ID of the file's module node
	Raw      string // module path as written, in the source language's own syntax
	Alias    string // local bound name, if any (used to build the file's import map)
	Symbol   string // for a from-import, the specific name imported from Raw; empty for a plain module import
	SiteLine int
}

// InheritRef is an unresolved inherits/implements reference (class extends,
// struct trait impl, interface implements). FromName is set instead of
// FromID when the subject type itself isn't known to live in this file (Rust
// impl blocks, whose self type may be declared elsewhere); the resolver
// looks it up through the same cascade used for Target.
type InheritRef struct {
	FromID   string
	FromName string // subject type name, used when FromID is unset
	Target   string // type name as written
	Relation store.Relation
	SiteLine int
}

// ContainsRef is an unresolved defines-edge reference for a child whose
// parent may be declared in a different file of the same package/crate (a
// Go receiver or a Rust impl's self type). The resolver looks ParentName up
// project-wide the same way it resolves calls and inherits targets, falling
// back to a placeholder node when no project-wide match exists.
type ContainsRef struct {
	ParentName string
	ChildID    string
	SiteLine   int
}

// Result is one file's unresolved extraction batch.
type Result struct {
	ModuleNode *store.Node
	Nodes      []*store.Node
	Edges      []*store.Edge // intra-file only: defines edges whose parent is known in the same file; calls always go to Calls
	Calls      []CallRef
	Imports    []ImportRef
	Inherits   []InheritRef
	Contains   []ContainsRef // defines edges whose parent needs project-wide resolution
	Err        error         // non-nil on parse/extraction failure; extraction still returns whatever it recovered
}

// Extract parses source and dispatches to the language-specific extractor.
// A parse failure never raises: it is recorded as Result.Err and the
// function still returns an (empty) Result so the driver can continue the
// batch; extractor errors never raise upward.
func Extract(language lang.Language, filePath string, source []byte) *Result {
	tree, err := parser.Parse(language, source)
	if err != nil {
		return &Result{Err: fmt.Errorf("parse %s: %w", filePath, err)}
	}
	defer tree.Close()

	spec, ok := lang.ForLanguage(language)
	if !ok {
		return &Result{Err: fmt.Errorf("no language spec for %s", language)}
	}

	c := &ctx{
		language: language,
		spec:     spec,
		filePath: filePath,
		source:   source,
		result:   &Result{},
	}
	c.emitModuleNode()

	switch language {
	case lang.Python:
		extractPython(c, tree.RootNode())
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		extractJSLike(c, tree.RootNode())
	case lang.Go:
		extractGo(c, tree.RootNode())
	case lang.Rust:
		extractRust(c, tree.RootNode())
	default:
		extractGeneric(c, tree.RootNode())
	}

	return c.result
}

// ctx carries shared extraction state for one file.
type ctx struct {
	language lang.Language
	spec     *lang.LanguageSpec
	filePath string
	source   []byte
	result   *Result
}

func (c *ctx) emitModuleNode() {
	qn := fqn.FileModuleName(c.filePath)
	n := &store.Node{
		ID:            ids.NodeID(c.filePath, qn),
		Name:          qn,
		QualifiedName: qn,
		Kind:          store.KindModule,
		FilePath:      c.filePath,
		StartLine:     1,
		Visibility:    store.VisibilityPublic,
	}
	c.result.ModuleNode = n
	c.result.Nodes = append(c.result.Nodes, n)
}

func (c *ctx) addNode(n *store.Node) {
	c.result.Nodes = append(c.result.Nodes, n)
}

func (c *ctx) addDefines(parentID, childID string) {
	c.result.Edges = append(c.result.Edges, &store.Edge{
		FromID: parentID, ToID: childID, Relation: store.RelationDefines,
	})
}

func (c *ctx) addCall(fromID, callee string, siteLine int) {
	c.result.Calls = append(c.result.Calls, CallRef{FromID: fromID, Callee: callee, SiteLine: siteLine})
}

func (c *ctx) addImport(fromID, raw, alias string, siteLine int) {
	c.result.Imports = append(c.result.Imports, ImportRef{FromID: fromID, Raw: raw, Alias: alias, SiteLine: siteLine})
}

func (c *ctx) addFromImport(fromID, module, alias, symbol string, siteLine int) {
	c.result.Imports = append(c.result.Imports, ImportRef{FromID: fromID, Raw: module, Alias: alias, Symbol: symbol, SiteLine: siteLine})
}

func (c *ctx) addInherit(fromID, target string, relation store.Relation, siteLine int) {
	c.result.Inherits = append(c.result.Inherits, InheritRef{FromID: fromID, Target: target, Relation: relation, SiteLine: siteLine})
}

func (c *ctx) addInheritByName(fromName, target string, relation store.Relation, siteLine int) {
	c.result.Inherits = append(c.result.Inherits, InheritRef{FromName: fromName, Target: target, Relation: relation, SiteLine: siteLine})
}

// addContains records a defines edge whose parent (parentName, the bare type
// name as written in the source) may live in another file.
func (c *ctx) addContains(childID, parentName string, siteLine int) {
	c.result.Contains = append(c.result.Contains, ContainsRef{ParentName: parentName, ChildID: childID, SiteLine: siteLine})
}

func (c *ctx) nodeID(qualifiedName string) string {
	return ids.NodeID(c.filePath, qualifiedName)
}

func (c *ctx) line(node *tree_sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

func (c *ctx) endLine(node *tree_sitter.Node) int {
	return int(node.EndPosition().Row) + 1
}

func (c *ctx) text(node *tree_sitter.Node) string {
	if node == nil {
		return ""
	}
	return parser.NodeText(node, c.source)
}
