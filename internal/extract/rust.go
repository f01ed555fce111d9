package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/store"
)

// extractRust walks a Rust source file. Struct/enum/union/trait/type items
// become class-like nodes; `impl` blocks attach their functions as methods
// of the impl's Self type (by name, not declaration order, matching Go's
// receiver-method pattern) and record a trait implementation when the impl
// is `impl Trait for Type`.
func extractRust(c *ctx, root *tree_sitter.Node) {
	moduleQN := c.result.ModuleNode.QualifiedName
	moduleID := c.result.ModuleNode.ID
	c.walkRustItems(root, moduleQN, moduleID)
}

func (c *ctx) walkRustItems(block *tree_sitter.Node, containerQN, containerID string) {
	for i := uint(0); i < block.NamedChildCount(); i++ {
		item := block.NamedChild(i)
		if item == nil {
			continue
		}
		switch item.Kind() {
		case "struct_item", "union_item", "enum_item", "type_item":
			c.rustTypeItem(item, containerQN, containerID)
		case "trait_item":
			c.rustTrait(item, containerQN, containerID)
		case "impl_item":
			c.rustImpl(item, containerQN, containerID)
		case "function_item", "function_signature_item":
			c.rustFunction(item, containerQN, containerID, "")
		case "mod_item":
			c.rustMod(item, containerQN, containerID)
		case "use_declaration":
			c.rustUse(item)
		}
	}
}

func (c *ctx) rustMod(node *tree_sitter.Node, containerQN, containerID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)
	n := &store.Node{
		ID: id, Name: name, QualifiedName: qn, Kind: store.KindModule,
		FilePath: c.filePath, StartLine: c.line(node), EndLine: c.endLine(node),
		Visibility: rustVisibility(node),
	}
	c.addNode(n)
	c.addDefines(containerID, id)
	if body := node.ChildByFieldName("body"); body != nil {
		c.walkRustItems(body, qn, id)
	}
}

func (c *ctx) rustTypeItem(node *tree_sitter.Node, containerQN, containerID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)
	n := &store.Node{
		ID: id, Name: name, QualifiedName: qn, Kind: store.KindStruct,
		FilePath: c.filePath, StartLine: c.line(node), EndLine: c.endLine(node),
		Docstring: commentDocstring(c.source, c.line(node), c.language),
		Visibility: rustVisibility(node),
	}
	c.addNode(n)
	c.addDefines(containerID, id)
}

func (c *ctx) rustTrait(node *tree_sitter.Node, containerQN, containerID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)
	n := &store.Node{
		ID: id, Name: name, QualifiedName: qn, Kind: store.KindTrait,
		FilePath: c.filePath, StartLine: c.line(node), EndLine: c.endLine(node),
		Docstring: commentDocstring(c.source, c.line(node), c.language),
		Visibility: rustVisibility(node),
	}
	c.addNode(n)
	c.addDefines(containerID, id)
	if body := node.ChildByFieldName("body"); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			fn := body.NamedChild(i)
			if fn != nil && (fn.Kind() == "function_item" || fn.Kind() == "function_signature_item") {
				c.rustFunction(fn, qn, id, "")
			}
		}
	}
}

// rustImpl attaches the impl block's functions to its Self type and records
// a trait implementation edge, without assuming Self is declared in this
// file: both are handed to the resolver as name references (addContains,
// addInheritByName), since an impl's Self type commonly lives in another
// file of the same crate.
func (c *ctx) rustImpl(node *tree_sitter.Node, containerQN, containerID string) {
	typeNode := node.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	selfType := strings.TrimSpace(c.text(typeNode))
	selfQN := fqn.Nest(containerQN, selfType)

	if traitNode := node.ChildByFieldName("trait"); traitNode != nil {
		c.addInheritByName(selfType, strings.TrimSpace(c.text(traitNode)), store.RelationImplements, c.line(node))
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		fn := body.NamedChild(i)
		if fn != nil && (fn.Kind() == "function_item" || fn.Kind() == "function_signature_item") {
			c.rustFunction(fn, selfQN, containerID, selfType)
		}
	}
}

// rustFunction emits a function/method node. implSelfType is non-empty when
// this function came from an impl block, in which case its defines edge is
// resolved by the parent's name (implSelfType) rather than a same-file ID,
// since the impl's Self type may be declared in a different file.
func (c *ctx) rustFunction(node *tree_sitter.Node, containerQN, containerID, implSelfType string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)

	kind := store.KindFunction
	if implSelfType != "" || containerID != c.result.ModuleNode.ID {
		kind = store.KindMethod
	}

	n := &store.Node{
		ID:            id,
		Name:          name,
		QualifiedName: qn,
		Kind:          kind,
		FilePath:      c.filePath,
		StartLine:     c.line(node),
		EndLine:       c.endLine(node),
		Signature:     c.signature(name, node.ChildByFieldName("parameters"), node.ChildByFieldName("return_type")),
		Docstring:     commentDocstring(c.source, c.line(node), c.language),
		Visibility:    rustVisibility(node),
	}
	c.addNode(n)
	if implSelfType != "" {
		c.addContains(id, implSelfType, c.line(node))
	} else {
		c.addDefines(containerID, id)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		c.collectRustCalls(body, id)
	}
}

func (c *ctx) collectRustCalls(node *tree_sitter.Node, funcID string) {
	switch node.Kind() {
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			c.addCall(funcID, c.text(fn), c.line(node))
		}
	case "macro_invocation":
		if m := node.ChildByFieldName("macro"); m != nil {
			c.addCall(funcID, c.text(m)+"!", c.line(node))
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "closure_expression" {
			continue
		}
		c.collectRustCalls(child, funcID)
	}
}

func (c *ctx) rustUse(node *tree_sitter.Node) {
	arg := node.ChildByFieldName("argument")
	if arg == nil {
		return
	}
	raw := strings.TrimSpace(c.text(arg))
	alias := ""
	if idx := strings.Index(raw, " as "); idx >= 0 {
		alias = strings.TrimSpace(raw[idx+4:])
		raw = strings.TrimSpace(raw[:idx])
	}
	// A grouped use (`use std::collections::{HashMap, HashSet}`) imports
	// the common prefix path; the grouped symbols stay unexpanded.
	if idx := strings.Index(raw, "::{"); idx >= 0 {
		raw = raw[:idx]
	}
	c.addImport(c.result.ModuleNode.ID, raw, alias, c.line(node))
}
