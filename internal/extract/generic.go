package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/store"
)

// extractGeneric handles the fallback languages (C, C++, Java, C#, PHP,
// Ruby): it captures function/class-like declarations by the node-type
// vocabulary in the language's spec, nesting methods under their enclosing
// class, but builds no call, import or inheritance edges for them; these
// grammars vary too much in call/heritage shape to resolve reliably with a
// single generic walk, a deliberate scope cut from the structural baseline.
func extractGeneric(c *ctx, root *tree_sitter.Node) {
	moduleQN := c.result.ModuleNode.QualifiedName
	moduleID := c.result.ModuleNode.ID
	c.walkGeneric(root, moduleQN, moduleID)
}

func (c *ctx) walkGeneric(node *tree_sitter.Node, containerQN, containerID string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		switch {
		case lang.Contains(c.spec.ClassNodeTypes, kind):
			c.genericClass(child, containerQN, containerID)
		case lang.Contains(c.spec.FunctionNodeTypes, kind):
			c.genericFunction(child, containerQN, containerID)
		default:
			c.walkGeneric(child, containerQN, containerID)
		}
	}
}

func (c *ctx) genericClass(node *tree_sitter.Node, containerQN, containerID string) {
	nameNode := genericName(node)
	if nameNode == nil {
		c.walkGeneric(node, containerQN, containerID)
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)

	n := &store.Node{
		ID:            id,
		Name:          name,
		QualifiedName: qn,
		Kind:          store.KindClass,
		FilePath:      c.filePath,
		StartLine:     c.line(node),
		EndLine:       c.endLine(node),
		Docstring:     commentDocstring(c.source, c.line(node), c.language),
		Decorators:    c.decorators(node),
		Visibility:    genericVisibility(node, c.source),
	}
	c.addNode(n)
	c.addDefines(containerID, id)

	if body := node.ChildByFieldName("body"); body != nil {
		c.walkGeneric(body, qn, id)
	} else {
		c.walkGeneric(node, qn, id)
	}
}

func (c *ctx) genericFunction(node *tree_sitter.Node, containerQN, containerID string) {
	nameNode := genericName(node)
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)

	kind := store.KindFunction
	if containerID != c.result.ModuleNode.ID {
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
		Signature:     c.signature(name, node.ChildByFieldName("parameters"), node.ChildByFieldName("type")),
		Docstring:     commentDocstring(c.source, c.line(node), c.language),
		Decorators:    c.decorators(node),
		Visibility:    genericVisibility(node, c.source),
	}
	c.addNode(n)
	c.addDefines(containerID, id)
}

// genericName finds a definition's name node. Most grammars expose a direct
// "name" field; C/C++ bury it inside a "declarator" field, so a short
// bounded descent looks for the first identifier-shaped node there.
func genericName(node *tree_sitter.Node) *tree_sitter.Node {
	if n := node.ChildByFieldName("name"); n != nil {
		return n
	}
	decl := node.ChildByFieldName("declarator")
	return findIdentifier(decl, 4)
}

func findIdentifier(node *tree_sitter.Node, depth int) *tree_sitter.Node {
	if node == nil || depth <= 0 {
		return nil
	}
	switch node.Kind() {
	case "identifier", "field_identifier", "destructor_name", "operator_name", "type_identifier":
		return node
	}
	if n := node.ChildByFieldName("declarator"); n != nil {
		if found := findIdentifier(n, depth-1); found != nil {
			return found
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if found := findIdentifier(node.NamedChild(i), depth-1); found != nil {
			return found
		}
	}
	return nil
}
