package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/store"
)

// extractGo walks a Go source file: type declarations (struct/interface),
// package-level functions, methods (attached to their receiver type by
// name, resolved by the driver since a receiver's struct may be declared in
// a different file of the same package), call sites and imports.
func extractGo(c *ctx, root *tree_sitter.Node) {
	moduleQN := c.result.ModuleNode.QualifiedName
	moduleID := c.result.ModuleNode.ID

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "import_declaration":
			c.goImportDecl(child)
		case "type_declaration":
			c.goTypeDecl(child, moduleQN, moduleID)
		case "function_declaration":
			c.goFunction(child, moduleQN, moduleID)
		case "method_declaration":
			c.goMethod(child, moduleQN)
		}
	}
}

func (c *ctx) goTypeDecl(node *tree_sitter.Node, moduleQN, moduleID string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		spec := node.NamedChild(i)
		if spec == nil || spec.Kind() != "type_spec" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		typeNode := spec.ChildByFieldName("type")
		if nameNode == nil || typeNode == nil {
			continue
		}
		name := c.text(nameNode)
		qn := fqn.Nest(moduleQN, name)
		id := c.nodeID(qn)

		kind := store.KindStruct
		if typeNode.Kind() == "interface_type" {
			kind = store.KindInterface
		}

		n := &store.Node{
			ID:            id,
			Name:          name,
			QualifiedName: qn,
			Kind:          kind,
			FilePath:      c.filePath,
			StartLine:     c.line(spec),
			EndLine:       c.endLine(spec),
			Docstring:     commentDocstring(c.source, c.line(node), c.language),
			Visibility:    goVisibility(name),
		}
		c.addNode(n)
		c.addDefines(moduleID, id)

		if typeNode.Kind() == "interface_type" {
			c.goInterfaceMethods(typeNode, qn, id)
		}
	}
}

// goInterfaceMethods captures interface method elements as signature-only
// method nodes, so call sites against an interface-typed variable still
// land on a real node.
func (c *ctx) goInterfaceMethods(iface *tree_sitter.Node, containerQN, containerID string) {
	for i := uint(0); i < iface.NamedChildCount(); i++ {
		elem := iface.NamedChild(i)
		if elem == nil || elem.Kind() != "method_elem" {
			continue
		}
		nameNode := elem.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := c.text(nameNode)
		qn := fqn.Nest(containerQN, name)
		id := c.nodeID(qn)
		n := &store.Node{
			ID:            id,
			Name:          name,
			QualifiedName: qn,
			Kind:          store.KindMethod,
			FilePath:      c.filePath,
			StartLine:     c.line(elem),
			EndLine:       c.endLine(elem),
			Signature:     c.signature(name, elem.ChildByFieldName("parameters"), elem.ChildByFieldName("result")),
			Visibility:    goVisibility(name),
		}
		c.addNode(n)
		c.addDefines(containerID, id)
	}
}

func (c *ctx) goFunction(node *tree_sitter.Node, moduleQN, moduleID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(moduleQN, name)
	id := c.nodeID(qn)

	n := &store.Node{
		ID:            id,
		Name:          name,
		QualifiedName: qn,
		Kind:          store.KindFunction,
		FilePath:      c.filePath,
		StartLine:     c.line(node),
		EndLine:       c.endLine(node),
		Signature:     c.signature(name, node.ChildByFieldName("parameters"), node.ChildByFieldName("result")),
		Docstring:     commentDocstring(c.source, c.line(node), c.language),
		Visibility:    goVisibility(name),
	}
	c.addNode(n)
	c.addDefines(moduleID, id)

	if body := node.ChildByFieldName("body"); body != nil {
		c.collectGoCalls(body, id)
	}
}

func (c *ctx) goMethod(node *tree_sitter.Node, moduleQN string) {
	nameNode := node.ChildByFieldName("name")
	recvNode := node.ChildByFieldName("receiver")
	if nameNode == nil || recvNode == nil {
		return
	}
	recvType := goReceiverTypeName(recvNode, c.source)
	if recvType == "" {
		return
	}
	parentQN := fqn.Nest(moduleQN, recvType)

	name := c.text(nameNode)
	qn := fqn.Nest(parentQN, name)
	id := c.nodeID(qn)

	n := &store.Node{
		ID:            id,
		Name:          name,
		QualifiedName: qn,
		Kind:          store.KindMethod,
		FilePath:      c.filePath,
		StartLine:     c.line(node),
		EndLine:       c.endLine(node),
		Signature:     c.signature(name, node.ChildByFieldName("parameters"), node.ChildByFieldName("result")),
		Docstring:     commentDocstring(c.source, c.line(node), c.language),
		Visibility:    goVisibility(name),
	}
	c.addNode(n)
	c.addContains(id, recvType, c.line(node))

	if body := node.ChildByFieldName("body"); body != nil {
		c.collectGoCalls(body, id)
	}
}

// goReceiverTypeName extracts "Server" from receivers shaped like
// "(s *Server)" or "(s Server)".
func goReceiverTypeName(receiver *tree_sitter.Node, source []byte) string {
	for i := uint(0); i < receiver.NamedChildCount(); i++ {
		param := receiver.NamedChild(i)
		if param == nil || param.Kind() != "parameter_declaration" {
			continue
		}
		typeNode := param.ChildByFieldName("type")
		if typeNode == nil {
			continue
		}
		if typeNode.Kind() == "pointer_type" {
			if inner := typeNode.NamedChild(0); inner != nil {
				typeNode = inner
			}
		}
		return strings.TrimSpace(string(source[typeNode.StartByte():typeNode.EndByte()]))
	}
	return ""
}

func (c *ctx) collectGoCalls(node *tree_sitter.Node, funcID string) {
	if node.Kind() == "call_expression" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			c.addCall(funcID, c.text(fn), c.line(node))
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "func_literal" {
			continue
		}
		c.collectGoCalls(child, funcID)
	}
}

func (c *ctx) goImportDecl(node *tree_sitter.Node) {
	moduleID := c.result.ModuleNode.ID
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "import_spec" {
			c.goImportSpec(child, moduleID)
			continue
		}
		if child.Kind() == "import_spec_list" {
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec != nil && spec.Kind() == "import_spec" {
					c.goImportSpec(spec, moduleID)
				}
			}
		}
	}
}

func (c *ctx) goImportSpec(spec *tree_sitter.Node, moduleID string) {
	pathNode := spec.ChildByFieldName("path")
	if pathNode == nil {
		return
	}
	path := trimQuotes(c.text(pathNode))
	alias := ""
	if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
		alias = c.text(nameNode)
	}
	c.addImport(moduleID, path, alias, c.line(spec))
}
