package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/store"
)

// extractPython walks a Python module: classes (with base-class inherits),
// their methods, module-level functions, nested functions, call sites, and
// import/from-import statements.
func extractPython(c *ctx, root *tree_sitter.Node) {
	moduleQN := c.result.ModuleNode.QualifiedName
	moduleID := c.result.ModuleNode.ID
	c.walkPythonBlock(root, moduleQN, moduleID, moduleID)
}

// walkPythonBlock scans the direct statement children of a module/class/
// function body. containerQN/containerID identify the nearest enclosing
// definition (for defines edges); funcID identifies the nearest enclosing
// function/method (for call-site attribution), or equals containerID when
// no function encloses this point.
func (c *ctx) walkPythonBlock(block *tree_sitter.Node, containerQN, containerID, funcID string) {
	for i := uint(0); i < block.NamedChildCount(); i++ {
		child := block.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "class_definition":
			c.pythonClass(child, containerQN, containerID)
		case "function_definition":
			c.pythonFunction(child, containerQN, containerID, false)
		case "decorated_definition":
			inner := child.ChildByFieldName("definition")
			if inner == nil {
				continue
			}
			switch inner.Kind() {
			case "function_definition":
				c.pythonFunction(inner, containerQN, containerID, false)
			case "class_definition":
				c.pythonClass(inner, containerQN, containerID)
			}
		case "import_statement":
			c.pythonImport(child)
		case "import_from_statement":
			c.pythonFromImport(child)
		case "expression_statement":
			if containerID == c.result.ModuleNode.ID {
				c.pythonModuleVariable(child, containerQN)
			}
			c.collectPythonCalls(child, funcID)
		default:
			c.collectPythonCalls(child, funcID)
			c.walkPythonNestedBlocks(child, containerQN, containerID, funcID)
		}
	}
}

// walkPythonNestedBlocks descends into control-flow bodies (if/for/while/
// try/with) that are not a def/class themselves but may contain one, without
// losing the enclosing container/function context.
func (c *ctx) walkPythonNestedBlocks(node *tree_sitter.Node, containerQN, containerID, funcID string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "block" {
			c.walkPythonBlock(child, containerQN, containerID, funcID)
			continue
		}
		c.walkPythonNestedBlocks(child, containerQN, containerID, funcID)
	}
}

func (c *ctx) pythonClass(node *tree_sitter.Node, containerQN, containerID string) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
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
		Docstring:     c.docstring(node),
		Decorators:    c.decorators(node),
		Visibility:    pythonVisibility(name),
	}
	c.addNode(n)
	c.addDefines(containerID, id)

	if bases := node.ChildByFieldName("superclasses"); bases != nil {
		for i := uint(0); i < bases.NamedChildCount(); i++ {
			base := bases.NamedChild(i)
			if base == nil {
				continue
			}
			c.addInherit(id, c.text(base), store.RelationInherits, c.line(base))
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		c.walkPythonBlock(body, qn, id, id)
	}
}

func (c *ctx) pythonFunction(node *tree_sitter.Node, containerQN, containerID string, isMethod bool) {
	nameNode := node.ChildByFieldName("name")
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
		Signature:     c.signature(name, node.ChildByFieldName("parameters"), node.ChildByFieldName("return_type")),
		Docstring:     c.docstring(node),
		Decorators:    c.decorators(node),
		Visibility:    pythonVisibility(name),
	}
	c.addNode(n)
	c.addDefines(containerID, id)

	if body := node.ChildByFieldName("body"); body != nil {
		c.walkPythonBlock(body, qn, id, id)
	}
}

// pythonModuleVariable emits a variable node for a module-scope assignment
// whose target is a plain identifier (x = ..., x: int = ...). Attribute and
// tuple-unpacking targets are skipped.
func (c *ctx) pythonModuleVariable(stmt *tree_sitter.Node, containerQN string) {
	if stmt.NamedChildCount() == 0 {
		return
	}
	assign := stmt.NamedChild(0)
	if assign == nil || assign.Kind() != "assignment" {
		return
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return
	}
	name := c.text(left)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)

	n := &store.Node{
		ID:            id,
		Name:          name,
		QualifiedName: qn,
		Kind:          store.KindVariable,
		FilePath:      c.filePath,
		StartLine:     c.line(assign),
		EndLine:       c.endLine(assign),
		Visibility:    pythonVisibility(name),
	}
	c.addNode(n)
	c.addDefines(c.result.ModuleNode.ID, id)
}

func (c *ctx) collectPythonCalls(node *tree_sitter.Node, funcID string) {
	if node.Kind() == "call" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			c.addCall(funcID, c.text(fn), c.line(node))
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "function_definition" || child.Kind() == "class_definition" {
			continue
		}
		c.collectPythonCalls(child, funcID)
	}
}

func (c *ctx) pythonImport(node *tree_sitter.Node) {
	moduleID := c.result.ModuleNode.ID
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			c.addImport(moduleID, c.text(child), "", c.line(node))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			alias := ""
			if aliasNode != nil {
				alias = c.text(aliasNode)
			}
			c.addImport(moduleID, c.text(nameNode), alias, c.line(node))
		}
	}
}

func (c *ctx) pythonFromImport(node *tree_sitter.Node) {
	moduleID := c.result.ModuleNode.ID
	moduleNode := node.ChildByFieldName("module_name")
	base := ""
	if moduleNode != nil {
		base = c.text(moduleNode)
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
				continue
			}
			symbol := c.text(child)
			c.addFromImport(moduleID, base, symbol, symbol, c.line(node))
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			symbol := c.text(nameNode)
			alias := symbol
			if aliasNode != nil {
				alias = c.text(aliasNode)
			}
			c.addFromImport(moduleID, base, alias, symbol, c.line(node))
		case "wildcard_import":
			c.addImport(moduleID, base, "", c.line(node))
		}
	}
}
