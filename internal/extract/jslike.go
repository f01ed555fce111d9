package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/fqn"
	"github.com/vibegraph/vibegraph/internal/store"
)

var jsClassKinds = map[string]bool{
	"class_declaration": true, "class": true, "abstract_class_declaration": true,
}

var jsInterfaceKinds = map[string]bool{
	"interface_declaration": true, "enum_declaration": true, "type_alias_declaration": true,
	"internal_module": true,
}

// extractJSLike handles JavaScript, TypeScript and TSX, which share the
// same statement shapes closely enough to walk with one function.
func extractJSLike(c *ctx, root *tree_sitter.Node) {
	moduleQN := c.result.ModuleNode.QualifiedName
	moduleID := c.result.ModuleNode.ID
	c.walkJSBlock(root, moduleQN, moduleID, moduleID)
}

func (c *ctx) walkJSBlock(block *tree_sitter.Node, containerQN, containerID, funcID string) {
	for i := uint(0); i < block.NamedChildCount(); i++ {
		child := block.NamedChild(i)
		if child == nil {
			continue
		}
		c.jsStatement(child, containerQN, containerID, funcID)
	}
}

func (c *ctx) jsStatement(node *tree_sitter.Node, containerQN, containerID, funcID string) {
	switch {
	case node.Kind() == "export_statement":
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			c.jsStatement(decl, containerQN, containerID, funcID)
			return
		}
		c.collectJSCalls(node, funcID)

	case jsClassKinds[node.Kind()] || jsInterfaceKinds[node.Kind()]:
		c.jsClass(node, containerQN, containerID)

	case node.Kind() == "function_declaration" || node.Kind() == "generator_function_declaration":
		c.jsFunction(node, node.ChildByFieldName("name"), containerQN, containerID, false)

	case node.Kind() == "method_definition":
		c.jsFunction(node, node.ChildByFieldName("name"), containerQN, containerID, true)

	case node.Kind() == "lexical_declaration" || node.Kind() == "variable_declaration":
		c.jsVariableDeclaration(node, containerQN, containerID, funcID)

	case node.Kind() == "import_statement":
		c.jsImport(node)

	case node.Kind() == "statement_block":
		c.walkJSBlock(node, containerQN, containerID, funcID)

	default:
		c.collectJSCalls(node, funcID)
		c.descendJSStatements(node, containerQN, containerID, funcID)
	}
}

// descendJSStatements looks inside control-flow wrappers (if/for/while/try)
// for nested statement_blocks without treating the wrapper itself as scope.
func (c *ctx) descendJSStatements(node *tree_sitter.Node, containerQN, containerID, funcID string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if child.Kind() == "statement_block" {
			c.walkJSBlock(child, containerQN, containerID, funcID)
			continue
		}
		c.descendJSStatements(child, containerQN, containerID, funcID)
	}
}

// jsVariableDeclaration handles `const name = (...) => {...}` and
// `const name = function(...) {...}`, the idiomatic arrow-function binding.
func (c *ctx) jsVariableDeclaration(node *tree_sitter.Node, containerQN, containerID, funcID string) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		decl := node.NamedChild(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		valueNode := decl.ChildByFieldName("value")
		if nameNode == nil || valueNode == nil {
			continue
		}
		switch valueNode.Kind() {
		case "arrow_function", "function_expression", "generator_function":
			c.jsFunction(valueNode, nameNode, containerQN, containerID, false)
		default:
			c.collectJSCalls(valueNode, funcID)
		}
	}
}

func (c *ctx) jsClass(node *tree_sitter.Node, containerQN, containerID string) {
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
		Visibility:    jsVisibility(node),
	}
	c.addNode(n)
	c.addDefines(containerID, id)

	if heritage := node.ChildByFieldName("heritage"); heritage != nil {
		c.jsHeritage(heritage, id)
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child != nil && child.Kind() == "class_heritage" {
			c.jsHeritage(child, id)
		}
	}

	if body := node.ChildByFieldName("body"); body != nil {
		c.walkJSBlock(body, qn, id, id)
	}
}

func (c *ctx) jsHeritage(heritage *tree_sitter.Node, classID string) {
	for i := uint(0); i < heritage.NamedChildCount(); i++ {
		clause := heritage.NamedChild(i)
		if clause == nil {
			continue
		}
		relation := store.RelationInherits
		if clause.Kind() == "implements_clause" {
			relation = store.RelationImplements
		}
		for j := uint(0); j < clause.NamedChildCount(); j++ {
			target := clause.NamedChild(j)
			if target != nil {
				c.addInherit(classID, c.text(target), relation, c.line(target))
			}
		}
	}
}

func (c *ctx) jsFunction(node, nameNode *tree_sitter.Node, containerQN, containerID string, isMethod bool) {
	if nameNode == nil {
		return
	}
	name := c.text(nameNode)
	qn := fqn.Nest(containerQN, name)
	id := c.nodeID(qn)

	kind := store.KindFunction
	if isMethod || containerID != c.result.ModuleNode.ID {
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
		Visibility:    jsVisibility(node),
	}
	c.addNode(n)
	c.addDefines(containerID, id)

	if body := node.ChildByFieldName("body"); body != nil && body.Kind() == "statement_block" {
		c.walkJSBlock(body, qn, id, id)
	}
}

func (c *ctx) collectJSCalls(node *tree_sitter.Node, funcID string) {
	if node.Kind() == "call_expression" {
		if fn := node.ChildByFieldName("function"); fn != nil {
			c.addCall(funcID, c.text(fn), c.line(node))
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "function_declaration", "generator_function_declaration", "arrow_function",
			"function_expression", "method_definition", "class_declaration", "class":
			continue
		}
		c.collectJSCalls(child, funcID)
	}
}

func (c *ctx) jsImport(node *tree_sitter.Node) {
	moduleID := c.result.ModuleNode.ID
	source := node.ChildByFieldName("source")
	if source == nil {
		return
	}
	raw := trimQuotes(c.text(source))
	// The import clause is a plain named child in the grammar, not a field.
	var clause *tree_sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if ch := node.NamedChild(i); ch != nil && ch.Kind() == "import_clause" {
			clause = ch
			break
		}
	}
	if clause == nil {
		// Side-effect-only import: `import "./styles.css"`.
		c.addImport(moduleID, raw, "", c.line(node))
		return
	}
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "identifier":
			c.addImport(moduleID, raw, c.text(child), c.line(node))
		case "namespace_import":
			alias := child.NamedChild(0)
			aliasName := ""
			if alias != nil {
				aliasName = c.text(alias)
			}
			c.addImport(moduleID, raw, aliasName, c.line(node))
		case "named_imports":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				spec := child.NamedChild(j)
				if spec == nil || spec.Kind() != "import_specifier" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				aliasNode := spec.ChildByFieldName("alias")
				if nameNode == nil {
					continue
				}
				symbol := c.text(nameNode)
				local := symbol
				if aliasNode != nil {
					local = c.text(aliasNode)
				}
				c.addFromImport(moduleID, raw, local, symbol, c.line(node))
			}
		}
	}
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}
