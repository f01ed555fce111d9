package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/lang"
)

// decorators collects the ordered decorator/annotation strings attached to
// node, using each language's own grammar shape rather than one generic
// sibling scan: Python/JS/TS wrap the definition in a decorated_definition
// (Python) or keep decorator nodes as direct children of the definition
// (JS/TS); Java holds them under the "modifiers" field, and C# in
// attribute_list child nodes of the definition.
func (c *ctx) decorators(node *tree_sitter.Node) []string {
	switch c.language {
	case lang.Python:
		return c.pythonDecorators(node)
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		return c.directChildDecorators(node, "decorator")
	case lang.Java:
		return c.fieldChildDecorators(node, "modifiers", "marker_annotation", "annotation")
	case lang.CSharp:
		return c.attributeListDecorators(node)
	default:
		return nil
	}
}

func (c *ctx) pythonDecorators(node *tree_sitter.Node) []string {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "decorated_definition" {
		return nil
	}
	return c.directChildDecorators(parent, "decorator")
}

func (c *ctx) directChildDecorators(node *tree_sitter.Node, kind string) []string {
	var out []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, strings.TrimSpace(c.text(child)))
		}
	}
	return out
}

func (c *ctx) fieldChildDecorators(node *tree_sitter.Node, field string, kinds ...string) []string {
	holder := node.ChildByFieldName(field)
	if holder == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < holder.ChildCount(); i++ {
		child := holder.Child(i)
		if child == nil {
			continue
		}
		for _, k := range kinds {
			if child.Kind() == k {
				out = append(out, strings.TrimSpace(c.text(child)))
				break
			}
		}
	}
	return out
}

func (c *ctx) attributeListDecorators(node *tree_sitter.Node) []string {
	var out []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "attribute_list" {
			continue
		}
		for j := uint(0); j < child.NamedChildCount(); j++ {
			attr := child.NamedChild(j)
			if attr != nil && attr.Kind() == "attribute" {
				out = append(out, strings.TrimSpace(c.text(attr)))
			}
		}
	}
	return out
}

// decoratorFunctionName extracts the callable name from a decorator string:
// "@app.route('/api')" -> "app.route", "@Override" -> "Override".
// Decorators are a plain capture in this data model, not a source of edges.
func decoratorFunctionName(dec string) string {
	dec = strings.TrimPrefix(dec, "@")
	if idx := strings.Index(dec, "("); idx > 0 {
		dec = dec[:idx]
	}
	return strings.TrimSpace(dec)
}
