package extract

import (
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/store"
)

// pythonVisibility: leading underscore is private, else public.
func pythonVisibility(name string) store.Visibility {
	if strings.HasPrefix(name, "_") {
		return store.VisibilityPrivate
	}
	return store.VisibilityPublic
}

// goVisibility: an uppercase leading letter is exported (public), else private.
func goVisibility(name string) store.Visibility {
	if name == "" {
		return store.VisibilityPrivate
	}
	r := []rune(name)[0]
	if unicode.IsUpper(r) {
		return store.VisibilityPublic
	}
	return store.VisibilityPrivate
}

// jsVisibility reports whether node sits inside an export_statement.
func jsVisibility(node *tree_sitter.Node) store.Visibility {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == "export_statement" {
			return store.VisibilityExported
		}
		// Only walk up through the thin wrapper chain (lexical_declaration,
		// variable_declarator) that can sit between a const/arrow function
		// and its export_statement; stop at the enclosing block/program.
		if p.Kind() == "program" || p.Kind() == "statement_block" || p.Kind() == "class_body" {
			break
		}
	}
	return store.VisibilityPrivate
}

// rustVisibility: a "pub" child node (the visibility_modifier kind in the
// tree-sitter-rust grammar) marks the item public.
func rustVisibility(node *tree_sitter.Node) store.Visibility {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "visibility_modifier" {
			return store.VisibilityPublic
		}
	}
	return store.VisibilityPrivate
}

// genericVisibility inspects a "modifiers" field, if the grammar exposes
// one, for an explicit access-modifier keyword; defaults to public per the
// data model's stated default for languages with no clearer signal.
func genericVisibility(node *tree_sitter.Node, source []byte) store.Visibility {
	mods := node.ChildByFieldName("modifiers")
	if mods == nil {
		return store.VisibilityPublic
	}
	text := string(source[mods.StartByte():mods.EndByte()])
	switch {
	case strings.Contains(text, "private"):
		return store.VisibilityPrivate
	case strings.Contains(text, "protected"):
		return store.VisibilityProtected
	case strings.Contains(text, "public"):
		return store.VisibilityPublic
	default:
		return store.VisibilityPublic
	}
}
