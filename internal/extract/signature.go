package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

const maxSignatureLen = 200

// signature builds the node model's single-line signature: the parameter
// list as written (and a return/result hint when the grammar exposes one),
// collapsed whitespace, capped at 200 characters.
func (c *ctx) signature(name string, paramsField, returnField *tree_sitter.Node) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(collapseWhitespace(c.text(paramsField)))
	if returnField != nil {
		sb.WriteString(" -> ")
		sb.WriteString(collapseWhitespace(c.text(returnField)))
	}
	sig := sb.String()
	if len(sig) > maxSignatureLen {
		sig = sig[:maxSignatureLen]
	}
	return sig
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
