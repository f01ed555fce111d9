package extract

import (
	"bytes"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/vibegraph/vibegraph/internal/lang"
	"github.com/vibegraph/vibegraph/internal/parser"
)

// docstring extracts the documentation comment for a function/class node:
// Python gets PEP 257 triple-quote extraction, everything else gets a
// backward scan over leading line/block comments.
func (c *ctx) docstring(node *tree_sitter.Node) string {
	if c.language == lang.Python {
		return pythonDocstring(node, c.source)
	}
	return commentDocstring(c.source, c.line(node), c.language)
}

func pythonDocstring(node *tree_sitter.Node, source []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	strNode := first.NamedChild(0)
	if strNode == nil || strNode.Kind() != "string" {
		return ""
	}
	return cleanPythonDocstring(parser.NodeText(strNode, source))
}

func cleanPythonDocstring(s string) string {
	for _, delim := range []string{`"""`, `'''`} {
		if strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) && len(s) >= 6 {
			s = s[3 : len(s)-3]
			break
		}
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= 1 {
		return strings.TrimSpace(s)
	}
	minIndent := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		if minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= minIndent {
				lines[i] = lines[i][minIndent:]
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func commentDocstring(source []byte, startLine int, language lang.Language) string {
	lines := bytes.Split(source, []byte("\n"))
	lineIdx := startLine - 2 // startLine is 1-based; step to the line above the definition
	if lineIdx < 0 || lineIdx >= len(lines) {
		return ""
	}
	trimmed := strings.TrimSpace(string(lines[lineIdx]))
	if trimmed == "" {
		return ""
	}
	if strings.HasSuffix(trimmed, "*/") {
		return extractBlockComment(lines, lineIdx)
	}
	prefix := docLinePrefix(language)
	if prefix != "" && strings.HasPrefix(trimmed, prefix) {
		return extractLineComments(lines, lineIdx, prefix)
	}
	return ""
}

func docLinePrefix(language lang.Language) string {
	switch language {
	case lang.Rust, lang.CSharp:
		return "///"
	case lang.Go, lang.CPP, lang.C, lang.JavaScript, lang.TypeScript, lang.TSX, lang.Java, lang.PHP:
		return "//"
	default:
		return ""
	}
}

func extractBlockComment(lines [][]byte, endLineIdx int) string {
	startIdx := endLineIdx
	for startIdx >= 0 {
		line := strings.TrimSpace(string(lines[startIdx]))
		if strings.HasPrefix(line, "/*") {
			break
		}
		startIdx--
	}
	if startIdx < 0 {
		return ""
	}
	var result []string
	for i := startIdx; i <= endLineIdx; i++ {
		result = append(result, string(lines[i]))
	}
	return cleanBlockComment(strings.Join(result, "\n"))
}

func cleanBlockComment(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/**") {
		s = s[3:]
	} else if strings.HasPrefix(s, "/*") {
		s = s[2:]
	}
	s = strings.TrimSuffix(s, "*/")

	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimPrefix(line, "*")
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func extractLineComments(lines [][]byte, startIdx int, prefix string) string {
	var commentLines []string
	idx := startIdx
	for idx >= 0 {
		trimmed := strings.TrimSpace(string(lines[idx]))
		if !strings.HasPrefix(trimmed, prefix) {
			break
		}
		content := strings.TrimPrefix(trimmed, prefix)
		content = strings.TrimPrefix(content, " ")
		commentLines = append(commentLines, content)
		idx--
	}
	for i, j := 0, len(commentLines)-1; i < j; i, j = i+1, j-1 {
		commentLines[i], commentLines[j] = commentLines[j], commentLines[i]
	}
	return strings.TrimSpace(strings.Join(commentLines, "\n"))
}
