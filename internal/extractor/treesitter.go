package extractor

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
// Children are skipped when the visitor returns false.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// namedChildren returns the named, non-comment children of node.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}

	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child == nil || child.IsExtra() {
			continue
		}
		out = append(out, child)
	}
	return out
}

// lineRange returns the 1-indexed first and last line of node.
func lineRange(node *sitter.Node) (int, int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// normalizeType renders a type the way it is written in signatures:
// "Map<String, List<Integer>>", "int[]", "? extends Number".
func normalizeType(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	r := strings.NewReplacer("< ", "<", " >", ">", " ,", ",", " [", "[", "[ ", "[", " ]", "]")
	s = r.Replace(s)
	s = strings.ReplaceAll(s, ", ", ",")
	return strings.ReplaceAll(s, ",", ", ")
}

// baseTypeName strips generics, array dimensions and varargs from a type.
func baseTypeName(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSuffix(s, "...")
	for strings.HasSuffix(s, "[]") {
		s = strings.TrimSuffix(s, "[]")
	}
	return strings.TrimSpace(s)
}

var primitiveTypes = map[string]bool{
	"byte": true, "short": true, "int": true, "long": true, "float": true,
	"double": true, "boolean": true, "char": true, "void": true, "var": true,
}
