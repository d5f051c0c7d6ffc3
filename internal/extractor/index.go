package extractor

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// typeDeclKinds are the node kinds that declare a type with members.
var typeDeclKinds = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// importDecl is a single import statement.
type importDecl struct {
	name     string // dotted name without ".*"
	wildcard bool
	static   bool
}

// lastSegment returns the simple name an import brings into scope.
func (d importDecl) lastSegment() string {
	if i := strings.LastIndexByte(d.name, '.'); i >= 0 {
		return d.name[i+1:]
	}
	return d.name
}

// sourceUnit is a parsed file together with what the index learned from it.
type sourceUnit struct {
	path    string
	source  []byte
	tree    *sitter.Tree
	root    *sitter.Node
	pkg     string
	imports []importDecl

	// singles maps a simple name to the qualified name of a single-type import.
	singles map[string]string
	// wildcards lists on-demand import prefixes (packages or enclosing types).
	wildcards []string

	types []*typeInfo
}

// methodInfo is a declared method signature.
type methodInfo struct {
	name       string
	signature  string
	returnType string
	arity      int
	varargs    bool
}

// typeInfo is a declared class, interface, enum or record.
type typeInfo struct {
	name      string
	qualified string
	pkg       string
	superName string
	unit      *sourceUnit
	outer     *typeInfo
	node      *sitter.Node

	fields     map[string]string // field name -> declared type
	methods    map[string][]methodInfo
	superCache *typeInfo
	superDone  bool
}

// index is the project-wide symbol table.
type index struct {
	types     map[string]*typeInfo            // qualified name -> type
	byPackage map[string]map[string]*typeInfo // package -> simple name -> type
}

func newIndex() *index {
	return &index{
		types:     make(map[string]*typeInfo),
		byPackage: make(map[string]map[string]*typeInfo),
	}
}

// register adds every type declared in unit to the index.
func (idx *index) register(unit *sourceUnit) {
	for _, t := range unit.types {
		if _, exists := idx.types[t.qualified]; !exists {
			idx.types[t.qualified] = t
		}
		names := idx.byPackage[t.pkg]
		if names == nil {
			names = make(map[string]*typeInfo)
			idx.byPackage[t.pkg] = names
		}
		// Top-level types win over nested types sharing a simple name.
		if existing, ok := names[t.name]; !ok || (existing.outer != nil && t.outer == nil) {
			names[t.name] = t
		}
	}
}

// indexUnit reads the package, imports and type declarations of a parsed file.
func indexUnit(unit *sourceUnit) {
	unit.singles = make(map[string]string)
	for _, child := range namedChildren(unit.root) {
		switch child.Kind() {
		case "package_declaration":
			unit.pkg = packageName(child, unit.source)
		case "import_declaration":
			decl := parseImport(child, unit.source)
			if decl.name == "" {
				continue
			}
			unit.imports = append(unit.imports, decl)
			switch {
			case decl.wildcard:
				unit.wildcards = append(unit.wildcards, decl.name)
			case !decl.static:
				unit.singles[decl.lastSegment()] = decl.name
			}
		}
	}

	for _, child := range namedChildren(unit.root) {
		if typeDeclKinds[child.Kind()] {
			indexType(unit, child, nil)
		}
	}
}

func packageName(node *sitter.Node, source []byte) string {
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "identifier", "scoped_identifier":
			return strings.Join(strings.Fields(nodeText(child, source)), "")
		}
	}
	return ""
}

func parseImport(node *sitter.Node, source []byte) importDecl {
	var decl importDecl
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		switch child.Kind() {
		case "static":
			decl.static = true
		case "asterisk":
			decl.wildcard = true
		case "identifier", "scoped_identifier":
			decl.name = strings.Join(strings.Fields(nodeText(child, source)), "")
		}
	}
	return decl
}

// indexType records a type declaration and, recursively, its member types.
func indexType(unit *sourceUnit, node *sitter.Node, outer *typeInfo) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(nameNode, unit.source)

	t := &typeInfo{
		name:    name,
		pkg:     unit.pkg,
		unit:    unit,
		outer:   outer,
		node:    node,
		fields:  make(map[string]string),
		methods: make(map[string][]methodInfo),
	}
	switch {
	case outer != nil:
		t.qualified = outer.qualified + "." + name
	case unit.pkg != "":
		t.qualified = unit.pkg + "." + name
	default:
		t.qualified = name
	}
	if super := node.ChildByFieldName("superclass"); super != nil {
		// superclass: "extends" <type>
		for _, child := range namedChildren(super) {
			t.superName = nodeText(child, unit.source)
		}
	}
	unit.types = append(unit.types, t)

	for _, member := range typeMembers(node) {
		switch member.Kind() {
		case "field_declaration", "constant_declaration":
			typ := normalizeType(nodeText(member.ChildByFieldName("type"), unit.source))
			for _, decl := range fieldDeclarators(member) {
				fieldName := nodeText(decl.ChildByFieldName("name"), unit.source)
				if _, exists := t.fields[fieldName]; !exists {
					t.fields[fieldName] = typ
				}
			}
		case "method_declaration":
			info := describeMethod(member, unit.source)
			t.methods[info.name] = append(t.methods[info.name], info)
		default:
			if typeDeclKinds[member.Kind()] {
				indexType(unit, member, t)
			}
		}
	}

	// Record components behave like fields.
	if node.Kind() == "record_declaration" {
		if params := node.ChildByFieldName("parameters"); params != nil {
			for _, p := range namedChildren(params) {
				if p.Kind() != "formal_parameter" {
					continue
				}
				fieldName := nodeText(p.ChildByFieldName("name"), unit.source)
				t.fields[fieldName] = normalizeType(nodeText(p.ChildByFieldName("type"), unit.source))
			}
		}
	}
}

// typeMembers returns the member declarations in a type body.
func typeMembers(node *sitter.Node) []*sitter.Node {
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var members []*sitter.Node
	for _, child := range namedChildren(body) {
		if child.Kind() == "enum_body_declarations" {
			members = append(members, namedChildren(child)...)
			continue
		}
		members = append(members, child)
	}
	return members
}

func fieldDeclarators(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range namedChildren(node) {
		if child.Kind() == "variable_declarator" {
			out = append(out, child)
		}
	}
	return out
}

// describeMethod builds the signature of a method declaration, e.g.
// "process(String, List<Order>, int[])". Varargs are rendered as arrays.
func describeMethod(node *sitter.Node, source []byte) methodInfo {
	info := methodInfo{
		name:       nodeText(node.ChildByFieldName("name"), source),
		returnType: normalizeType(nodeText(node.ChildByFieldName("type"), source)),
	}

	var types []string
	for _, p := range parameters(node, source) {
		types = append(types, p.typ)
		if p.varargs {
			info.varargs = true
		}
	}
	info.arity = len(types)
	info.signature = info.name + "(" + strings.Join(types, ", ") + ")"
	return info
}

// param is a declared method or constructor parameter.
type param struct {
	name    string
	typ     string
	varargs bool
}

func parameters(node *sitter.Node, source []byte) []param {
	list := node.ChildByFieldName("parameters")
	if list == nil {
		return nil
	}

	var params []param
	for _, p := range namedChildren(list) {
		switch p.Kind() {
		case "formal_parameter":
			typ := normalizeType(nodeText(p.ChildByFieldName("type"), source))
			if dims := p.ChildByFieldName("dimensions"); dims != nil {
				typ += normalizeType(nodeText(dims, source))
			}
			params = append(params, param{
				name: nodeText(p.ChildByFieldName("name"), source),
				typ:  typ,
			})
		case "spread_parameter":
			sp := param{varargs: true}
			for _, child := range namedChildren(p) {
				switch child.Kind() {
				case "modifiers":
				case "variable_declarator":
					sp.name = nodeText(child.ChildByFieldName("name"), source)
				default:
					if sp.typ == "" {
						sp.typ = normalizeType(nodeText(child, source)) + "[]"
					}
				}
			}
			params = append(params, sp)
		}
	}
	return params
}
