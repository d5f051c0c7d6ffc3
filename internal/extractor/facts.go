package extractor

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/pkghome/internal/entity"
)

// excludedImportPrefix names the collection library namespace, which never
// counts as a used import.
const excludedImportPrefix = "java.util"

// boilerplateNames are methods that are always boilerplate.
var boilerplateNames = map[string]bool{
	"toString": true,
	"hashCode": true,
	"equals":   true,
}

// orderedSet keeps first-seen order of unique values.
type orderedSet[T comparable] struct {
	seen  map[T]struct{}
	items []T
}

func (s *orderedSet[T]) add(v T) {
	if s.seen == nil {
		s.seen = make(map[T]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

// unitFacts produces the facts of a single indexed source unit.
func (r *resolver) unitFacts(unit *sourceUnit) *FileFacts {
	facts := &FileFacts{
		FilePath:    unit.path,
		PackageName: unit.pkg,
		UsedImports: usedImports(unit),
	}

	var calls orderedSet[string]
	for _, t := range unit.types {
		for _, member := range typeMembers(t.node) {
			switch member.Kind() {
			case "field_declaration", "constant_declaration":
				typ := normalizeType(nodeText(member.ChildByFieldName("type"), unit.source))
				for _, decl := range fieldDeclarators(member) {
					name := nodeText(decl.ChildByFieldName("name"), unit.source)
					facts.Declared = append(facts.Declared, entity.Field(t.pkg, typ, name))
				}
				r.collectCalls(member, r.newScope(unit, t, nil), &calls)

			case "method_declaration":
				info := describeMethod(member, unit.source)
				self := entity.Method(t.pkg, info.name, info.signature)
				facts.Declared = append(facts.Declared, self)

				sc := r.newScope(unit, t, member)
				r.collectCalls(member, sc, &calls)

				start, end := lineRange(member)
				facts.Methods = append(facts.Methods, MethodFacts{
					Entity:      self,
					Boilerplate: isBoilerplate(info.name, member),
					StartLine:   start,
					EndLine:     end,
					References:  r.references(member, sc),
				})

			case "constructor_declaration", "compact_constructor_declaration",
				"static_initializer", "block":
				r.collectCalls(member, r.newScope(unit, t, member), &calls)
			}
		}
	}
	facts.CallPackages = calls.items
	return facts
}

// usedImports returns the imports whose simple name occurs as an identifier
// inside a type declaration. Wildcard imports always count as used.
func usedImports(unit *sourceUnit) []string {
	identifiers := make(map[string]bool)
	for _, child := range namedChildren(unit.root) {
		if !typeDeclKinds[child.Kind()] {
			continue
		}
		walkTree(child, func(n *sitter.Node) bool {
			switch n.Kind() {
			case "identifier", "type_identifier":
				identifiers[nodeText(n, unit.source)] = true
			}
			return true
		})
	}

	var used orderedSet[string]
	for _, decl := range unit.imports {
		if decl.name == excludedImportPrefix || strings.HasPrefix(decl.name, excludedImportPrefix+".") {
			continue
		}
		if decl.wildcard || identifiers[decl.lastSegment()] {
			used.add(decl.name)
		}
	}
	return used.items
}

// newScope builds the scope for expressions inside member. A nil member
// yields a scope with no locals.
func (r *resolver) newScope(unit *sourceUnit, class *typeInfo, member *sitter.Node) *scope {
	sc := &scope{
		unit:     unit,
		class:    class,
		locals:   make(map[string]string),
		inferred: make(map[string]*sitter.Node),
	}
	if member == nil {
		return sc
	}

	src := unit.source
	declare := func(name, typ string, value *sitter.Node) {
		if name == "" {
			return
		}
		sc.locals[name] = typ
		if baseTypeName(typ) == "var" && value != nil {
			sc.inferred[name] = value
		}
	}

	for _, p := range parameters(member, src) {
		declare(p.name, p.typ, nil)
	}
	walkTree(member.ChildByFieldName("body"), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "local_variable_declaration":
			typ := nodeText(n.ChildByFieldName("type"), src)
			for _, decl := range fieldDeclarators(n) {
				declare(nodeText(decl.ChildByFieldName("name"), src), typ, decl.ChildByFieldName("value"))
			}
		case "formal_parameter", "resource", "enhanced_for_statement":
			declare(nodeText(n.ChildByFieldName("name"), src), nodeText(n.ChildByFieldName("type"), src), nil)
		case "catch_formal_parameter":
			typ := nodeText(findChildByType(n, "catch_type"), src)
			if alt, _, ok := strings.Cut(typ, "|"); ok {
				typ = alt
			}
			declare(nodeText(n.ChildByFieldName("name"), src), typ, nil)
		case "instanceof_expression":
			if name := n.ChildByFieldName("name"); name != nil {
				declare(nodeText(name, src), nodeText(n.ChildByFieldName("right"), src), nil)
			}
		}
		return true
	})
	// Initializer blocks have no body field.
	if member.Kind() == "block" || member.Kind() == "static_initializer" {
		walkTree(member, func(n *sitter.Node) bool {
			if n.Kind() == "local_variable_declaration" {
				typ := nodeText(n.ChildByFieldName("type"), src)
				for _, decl := range fieldDeclarators(n) {
					declare(nodeText(decl.ChildByFieldName("name"), src), typ, decl.ChildByFieldName("value"))
				}
			}
			return true
		})
	}
	return sc
}

// collectCalls records the packages of typed receivers of method calls and
// field accesses inside node.
func (r *resolver) collectCalls(node *sitter.Node, sc *scope, calls *orderedSet[string]) {
	walkTree(node, func(n *sitter.Node) bool {
		var object *sitter.Node
		switch n.Kind() {
		case "method_invocation", "field_access":
			object = n.ChildByFieldName("object")
		}
		if object != nil {
			if ref := r.exprType(object, sc, 0); ref.valid() {
				calls.add(ref.pkg)
			}
		}
		return true
	})
}

// references returns the project entities a method invokes or whose fields
// it accesses.
func (r *resolver) references(method *sitter.Node, sc *scope) []entity.Entity {
	var refs orderedSet[entity.Entity]
	walkTree(method.ChildByFieldName("body"), func(n *sitter.Node) bool {
		switch n.Kind() {
		case "method_invocation":
			if m, owner, ok := r.resolveInvocation(n, sc, 0); ok {
				refs.add(entity.Method(owner.pkg, m.name, m.signature))
			}
		case "field_access":
			target := r.exprType(n.ChildByFieldName("object"), sc, 0)
			if target.info == nil {
				break
			}
			name := nodeText(n.ChildByFieldName("field"), sc.unit.source)
			if typ, owner, ok := r.findField(target.info, name); ok {
				refs.add(entity.Field(owner.pkg, typ, name))
			}
		}
		return true
	})
	return refs.items
}

// isBoilerplate reports whether a method is a trivial accessor or one of the
// standard object methods.
func isBoilerplate(name string, method *sitter.Node) bool {
	if boilerplateNames[name] {
		return true
	}

	getter := strings.HasPrefix(name, "get") || strings.HasPrefix(name, "is")
	setter := strings.HasPrefix(name, "set")
	if !getter && !setter {
		return false
	}

	stmts := namedChildren(method.ChildByFieldName("body"))
	if len(stmts) != 1 {
		return false
	}
	stmt := stmts[0]

	if getter && stmt.Kind() == "return_statement" {
		values := namedChildren(stmt)
		if len(values) != 1 {
			return false
		}
		switch values[0].Kind() {
		case "field_access", "identifier":
			return true
		}
		return false
	}

	if setter && stmt.Kind() == "expression_statement" {
		exprs := namedChildren(stmt)
		if len(exprs) != 1 || exprs[0].Kind() != "assignment_expression" {
			return false
		}
		left := exprs[0].ChildByFieldName("left")
		return left != nil && left.Kind() == "field_access"
	}
	return false
}
