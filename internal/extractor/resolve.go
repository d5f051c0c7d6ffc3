package extractor

import (
	"strings"

	"github.com/maypok86/otter"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaLang lists the implicitly imported java.lang types that commonly
// appear as call receivers.
var javaLang = map[string]bool{
	"Boolean": true, "Byte": true, "Character": true, "Class": true,
	"Double": true, "Enum": true, "Exception": true, "Float": true,
	"Integer": true, "Iterable": true, "Long": true, "Math": true,
	"Number": true, "Object": true, "Runnable": true, "RuntimeException": true,
	"Short": true, "String": true, "StringBuilder": true, "StringBuffer": true,
	"System": true, "Thread": true, "Throwable": true, "Void": true,
}

// typeRef is a resolved reference type. info is set for project types.
type typeRef struct {
	qualified string
	pkg       string
	info      *typeInfo
}

func (r typeRef) valid() bool {
	return r.qualified != ""
}

func projectRef(t *typeInfo) typeRef {
	if t == nil {
		return typeRef{}
	}
	return typeRef{qualified: t.qualified, pkg: t.pkg, info: t}
}

func externalRef(qualified string) typeRef {
	i := strings.LastIndexByte(qualified, '.')
	if i < 0 {
		return typeRef{}
	}
	return typeRef{qualified: qualified, pkg: qualified[:i]}
}

// resolver types expressions against the project index.
type resolver struct {
	idx      *index
	maxDepth int

	// types memoizes resolveType; the index is immutable once built.
	types otter.Cache[typeKey, typeRef]
}

type typeKey struct {
	unit      string
	enclosing string
	text      string
}

func newResolver(idx *index, maxDepth, cacheSize int) (*resolver, error) {
	cache, err := otter.MustBuilder[typeKey, typeRef](cacheSize).Build()
	if err != nil {
		return nil, err
	}
	return &resolver{idx: idx, maxDepth: maxDepth, types: cache}, nil
}

func (r *resolver) close() {
	r.types.Close()
}

// scope is the lexical context of an expression.
type scope struct {
	unit   *sourceUnit
	class  *typeInfo
	locals map[string]string // variable name -> declared type

	// inferred maps "var" locals to their initializer.
	inferred map[string]*sitter.Node
}

// resolveType resolves a written type name as seen from unit and enclosing.
func (r *resolver) resolveType(unit *sourceUnit, enclosing *typeInfo, text string) typeRef {
	key := typeKey{unit: unit.path, text: text}
	if enclosing != nil {
		key.enclosing = enclosing.qualified
	}
	if ref, ok := r.types.Get(key); ok {
		return ref
	}

	ref := r.lookupType(unit, enclosing, text)
	r.types.Set(key, ref)
	return ref
}

func (r *resolver) lookupType(unit *sourceUnit, enclosing *typeInfo, text string) typeRef {
	name := baseTypeName(text)
	if name == "" || primitiveTypes[name] {
		return typeRef{}
	}

	if strings.Contains(name, ".") {
		if t, ok := r.idx.types[name]; ok {
			return projectRef(t)
		}
		// Outer.Inner written relative to an imported or local type.
		head, rest, _ := strings.Cut(name, ".")
		if outer := r.resolveType(unit, enclosing, head); outer.valid() {
			if t, ok := r.idx.types[outer.qualified+"."+rest]; ok {
				return projectRef(t)
			}
			if outer.info == nil {
				return externalRef(outer.qualified + "." + rest)
			}
		}
		return externalRef(name)
	}

	// Member types of the enclosing types.
	for t := enclosing; t != nil; t = t.outer {
		if nested, ok := r.idx.types[t.qualified+"."+name]; ok {
			return projectRef(nested)
		}
		if t.name == name {
			return projectRef(t)
		}
	}

	if qualified, ok := unit.singles[name]; ok {
		if t, ok := r.idx.types[qualified]; ok {
			return projectRef(t)
		}
		return externalRef(qualified)
	}

	if t, ok := r.idx.byPackage[unit.pkg][name]; ok {
		return projectRef(t)
	}

	for _, w := range unit.wildcards {
		if t, ok := r.idx.byPackage[w][name]; ok {
			return projectRef(t)
		}
		if t, ok := r.idx.types[w+"."+name]; ok {
			return projectRef(t)
		}
	}

	if javaLang[name] {
		return externalRef("java.lang." + name)
	}
	return typeRef{}
}

// superOf resolves the superclass of t within the project.
func (r *resolver) superOf(t *typeInfo) *typeInfo {
	if t == nil {
		return nil
	}
	if !t.superDone {
		t.superDone = true
		if t.superName != "" {
			ref := r.resolveType(t.unit, t.outer, t.superName)
			if ref.info != t {
				t.superCache = ref.info
			}
		}
	}
	return t.superCache
}

// findField looks up a field in t and its project superclasses.
func (r *resolver) findField(t *typeInfo, name string) (string, *typeInfo, bool) {
	seen := make(map[*typeInfo]bool)
	for cur := t; cur != nil && !seen[cur]; cur = r.superOf(cur) {
		seen[cur] = true
		if typ, ok := cur.fields[name]; ok {
			return typ, cur, true
		}
	}
	return "", nil, false
}

// findMethod selects an overload by name and arity in t and its project
// superclasses. The first declared exact match wins, then the first varargs
// method that accepts the arity.
func (r *resolver) findMethod(t *typeInfo, name string, arity int) (methodInfo, *typeInfo, bool) {
	seen := make(map[*typeInfo]bool)
	for cur := t; cur != nil && !seen[cur]; cur = r.superOf(cur) {
		seen[cur] = true
		candidates := cur.methods[name]
		for _, m := range candidates {
			if m.arity == arity && !m.varargs {
				return m, cur, true
			}
		}
		for _, m := range candidates {
			if m.varargs && arity >= m.arity-1 {
				return m, cur, true
			}
			if m.arity == arity {
				return m, cur, true
			}
		}
	}
	return methodInfo{}, nil, false
}

// exprType computes the static type of an expression. Anything that cannot
// be typed within maxDepth nested expressions yields an invalid typeRef.
func (r *resolver) exprType(node *sitter.Node, sc *scope, depth int) typeRef {
	if node == nil || depth > r.maxDepth {
		return typeRef{}
	}
	src := sc.unit.source

	switch node.Kind() {
	case "this":
		return projectRef(sc.class)

	case "super":
		return projectRef(r.superOf(sc.class))

	case "identifier":
		name := nodeText(node, src)
		if typ, ok := sc.locals[name]; ok {
			if value, inferred := sc.inferred[name]; inferred {
				return r.exprType(value, sc, depth+1)
			}
			return r.resolveType(sc.unit, sc.class, typ)
		}
		for outer := sc.class; outer != nil; outer = outer.outer {
			if typ, owner, ok := r.findField(outer, name); ok {
				return r.resolveType(owner.unit, owner, typ)
			}
		}
		// Static reference through a type name.
		return r.resolveType(sc.unit, sc.class, name)

	case "field_access":
		object := node.ChildByFieldName("object")
		fieldName := nodeText(node.ChildByFieldName("field"), src)
		target := r.exprType(object, sc, depth+1)
		if target.info != nil {
			if typ, owner, ok := r.findField(target.info, fieldName); ok {
				return r.resolveType(owner.unit, owner, typ)
			}
			// Nested type accessed through its outer type.
			if t, ok := r.idx.types[target.qualified+"."+fieldName]; ok {
				return projectRef(t)
			}
			return typeRef{}
		}
		if !target.valid() {
			// Fully qualified type name such as com.app.Util.
			return r.qualifiedName(nodeText(node, src))
		}
		return typeRef{}

	case "method_invocation":
		m, owner, ok := r.resolveInvocation(node, sc, depth)
		if !ok {
			return typeRef{}
		}
		return r.resolveType(owner.unit, owner, m.returnType)

	case "object_creation_expression":
		return r.resolveType(sc.unit, sc.class, nodeText(node.ChildByFieldName("type"), src))

	case "cast_expression":
		return r.resolveType(sc.unit, sc.class, nodeText(node.ChildByFieldName("type"), src))

	case "parenthesized_expression":
		children := namedChildren(node)
		if len(children) == 0 {
			return typeRef{}
		}
		return r.exprType(children[0], sc, depth+1)

	case "array_access":
		return r.exprType(node.ChildByFieldName("array"), sc, depth+1)

	case "string_literal":
		return externalRef("java.lang.String")

	case "scoped_identifier", "scoped_type_identifier", "type_identifier":
		return r.resolveType(sc.unit, sc.class, nodeText(node, src))
	}
	return typeRef{}
}

// resolveInvocation finds the project method a call binds to. Calls without
// an explicit receiver search the enclosing class, then its outer classes.
func (r *resolver) resolveInvocation(node *sitter.Node, sc *scope, depth int) (methodInfo, *typeInfo, bool) {
	name := nodeText(node.ChildByFieldName("name"), sc.unit.source)
	arity := argumentCount(node)

	object := node.ChildByFieldName("object")
	if object == nil {
		for t := sc.class; t != nil; t = t.outer {
			if m, owner, ok := r.findMethod(t, name, arity); ok {
				return m, owner, true
			}
		}
		return methodInfo{}, nil, false
	}

	target := r.exprType(object, sc, depth+1)
	if target.info == nil {
		return methodInfo{}, nil, false
	}
	return r.findMethod(target.info, name, arity)
}

// qualifiedName resolves a dotted expression naming a project type directly.
func (r *resolver) qualifiedName(text string) typeRef {
	name := strings.Join(strings.Fields(text), "")
	if t, ok := r.idx.types[name]; ok {
		return projectRef(t)
	}
	return typeRef{}
}

func argumentCount(node *sitter.Node) int {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return 0
	}
	return len(namedChildren(args))
}
