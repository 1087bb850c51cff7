package parser

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

func isType(nodeType string) bool {
	switch nodeType {
	case "integral_type", "floating_point_type", "boolean_type", "void_type",
		"type_identifier", "scoped_type_identifier", "generic_type", "array_type",
		"annotated_type", "wildcard", "catch_type":
		return true
	default:
		return false
	}
}

// typ lowers a type node.
func (l *lowerer) typ(n sitter.Node) *syntax.Tree {
	if isMissing(n) {
		return syntax.Synthetic(syntax.Erroneous)
	}

	switch n.Type() {
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		t := l.mk(syntax.PrimitiveType, n)
		t.Name = l.text(n)

		return t
	case "type_identifier", "identifier":
		return l.name(n)
	case "scoped_type_identifier":
		t := l.mk(syntax.MemberSelect, n)

		var parts []sitter.Node

		for c := range named(n) {
			if isAnnotation(c.Type()) {
				continue
			}

			parts = append(parts, c)
		}

		if len(parts) > 0 {
			last := parts[len(parts)-1]
			t.Name = l.text(last)

			if len(parts) > 1 {
				t.Add(syntax.RoleQualifier, l.typ(parts[0]))
			}
		}

		return t
	case "scoped_identifier":
		return l.name(n)
	case "generic_type":
		t := l.mk(syntax.ParameterizedType, n)

		for c := range named(n) {
			if c.Type() == "type_arguments" {
				for a := range named(c) {
					t.Add(syntax.RoleTypeArg, l.typ(a))
				}

				continue
			}

			t.Add(syntax.RoleType, l.typ(c))
		}

		return t
	case "array_type":
		elemNode, ok := field(n, "element")
		if !ok {
			return l.other(n)
		}

		elem := l.typ(elemNode)
		if dims, found := field(n, "dimensions"); found {
			return l.wrapDims(elem, dims)
		}

		return elem
	case "annotated_type":
		t := l.mk(syntax.AnnotatedType, n)

		for c := range named(n) {
			if isAnnotation(c.Type()) {
				t.Add(syntax.RoleAnnotation, l.annotation(c))

				continue
			}

			t.Add(syntax.RoleType, l.typ(c))
		}

		return t
	case "wildcard":
		t := l.mk(syntax.Wildcard, n)

		for c := range tokens(n) {
			switch {
			case c.Type() == "extends":
				t.Flags |= syntax.FlagExtendsBound
			case c.Type() == "super":
				t.Flags |= syntax.FlagSuperBound
			case isAnnotation(c.Type()):
				t.Add(syntax.RoleAnnotation, l.annotation(c))
			case c.IsNamed():
				t.Add(syntax.RoleBound, l.typ(c))
			}
		}

		return t
	case "catch_type":
		var alternatives []*syntax.Tree

		for c := range named(n) {
			alternatives = append(alternatives, l.typ(c))
		}

		if len(alternatives) == 1 {
			return alternatives[0]
		}

		t := l.mk(syntax.UnionType, n)
		for _, alt := range alternatives {
			t.Add(syntax.RoleComponent, alt)
		}

		return t
	case nodeTypeError:
		return l.erroneous(n)
	default:
		return l.expr(n)
	}
}

// bracketEnds returns the end offset of every closing bracket in a
// dimensions node.
func bracketEnds(dims sitter.Node) []int {
	var ends []int

	for c := range tokens(dims) {
		if !c.IsNamed() && c.Type() == "]" {
			ends = append(ends, int(c.EndByte()))
		}
	}

	return ends
}

// wrapDims nests elem in one array type per bracket pair.
func (l *lowerer) wrapDims(elem *syntax.Tree, dims sitter.Node) *syntax.Tree {
	for _, end := range bracketEnds(dims) {
		pos := elem.Pos
		if elem.IsSynthetic() {
			pos = end - len("[]")
		}

		elem = syntax.New(syntax.ArrayType, pos, end).Add(syntax.RoleType, elem)
	}

	return elem
}
