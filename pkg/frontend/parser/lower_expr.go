package parser

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

//nolint:gochecknoglobals // Grammar table.
var literalKinds = map[string]syntax.LiteralKind{
	"decimal_integer_literal":        syntax.LitInt,
	"hex_integer_literal":            syntax.LitInt,
	"octal_integer_literal":          syntax.LitInt,
	"binary_integer_literal":         syntax.LitInt,
	"decimal_floating_point_literal": syntax.LitDouble,
	"hex_floating_point_literal":     syntax.LitDouble,
	"true":                           syntax.LitBoolean,
	"false":                          syntax.LitBoolean,
	"character_literal":              syntax.LitChar,
	"string_literal":                 syntax.LitString,
	"text_block":                     syntax.LitTextBlock,
	"null_literal":                   syntax.LitNull,
}

func (l *lowerer) literal(n sitter.Node, kind syntax.LiteralKind) *syntax.Tree {
	t := l.mk(syntax.Literal, n)
	t.Name = l.text(n)

	suffix := ""
	if t.Name != "" {
		suffix = strings.ToLower(t.Name[len(t.Name)-1:])
	}

	switch {
	case kind == syntax.LitInt && suffix == "l":
		kind = syntax.LitLong
	case kind == syntax.LitDouble && suffix == "f":
		kind = syntax.LitFloat
	}

	t.Lit = kind

	return t
}

// expr lowers an expression node.
//
//nolint:cyclop,funlen,gocognit // One arm per expression production.
func (l *lowerer) expr(n sitter.Node) *syntax.Tree {
	if lit, ok := literalKinds[n.Type()]; ok {
		return l.literal(n, lit)
	}

	if isMissing(n) {
		return syntax.Synthetic(syntax.Erroneous)
	}

	switch n.Type() {
	case "identifier", "this", "super", "type_identifier":
		t := l.mk(syntax.Identifier, n)
		t.Name = l.text(n)

		return t
	case "parenthesized_expression":
		t := l.mk(syntax.Parenthesized, n)
		for c := range named(n) {
			t.Add(syntax.RoleExpr, l.expr(c))
		}

		return t
	case "class_literal":
		t := l.mk(syntax.MemberSelect, n)
		t.Name = "class"

		for c := range named(n) {
			t.Add(syntax.RoleQualifier, l.typ(c))
		}

		return t
	case "field_access":
		return l.fieldAccess(n)
	case "array_access":
		t := l.mk(syntax.ArrayAccess, n)
		l.addField(t, syntax.RoleExpr, n, "array", l.expr)
		l.addField(t, syntax.RoleIndex, n, "index", l.expr)

		return t
	case "method_invocation":
		return l.methodInvocation(n)
	case "object_creation_expression":
		return l.newClass(n)
	case "array_creation_expression":
		return l.newArray(n)
	case "array_initializer":
		t := l.mk(syntax.NewArray, n)
		for c := range named(n) {
			t.Add(syntax.RoleElem, l.expr(c))
		}

		return t
	case "lambda_expression":
		return l.lambda(n)
	case "method_reference":
		return l.memberReference(n)
	case "assignment_expression":
		kind := syntax.CompoundAssignment

		op := "="
		if opNode, ok := field(n, "operator"); ok {
			op = l.text(opNode)
		}

		if op == "=" {
			kind = syntax.Assignment
		}

		t := l.mk(kind, n)
		t.Op = op
		l.addField(t, syntax.RoleLeft, n, "left", l.expr)
		l.addField(t, syntax.RoleRight, n, "right", l.expr)

		return t
	case "binary_expression":
		t := l.mk(syntax.Binary, n)
		if opNode, ok := field(n, "operator"); ok {
			t.Op = l.text(opNode)
		}

		l.addField(t, syntax.RoleLeft, n, "left", l.expr)
		l.addField(t, syntax.RoleRight, n, "right", l.expr)

		return t
	case "unary_expression":
		t := l.mk(syntax.Unary, n)
		if opNode, ok := field(n, "operator"); ok {
			t.Op = l.text(opNode)
		}

		l.addField(t, syntax.RoleExpr, n, "operand", l.expr)

		return t
	case "update_expression":
		t := l.mk(syntax.Unary, n)
		operandFirst := false

		for c := range tokens(n) {
			if c.IsNamed() {
				if t.Op == "" {
					operandFirst = true
				}

				t.Add(syntax.RoleExpr, l.expr(c))

				continue
			}

			t.Op = c.Type()
		}

		if operandFirst {
			t.Flags |= syntax.FlagPostfix
		}

		return t
	case "ternary_expression":
		t := l.mk(syntax.Conditional, n)
		l.addField(t, syntax.RoleCond, n, "condition", l.expr)
		l.addField(t, syntax.RoleThen, n, "consequence", l.expr)
		l.addField(t, syntax.RoleElse, n, "alternative", l.expr)

		return t
	case "cast_expression":
		return l.cast(n)
	case "instanceof_expression":
		return l.instanceOf(n)
	case "switch_expression":
		return l.switchTree(syntax.SwitchExpression, n)
	case "element_value_array_initializer", "annotation", "marker_annotation":
		return l.elementValue(n)
	case nodeTypeError:
		return l.erroneous(n)
	default:
		if isType(n.Type()) {
			return l.typ(n)
		}

		if isStatement(n.Type()) || isDeclaration(n.Type()) {
			return l.any(n)
		}

		return l.other(n)
	}
}

// selectOn builds "qualifier.name" spanning from the qualifier to nameEnd.
func selectOn(qualifier *syntax.Tree, name string, nameEnd int) *syntax.Tree {
	pos := qualifier.Pos
	if qualifier.IsSynthetic() {
		pos = nameEnd - len(name)
	}

	t := syntax.New(syntax.MemberSelect, pos, nameEnd)
	t.Name = name

	return t.Add(syntax.RoleQualifier, qualifier)
}

// qualifier lowers the object of a field access or call, including the
// "Outer.super" form that the grammar keeps as a trailing super token.
func (l *lowerer) qualifier(n sitter.Node) *syntax.Tree {
	object, ok := field(n, "object")
	if !ok {
		return nil
	}

	q := l.expr(object)

	for c := range named(n) {
		if c.Type() == "super" && c.StartByte() > object.StartByte() {
			q = selectOn(q, superName, int(c.EndByte()))
		}
	}

	return q
}

func (l *lowerer) fieldAccess(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.MemberSelect, n)
	if f, ok := field(n, "field"); ok {
		t.Name = l.text(f)
	}

	return t.Add(syntax.RoleQualifier, l.qualifier(n))
}

func (l *lowerer) methodInvocation(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.MethodInvocation, n)

	if targs, ok := field(n, "type_arguments"); ok {
		for a := range named(targs) {
			t.Add(syntax.RoleTypeArg, l.typ(a))
		}
	}

	nameNode, hasName := field(n, "name")

	var callee *syntax.Tree

	switch q := l.qualifier(n); {
	case q != nil && hasName:
		callee = selectOn(q, l.text(nameNode), int(nameNode.EndByte()))
	case hasName:
		callee = l.mk(syntax.Identifier, nameNode)
		callee.Name = l.text(nameNode)
	default:
		callee = syntax.Synthetic(syntax.Erroneous)
	}

	t.Add(syntax.RoleExpr, callee)

	if args, ok := field(n, "arguments"); ok {
		for a := range named(args) {
			t.Add(syntax.RoleArg, l.expr(a))
		}
	}

	return t
}

func (l *lowerer) newClass(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.NewClass, n)

	seenNew := false

	for c := range tokens(n) {
		if !c.IsNamed() {
			if c.Type() == "new" {
				seenNew = true
			}

			continue
		}

		if !seenNew {
			t.Add(syntax.RoleEnclosing, l.expr(c))

			continue
		}

		switch c.Type() {
		case "type_arguments":
			for a := range named(c) {
				t.Add(syntax.RoleTypeArg, l.typ(a))
			}
		case "argument_list":
			for a := range named(c) {
				t.Add(syntax.RoleArg, l.expr(a))
			}
		case "class_body":
			anon := l.mk(syntax.Class, c)
			anon.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))
			l.classBody(anon, c)
			addAnonymousConstructor(anon, len(t.All(syntax.RoleArg)))
			t.Add(syntax.RoleBody, anon)
		default:
			if isAnnotation(c.Type()) {
				t.Add(syntax.RoleAnnotation, l.annotation(c))

				continue
			}

			t.Add(syntax.RoleType, l.typ(c))
		}
	}

	return t
}

func (l *lowerer) newArray(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.NewArray, n)

	var (
		elem       *syntax.Tree
		extraDims  []sitter.Node
		dimsExprs  []*syntax.Tree
		initialize *syntax.Tree
	)

	for c := range named(n) {
		switch c.Type() {
		case "dimensions_expr":
			for e := range named(c) {
				if !isAnnotation(e.Type()) {
					dimsExprs = append(dimsExprs, l.expr(e))
				}
			}
		case "dimensions":
			extraDims = append(extraDims, c)
		case "array_initializer":
			initialize = l.expr(c)
		default:
			if isAnnotation(c.Type()) {
				t.Add(syntax.RoleAnnotation, l.annotation(c))

				continue
			}

			elem = l.typ(c)
		}
	}

	// With an initializer the last bracket pair belongs to the array itself.
	for _, d := range extraDims {
		ends := bracketEnds(d)
		if initialize != nil && len(dimsExprs) == 0 && len(ends) > 0 {
			ends = ends[:len(ends)-1]
		}

		for _, end := range ends {
			if elem != nil {
				elem = syntax.New(syntax.ArrayType, elem.Pos, end).Add(syntax.RoleType, elem)
			}
		}
	}

	t.Add(syntax.RoleType, elem)

	for _, d := range dimsExprs {
		t.Add(syntax.RoleDim, d)
	}

	if initialize != nil {
		for role, e := range initialize.Slots() {
			t.Add(role, e)
		}
	}

	return t
}

func (l *lowerer) lambda(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Lambda, n)

	if params, ok := field(n, "parameters"); ok {
		switch params.Type() {
		case "identifier":
			t.Add(syntax.RoleParam, l.implicitParam(params))
		case "inferred_parameters":
			for p := range named(params) {
				t.Add(syntax.RoleParam, l.implicitParam(p))
			}
		default:
			for p := range named(params) {
				t.Add(syntax.RoleParam, l.parameter(p))
			}
		}
	}

	if body, ok := field(n, "body"); ok {
		if body.Type() == "block" {
			t.Add(syntax.RoleBody, l.block(body))
		} else {
			t.Add(syntax.RoleBody, l.expr(body))
		}
	}

	return t
}

func (l *lowerer) implicitParam(n sitter.Node) *syntax.Tree {
	v := l.mk(syntax.Variable, n)
	v.Name = l.text(n)
	v.Flags |= syntax.FlagImplicitType

	return v.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))
}

func (l *lowerer) memberReference(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.MemberReference, n)
	first := true

	for c := range tokens(n) {
		switch {
		case !c.IsNamed() && c.Type() == "new":
			t.Name = ConstructorName
			t.Flags |= syntax.FlagConstructorRef
		case !c.IsNamed():
		case first:
			first = false

			if isType(c.Type()) {
				t.Add(syntax.RoleQualifier, l.typ(c))
			} else {
				t.Add(syntax.RoleQualifier, l.expr(c))
			}
		case c.Type() == "type_arguments":
			for a := range named(c) {
				t.Add(syntax.RoleTypeArg, l.typ(a))
			}
		default:
			t.Name = l.text(c)
		}
	}

	return t
}

func (l *lowerer) cast(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.TypeCast, n)
	value, hasValue := field(n, "value")

	var types []*syntax.Tree

	for c := range named(n) {
		if hasValue && c.StartByte() == value.StartByte() && c.EndByte() == value.EndByte() {
			break
		}

		types = append(types, l.typ(c))
	}

	switch len(types) {
	case 0:
	case 1:
		t.Add(syntax.RoleType, types[0])
	default:
		inter := syntax.New(syntax.IntersectionType, types[0].Pos, types[len(types)-1].End)
		for _, component := range types {
			inter.Add(syntax.RoleComponent, component)
		}

		t.Add(syntax.RoleType, inter)
	}

	if hasValue {
		t.Add(syntax.RoleExpr, l.expr(value))
	}

	return t
}

func (l *lowerer) instanceOf(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.InstanceOf, n)
	l.addField(t, syntax.RoleExpr, n, "left", l.expr)

	if pattern, ok := field(n, "pattern"); ok {
		return t.Add(syntax.RoleType, l.pattern(pattern))
	}

	right, ok := field(n, "right")
	if !ok {
		return t
	}

	vartype := l.typ(right)

	nameNode, hasName := field(n, "name")
	if !hasName {
		return t.Add(syntax.RoleType, vartype)
	}

	binding := syntax.New(syntax.BindingPattern, vartype.Pos, int(nameNode.EndByte()))
	v := syntax.New(syntax.Variable, vartype.Pos, int(nameNode.EndByte()))
	v.Name = l.text(nameNode)

	if hasToken(n, "final") {
		v.Flags |= syntax.FlagFinal
	}

	v.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))
	v.Add(syntax.RoleType, vartype)

	return t.Add(syntax.RoleType, binding.Add(syntax.RoleExpr, v))
}
