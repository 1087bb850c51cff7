package parser

import (
	"iter"
	"strconv"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// Names of the implicit members the lowering generates.
const (
	ConstructorName = "<init>"
	superName       = "super"
)

// lowerer converts one tree-sitter tree into syntax trees. Wrapper
// productions of the grammar (bodies, parameter and argument lists) are
// flattened into their owner.
type lowerer struct {
	src []byte
}

func (l *lowerer) text(n sitter.Node) string {
	return string(l.src[n.StartByte():n.EndByte()])
}

func (l *lowerer) mk(kind syntax.Kind, n sitter.Node) *syntax.Tree {
	return syntax.New(kind, int(n.StartByte()), int(n.EndByte()))
}

func isComment(n sitter.Node) bool {
	t := n.Type()

	return t == "line_comment" || t == "block_comment"
}

// named yields the named, non-comment children of n.
func named(n sitter.Node) iter.Seq[sitter.Node] {
	return func(yield func(sitter.Node) bool) {
		for i := range n.ChildCount() {
			c := n.Child(i)
			if !c.IsNamed() || isComment(c) {
				continue
			}

			if !yield(c) {
				return
			}
		}
	}
}

// tokens yields every child of n, anonymous tokens included, minus comments.
func tokens(n sitter.Node) iter.Seq[sitter.Node] {
	return func(yield func(sitter.Node) bool) {
		for i := range n.ChildCount() {
			c := n.Child(i)
			if isComment(c) {
				continue
			}

			if !yield(c) {
				return
			}
		}
	}
}

func field(n sitter.Node, name string) (sitter.Node, bool) {
	c := n.ChildByFieldName(name)

	return c, !c.IsNull()
}

func firstOfType(n sitter.Node, types ...string) (sitter.Node, bool) {
	for c := range named(n) {
		for _, t := range types {
			if c.Type() == t {
				return c, true
			}
		}
	}

	return sitter.Node{}, false
}

func hasToken(n sitter.Node, token string) bool {
	for c := range tokens(n) {
		if !c.IsNamed() && c.Type() == token {
			return true
		}
	}

	return false
}

// isMissing reports a zero-width leaf the parser inserted during recovery.
func isMissing(n sitter.Node) bool {
	return n.ChildCount() == 0 && n.StartByte() == n.EndByte()
}

func (l *lowerer) erroneous(n sitter.Node) *syntax.Tree {
	if isMissing(n) {
		return syntax.Synthetic(syntax.Erroneous)
	}

	t := l.mk(syntax.Erroneous, n)
	for c := range named(n) {
		t.Add(syntax.RoleNone, l.any(c))
	}

	return t
}

// any lowers a node whose syntactic category is not fixed by its context.
func (l *lowerer) any(n sitter.Node) *syntax.Tree {
	switch {
	case n.Type() == nodeTypeError:
		return l.erroneous(n)
	case isDeclaration(n.Type()):
		return l.declaration(n)
	case isStatement(n.Type()):
		trees := l.statements(n)
		if len(trees) == 1 {
			return trees[0]
		}

		t := l.mk(syntax.Other, n)
		for _, s := range trees {
			t.Add(syntax.RoleNone, s)
		}

		return t
	case isType(n.Type()):
		return l.typ(n)
	default:
		return l.expr(n)
	}
}

func (l *lowerer) other(n sitter.Node) *syntax.Tree {
	if isMissing(n) {
		return syntax.Synthetic(syntax.Erroneous)
	}

	t := l.mk(syntax.Other, n)
	for c := range named(n) {
		t.Add(syntax.RoleNone, l.any(c))
	}

	return t
}

func (l *lowerer) unit(root sitter.Node) *syntax.Tree {
	cu := l.mk(syntax.CompilationUnit, root)

	for c := range named(root) {
		switch c.Type() {
		case "package_declaration":
			cu.Add(syntax.RolePackage, l.packageDecl(c))
		case "import_declaration":
			cu.Add(syntax.RoleImport, l.importDecl(c))
		case "module_declaration":
			cu.Add(syntax.RoleMember, l.moduleDecl(c))
		default:
			for _, t := range l.members(c) {
				cu.Add(syntax.RoleMember, t)
			}
		}
	}

	return cu
}

func (l *lowerer) packageDecl(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Package, n)

	for c := range named(n) {
		if isAnnotation(c.Type()) {
			t.Add(syntax.RoleAnnotation, l.annotation(c))

			continue
		}

		t.Add(syntax.RoleQualifier, l.name(c))
	}

	return t
}

func (l *lowerer) importDecl(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Import, n)
	if hasToken(n, "static") {
		t.Flags |= syntax.FlagStatic
	}

	var qualid *syntax.Tree

	for c := range named(n) {
		switch c.Type() {
		case "asterisk":
			t.Flags |= syntax.FlagOnDemand

			star := syntax.New(syntax.MemberSelect, qualid.Pos, int(c.EndByte()))
			star.Name = "*"
			star.Add(syntax.RoleQualifier, qualid)
			qualid = star
		default:
			qualid = l.name(c)
		}
	}

	return t.Add(syntax.RoleQualifier, qualid)
}

func (l *lowerer) moduleDecl(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Module, n)

	for c := range named(n) {
		switch {
		case isAnnotation(c.Type()):
			t.Add(syntax.RoleAnnotation, l.annotation(c))
		case c.Type() == "module_body":
			for d := range named(c) {
				t.Add(syntax.RoleDirective, l.directive(d))
			}
		default:
			t.Add(syntax.RoleQualifier, l.name(c))
		}
	}

	return t
}

//nolint:gochecknoglobals // Grammar table.
var directiveKinds = map[string]syntax.Kind{
	"requires_module_directive": syntax.Requires,
	"exports_module_directive":  syntax.Exports,
	"opens_module_directive":    syntax.Opens,
	"uses_module_directive":     syntax.Uses,
	"provides_module_directive": syntax.Provides,
}

func (l *lowerer) directive(n sitter.Node) *syntax.Tree {
	kind, ok := directiveKinds[n.Type()]
	if !ok {
		return l.any(n)
	}

	t := l.mk(kind, n)
	for c := range named(n) {
		if c.Type() == "requires_modifier" {
			continue
		}

		t.Add(syntax.RoleQualifier, l.name(c))
	}

	return t
}

// name lowers identifiers and dotted names into identifier and
// member-select chains.
func (l *lowerer) name(n sitter.Node) *syntax.Tree {
	switch n.Type() {
	case "identifier", "type_identifier":
		t := l.mk(syntax.Identifier, n)
		t.Name = l.text(n)

		return t
	case "scoped_identifier":
		t := l.mk(syntax.MemberSelect, n)
		if nameNode, ok := field(n, "name"); ok {
			t.Name = l.text(nameNode)
		}

		if scope, ok := field(n, "scope"); ok {
			t.Add(syntax.RoleQualifier, l.name(scope))
		}

		return t
	case nodeTypeError:
		return l.erroneous(n)
	default:
		return l.any(n)
	}
}

//nolint:gochecknoglobals // Grammar table.
var classKinds = map[string]syntax.Kind{
	"class_declaration":           syntax.Class,
	"interface_declaration":       syntax.Interface,
	"enum_declaration":            syntax.Enum,
	"record_declaration":          syntax.Record,
	"annotation_type_declaration": syntax.AnnotationType,
}

func isDeclaration(nodeType string) bool {
	if _, ok := classKinds[nodeType]; ok {
		return true
	}

	switch nodeType {
	case "method_declaration", "constructor_declaration", "compact_constructor_declaration",
		"field_declaration", "constant_declaration", "annotation_type_element_declaration",
		"static_initializer", "enum_constant":
		return true
	default:
		return false
	}
}

func isAnnotation(nodeType string) bool {
	return nodeType == "annotation" || nodeType == "marker_annotation"
}

// declaration lowers a single-tree declaration; multi-declarator fields
// come back as their first variable.
func (l *lowerer) declaration(n sitter.Node) *syntax.Tree {
	trees := l.members(n)
	if len(trees) == 0 {
		return l.other(n)
	}

	return trees[0]
}

// members lowers one class-body entry. Field declarations yield one
// variable per declarator.
func (l *lowerer) members(n sitter.Node) []*syntax.Tree {
	if kind, ok := classKinds[n.Type()]; ok {
		return []*syntax.Tree{l.classDecl(n, kind)}
	}

	switch n.Type() {
	case "method_declaration", "annotation_type_element_declaration":
		return []*syntax.Tree{l.method(n, false)}
	case "constructor_declaration", "compact_constructor_declaration":
		return []*syntax.Tree{l.method(n, true)}
	case "field_declaration", "constant_declaration":
		return l.variables(n)
	case "block":
		return []*syntax.Tree{l.block(n)}
	case "static_initializer":
		block := l.mk(syntax.Block, n)
		block.Flags |= syntax.FlagStatic

		if body, ok := firstOfType(n, "block"); ok {
			l.blockStatements(block, body)
		}

		return []*syntax.Tree{block}
	case "enum_constant":
		return []*syntax.Tree{l.enumConstant(n)}
	case nodeTypeError:
		return []*syntax.Tree{l.erroneous(n)}
	default:
		return l.statements(n)
	}
}

func (l *lowerer) modifiers(n sitter.Node) *syntax.Tree {
	mods, ok := firstOfType(n, "modifiers")
	if !ok {
		return syntax.Synthetic(syntax.Modifiers)
	}

	t := l.mk(syntax.Modifiers, mods)

	for c := range tokens(mods) {
		if isAnnotation(c.Type()) {
			t.Add(syntax.RoleAnnotation, l.annotation(c))

			continue
		}

		if flag, known := syntax.ModifierFlag(l.text(c)); known {
			t.Flags |= flag
		}
	}

	return t
}

func (l *lowerer) annotation(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Annotation, n)

	if nameNode, ok := field(n, "name"); ok {
		t.Add(syntax.RoleType, l.name(nameNode))
	}

	args, ok := field(n, "arguments")
	if !ok {
		return t
	}

	for c := range named(args) {
		if c.Type() != "element_value_pair" {
			t.Add(syntax.RoleArg, l.elementValue(c))

			continue
		}

		assign := l.mk(syntax.Assignment, c)
		assign.Op = "="

		if key, found := field(c, "key"); found {
			assign.Add(syntax.RoleLeft, l.name(key))
		}

		if value, found := field(c, "value"); found {
			assign.Add(syntax.RoleRight, l.elementValue(value))
		}

		t.Add(syntax.RoleArg, assign)
	}

	return t
}

func (l *lowerer) elementValue(n sitter.Node) *syntax.Tree {
	switch {
	case isAnnotation(n.Type()):
		return l.annotation(n)
	case n.Type() == "element_value_array_initializer":
		t := l.mk(syntax.NewArray, n)
		for c := range named(n) {
			t.Add(syntax.RoleElem, l.elementValue(c))
		}

		return t
	default:
		return l.expr(n)
	}
}

func (l *lowerer) classDecl(n sitter.Node, kind syntax.Kind) *syntax.Tree {
	t := l.mk(kind, n)
	if nameNode, ok := field(n, "name"); ok {
		t.Name = l.text(nameNode)
	}

	t.Add(syntax.RoleModifiers, l.modifiers(n))

	var body sitter.Node

	hasBody := false

	for c := range named(n) {
		switch c.Type() {
		case "type_parameters":
			for tp := range named(c) {
				t.Add(syntax.RoleTypeParam, l.typeParameter(tp))
			}
		case "superclass":
			for sc := range named(c) {
				t.Add(syntax.RoleExtends, l.typ(sc))
			}
		case "super_interfaces":
			role := syntax.RoleImplements
			if kind == syntax.Interface {
				role = syntax.RoleExtends
			}

			l.typeList(t, role, c)
		case "extends_interfaces":
			l.typeList(t, syntax.RoleExtends, c)
		case "permits":
			l.typeList(t, syntax.RolePermits, c)
		case "formal_parameters":
			for p := range named(c) {
				component := l.parameter(p)
				component.Flags |= syntax.FlagRecordComponent | syntax.FlagPrivate | syntax.FlagFinal
				t.Add(syntax.RoleMember, component)
			}
		case "class_body", "interface_body", "enum_body", "annotation_type_body":
			body, hasBody = c, true
		}
	}

	if hasBody {
		l.classBody(t, body)
	}

	addDefaultConstructor(t)

	return t
}

func (l *lowerer) typeList(owner *syntax.Tree, role syntax.Role, n sitter.Node) {
	for c := range named(n) {
		if c.Type() == "type_list" {
			l.typeList(owner, role, c)

			continue
		}

		owner.Add(role, l.typ(c))
	}
}

func (l *lowerer) classBody(owner *syntax.Tree, body sitter.Node) {
	for c := range named(body) {
		if c.Type() == "enum_body_declarations" {
			l.classBody(owner, c)

			continue
		}

		for _, member := range l.members(c) {
			owner.Add(syntax.RoleMember, member)
		}
	}
}

// addDefaultConstructor gives classes, enums and records without an
// explicit constructor the implicit one the language defines.
func addDefaultConstructor(class *syntax.Tree) {
	if class.Kind != syntax.Class && class.Kind != syntax.Enum && class.Kind != syntax.Record {
		return
	}

	if class.Name == "" {
		return
	}

	for _, m := range class.All(syntax.RoleMember) {
		if m.Kind == syntax.Method && m.Name == ConstructorName {
			return
		}
	}

	ctor := syntax.Synthetic(syntax.Method)
	ctor.Name = ConstructorName
	mods := syntax.Synthetic(syntax.Modifiers)
	ctor.Add(syntax.RoleModifiers, mods)

	switch class.Kind { //nolint:exhaustive // Filtered above.
	case syntax.Enum:
		mods.Flags |= syntax.FlagPrivate
	case syntax.Record:
		mods.Flags |= syntax.FlagPublic

		for _, m := range class.All(syntax.RoleMember) {
			if m.Kind == syntax.Variable && m.Flags.Has(syntax.FlagRecordComponent) {
				param := syntax.Synthetic(syntax.Variable)
				param.Name = m.Name
				param.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))
				ctor.Add(syntax.RoleParam, param)
			}
		}
	default:
		mods.Flags |= class.First(syntax.RoleModifiers).Flags & (syntax.FlagPublic | syntax.FlagProtected | syntax.FlagPrivate)
	}

	body := syntax.Synthetic(syntax.Block)
	if class.Kind != syntax.Enum {
		call := syntax.Synthetic(syntax.MethodInvocation)
		callee := syntax.Synthetic(syntax.Identifier)
		callee.Name = superName
		call.Add(syntax.RoleExpr, callee)
		body.Add(syntax.RoleBody, syntax.Synthetic(syntax.ExpressionStatement).Add(syntax.RoleExpr, call))
	}

	ctor.Add(syntax.RoleBody, body)

	insertFirstMember(class, ctor)
}

// addAnonymousConstructor gives an anonymous class body the constructor
// that forwards its n creation arguments to the superclass as x0..xn-1.
// Parameter types are left to analysis.
func addAnonymousConstructor(class *syntax.Tree, n int) {
	ctor := syntax.Synthetic(syntax.Method)
	ctor.Name = ConstructorName
	ctor.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))

	call := syntax.Synthetic(syntax.MethodInvocation)
	callee := syntax.Synthetic(syntax.Identifier)
	callee.Name = superName
	call.Add(syntax.RoleExpr, callee)

	for i := range n {
		name := "x" + strconv.Itoa(i)

		param := syntax.Synthetic(syntax.Variable)
		param.Name = name
		param.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))
		ctor.Add(syntax.RoleParam, param)

		arg := syntax.Synthetic(syntax.Identifier)
		arg.Name = name
		call.Add(syntax.RoleArg, arg)
	}

	body := syntax.Synthetic(syntax.Block)
	body.Add(syntax.RoleBody, syntax.Synthetic(syntax.ExpressionStatement).Add(syntax.RoleExpr, call))
	ctor.Add(syntax.RoleBody, body)

	insertFirstMember(class, ctor)
}

// insertFirstMember places m before the class's existing members.
func insertFirstMember(class, m *syntax.Tree) {
	rebuilt := syntax.New(class.Kind, class.Pos, class.End)
	rebuilt.Name, rebuilt.Flags = class.Name, class.Flags
	inserted := false

	for role, c := range class.Slots() {
		if role == syntax.RoleMember && !inserted {
			rebuilt.Add(syntax.RoleMember, m)

			inserted = true
		}

		rebuilt.Add(role, c)
	}

	if !inserted {
		rebuilt.Add(syntax.RoleMember, m)
	}

	*class = *rebuilt
}

func (l *lowerer) typeParameter(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.TypeParameter, n)

	for c := range named(n) {
		switch {
		case isAnnotation(c.Type()):
			t.Add(syntax.RoleAnnotation, l.annotation(c))
		case c.Type() == "type_identifier" || c.Type() == "identifier":
			t.Name = l.text(c)
		case c.Type() == "type_bound":
			for b := range named(c) {
				t.Add(syntax.RoleBound, l.typ(b))
			}
		}
	}

	return t
}

func (l *lowerer) method(n sitter.Node, ctor bool) *syntax.Tree {
	t := l.mk(syntax.Method, n)
	if nameNode, ok := field(n, "name"); ok {
		t.Name = l.text(nameNode)
	}

	if ctor {
		t.Name = ConstructorName
		if n.Type() == "compact_constructor_declaration" {
			t.Flags |= syntax.FlagCompact
		}
	}

	t.Add(syntax.RoleModifiers, l.modifiers(n))

	if tps, ok := firstOfType(n, "type_parameters"); ok {
		for tp := range named(tps) {
			t.Add(syntax.RoleTypeParam, l.typeParameter(tp))
		}
	}

	for c := range named(n) {
		if isAnnotation(c.Type()) {
			t.Add(syntax.RoleAnnotation, l.annotation(c))
		}
	}

	if restype, ok := field(n, "type"); ok {
		ret := l.typ(restype)
		if dims, found := field(n, "dimensions"); found {
			ret = l.wrapDims(ret, dims)
		}

		t.Add(syntax.RoleType, ret)
	}

	if params, ok := field(n, "parameters"); ok {
		for p := range named(params) {
			t.Add(syntax.RoleParam, l.parameter(p))
		}
	}

	if throws, ok := firstOfType(n, "throws"); ok {
		for c := range named(throws) {
			t.Add(syntax.RoleThrows, l.typ(c))
		}
	}

	if body, ok := field(n, "body"); ok {
		t.Add(syntax.RoleBody, l.block(body))
	}

	if value, ok := field(n, "value"); ok {
		t.Add(syntax.RoleDefault, l.elementValue(value))
	}

	return t
}

// parameter lowers formal, spread, receiver and catch parameters.
func (l *lowerer) parameter(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Variable, n)
	t.Add(syntax.RoleModifiers, l.modifiers(n))

	switch n.Type() {
	case "receiver_parameter":
		t.Name = "this"

		for c := range named(n) {
			if c.Type() != "modifiers" && !isAnnotation(c.Type()) && c.Type() != "this" && c.Type() != "identifier" {
				t.Add(syntax.RoleType, l.typ(c))

				break
			}
		}

		return t
	case "spread_parameter":
		t.Flags |= syntax.FlagVarArgs

		for c := range named(n) {
			switch c.Type() {
			case "modifiers":
			case "variable_declarator":
				if nameNode, ok := field(c, "name"); ok {
					t.Name = l.text(nameNode)
				}
			default:
				if isAnnotation(c.Type()) {
					continue
				}

				elem := l.typ(c)
				arr := syntax.New(syntax.ArrayType, elem.Pos, elem.End)
				arr.Add(syntax.RoleType, elem)

				for tok := range tokens(n) {
					if tok.Type() == "..." {
						arr.End = int(tok.EndByte())
					}
				}

				t.Add(syntax.RoleType, arr)
			}
		}

		return t
	case nodeTypeError:
		return l.erroneous(n)
	}

	if nameNode, ok := field(n, "name"); ok {
		t.Name = l.text(nameNode)
	}

	if typeNode, ok := field(n, "type"); ok {
		vartype := l.typ(typeNode)
		if dims, found := field(n, "dimensions"); found {
			vartype = l.wrapDims(vartype, dims)
		}

		t.Add(syntax.RoleType, vartype)
	} else if ct, found := firstOfType(n, "catch_type"); found {
		t.Add(syntax.RoleType, l.typ(ct))
	}

	return t
}

// variables lowers a field or local declaration into one variable per
// declarator. Declarators share the modifiers and type trees; every
// variable starts at the declaration and only the last one includes the
// terminating semicolon.
func (l *lowerer) variables(n sitter.Node) []*syntax.Tree {
	mods := l.modifiers(n)

	var vartype *syntax.Tree
	if typeNode, ok := field(n, "type"); ok {
		vartype = l.typ(typeNode)
	}

	var (
		declarators []sitter.Node
		recovered   []*syntax.Tree
	)

	for c := range named(n) {
		switch c.Type() {
		case "variable_declarator":
			declarators = append(declarators, c)
		case nodeTypeError:
			recovered = append(recovered, l.erroneous(c))
		}
	}

	out := make([]*syntax.Tree, 0, len(declarators))

	for i, d := range declarators {
		end := int(d.EndByte())
		if i == len(declarators)-1 {
			end = int(n.EndByte())
		}

		v := syntax.New(syntax.Variable, int(n.StartByte()), end)
		v.Add(syntax.RoleModifiers, mods)
		l.declarator(v, vartype, d)

		if vartype != nil && vartype.Kind == syntax.Identifier && vartype.Name == "var" {
			v.Flags |= syntax.FlagImplicitType
		}

		out = append(out, v)
	}

	if len(out) > 0 {
		for _, e := range recovered {
			out[len(out)-1].Add(syntax.RoleNone, e)
		}
	}

	return out
}

func (l *lowerer) declarator(v, vartype *syntax.Tree, d sitter.Node) {
	if nameNode, ok := field(d, "name"); ok {
		v.Name = l.text(nameNode)
	}

	if dims, ok := field(d, "dimensions"); ok && vartype != nil {
		vartype = l.wrapDims(vartype, dims)
	}

	v.Add(syntax.RoleType, vartype)

	if value, ok := field(d, "value"); ok {
		v.Add(syntax.RoleInit, l.expr(value))
	}
}

func (l *lowerer) enumConstant(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Variable, n)
	t.Flags |= syntax.FlagEnumConstant | syntax.FlagPublic | syntax.FlagStatic | syntax.FlagFinal

	if nameNode, ok := field(n, "name"); ok {
		t.Name = l.text(nameNode)
	}

	t.Add(syntax.RoleModifiers, l.modifiers(n))

	init := l.mk(syntax.NewClass, n)

	if args, ok := field(n, "arguments"); ok {
		for a := range named(args) {
			init.Add(syntax.RoleArg, l.expr(a))
		}
	}

	if body, ok := field(n, "body"); ok {
		anon := l.mk(syntax.Class, body)
		anon.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))
		l.classBody(anon, body)
		init.Add(syntax.RoleBody, anon)
	}

	return t.Add(syntax.RoleInit, init)
}
