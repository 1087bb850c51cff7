package parser

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

func isStatement(nodeType string) bool {
	switch nodeType {
	case "block", "constructor_body", "expression_statement", "local_variable_declaration",
		"if_statement", "while_statement", "do_statement", "for_statement",
		"enhanced_for_statement", "labeled_statement", "break_statement",
		"continue_statement", "return_statement", "yield_statement", "throw_statement",
		"assert_statement", "synchronized_statement", "try_statement",
		"try_with_resources_statement", "explicit_constructor_invocation", ";":
		return true
	default:
		return false
	}
}

func (l *lowerer) block(n sitter.Node) *syntax.Tree {
	if n.Type() != "block" && n.Type() != "constructor_body" {
		return l.stmt(n)
	}

	t := l.mk(syntax.Block, n)
	l.blockStatements(t, n)

	return t
}

// blockStatements appends the statements of a brace-delimited body to t.
// Stray semicolons become empty statements.
func (l *lowerer) blockStatements(t *syntax.Tree, n sitter.Node) {
	for c := range tokens(n) {
		if !c.IsNamed() {
			if c.Type() == ";" {
				t.Add(syntax.RoleBody, l.mk(syntax.EmptyStatement, c))
			}

			continue
		}

		for _, s := range l.statements(c) {
			t.Add(syntax.RoleBody, s)
		}
	}
}

// stmt lowers a node that fills a single statement slot.
func (l *lowerer) stmt(n sitter.Node) *syntax.Tree {
	trees := l.statements(n)
	if len(trees) == 0 {
		return nil
	}

	return trees[0]
}

// statements lowers one statement node. Only local variable declarations
// with several declarators produce more than one tree.
func (l *lowerer) statements(n sitter.Node) []*syntax.Tree {
	if _, ok := classKinds[n.Type()]; ok {
		return l.members(n)
	}

	switch n.Type() {
	case "local_variable_declaration":
		return l.variables(n)
	case ";":
		return []*syntax.Tree{l.mk(syntax.EmptyStatement, n)}
	}

	return []*syntax.Tree{l.statement(n)}
}

//nolint:cyclop,funlen // One arm per statement production.
func (l *lowerer) statement(n sitter.Node) *syntax.Tree {
	switch n.Type() {
	case "block", "constructor_body":
		return l.block(n)
	case "expression_statement":
		t := l.mk(syntax.ExpressionStatement, n)
		for c := range named(n) {
			t.Add(syntax.RoleExpr, l.expr(c))
		}

		return t
	case "explicit_constructor_invocation":
		return l.mk(syntax.ExpressionStatement, n).Add(syntax.RoleExpr, l.constructorCall(n))
	case "if_statement":
		t := l.mk(syntax.If, n)
		l.addField(t, syntax.RoleCond, n, "condition", l.expr)
		l.addField(t, syntax.RoleThen, n, "consequence", l.stmt)
		l.addField(t, syntax.RoleElse, n, "alternative", l.stmt)

		return t
	case "while_statement":
		t := l.mk(syntax.WhileLoop, n)
		l.addField(t, syntax.RoleCond, n, "condition", l.expr)
		l.addField(t, syntax.RoleBody, n, "body", l.stmt)

		return t
	case "do_statement":
		t := l.mk(syntax.DoWhileLoop, n)
		l.addField(t, syntax.RoleBody, n, "body", l.stmt)
		l.addField(t, syntax.RoleCond, n, "condition", l.expr)

		return t
	case "for_statement":
		return l.forLoop(n)
	case "enhanced_for_statement":
		return l.enhancedFor(n)
	case "labeled_statement":
		t := l.mk(syntax.LabeledStatement, n)

		for c := range named(n) {
			if c.Type() == "identifier" && t.Name == "" {
				t.Name = l.text(c)

				continue
			}

			t.Add(syntax.RoleBody, l.stmt(c))
		}

		return t
	case "switch_expression":
		return l.switchTree(syntax.Switch, n)
	case "break_statement", "continue_statement":
		kind := syntax.Break
		if n.Type() == "continue_statement" {
			kind = syntax.Continue
		}

		t := l.mk(kind, n)
		if label, ok := firstOfType(n, "identifier"); ok {
			t.Name = l.text(label)
		}

		return t
	case "return_statement", "yield_statement", "throw_statement":
		kinds := map[string]syntax.Kind{
			"return_statement": syntax.Return,
			"yield_statement":  syntax.Yield,
			"throw_statement":  syntax.Throw,
		}

		t := l.mk(kinds[n.Type()], n)
		for c := range named(n) {
			t.Add(syntax.RoleExpr, l.expr(c))
		}

		return t
	case "assert_statement":
		t := l.mk(syntax.Assert, n)
		role := syntax.RoleCond

		for c := range named(n) {
			t.Add(role, l.expr(c))
			role = syntax.RoleDetail
		}

		return t
	case "synchronized_statement":
		t := l.mk(syntax.Synchronized, n)

		for c := range named(n) {
			if c.Type() == "block" {
				t.Add(syntax.RoleBody, l.block(c))

				continue
			}

			t.Add(syntax.RoleExpr, l.expr(c))
		}

		return t
	case "try_statement", "try_with_resources_statement":
		return l.tryStatement(n)
	case nodeTypeError:
		return l.erroneous(n)
	default:
		if isDeclaration(n.Type()) {
			return l.declaration(n)
		}

		return l.expr(n)
	}
}

func (l *lowerer) addField(t *syntax.Tree, role syntax.Role, n sitter.Node, name string, lower func(sitter.Node) *syntax.Tree) {
	if c, ok := field(n, name); ok {
		if !c.IsNamed() && c.Type() == ";" {
			t.Add(role, l.mk(syntax.EmptyStatement, c))

			return
		}

		t.Add(role, lower(c))
	}
}

// forLoop splits the header on its semicolons: initializers, condition,
// then updates. Expression initializers and updates are wrapped in
// expression statements.
func (l *lowerer) forLoop(n sitter.Node) *syntax.Tree {
	const (
		inInit = iota
		inCond
		inUpdate
		inBody
	)

	t := l.mk(syntax.ForLoop, n)
	section := inInit

	for c := range tokens(n) {
		if !c.IsNamed() {
			switch c.Type() {
			case ";":
				if section == inBody {
					t.Add(syntax.RoleBody, l.mk(syntax.EmptyStatement, c))
				} else if section < inUpdate {
					section++
				}
			case ")":
				section = inBody
			}

			continue
		}

		switch section {
		case inInit:
			if c.Type() == "local_variable_declaration" {
				for _, v := range l.variables(c) {
					t.Add(syntax.RoleInit, v)
				}

				section = inCond

				continue
			}

			t.Add(syntax.RoleInit, l.exprStatement(c))
		case inCond:
			t.Add(syntax.RoleCond, l.expr(c))
		case inUpdate:
			t.Add(syntax.RoleUpdate, l.exprStatement(c))
		default:
			t.Add(syntax.RoleBody, l.stmt(c))
		}
	}

	return t
}

// exprStatement wraps an expression in a statement sharing its position.
func (l *lowerer) exprStatement(n sitter.Node) *syntax.Tree {
	return l.mk(syntax.ExpressionStatement, n).Add(syntax.RoleExpr, l.expr(n))
}

func (l *lowerer) enhancedFor(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.EnhancedForLoop, n)

	v := syntax.New(syntax.Variable, int(n.StartByte()), int(n.EndByte()))
	v.Add(syntax.RoleModifiers, l.modifiers(n))

	if mods, ok := firstOfType(n, "modifiers"); ok {
		v.Pos = int(mods.StartByte())
	}

	if typeNode, ok := field(n, "type"); ok {
		vartype := l.typ(typeNode)
		if v.Pos == int(n.StartByte()) {
			v.Pos = vartype.Pos
		}

		if dims, found := field(n, "dimensions"); found {
			vartype = l.wrapDims(vartype, dims)
		}

		v.Add(syntax.RoleType, vartype)

		if vartype.Kind == syntax.Identifier && vartype.Name == "var" {
			v.Flags |= syntax.FlagImplicitType
		}
	}

	if nameNode, ok := field(n, "name"); ok {
		v.Name = l.text(nameNode)
		v.End = int(nameNode.EndByte())
	}

	t.Add(syntax.RoleInit, v)
	l.addField(t, syntax.RoleExpr, n, "value", l.expr)
	l.addField(t, syntax.RoleBody, n, "body", l.stmt)

	return t
}

func (l *lowerer) tryStatement(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Try, n)

	if resources, ok := field(n, "resources"); ok {
		for r := range named(resources) {
			t.Add(syntax.RoleResource, l.resource(r))
		}
	}

	for c := range named(n) {
		switch c.Type() {
		case "block":
			t.Add(syntax.RoleBody, l.block(c))
		case "catch_clause":
			t.Add(syntax.RoleCatch, l.catchClause(c))
		case "finally_clause":
			if body, ok := firstOfType(c, "block"); ok {
				t.Add(syntax.RoleFinally, l.block(body))
			}
		}
	}

	return t
}

func (l *lowerer) resource(n sitter.Node) *syntax.Tree {
	if n.Type() != "resource" {
		return l.expr(n)
	}

	typeNode, ok := field(n, "type")
	if !ok {
		for c := range named(n) {
			return l.expr(c)
		}

		return l.other(n)
	}

	v := l.mk(syntax.Variable, n)
	v.Flags |= syntax.FlagFinal
	v.Add(syntax.RoleModifiers, l.modifiers(n))
	vartype := l.typ(typeNode)
	v.Add(syntax.RoleType, vartype)

	if vartype.Kind == syntax.Identifier && vartype.Name == "var" {
		v.Flags |= syntax.FlagImplicitType
	}

	if nameNode, found := field(n, "name"); found {
		v.Name = l.text(nameNode)
	}

	l.addField(v, syntax.RoleInit, n, "value", l.expr)

	return v
}

func (l *lowerer) catchClause(n sitter.Node) *syntax.Tree {
	t := l.mk(syntax.Catch, n)

	if param, ok := firstOfType(n, "catch_formal_parameter"); ok {
		t.Add(syntax.RoleParam, l.parameter(param))
	}

	l.addField(t, syntax.RoleBody, n, "body", l.block)

	return t
}

// switchTree lowers both the statement and the expression form of switch.
func (l *lowerer) switchTree(kind syntax.Kind, n sitter.Node) *syntax.Tree {
	t := l.mk(kind, n)
	l.addField(t, syntax.RoleExpr, n, "condition", l.expr)

	body, ok := field(n, "body")
	if !ok {
		return t
	}

	for c := range named(body) {
		switch c.Type() {
		case "switch_block_statement_group":
			for _, cs := range l.caseGroup(c) {
				t.Add(syntax.RoleCase, cs)
			}
		case "switch_rule":
			t.Add(syntax.RoleCase, l.caseRule(c))
		default:
			t.Add(syntax.RoleCase, l.any(c))
		}
	}

	return t
}

// caseGroup splits "case 1: case 2: stmts" into one case per label; the
// statements belong to the last one.
func (l *lowerer) caseGroup(n sitter.Node) []*syntax.Tree {
	type labelEnd struct {
		node sitter.Node
		end  int
	}

	var (
		labels []labelEnd
		stmts  []sitter.Node
	)

	for c := range tokens(n) {
		switch {
		case c.Type() == "switch_label":
			labels = append(labels, labelEnd{node: c, end: int(c.EndByte())})
		case !c.IsNamed():
			if len(labels) > 0 && len(stmts) == 0 && (c.Type() == ":" || c.Type() == "->") {
				labels[len(labels)-1].end = int(c.EndByte())
			}
		default:
			stmts = append(stmts, c)
		}
	}

	cases := make([]*syntax.Tree, 0, len(labels))

	for i, label := range labels {
		end := label.end
		if i == len(labels)-1 {
			end = int(n.EndByte())
		}

		cs := syntax.New(syntax.Case, int(label.node.StartByte()), end)
		l.caseLabels(cs, label.node)

		if i == len(labels)-1 {
			for _, s := range stmts {
				for _, lowered := range l.statements(s) {
					cs.Add(syntax.RoleBody, lowered)
				}
			}
		}

		cases = append(cases, cs)
	}

	return cases
}

func (l *lowerer) caseRule(n sitter.Node) *syntax.Tree {
	cs := l.mk(syntax.Case, n)
	cs.Flags |= syntax.FlagArrow

	for c := range named(n) {
		if c.Type() == "switch_label" {
			l.caseLabels(cs, c)

			continue
		}

		cs.Add(syntax.RoleBody, l.stmt(c))
	}

	return cs
}

func (l *lowerer) caseLabels(cs *syntax.Tree, label sitter.Node) {
	hasNamed := false

	for c := range named(label) {
		hasNamed = true

		switch c.Type() {
		case "guard":
			g := l.mk(syntax.Guard, c)
			for e := range named(c) {
				g.Add(syntax.RoleExpr, l.expr(e))
			}

			cs.Add(syntax.RoleGuard, g)
		case "pattern", "type_pattern", "record_pattern":
			p := l.mk(syntax.PatternCaseLabel, c)
			p.Add(syntax.RoleExpr, l.pattern(c))
			cs.Add(syntax.RoleLabel, p)
		default:
			constant := l.mk(syntax.ConstantCaseLabel, c)
			constant.Add(syntax.RoleExpr, l.expr(c))
			cs.Add(syntax.RoleLabel, constant)
		}
	}

	if !hasNamed || hasToken(label, "default") {
		for c := range tokens(label) {
			if c.Type() == "default" {
				cs.Add(syntax.RoleLabel, l.mk(syntax.DefaultCaseLabel, c))
			}
		}
	}
}

func (l *lowerer) pattern(n sitter.Node) *syntax.Tree {
	switch n.Type() {
	case "pattern":
		for c := range named(n) {
			return l.pattern(c)
		}

		return l.other(n)
	case "type_pattern":
		binding := l.mk(syntax.BindingPattern, n)
		v := l.mk(syntax.Variable, n)
		v.Add(syntax.RoleModifiers, l.modifiers(n))

		for c := range named(n) {
			switch c.Type() {
			case "modifiers":
			case "identifier":
				v.Name = l.text(c)
			default:
				v.Add(syntax.RoleType, l.typ(c))
			}
		}

		return binding.Add(syntax.RoleExpr, v)
	case "record_pattern":
		rec := l.mk(syntax.RecordPattern, n)

		for c := range named(n) {
			if c.Type() == "record_pattern_body" {
				for component := range named(c) {
					rec.Add(syntax.RoleComponent, l.pattern(component))
				}

				continue
			}

			rec.Add(syntax.RoleType, l.typ(c))
		}

		return rec
	case "record_pattern_component":
		if _, ok := firstOfType(n, "record_pattern"); ok {
			for c := range named(n) {
				return l.pattern(c)
			}
		}

		binding := l.mk(syntax.BindingPattern, n)
		v := l.mk(syntax.Variable, n)
		v.Add(syntax.RoleModifiers, syntax.Synthetic(syntax.Modifiers))

		for c := range named(n) {
			if c.Type() == "identifier" {
				v.Name = l.text(c)

				continue
			}

			v.Add(syntax.RoleType, l.typ(c))
		}

		return binding.Add(syntax.RoleExpr, v)
	default:
		return l.expr(n)
	}
}

// constructorCall lowers this(...) and super(...) calls in constructor bodies.
func (l *lowerer) constructorCall(n sitter.Node) *syntax.Tree {
	call := l.mk(syntax.MethodInvocation, n)

	var object *syntax.Tree

	for c := range named(n) {
		switch c.Type() {
		case "type_arguments":
			for a := range named(c) {
				call.Add(syntax.RoleTypeArg, l.typ(a))
			}
		case "this", "super":
			callee := l.mk(syntax.Identifier, c)
			callee.Name = l.text(c)

			if object != nil {
				callee = syntax.New(syntax.MemberSelect, object.Pos, int(c.EndByte()))
				callee.Name = l.text(c)
				callee.Add(syntax.RoleQualifier, object)
			}

			call.Add(syntax.RoleExpr, callee)
		case "argument_list":
			for a := range named(c) {
				call.Add(syntax.RoleArg, l.expr(a))
			}
		default:
			object = l.expr(c)
		}
	}

	return call
}
