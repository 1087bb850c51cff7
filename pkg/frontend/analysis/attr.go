package analysis

import (
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// attribClass attributes the bodies of a class and its member classes.
func (a *analyzer) attribClass(t *syntax.Tree) {
	sym := a.info.Symbols[t]

	e, ok := a.classEnvs[sym]
	if !ok {
		return
	}

	a.attribModifiers(t, e)

	for _, tpTree := range t.All(syntax.RoleTypeParam) {
		a.attribAnnotations(tpTree, e)
	}

	for _, m := range t.All(syntax.RoleMember) {
		a.attribMember(m, sym, e)
	}
}

func (a *analyzer) attribMember(m *syntax.Tree, class *Symbol, e *env) {
	switch {
	case m.Kind.IsClassLike():
		a.attribClass(m)
	case m.Kind == syntax.Method:
		a.attribMethod(m)
	case m.Kind == syntax.Variable:
		a.attribField(m, class, e)
	case m.Kind == syntax.Block:
		inner := e.nested()
		inner.result = VoidType{}
		a.attribStmt(m, inner)
	default:
		a.attribAny(m, e)
	}
}

func (a *analyzer) attribField(t *syntax.Tree, class *Symbol, e *env) {
	a.attribModifiers(t, e)

	f := a.info.Symbols[t]
	if f == nil {
		return
	}

	init := t.First(syntax.RoleInit)
	if init == nil {
		return
	}

	if f.Kind == KindEnumConstant && init.Kind == syntax.NewClass {
		a.attribEnumConstant(init, class, e)

		return
	}

	a.attribExpr(init, e, f.Type)
}

// attribEnumConstant resolves the implicit constructor call of an enum
// constant and its optional class body.
func (a *analyzer) attribEnumConstant(t *syntax.Tree, enum *Symbol, e *env) {
	args := a.attribArgs(t, e)
	ctor := a.selectMethod(a.methodsNamed(enum, ConstructorName), args.types)
	a.finishArgs(t, e, ctor, nil, args)

	typ := enum.Type
	if body := t.First(syntax.RoleBody); body != nil && body.Kind.IsClassLike() {
		anon := a.enterLocalClass(body, e, enum.Type)
		a.attribClass(body)
		typ = anon.Type
	}

	a.record(t, ctor, typ)
}

func (a *analyzer) attribMethod(t *syntax.Tree) {
	m := a.info.Symbols[t]

	menv, ok := a.methodEnvs[m]
	if !ok {
		return
	}

	e := menv.nested()
	e.method = m
	e.result = VoidType{}

	if mt, isMethod := m.Type.(*MethodType); isMethod && mt.Result != nil {
		e.result = mt.Result
	}

	a.attribModifiers(t, e)

	for _, ann := range t.All(syntax.RoleAnnotation) {
		a.attribAnnotation(ann, e)
	}

	for _, p := range t.All(syntax.RoleParam) {
		a.attribModifiers(p, e)
		e.scope.declare(a.info.Symbols[p])
	}

	if t.Flags.Has(syntax.FlagCompact) {
		for _, p := range m.Params {
			e.scope.declare(p)
		}
	}

	if body := t.First(syntax.RoleBody); body != nil {
		a.attribStmt(body, e)
	}

	if def := t.First(syntax.RoleDefault); def != nil {
		a.attribExpr(def, e, e.result)
	}
}

func (a *analyzer) attribModifiers(decl *syntax.Tree, e *env) {
	if mods := decl.First(syntax.RoleModifiers); mods != nil {
		a.attribAnnotations(mods, e)
	}
}

func (a *analyzer) attribAnnotations(t *syntax.Tree, e *env) {
	for _, ann := range t.All(syntax.RoleAnnotation) {
		a.attribAnnotation(ann, e)
	}
}

// attribAnnotation resolves the annotation type and its element values.
func (a *analyzer) attribAnnotation(t *syntax.Tree, e *env) Type {
	typ := a.resolveType(t.First(syntax.RoleType), e)
	class := classOf(typ)

	for _, arg := range t.All(syntax.RoleArg) {
		if arg.Kind != syntax.Assignment {
			a.attribExpr(arg, e, a.annotationElemType(class, "value"))

			continue
		}

		key := arg.First(syntax.RoleLeft)

		var elemType Type

		if key != nil && class != nil {
			if ms := a.methodsNamed(class, key.Name); len(ms) > 0 {
				elemType = a.annotationElemType(class, key.Name)
				a.record(key, ms[0], ms[0].Type)
			}
		}

		value := a.attribExpr(arg.First(syntax.RoleRight), e, elemType)
		if elemType == nil {
			elemType = value
		}

		a.record(arg, nil, elemType)
	}

	a.record(t, class, typ)

	return typ
}

func (a *analyzer) annotationElemType(class *Symbol, name string) Type {
	if class == nil {
		return nil
	}

	for _, m := range a.methodsNamed(class, name) {
		if mt, ok := m.Type.(*MethodType); ok {
			return mt.Result
		}
	}

	return nil
}

// attribModule attributes the names in a module declaration. Module names
// have no symbols of their own; the packages and services they mention do.
func (a *analyzer) attribModule(t *syntax.Tree) {
	e := &env{scope: newScope(nil)}
	a.attribAnnotations(t, e)

	for _, d := range t.All(syntax.RoleDirective) {
		names := d.All(syntax.RoleQualifier)

		switch d.Kind { //nolint:exhaustive // Directives only.
		case syntax.Exports, syntax.Opens:
			if len(names) > 0 {
				a.recordPackageName(names[0])
			}
		case syntax.Uses, syntax.Provides:
			for _, n := range names {
				a.resolveQualified(n, true)
			}
		}
	}
}

// attribAny attributes a tree whose category is not known in advance,
// such as the children of an erroneous tree.
func (a *analyzer) attribAny(t *syntax.Tree, e *env) {
	if t == nil {
		return
	}

	switch {
	case t.Kind.IsClassLike():
		a.enterLocalClass(t, e, nil)
		a.attribClass(t)
	case isStatement(t.Kind):
		a.attribStmt(t, e)
	case t.Kind == syntax.Method, t.Kind == syntax.Modifiers, t.Kind == syntax.Case:
		for c := range t.Children() {
			a.attribAny(c, e)
		}
	default:
		a.attribExpr(t, e, nil)
	}
}

func isStatement(kind syntax.Kind) bool {
	switch kind { //nolint:exhaustive // Statement kinds only.
	case syntax.Block, syntax.If, syntax.WhileLoop, syntax.DoWhileLoop, syntax.ForLoop,
		syntax.EnhancedForLoop, syntax.Switch, syntax.Try, syntax.Synchronized,
		syntax.LabeledStatement, syntax.Break, syntax.Continue, syntax.Return, syntax.Throw,
		syntax.Assert, syntax.Yield, syntax.ExpressionStatement, syntax.EmptyStatement,
		syntax.Variable:
		return true
	default:
		return false
	}
}

// attribStmt attributes one statement.
//
//nolint:cyclop,funlen,gocognit // One arm per statement kind.
func (a *analyzer) attribStmt(t *syntax.Tree, e *env) {
	if t == nil {
		return
	}

	switch t.Kind { //nolint:exhaustive // Expressions and declarations handled in default.
	case syntax.Block:
		inner := e.nested()
		for _, s := range t.All(syntax.RoleBody) {
			a.attribStmt(s, inner)
		}
	case syntax.Variable:
		a.attribLocal(t, e, KindLocalVariable)
	case syntax.ExpressionStatement:
		a.attribExpr(t.First(syntax.RoleExpr), e, nil)
	case syntax.If:
		a.attribExpr(t.First(syntax.RoleCond), e, Boolean)
		a.attribStmt(t.First(syntax.RoleThen), e.nested())
		a.attribStmt(t.First(syntax.RoleElse), e.nested())
	case syntax.WhileLoop, syntax.DoWhileLoop:
		a.attribExpr(t.First(syntax.RoleCond), e, Boolean)
		a.attribStmt(t.First(syntax.RoleBody), e.nested())
	case syntax.ForLoop:
		inner := e.nested()
		for _, s := range t.All(syntax.RoleInit) {
			a.attribStmt(s, inner)
		}

		a.attribExpr(t.First(syntax.RoleCond), inner, Boolean)

		for _, s := range t.All(syntax.RoleUpdate) {
			a.attribStmt(s, inner)
		}

		a.attribStmt(t.First(syntax.RoleBody), inner.nested())
	case syntax.EnhancedForLoop:
		inner := e.nested()
		iterated := a.attribExpr(t.First(syntax.RoleExpr), e, nil)

		if v := t.First(syntax.RoleInit); v != nil {
			a.attribVariable(v, inner, KindLocalVariable, a.iterableElem(iterated))
		}

		a.attribStmt(t.First(syntax.RoleBody), inner.nested())
	case syntax.LabeledStatement:
		a.attribStmt(t.First(syntax.RoleBody), e)
	case syntax.Switch:
		a.attribSwitch(t, e, nil)
	case syntax.Try:
		a.attribTry(t, e)
	case syntax.Synchronized:
		a.attribExpr(t.First(syntax.RoleExpr), e, nil)
		a.attribStmt(t.First(syntax.RoleBody), e)
	case syntax.Return:
		value := t.First(syntax.RoleExpr)
		if value == nil {
			return
		}

		typ := a.attribExpr(value, e, e.result)
		if e.returned != nil && *e.returned == nil {
			*e.returned = typ
		}
	case syntax.Yield:
		typ := a.attribExpr(t.First(syntax.RoleExpr), e, e.yield)
		if e.yielded != nil && *e.yielded == nil {
			*e.yielded = typ
		}
	case syntax.Throw:
		a.attribExpr(t.First(syntax.RoleExpr), e, nil)
	case syntax.Assert:
		a.attribExpr(t.First(syntax.RoleCond), e, Boolean)
		a.attribExpr(t.First(syntax.RoleDetail), e, nil)
	case syntax.Break, syntax.Continue, syntax.EmptyStatement:
	case syntax.Class, syntax.Interface, syntax.Enum, syntax.Record, syntax.AnnotationType:
		a.enterLocalClass(t, e, nil)
		a.attribClass(t)
	default:
		a.attribAny(t, e)
	}
}

// attribLocal attributes a local variable declaration and declares it.
func (a *analyzer) attribLocal(t *syntax.Tree, e *env, kind SymbolKind) *Symbol {
	return a.attribVariable(t, e, kind, nil)
}

// attribVariable attributes a variable declaration. Inferred types come
// from the initializer, or from implied when there is none.
func (a *analyzer) attribVariable(t *syntax.Tree, e *env, kind SymbolKind, implied Type) *Symbol {
	a.attribModifiers(t, e)

	typeTree := t.First(syntax.RoleType)
	inferred := t.Flags.Has(syntax.FlagImplicitType) || typeTree == nil ||
		(typeTree.Kind == syntax.Identifier && typeTree.Name == varTypeName)

	var typ Type
	if !inferred {
		typ = a.resolveType(typeTree, e)
	}

	v := newVar(t.Name, kind, e.method, nil, t)
	if e.method == nil {
		v.Owner = e.class
	}

	// The variable is in scope in its own initializer.
	e.scope.declare(v)

	if init := t.First(syntax.RoleInit); init != nil {
		initType := a.attribExpr(init, e, typ)
		if inferred {
			typ = initType
		}
	}

	if typ == nil {
		typ = implied
	}

	if _, isNull := typ.(NullType); isNull && inferred {
		typ = nil
	}

	v.Type = typ
	a.record(t, v, typ)

	if inferred && typeTree != nil {
		a.record(typeTree, nil, typ)
	}

	for _, extra := range t.All(syntax.RoleNone) {
		a.attribAny(extra, e)
	}

	return v
}

func (a *analyzer) attribTry(t *syntax.Tree, e *env) {
	inner := e.nested()

	for _, r := range t.All(syntax.RoleResource) {
		if r.Kind == syntax.Variable {
			a.attribLocal(r, inner, KindResourceVariable)

			continue
		}

		a.attribExpr(r, inner, nil)
	}

	a.attribStmt(t.First(syntax.RoleBody), inner)

	for _, c := range t.All(syntax.RoleCatch) {
		ce := e.nested()

		if p := c.First(syntax.RoleParam); p != nil {
			a.attribVariable(p, ce, KindExceptionParameter, nil)
		}

		a.attribStmt(c.First(syntax.RoleBody), ce)
	}

	a.attribStmt(t.First(syntax.RoleFinally), e)
}

// attribSwitch attributes a switch statement or expression and returns the
// type of the expression form.
func (a *analyzer) attribSwitch(t *syntax.Tree, e *env, expected Type) Type {
	selector := a.attribExpr(t.First(syntax.RoleExpr), e, nil)
	expression := t.Kind == syntax.SwitchExpression

	var result Type

	for _, cs := range t.All(syntax.RoleCase) {
		if cs.Kind != syntax.Case {
			a.attribAny(cs, e)

			continue
		}

		ce := e.nested()
		a.attribCaseLabels(cs, ce, selector)

		if expression {
			ce.yield = expected
			ce.yielded = new(Type)
		}

		for _, body := range cs.All(syntax.RoleBody) {
			if expression && cs.Flags.Has(syntax.FlagArrow) && !isStatement(body.Kind) {
				if typ := a.attribExpr(body, ce, expected); result == nil {
					result = typ
				}

				continue
			}

			a.attribStmt(body, ce)
		}

		if expression && result == nil && ce.yielded != nil {
			result = *ce.yielded
		}
	}

	if expected != nil {
		return expected
	}

	return result
}

func (a *analyzer) attribCaseLabels(cs *syntax.Tree, e *env, selector Type) {
	enum := classOf(selector)
	if enum != nil && enum.Kind != KindEnum {
		enum = nil
	}

	for _, label := range cs.All(syntax.RoleLabel) {
		switch label.Kind { //nolint:exhaustive // Case labels only.
		case syntax.ConstantCaseLabel:
			value := label.First(syntax.RoleExpr)
			if enum != nil && value != nil && value.Kind == syntax.Identifier {
				if f := enum.field(value.Name); f != nil {
					a.record(value, f, f.Type)

					continue
				}
			}

			a.attribExpr(value, e, selector)
		case syntax.PatternCaseLabel:
			a.attribPattern(label.First(syntax.RoleExpr), e, selector)
		case syntax.DefaultCaseLabel:
		default:
			a.attribAny(label, e)
		}
	}

	for _, g := range cs.All(syntax.RoleGuard) {
		a.attribExpr(g.First(syntax.RoleExpr), e, Boolean)
	}
}

// attribPattern attributes a type or record pattern; matched is the type of
// the value being tested.
func (a *analyzer) attribPattern(t *syntax.Tree, e *env, matched Type) Type {
	if t == nil {
		return nil
	}

	switch t.Kind { //nolint:exhaustive // Patterns and plain types.
	case syntax.BindingPattern:
		v := t.First(syntax.RoleExpr)
		if v == nil {
			return nil
		}

		sym := a.attribVariable(v, e, KindBindingVariable, matched)
		a.record(t, nil, sym.Type)

		return sym.Type
	case syntax.RecordPattern:
		typ := a.resolveType(t.First(syntax.RoleType), e)
		record := classOf(typ)

		var components []*Symbol

		if record != nil {
			for _, f := range record.Fields() {
				if f.Decl != nil && f.Decl.Flags.Has(syntax.FlagRecordComponent) {
					components = append(components, f)
				}
			}
		}

		for i, sub := range t.All(syntax.RoleComponent) {
			var componentType Type
			if i < len(components) {
				componentType = a.memberType(typ, components[i])
			}

			a.attribPattern(sub, e, componentType)
		}

		a.record(t, nil, typ)

		return typ
	default:
		return a.resolveType(t, e)
	}
}
