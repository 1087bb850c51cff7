package analysis

import (
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// attribExpr attributes an expression and records its type. expected is the
// type the context wants, or nil; it drives lambdas, diamonds and inference.
//
//nolint:cyclop,funlen,gocognit // One arm per expression kind.
func (a *analyzer) attribExpr(t *syntax.Tree, e *env, expected Type) Type {
	if t == nil {
		return nil
	}

	var typ Type

	switch t.Kind { //nolint:exhaustive // Statements and declarations go through attribAny.
	case syntax.Literal:
		typ = a.literalType(t)
	case syntax.Identifier:
		typ = a.attribIdent(t, e)
	case syntax.MemberSelect:
		sym, selected := a.attribSelect(t, e)
		a.record(t, sym, nil)
		typ = selected
	case syntax.MethodInvocation:
		typ = a.attribInvocation(t, e, expected)
	case syntax.NewClass:
		typ = a.attribNewClass(t, e, expected)
	case syntax.NewArray:
		typ = a.attribNewArray(t, e, expected)
	case syntax.Lambda, syntax.MemberReference:
		typ, _ = a.attribFunctional(t, e, expected)
	case syntax.Parenthesized:
		typ = a.attribExpr(t.First(syntax.RoleExpr), e, expected)
	case syntax.Assignment:
		left := a.attribExpr(t.First(syntax.RoleLeft), e, nil)
		right := a.attribExpr(t.First(syntax.RoleRight), e, left)

		typ = left
		if typ == nil {
			typ = right
		}
	case syntax.CompoundAssignment:
		typ = a.attribExpr(t.First(syntax.RoleLeft), e, nil)
		a.attribExpr(t.First(syntax.RoleRight), e, nil)
	case syntax.Unary:
		operand := a.attribExpr(t.First(syntax.RoleExpr), e, nil)

		switch t.Op {
		case "!":
			typ = Boolean
		case "++", "--":
			typ = operand
		default:
			typ = unaryPromote(operand)
		}
	case syntax.Binary:
		typ = a.attribBinary(t, e)
	case syntax.Conditional:
		typ = a.attribConditional(t, e, expected)
	case syntax.TypeCast:
		target := a.resolveType(t.First(syntax.RoleType), e)
		a.attribExpr(t.First(syntax.RoleExpr), e, target)
		typ = target
	case syntax.InstanceOf:
		tested := a.attribExpr(t.First(syntax.RoleExpr), e, nil)
		a.attribPattern(t.First(syntax.RoleType), e, tested)
		typ = Boolean
	case syntax.ArrayAccess:
		array := a.attribExpr(t.First(syntax.RoleExpr), e, nil)
		a.attribExpr(t.First(syntax.RoleIndex), e, Int)

		if arr, ok := array.(*ArrayType); ok {
			typ = arr.Elem
		}
	case syntax.SwitchExpression:
		typ = a.attribSwitch(t, e, expected)
	case syntax.Annotation:
		typ = a.attribAnnotation(t, e)
	case syntax.PrimitiveType, syntax.ArrayType, syntax.ParameterizedType, syntax.UnionType,
		syntax.IntersectionType, syntax.Wildcard, syntax.AnnotatedType:
		return a.resolveType(t, e)
	case syntax.BindingPattern, syntax.RecordPattern:
		return a.attribPattern(t, e, expected)
	default:
		if isStatement(t.Kind) || t.Kind.IsClassLike() {
			a.attribAny(t, e)

			return nil
		}

		for c := range t.Children() {
			a.attribAny(c, e)
		}

		return nil
	}

	a.record(t, nil, typ)

	return typ
}

func (a *analyzer) literalType(t *syntax.Tree) Type {
	switch t.Lit {
	case syntax.LitInt:
		return Int
	case syntax.LitLong:
		return Long
	case syntax.LitFloat:
		return Float
	case syntax.LitDouble:
		return Double
	case syntax.LitChar:
		return Char
	case syntax.LitString, syntax.LitTextBlock:
		return a.stringType()
	case syntax.LitBoolean:
		return Boolean
	case syntax.LitNull:
		return NullType{}
	default:
		return nil
	}
}

func (a *analyzer) attribIdent(t *syntax.Tree, e *env) Type {
	switch t.Name {
	case "this":
		if e.class == nil {
			return nil
		}

		a.record(t, a.thisSym(e.class), nil)

		return e.class.Type
	case "super":
		if e.class == nil {
			return nil
		}

		return e.class.Super
	}

	if v := a.lookupVar(e, t.Name); v != nil {
		typ := v.Type
		if v.Kind == KindField && e.class != nil {
			typ = a.memberType(e.class.Type, v)
		}

		a.record(t, v, nil)

		return typ
	}

	if c := a.lookupType(e, t.Name); c != nil {
		a.record(t, c, nil)

		return rawType(c)
	}

	return nil
}

// attribQualifier attributes the qualifier of a select, a call or a
// method reference. It reports whether the qualifier names a type.
func (a *analyzer) attribQualifier(t *syntax.Tree, e *env) (*Symbol, Type, bool) {
	if t == nil {
		return nil, nil, false
	}

	switch t.Kind { //nolint:exhaustive // Other qualifiers are plain expressions.
	case syntax.Identifier:
		if t.Name == "this" || t.Name == "super" || a.lookupVar(e, t.Name) != nil {
			typ := a.attribExpr(t, e, nil)

			return a.info.Symbols[t], typ, false
		}

		if c := a.lookupType(e, t.Name); c != nil {
			a.record(t, c, rawType(c))

			return c, rawType(c), true
		}

		pkg := a.packageSym(t.Name)
		a.record(t, pkg, pkg.Type)

		return pkg, pkg.Type, false
	case syntax.MemberSelect:
		sym, typ := a.attribSelect(t, e)
		a.record(t, sym, typ)

		return sym, typ, sym != nil && (sym.Kind.IsClassLike() || sym.Kind == KindTypeParameter)
	case syntax.PrimitiveType, syntax.ArrayType, syntax.ParameterizedType:
		typ := a.resolveType(t, e)

		return classOf(typ), typ, true
	default:
		typ := a.attribExpr(t, e, nil)

		return a.info.Symbols[t], typ, false
	}
}

// attribSelect resolves "qualifier.name" in expression context.
//
//nolint:cyclop // One case per kind of selection.
func (a *analyzer) attribSelect(t *syntax.Tree, e *env) (*Symbol, Type) {
	qs, qt, isType := a.attribQualifier(t.First(syntax.RoleQualifier), e)

	switch {
	case t.Name == "class":
		class := a.lib.class(className)
		typ := &ClassType{Sym: class, Args: []Type{a.boxed(qt)}}
		sym := &Symbol{Name: "class", Kind: KindField, Owner: qs, Type: typ,
			Flags: syntax.FlagPublic | syntax.FlagStatic | syntax.FlagFinal}

		return sym, typ
	case isType && t.Name == "this" && qs != nil:
		return a.thisSym(qs), qs.Type
	case isType && t.Name == "super" && qs != nil:
		return nil, qs.Super
	case qs != nil && qs.Kind == KindPackage:
		sym := a.selectName(t, qs, false)

		return sym, rawType(sym)
	}

	if _, isArray := qt.(*ArrayType); isArray && t.Name == "length" {
		return a.length, Int
	}

	class := classOf(qt)
	if class == nil {
		return nil, nil
	}

	if f := a.findField(class, t.Name); f != nil {
		return f, a.memberType(qt, f)
	}

	if c := a.findMemberClass(class, t.Name); c != nil {
		return c, rawType(c)
	}

	return nil, nil
}

type argList struct {
	trees    []*syntax.Tree
	types    []Type
	deferred []bool
}

func isFunctional(t *syntax.Tree) bool {
	for t != nil && t.Kind == syntax.Parenthesized {
		t = t.First(syntax.RoleExpr)
	}

	return t != nil && (t.Kind == syntax.Lambda || t.Kind == syntax.MemberReference)
}

// attribArgs attributes the arguments of a call. Lambdas and method
// references wait until the target method is known.
func (a *analyzer) attribArgs(t *syntax.Tree, e *env) argList {
	var args argList

	for _, arg := range t.All(syntax.RoleArg) {
		args.trees = append(args.trees, arg)

		if isFunctional(arg) {
			args.types = append(args.types, nil)
			args.deferred = append(args.deferred, true)

			continue
		}

		args.types = append(args.types, a.attribExpr(arg, e, nil))
		args.deferred = append(args.deferred, false)
	}

	return args
}

// finishArgs infers the type arguments of m from the arguments and
// attributes the deferred ones against the resulting parameter types.
func (a *analyzer) finishArgs(_ *syntax.Tree, e *env, m *Symbol, site Type, args argList) map[*Symbol]Type {
	b := make(map[*Symbol]Type)
	owned := make(map[*Symbol]bool)

	if m != nil {
		if site != nil && m.Owner != nil {
			for k, v := range bindings(a.asSuper(site, m.Owner)) {
				b[k] = v
			}
		}

		for _, tp := range m.TypeParams {
			owned[tp] = true
		}

		for i, typ := range args.types {
			if !args.deferred[i] {
				a.infer(paramType(m, i), typ, owned, b)
			}
		}
	}

	for i, arg := range args.trees {
		if !args.deferred[i] {
			continue
		}

		var param Type
		if m != nil {
			param = paramType(m, i)
		}

		_, body := a.attribFunctional(arg, e, subst(param, b))
		if param != nil && body != nil {
			a.inferFunctional(param, body, owned, b)
		}

		final := a.functionalTarget(subst(param, b))
		args.types[i] = final
		a.record(arg, nil, final)
	}

	return b
}

// inferFunctional binds type variables in the result of a functional
// parameter from the body type of the lambda passed for it.
func (a *analyzer) inferFunctional(param, body Type, owned map[*Symbol]bool, b map[*Symbol]Type) {
	sam := a.sam(param)
	if sam == nil {
		return
	}

	mt, ok := a.memberType(param, sam).(*MethodType)
	if !ok {
		return
	}

	if _, isVoid := mt.Result.(VoidType); isVoid {
		return
	}

	a.infer(mt.Result, body, owned, b)
}

// functionalTarget replaces wildcard arguments of a functional interface
// type by their bounds.
func (a *analyzer) functionalTarget(t Type) Type {
	ct, ok := t.(*ClassType)
	if !ok || len(ct.Args) == 0 {
		return t
	}

	args := make([]Type, len(ct.Args))
	for i, arg := range ct.Args {
		args[i] = a.upper(arg)
	}

	return &ClassType{Sym: ct.Sym, Args: args}
}

// attribFunctional attributes a lambda or method reference against its
// target type. It returns the lambda's type and the type its body produces.
func (a *analyzer) attribFunctional(t *syntax.Tree, e *env, expected Type) (Type, Type) {
	for t.Kind == syntax.Parenthesized {
		inner := t.First(syntax.RoleExpr)
		if inner == nil {
			return nil, nil
		}

		typ, body := a.attribFunctional(inner, e, expected)
		a.record(t, nil, typ)

		return typ, body
	}

	if t.Kind == syntax.MemberReference {
		return a.attribMemberRef(t, e, expected)
	}

	target := a.functionalTarget(expected)

	var (
		params []Type
		result Type
	)

	if sam := a.sam(target); sam != nil {
		if mt, ok := a.memberType(target, sam).(*MethodType); ok {
			params, result = mt.Params, mt.Result
		}
	}

	le := e.nested()
	le.result = result
	le.returned = new(Type)
	le.yielded = nil

	for i, p := range t.All(syntax.RoleParam) {
		var implied Type
		if i < len(params) {
			implied = a.upper(params[i])
		}

		a.attribVariable(p, le, KindParameter, implied)
	}

	var body Type

	if b := t.First(syntax.RoleBody); b != nil {
		if b.Kind == syntax.Block {
			a.attribStmt(b, le)
			body = *le.returned
		} else {
			body = a.attribExpr(b, le, result)
		}
	}

	a.record(t, nil, target)

	return target, body
}

func (a *analyzer) attribMemberRef(t *syntax.Tree, e *env, expected Type) (Type, Type) {
	target := a.functionalTarget(expected)

	for _, ta := range t.All(syntax.RoleTypeArg) {
		a.resolveType(ta, e)
	}

	var samParams []Type

	sam := a.sam(target)
	if sam != nil {
		if mt, ok := a.memberType(target, sam).(*MethodType); ok {
			samParams = mt.Params
		}
	}

	_, qt, isType := a.attribQualifier(t.First(syntax.RoleQualifier), e)

	var (
		m    *Symbol
		body Type
	)

	switch {
	case t.Flags.Has(syntax.FlagConstructorRef):
		body = qt

		if class := classOf(qt); class != nil {
			m = a.selectMethod(a.methodsNamed(class, ConstructorName), samParams)
		}
	default:
		class := classOf(a.boxed(qt))
		if class == nil {
			break
		}

		candidates := a.methodsNamed(class, t.Name)
		if sam != nil {
			m = a.refTarget(candidates, samParams, isType)
		} else if len(candidates) > 0 {
			m = candidates[0]
		}

		if m != nil {
			if mt, ok := a.memberType(qt, m).(*MethodType); ok {
				body = mt.Result
			}
		}
	}

	a.record(t, m, target)

	return target, body
}

// refTarget picks the method a reference denotes: one taking every
// functional parameter, or for an unbound receiver all but the first.
func (a *analyzer) refTarget(candidates []*Symbol, params []Type, unbound bool) *Symbol {
	var exact []*Symbol

	for _, c := range candidates {
		if arityMatches(c, len(params)) {
			exact = append(exact, c)
		}
	}

	if m := a.selectMethod(exact, params); m != nil {
		return m
	}

	if !unbound || len(params) == 0 {
		return nil
	}

	var rest []*Symbol

	for _, c := range candidates {
		if !c.IsStatic() && arityMatches(c, len(params)-1) {
			rest = append(rest, c)
		}
	}

	return a.selectMethod(rest, params[1:])
}

// attribInvocation resolves a method or constructor call.
//
//nolint:cyclop,funlen // Callee shapes are handled inline.
func (a *analyzer) attribInvocation(t *syntax.Tree, e *env, expected Type) Type {
	for _, ta := range t.All(syntax.RoleTypeArg) {
		a.resolveType(ta, e)
	}

	callee := t.First(syntax.RoleExpr)
	args := a.attribArgs(t, e)

	var (
		candidates []*Symbol
		site       Type
		ctorCall   bool
	)

	switch {
	case callee == nil:
	case callee.Kind == syntax.Identifier:
		switch callee.Name {
		case "this":
			if e.class != nil {
				candidates, site, ctorCall = a.methodsNamed(e.class, ConstructorName), e.class.Type, true
			}
		case "super":
			if e.class != nil && classOf(e.class.Super) != nil {
				site, ctorCall = e.class.Super, true
				candidates = a.methodsNamed(classOf(site), ConstructorName)
			}
		default:
			class := a.methodSite(e, callee.Name)
			if class == nil {
				class = a.staticMethodSite(callee.Name)
			}

			if class != nil {
				candidates, site = a.methodsNamed(class, callee.Name), class.Type
			}
		}
	case callee.Kind == syntax.MemberSelect:
		_, qt, _ := a.attribQualifier(callee.First(syntax.RoleQualifier), e)

		if callee.Name == "super" && e.class != nil {
			site, ctorCall = e.class.Super, true
			candidates = a.methodsNamed(classOf(site), ConstructorName)

			break
		}

		site = qt
		if _, isArray := qt.(*ArrayType); isArray {
			site = a.objectType()
		}

		if class := classOf(a.boxed(site)); class != nil {
			candidates = a.methodsNamed(class, callee.Name)
		}
	default:
		a.attribExpr(callee, e, nil)
	}

	m := a.selectMethod(candidates, args.types)
	b := a.finishArgs(t, e, m, site, args)

	if m == nil {
		return nil
	}

	mt, ok := m.Type.(*MethodType)
	if !ok {
		return nil
	}

	owned := make(map[*Symbol]bool, len(m.TypeParams))
	for _, tp := range m.TypeParams {
		owned[tp] = true
	}

	if expected != nil {
		a.infer(mt.Result, expected, owned, b)
	}

	for _, tp := range m.TypeParams {
		if b[tp] == nil && len(tp.Bounds) > 0 {
			b[tp] = tp.Bounds[0]
		}
	}

	instantiated, _ := subst(mt, b).(*MethodType)
	if instantiated == nil {
		instantiated = mt
	}

	a.record(callee, m, instantiated)

	if ctorCall {
		return VoidType{}
	}

	return instantiated.Result
}

// attribNewClass resolves an instance creation, its constructor and an
// optional anonymous class body.
//
//nolint:cyclop,funlen // Diamond inference and anonymous bodies are handled inline.
func (a *analyzer) attribNewClass(t *syntax.Tree, e *env, expected Type) Type {
	enclosing := a.attribExpr(t.First(syntax.RoleEnclosing), e, nil)

	for _, ann := range t.All(syntax.RoleAnnotation) {
		a.attribAnnotation(ann, e)
	}

	for _, ta := range t.All(syntax.RoleTypeArg) {
		a.resolveType(ta, e)
	}

	typeTree := t.First(syntax.RoleType)

	var typ Type
	if enclosing != nil && typeTree != nil && typeTree.Kind == syntax.Identifier {
		if outer := classOf(enclosing); outer != nil {
			if inner := a.findMemberClass(outer, typeTree.Name); inner != nil {
				typ = rawType(inner)
				a.record(typeTree, inner, typ)
			}
		}
	}

	if typ == nil {
		typ = a.resolveType(typeTree, e)
	}

	ct, _ := typ.(*ClassType)

	if ct != nil && typeTree.Kind == syntax.ParameterizedType && len(typeTree.All(syntax.RoleTypeArg)) == 0 {
		ct = a.diamond(ct.Sym, expected)
		a.record(typeTree, nil, ct)
	}

	args := a.attribArgs(t, e)

	var ctor *Symbol

	body := t.First(syntax.RoleBody)

	if ct != nil {
		class := ct.Sym
		if class.Kind == KindInterface && body != nil {
			class = a.lib.class(objectName)
		}

		ctor = a.selectMethod(a.methodsNamed(class, ConstructorName), args.types)
	}

	a.finishArgs(t, e, ctor, ct, args)

	var result Type
	if ct != nil {
		result = ct
	}

	if body != nil && body.Kind.IsClassLike() {
		var super Type
		if ct != nil {
			super = ct
		}

		a.anonParams[body] = a.anonymousParams(ctor, args)
		anon := a.enterLocalClass(body, e, super)
		a.attribClass(body)
		result = anon.Type
	}

	a.record(t, ctor, nil)

	return result
}

// anonymousParams types the parameters of an anonymous class constructor
// after the creation arguments, falling back to the selected superclass
// constructor where an argument has no standalone type.
func (a *analyzer) anonymousParams(ctor *Symbol, args argList) []Type {
	var declared []Type
	if ctor != nil {
		if mt, ok := ctor.Type.(*MethodType); ok {
			declared = mt.Params
		}
	}

	params := make([]Type, len(args.types))
	for i, typ := range args.types {
		if _, isNull := typ.(NullType); typ == nil || isNull || args.deferred[i] {
			typ = nil
			if i < len(declared) {
				typ = declared[i]
			}
		}

		if typ == nil {
			typ = a.objectType()
		}

		params[i] = typ
	}

	return params
}

// diamond infers the type arguments of "new C<>()" from the expected type.
func (a *analyzer) diamond(class *Symbol, expected Type) *ClassType {
	generic := class.classType()

	target := classOf(expected)
	if target == nil || len(class.TypeParams) == 0 {
		return &ClassType{Sym: class}
	}

	view := a.asSuper(generic, target)
	if view == nil {
		return &ClassType{Sym: class}
	}

	owned := make(map[*Symbol]bool, len(class.TypeParams))
	for _, tp := range class.TypeParams {
		owned[tp] = true
	}

	b := make(map[*Symbol]Type)
	a.infer(view, expected, owned, b)

	args := make([]Type, len(class.TypeParams))

	for i, tp := range class.TypeParams {
		args[i] = b[tp]
		if args[i] == nil {
			args[i] = a.objectType()
		}
	}

	return &ClassType{Sym: class, Args: args}
}

func (a *analyzer) attribNewArray(t *syntax.Tree, e *env, expected Type) Type {
	for _, ann := range t.All(syntax.RoleAnnotation) {
		a.attribAnnotation(ann, e)
	}

	var typ Type

	if elemTree := t.First(syntax.RoleType); elemTree != nil {
		elem := a.resolveType(elemTree, e)
		dims := t.All(syntax.RoleDim)

		for _, d := range dims {
			a.attribExpr(d, e, Int)
		}

		if elem != nil {
			typ = elem
			for range max(len(dims), 1) {
				typ = &ArrayType{Elem: typ}
			}
		}
	} else if arr, ok := expected.(*ArrayType); ok {
		typ = arr
	}

	var elemExpected Type
	if arr, ok := typ.(*ArrayType); ok {
		elemExpected = arr.Elem
	}

	for _, elem := range t.All(syntax.RoleElem) {
		a.attribExpr(elem, e, elemExpected)
	}

	return typ
}

func (a *analyzer) isString(t Type) bool {
	ct, ok := t.(*ClassType)

	return ok && ct.Sym == a.lib.class(stringName)
}

func (a *analyzer) attribBinary(t *syntax.Tree, e *env) Type {
	left := a.attribExpr(t.First(syntax.RoleLeft), e, nil)
	right := a.attribExpr(t.First(syntax.RoleRight), e, nil)

	switch t.Op {
	case "&&", "||", "==", "!=", "<", ">", "<=", ">=":
		return Boolean
	case "+":
		if a.isString(left) || a.isString(right) {
			return a.stringType()
		}

		return binaryPromote(left, right)
	case "<<", ">>", ">>>":
		return unaryPromote(left)
	case "&", "|", "^":
		if unboxed(left) == Boolean && unboxed(right) == Boolean {
			return Boolean
		}

		return binaryPromote(left, right)
	default:
		return binaryPromote(left, right)
	}
}

func (a *analyzer) attribConditional(t *syntax.Tree, e *env, expected Type) Type {
	a.attribExpr(t.First(syntax.RoleCond), e, Boolean)
	then := a.attribExpr(t.First(syntax.RoleThen), e, expected)
	els := a.attribExpr(t.First(syntax.RoleElse), e, expected)

	_, thenNull := then.(NullType)
	_, elseNull := els.(NullType)

	switch {
	case then == nil:
		return els
	case els == nil:
		return then
	case SameType(then, els):
		return then
	case thenNull:
		return a.boxed(els)
	case elseNull:
		return a.boxed(then)
	}

	if promoted := binaryPromote(then, els); promoted != nil {
		return promoted
	}

	if expected != nil {
		return expected
	}

	return then
}
