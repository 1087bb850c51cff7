package analysis

import (
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// varTypeName is the reserved type name of inferred local variables.
const varTypeName = "var"

// rawType is the type a bare class name denotes.
func rawType(sym *Symbol) Type {
	switch {
	case sym == nil:
		return nil
	case sym.Kind == KindTypeParameter:
		return sym.Type
	case sym.Kind == KindPackage:
		return sym.Type
	default:
		return &ClassType{Sym: sym}
	}
}

// resolveType attributes a type tree and returns the type it denotes.
//
//nolint:cyclop,funlen // One arm per type tree kind.
func (a *analyzer) resolveType(t *syntax.Tree, e *env) Type {
	if t == nil {
		return nil
	}

	var typ Type

	switch t.Kind { //nolint:exhaustive // Non-type trees fall through to attribution.
	case syntax.PrimitiveType:
		if t.Name == "void" {
			typ = VoidType{}
		} else if p, ok := primitives[t.Name]; ok {
			typ = p
		}
	case syntax.Identifier:
		sym := a.lookupType(e, t.Name)
		if sym == nil {
			return nil
		}

		typ = rawType(sym)
		a.record(t, sym, nil)
	case syntax.MemberSelect:
		owner := a.resolveTypeQualifier(t.First(syntax.RoleQualifier), e)
		if owner == nil {
			return nil
		}

		sym := a.selectName(t, owner, true)
		if sym == nil {
			return nil
		}

		typ = rawType(sym)
	case syntax.ParameterizedType:
		base, _ := a.resolveType(t.First(syntax.RoleType), e).(*ClassType)

		var args []Type
		for _, arg := range t.All(syntax.RoleTypeArg) {
			args = append(args, a.resolveType(arg, e))
		}

		if base == nil {
			return nil
		}

		typ = &ClassType{Sym: base.Sym, Args: args}
		a.record(t, base.Sym, nil)
	case syntax.ArrayType:
		elem := a.resolveType(t.First(syntax.RoleType), e)
		if elem == nil {
			return nil
		}

		typ = &ArrayType{Elem: elem}
	case syntax.Wildcard:
		w := &WildcardType{Super: t.Flags.Has(syntax.FlagSuperBound)}
		w.Bound = a.resolveType(t.First(syntax.RoleBound), e)
		a.attribAnnotations(t, e)
		typ = w
	case syntax.UnionType:
		u := &UnionType{}
		for _, alt := range t.All(syntax.RoleComponent) {
			u.Alternatives = append(u.Alternatives, a.resolveType(alt, e))
		}

		typ = u
	case syntax.IntersectionType:
		i := &IntersectionType{}
		for _, b := range t.All(syntax.RoleComponent) {
			i.Bounds = append(i.Bounds, a.resolveType(b, e))
		}

		typ = i
	case syntax.AnnotatedType:
		a.attribAnnotations(t, e)
		typ = a.resolveType(t.First(syntax.RoleType), e)
	default:
		return a.attribExpr(t, e, nil)
	}

	a.record(t, nil, typ)

	return typ
}

// resolveTypeQualifier resolves the qualifier of a qualified type name to
// a class or a package.
func (a *analyzer) resolveTypeQualifier(t *syntax.Tree, e *env) *Symbol {
	if t == nil {
		return nil
	}

	switch t.Kind { //nolint:exhaustive // Names only.
	case syntax.Identifier:
		if sym := a.lookupType(e, t.Name); sym != nil {
			a.record(t, sym, rawType(sym))

			return sym
		}

		pkg := a.packageSym(t.Name)
		a.record(t, pkg, pkg.Type)

		return pkg
	case syntax.MemberSelect:
		owner := a.resolveTypeQualifier(t.First(syntax.RoleQualifier), e)
		if owner == nil {
			return nil
		}

		return a.selectName(t, owner, false)
	case syntax.ParameterizedType:
		ct, _ := a.resolveType(t, e).(*ClassType)
		if ct == nil {
			return nil
		}

		return ct.Sym
	default:
		return nil
	}
}

// fileType finds a type visible everywhere in the unit.
func (a *analyzer) fileType(name string) *Symbol {
	if c, ok := a.topLevel[name]; ok {
		return c
	}

	if c, ok := a.imports[name]; ok {
		return c
	}

	if c := a.lib.class(javaLang + "." + name); c != nil {
		return c
	}

	for _, target := range a.onDemand {
		if target.Kind == KindPackage {
			if c := a.classInPackage(target, name); c != nil {
				return c
			}

			continue
		}

		if c := a.findMemberClass(target, name); c != nil {
			return c
		}
	}

	return nil
}

// staticImport finds a statically imported field.
func (a *analyzer) staticImport(name string) *Symbol {
	if class, ok := a.statics[name]; ok {
		if f := a.findField(class, name); f != nil {
			return f
		}
	}

	for _, class := range a.staticClasses {
		if f := a.findField(class, name); f != nil && f.IsStatic() {
			return f
		}
	}

	return nil
}

// staticMethodSite finds the class a statically imported method comes from.
func (a *analyzer) staticMethodSite(name string) *Symbol {
	if class, ok := a.statics[name]; ok && len(a.methodsNamed(class, name)) > 0 {
		return class
	}

	for _, class := range a.staticClasses {
		if len(a.methodsNamed(class, name)) > 0 {
			return class
		}
	}

	return nil
}

// supertypes returns the direct supertypes of class; interfaces report
// Object so its methods are members of every type.
func (a *analyzer) supertypes(class *Symbol) []Type {
	out := make([]Type, 0, 1+len(class.Interfaces))
	if class.Super != nil {
		out = append(out, class.Super)
	}

	out = append(out, class.Interfaces...)

	if class.Super == nil && class.Kind != KindClass {
		out = append(out, a.objectType())
	}

	return out
}

// closure visits class and its supertypes, nearest first, each once.
func (a *analyzer) closure(class *Symbol, visit func(*Symbol) bool) {
	seen := make(map[*Symbol]bool)
	queue := []*Symbol{class}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		if c == nil || seen[c] {
			continue
		}

		seen[c] = true

		if !visit(c) {
			return
		}

		for _, st := range a.supertypes(c) {
			queue = append(queue, classOf(st))
		}
	}
}

func (a *analyzer) findField(class *Symbol, name string) *Symbol {
	var found *Symbol

	a.closure(class, func(c *Symbol) bool {
		found = c.field(name)

		return found == nil
	})

	return found
}

func (a *analyzer) findMemberClass(class *Symbol, name string) *Symbol {
	var found *Symbol

	a.closure(class, func(c *Symbol) bool {
		found = c.memberClass(name)

		return found == nil
	})

	return found
}

// methodsNamed collects the methods called name visible in class.
// Constructors are only looked up in class itself.
func (a *analyzer) methodsNamed(class *Symbol, name string) []*Symbol {
	var out []*Symbol

	if name == ConstructorName {
		for _, m := range class.Methods() {
			if m.Kind == KindConstructor {
				out = append(out, m)
			}
		}

		return out
	}

	a.closure(class, func(c *Symbol) bool {
		for _, m := range c.Methods() {
			if m.Name == name && m.Kind == KindMethod {
				out = append(out, m)
			}
		}

		return true
	})

	return out
}

func paramType(m *Symbol, i int) Type {
	mt, ok := m.Type.(*MethodType)
	if !ok || len(mt.Params) == 0 {
		return nil
	}

	last := len(mt.Params) - 1
	if i > last && m.Flags.Has(syntax.FlagVarArgs) {
		if arr, isArray := mt.Params[last].(*ArrayType); isArray {
			return arr.Elem
		}
	}

	if i <= last {
		return mt.Params[i]
	}

	return nil
}

func arityMatches(m *Symbol, n int) bool {
	if m.Flags.Has(syntax.FlagVarArgs) {
		return n >= len(m.Params)-1
	}

	return n == len(m.Params)
}

// selectMethod picks the candidate whose parameters best accept args.
// Unknown argument types are compatible with anything.
func (a *analyzer) selectMethod(candidates []*Symbol, args []Type) *Symbol {
	var (
		best      *Symbol
		fallback  *Symbol
		bestScore = -1
	)

	for _, m := range candidates {
		if !arityMatches(m, len(args)) {
			continue
		}

		if fallback == nil {
			fallback = m
		}

		score, ok := 0, true

		for i, arg := range args {
			pt := paramType(m, i)

			varargElem := i == len(m.Params)-1 && m.Flags.Has(syntax.FlagVarArgs)
			if varargElem {
				if arr, isArray := pt.(*ArrayType); isArray && !a.assignable(arg, pt) {
					pt = arr.Elem
				}
			}

			switch {
			case arg == nil:
			case SameType(arg, pt):
				score += 2
			case a.assignable(arg, pt):
				score++
			default:
				ok = false
			}
		}

		if m.Flags.Has(syntax.FlagVarArgs) {
			score--
		}

		if ok && score > bestScore {
			best, bestScore = m, score
		}
	}

	if best == nil {
		return fallback
	}

	return best
}

// boxNames maps primitives to their wrapper classes.
//
//nolint:gochecknoglobals // Static boxing table.
var boxNames = map[*Primitive]string{
	Boolean: "java.lang.Boolean",
	Byte:    "java.lang.Byte",
	Short:   "java.lang.Short",
	Char:    "java.lang.Character",
	Int:     "java.lang.Integer",
	Long:    "java.lang.Long",
	Float:   "java.lang.Float",
	Double:  "java.lang.Double",
}

func (a *analyzer) boxed(t Type) Type {
	if p, ok := t.(*Primitive); ok {
		if c := a.lib.class(boxNames[p]); c != nil {
			return c.Type
		}
	}

	return t
}

func unboxed(t Type) *Primitive {
	switch typ := t.(type) {
	case *Primitive:
		return typ
	case *ClassType:
		for p, name := range boxNames {
			if typ.Sym.External && typ.Sym.QualifiedName() == name {
				return p
			}
		}
	}

	return nil
}

// isSubclass reports whether sub is target or inherits from it.
func (a *analyzer) isSubclass(sub, target *Symbol) bool {
	found := false

	a.closure(sub, func(c *Symbol) bool {
		found = c == target

		return !found
	})

	return found
}

// assignable is a lenient assignment-compatibility check: unknown types,
// type variables and wildcards are accepted.
//
//nolint:cyclop // One case per type category.
func (a *analyzer) assignable(from, to Type) bool {
	if from == nil || to == nil {
		return true
	}

	switch target := to.(type) {
	case *TypeVar, *WildcardType:
		return true
	case *Primitive:
		source := unboxed(from)
		if source == nil {
			return false
		}

		return widens(source, target)
	case *ClassType:
		switch source := from.(type) {
		case NullType:
			return true
		case *Primitive:
			boxed, _ := a.boxed(source).(*ClassType)

			return boxed != nil && a.isSubclass(boxed.Sym, target.Sym)
		case *ClassType:
			return a.isSubclass(source.Sym, target.Sym)
		case *ArrayType:
			return target.Sym.QualifiedName() == objectName
		case *TypeVar:
			if len(source.Sym.Bounds) > 0 {
				return a.assignable(source.Sym.Bounds[0], to)
			}

			return true
		case *IntersectionType, *UnionType:
			return true
		default:
			return false
		}
	case *ArrayType:
		switch source := from.(type) {
		case NullType:
			return true
		case *ArrayType:
			return a.assignable(source.Elem, target.Elem)
		default:
			return false
		}
	default:
		return SameType(from, to)
	}
}

// widens reports primitive widening, identity included.
func widens(from, to *Primitive) bool {
	if from == to {
		return true
	}

	if from == Boolean || to == Boolean || to == Char {
		return false
	}

	if from == Char {
		return to.rank >= Int.rank
	}

	if to == Short {
		return from == Byte
	}

	return from.rank < to.rank && from.rank > 0
}

// unaryPromote applies unary numeric promotion.
func unaryPromote(t Type) Type {
	p := unboxed(t)
	if p == nil || !p.IsNumeric() {
		return t
	}

	if p.rank < Int.rank {
		return Int
	}

	return p
}

// binaryPromote applies binary numeric promotion, or returns nil when
// either operand is not numeric.
func binaryPromote(left, right Type) Type {
	l, r := unboxed(left), unboxed(right)
	if l == nil || r == nil || !l.IsNumeric() || !r.IsNumeric() {
		return nil
	}

	switch {
	case l == Double || r == Double:
		return Double
	case l == Float || r == Float:
		return Float
	case l == Long || r == Long:
		return Long
	default:
		return Int
	}
}

// bindings maps the type parameters of ct's class to its arguments.
func bindings(ct *ClassType) map[*Symbol]Type {
	if ct == nil || len(ct.Args) == 0 || len(ct.Args) != len(ct.Sym.TypeParams) {
		return nil
	}

	out := make(map[*Symbol]Type, len(ct.Args))
	for i, tp := range ct.Sym.TypeParams {
		out[tp] = ct.Args[i]
	}

	return out
}

// subst replaces bound type variables in t.
func subst(t Type, b map[*Symbol]Type) Type {
	if len(b) == 0 || t == nil {
		return t
	}

	switch typ := t.(type) {
	case *TypeVar:
		if repl, ok := b[typ.Sym]; ok && repl != nil {
			return repl
		}

		return typ
	case *ClassType:
		if len(typ.Args) == 0 {
			return typ
		}

		args := make([]Type, len(typ.Args))
		for i, arg := range typ.Args {
			args[i] = subst(arg, b)
		}

		return &ClassType{Sym: typ.Sym, Args: args}
	case *ArrayType:
		return &ArrayType{Elem: subst(typ.Elem, b)}
	case *WildcardType:
		if typ.Bound == nil {
			return typ
		}

		return &WildcardType{Bound: subst(typ.Bound, b), Super: typ.Super}
	case *MethodType:
		out := &MethodType{Result: subst(typ.Result, b), Throws: typ.Throws}
		for _, p := range typ.Params {
			out.Params = append(out.Params, subst(p, b))
		}

		return out
	default:
		return t
	}
}

// asSuper views t as an instance of class, carrying type arguments along
// the inheritance chain.
func (a *analyzer) asSuper(t Type, class *Symbol) *ClassType {
	return a.asSuperSeen(t, class, make(map[*Symbol]bool))
}

func (a *analyzer) asSuperSeen(t Type, class *Symbol, seen map[*Symbol]bool) *ClassType {
	var ct *ClassType

	switch typ := t.(type) {
	case *ClassType:
		ct = typ
	case *TypeVar:
		if len(typ.Sym.Bounds) == 0 {
			return nil
		}

		return a.asSuperSeen(typ.Sym.Bounds[0], class, seen)
	case *Primitive:
		boxed, _ := a.boxed(typ).(*ClassType)
		ct = boxed
	default:
		return nil
	}

	if ct == nil || seen[ct.Sym] {
		return nil
	}

	if ct.Sym == class {
		return ct
	}

	seen[ct.Sym] = true
	b := bindings(ct)

	for _, st := range a.supertypes(ct.Sym) {
		if found := a.asSuperSeen(subst(st, b), class, seen); found != nil {
			return found
		}
	}

	return nil
}

// memberType is the type of member seen from site.
func (a *analyzer) memberType(site Type, member *Symbol) Type {
	if site == nil || member.Owner == nil || !member.Owner.Kind.IsClassLike() {
		return member.Type
	}

	return subst(member.Type, bindings(a.asSuper(site, member.Owner)))
}

// upper strips a wildcard down to its bound, Object when unbounded.
func (a *analyzer) upper(t Type) Type {
	w, ok := t.(*WildcardType)
	if !ok {
		return t
	}

	if w.Bound == nil {
		return a.objectType()
	}

	return w.Bound
}

// sam returns the single abstract method of a functional interface.
func (a *analyzer) sam(t Type) *Symbol {
	class := classOf(t)
	if class == nil || class.Kind != KindInterface {
		return nil
	}

	var found *Symbol

	a.closure(class, func(c *Symbol) bool {
		if c.Kind != KindInterface {
			return true
		}

		for _, m := range c.Methods() {
			if m.Kind == KindMethod && m.IsAbstract() && !m.IsStatic() {
				found = m

				return false
			}
		}

		return true
	})

	return found
}

// iterableElem returns the element type iterated by an enhanced for loop.
func (a *analyzer) iterableElem(t Type) Type {
	if arr, ok := t.(*ArrayType); ok {
		return arr.Elem
	}

	ct := a.asSuper(t, a.lib.class(iterableName))
	if ct == nil || len(ct.Args) == 0 {
		return nil
	}

	return a.upper(ct.Args[0])
}

// infer binds the method type parameters occurring in param from arg.
func (a *analyzer) infer(param, arg Type, owned map[*Symbol]bool, b map[*Symbol]Type) {
	if param == nil || arg == nil {
		return
	}

	switch p := param.(type) {
	case *TypeVar:
		if owned[p.Sym] && b[p.Sym] == nil {
			if _, isNull := arg.(NullType); !isNull {
				b[p.Sym] = a.boxed(arg)
			}
		}
	case *ArrayType:
		if arr, ok := arg.(*ArrayType); ok {
			a.infer(p.Elem, arr.Elem, owned, b)
		}
	case *WildcardType:
		a.infer(p.Bound, arg, owned, b)
	case *ClassType:
		view := a.asSuper(arg, p.Sym)
		if view == nil || len(view.Args) != len(p.Args) {
			return
		}

		for i := range p.Args {
			a.infer(p.Args[i], a.upper(view.Args[i]), owned, b)
		}
	}
}
