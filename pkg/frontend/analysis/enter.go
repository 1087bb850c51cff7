// Package analysis resolves names and types in a lowered Java compilation
// unit. It enters class and member symbols first, then attributes bodies,
// and records the symbol and type of every tree it can resolve.
package analysis

import (
	"context"
	"errors"
	"strconv"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// ErrNoUnit is returned when there is no compilation unit to analyze.
var ErrNoUnit = errors.New("analysis: no compilation unit")

// Info records the analysis results of one unit. Trees without an entry
// have no symbol or no type; that is not an error.
type Info struct {
	Symbols map[*syntax.Tree]*Symbol
	Types   map[*syntax.Tree]Type
	Package *Symbol
	// Classes lists every class declared in the unit, anonymous and local
	// ones included, in the order they were entered.
	Classes []*Symbol
}

type analyzer struct {
	info     *Info
	lib      *universe
	unit     *syntax.Unit
	pkg      *Symbol
	packages map[string]*Symbol
	topLevel map[string]*Symbol
	imports  map[string]*Symbol
	// onDemand holds the packages and classes imported with ".*".
	onDemand []*Symbol
	// statics maps statically imported member names to their class.
	statics       map[string]*Symbol
	staticClasses []*Symbol
	classEnvs     map[*Symbol]*env
	methodEnvs    map[*Symbol]*env
	thisSyms      map[*Symbol]*Symbol
	localCounts   map[string]int
	// anonParams holds the constructor parameter types of anonymous
	// class bodies, keyed by body.
	anonParams map[*syntax.Tree][]Type
	length        *Symbol
}

// Analyze resolves the unit and returns the recorded symbols and types.
func Analyze(ctx context.Context, unit *syntax.Unit) (*Info, error) {
	if unit == nil || unit.Root == nil {
		return nil, ErrNoUnit
	}

	a := &analyzer{
		info: &Info{
			Symbols: make(map[*syntax.Tree]*Symbol),
			Types:   make(map[*syntax.Tree]Type),
		},
		lib:         library(),
		unit:        unit,
		packages:    make(map[string]*Symbol),
		topLevel:    make(map[string]*Symbol),
		imports:     make(map[string]*Symbol),
		statics:     make(map[string]*Symbol),
		classEnvs:   make(map[*Symbol]*env),
		methodEnvs:  make(map[*Symbol]*env),
		thisSyms:    make(map[*Symbol]*Symbol),
		localCounts: make(map[string]int),
		anonParams:  make(map[*syntax.Tree][]Type),
		length:      &Symbol{Name: "length", Kind: KindField, Type: Int, Flags: syntax.FlagPublic | syntax.FlagFinal},
	}

	a.enterPackage()

	root := unit.Root
	for _, t := range root.All(syntax.RoleMember) {
		if t.Kind.IsClassLike() {
			a.enterClass(t, a.pkg, false)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, imp := range root.All(syntax.RoleImport) {
		a.enterImport(imp)
	}

	fileEnv := &env{scope: newScope(nil)}

	for _, t := range root.All(syntax.RoleMember) {
		if t.Kind.IsClassLike() {
			a.completeClass(t, fileEnv)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, t := range root.All(syntax.RoleMember) {
		switch {
		case t.Kind.IsClassLike():
			a.attribClass(t)
		case t.Kind == syntax.Module:
			a.attribModule(t)
		default:
			a.attribAny(t, fileEnv)
		}
	}

	return a.info, ctx.Err()
}

func (a *analyzer) record(t *syntax.Tree, sym *Symbol, typ Type) {
	if t == nil {
		return
	}

	if sym != nil {
		a.info.Symbols[t] = sym
	}

	if typ != nil {
		a.info.Types[t] = typ
	}
}

func (a *analyzer) enterPackage() {
	a.pkg = a.packageSym(a.unit.Package())
	a.info.Package = a.pkg
	a.record(a.unit.Root, a.pkg, nil)

	decl := a.unit.Root.First(syntax.RolePackage)
	if decl == nil {
		return
	}

	a.record(decl, a.pkg, nil)
	a.attribAnnotations(decl, &env{scope: newScope(nil)})
	a.recordPackageName(decl.First(syntax.RoleQualifier))
}

// recordPackageName attributes every segment of a package name.
func (a *analyzer) recordPackageName(t *syntax.Tree) *Symbol {
	if t == nil || (t.Kind != syntax.Identifier && t.Kind != syntax.MemberSelect) {
		return nil
	}

	pkg := a.packageSym(syntax.QualifiedName(t))
	a.record(t, pkg, pkg.Type)
	a.recordPackageName(t.First(syntax.RoleQualifier))

	return pkg
}

// packageSym returns the package called name, creating it when neither the
// library nor this unit knows it.
func (a *analyzer) packageSym(name string) *Symbol {
	if a.pkg != nil && a.pkg.Name == name {
		return a.pkg
	}

	if p, ok := a.lib.packages[name]; ok {
		return p
	}

	if p, ok := a.packages[name]; ok {
		return p
	}

	p := &Symbol{Name: name, Kind: KindPackage}
	p.Type = &PackageType{Sym: p}
	a.packages[name] = p

	return p
}

// classInPackage returns the class name declared in pkg, or nil.
func (a *analyzer) classInPackage(pkg *Symbol, name string) *Symbol {
	if pkg == a.pkg {
		if c, ok := a.topLevel[name]; ok {
			return c
		}
	}

	if pkg.Name == "" {
		return nil
	}

	return a.lib.class(pkg.Name + "." + name)
}

func classKind(kind syntax.Kind) SymbolKind {
	switch kind { //nolint:exhaustive // Only class-like kinds reach here.
	case syntax.Interface:
		return KindInterface
	case syntax.Enum:
		return KindEnum
	case syntax.Record:
		return KindRecord
	case syntax.AnnotationType:
		return KindAnnotationType
	default:
		return KindClass
	}
}

// enterClass creates the symbols of a class, its type parameters and its
// member classes.
func (a *analyzer) enterClass(t *syntax.Tree, owner *Symbol, local bool) *Symbol {
	sym := &Symbol{Name: t.Name, Kind: classKind(t.Kind), Owner: owner, Decl: t, Flags: declFlags(t), local: local}

	switch sym.Kind { //nolint:exhaustive // Other kinds carry no implicit modifiers.
	case KindInterface, KindAnnotationType:
		sym.Flags |= syntax.FlagAbstract

		if owner.Kind.IsClassLike() {
			sym.Flags |= syntax.FlagStatic
		}
	case KindEnum, KindRecord:
		sym.Flags |= syntax.FlagFinal

		if owner.Kind.IsClassLike() {
			sym.Flags |= syntax.FlagStatic
		}
	}

	if owner.Kind == KindInterface {
		sym.Flags |= syntax.FlagPublic | syntax.FlagStatic
	}

	var args []Type

	for _, tpTree := range t.All(syntax.RoleTypeParam) {
		tp := &Symbol{Name: tpTree.Name, Kind: KindTypeParameter, Owner: sym, Decl: tpTree}
		tp.Type = &TypeVar{Sym: tp}
		sym.TypeParams = append(sym.TypeParams, tp)
		args = append(args, tp.Type)
	}

	sym.Type = &ClassType{Sym: sym, Args: args}

	switch {
	case local:
	case owner.Kind == KindPackage:
		a.topLevel[sym.Name] = sym
	case owner.Kind.IsClassLike():
		owner.addMember(sym)
	}

	a.info.Symbols[t] = sym
	a.info.Classes = append(a.info.Classes, sym)

	for _, m := range t.All(syntax.RoleMember) {
		if m.Kind.IsClassLike() {
			a.enterClass(m, sym, false)
		}
	}

	return sym
}

// enterLocalClass enters a class declared in a block or an anonymous
// class body and names it after the enclosing class. An anonymous class
// extends or implements super.
func (a *analyzer) enterLocalClass(t *syntax.Tree, e *env, super Type) *Symbol {
	owner := a.pkg

	switch {
	case e.method != nil:
		owner = e.method
	case e.class != nil:
		owner = e.class
	}

	prefix := ""
	if e.class != nil {
		prefix = e.class.FlatName()
	}

	a.localCounts[prefix+"$"+t.Name]++

	sym := a.enterClass(t, owner, true)
	sym.flatName = prefix + "$" + strconv.Itoa(a.localCounts[prefix+"$"+t.Name]) + t.Name

	if t.Name != "" {
		e.scope.declareType(sym)
	}

	if st := classOf(super); st != nil {
		if st.Kind == KindInterface {
			sym.Super = a.objectType()
			sym.Interfaces = []Type{super}
		} else {
			sym.Super = super
		}
	}

	a.completeClass(t, e)

	return sym
}

func (a *analyzer) enterImport(imp *syntax.Tree) {
	qualid := imp.First(syntax.RoleQualifier)
	if qualid == nil || qualid.Kind != syntax.MemberSelect {
		return
	}

	static := imp.Flags.Has(syntax.FlagStatic)
	qualifier := qualid.First(syntax.RoleQualifier)

	if imp.Flags.Has(syntax.FlagOnDemand) {
		target := a.resolveQualified(qualifier, false)
		if target == nil {
			return
		}

		if static {
			if target.Kind.IsClassLike() {
				a.staticClasses = append(a.staticClasses, target)
			}

			return
		}

		a.onDemand = append(a.onDemand, target)

		return
	}

	if !static {
		if class := a.resolveQualified(qualid, true); class != nil {
			a.imports[class.Name] = class
		}

		return
	}

	class := a.resolveQualified(qualifier, true)
	if class == nil {
		return
	}

	a.statics[qualid.Name] = class

	if f := a.findField(class, qualid.Name); f != nil {
		a.record(qualid, f, f.Type)
	} else if ms := a.methodsNamed(class, qualid.Name); len(ms) > 0 {
		a.record(qualid, ms[0], nil)
	} else if c := a.findMemberClass(class, qualid.Name); c != nil {
		a.record(qualid, c, rawType(c))
		a.imports[c.Name] = c
	}
}

// resolveQualified resolves a fully qualified name. When typeOnly is set
// the last segment must name a class.
func (a *analyzer) resolveQualified(t *syntax.Tree, typeOnly bool) *Symbol {
	if t == nil {
		return nil
	}

	switch t.Kind { //nolint:exhaustive // Names only.
	case syntax.Identifier:
		if typeOnly {
			if c := a.classInPackage(a.pkg, t.Name); c != nil {
				a.record(t, c, rawType(c))

				return c
			}

			return nil
		}

		pkg := a.packageSym(t.Name)
		a.record(t, pkg, pkg.Type)

		return pkg
	case syntax.MemberSelect:
		owner := a.resolveQualified(t.First(syntax.RoleQualifier), false)
		if owner == nil {
			return nil
		}

		return a.selectName(t, owner, typeOnly)
	default:
		return nil
	}
}

// selectName resolves "owner.name" where owner is a package or a class.
func (a *analyzer) selectName(t *syntax.Tree, owner *Symbol, typeOnly bool) *Symbol {
	var sym *Symbol

	if owner.Kind == KindPackage {
		sym = a.classInPackage(owner, t.Name)
		if sym == nil && !typeOnly {
			name := t.Name
			if owner.Name != "" {
				name = owner.Name + "." + t.Name
			}

			sym = a.packageSym(name)
		}
	} else {
		sym = a.findMemberClass(owner, t.Name)
	}

	if sym == nil {
		return nil
	}

	if sym.Kind == KindPackage {
		a.record(t, sym, sym.Type)
	} else {
		a.record(t, sym, rawType(sym))
	}

	return sym
}

// completeClass resolves the supertypes and member signatures of a class
// and of its member classes.
func (a *analyzer) completeClass(t *syntax.Tree, outer *env) {
	sym := a.info.Symbols[t]
	if sym == nil {
		return
	}

	e := outer.forClass(sym)
	a.classEnvs[sym] = e
	a.record(t, sym, sym.Type)

	for i, tpTree := range t.All(syntax.RoleTypeParam) {
		tp := sym.TypeParams[i]
		a.record(tpTree, tp, tp.Type)
		a.completeTypeParam(tpTree, tp, e)
	}

	a.completeSupertypes(t, sym, e)

	// Fields go first: record constructors take their parameter types
	// from the components.
	for _, m := range t.All(syntax.RoleMember) {
		if m.Kind == syntax.Variable {
			a.enterField(m, sym, e)
		}
	}

	for _, m := range t.All(syntax.RoleMember) {
		switch {
		case m.Kind.IsClassLike():
			a.completeClass(m, e)
		case m.Kind == syntax.Method:
			a.enterMethod(m, sym, e)
		}
	}

	a.addImplicitMembers(sym)
}

func (a *analyzer) completeTypeParam(t *syntax.Tree, tp *Symbol, e *env) {
	for _, b := range t.All(syntax.RoleBound) {
		if bound := a.resolveType(b, e); bound != nil {
			tp.Bounds = append(tp.Bounds, bound)
		}
	}

	if len(tp.Bounds) == 0 {
		tp.Bounds = []Type{a.objectType()}
	}

	a.attribAnnotations(t, e)
}

func (a *analyzer) completeSupertypes(t *syntax.Tree, sym *Symbol, e *env) {
	for _, ext := range t.All(syntax.RoleExtends) {
		st := a.resolveType(ext, e)
		if st == nil {
			continue
		}

		if sym.Kind == KindInterface {
			sym.Interfaces = append(sym.Interfaces, st)
		} else if sym.Super == nil {
			sym.Super = st
		}
	}

	for _, impl := range t.All(syntax.RoleImplements) {
		if st := a.resolveType(impl, e); st != nil {
			sym.Interfaces = append(sym.Interfaces, st)
		}
	}

	for _, p := range t.All(syntax.RolePermits) {
		a.resolveType(p, e)
	}

	if sym.Super != nil || sym.Kind == KindInterface || sym.Kind == KindAnnotationType {
		return
	}

	switch sym.Kind { //nolint:exhaustive // Remaining class kinds.
	case KindEnum:
		sym.Super = &ClassType{Sym: a.lib.class(enumName), Args: []Type{sym.Type}}
	case KindRecord:
		sym.Super = a.lib.class(recordName).Type
	default:
		sym.Super = a.objectType()
	}
}

func (a *analyzer) enterField(t *syntax.Tree, class *Symbol, e *env) {
	kind := KindField
	if t.Flags.Has(syntax.FlagEnumConstant) {
		kind = KindEnumConstant
	}

	var typ Type
	if kind == KindEnumConstant {
		typ = class.Type
	} else {
		typ = a.resolveType(t.First(syntax.RoleType), e)
	}

	f := newVar(t.Name, kind, class, typ, t)
	if class.Kind == KindInterface {
		f.Flags |= syntax.FlagPublic | syntax.FlagStatic | syntax.FlagFinal
	}

	a.record(t, f, typ)
	class.addMember(f)
}

func (a *analyzer) enterMethod(t *syntax.Tree, class *Symbol, classEnv *env) {
	kind := KindMethod
	if t.Name == ConstructorName {
		kind = KindConstructor
	}

	m := &Symbol{Name: t.Name, Kind: kind, Owner: class, Decl: t, Flags: declFlags(t)}

	if class.Kind == KindInterface || class.Kind == KindAnnotationType {
		if !m.Flags.Has(syntax.FlagPrivate) {
			m.Flags |= syntax.FlagPublic
		}

		if t.First(syntax.RoleBody) == nil && !m.IsStatic() {
			m.Flags |= syntax.FlagAbstract
		}
	}

	e := classEnv.nested()
	e.method = m

	for _, tpTree := range t.All(syntax.RoleTypeParam) {
		tp := &Symbol{Name: tpTree.Name, Kind: KindTypeParameter, Owner: m, Decl: tpTree}
		tp.Type = &TypeVar{Sym: tp}
		m.TypeParams = append(m.TypeParams, tp)
		e.scope.declareType(tp)
		a.record(tpTree, tp, tp.Type)
	}

	for i, tpTree := range t.All(syntax.RoleTypeParam) {
		a.completeTypeParam(tpTree, m.TypeParams[i], e)
	}

	mt := &MethodType{Result: VoidType{}}
	if kind == KindMethod {
		if rt := a.resolveType(t.First(syntax.RoleType), e); rt != nil {
			mt.Result = rt
		}
	}

	for i, p := range t.All(syntax.RoleParam) {
		if p.Kind != syntax.Variable || p.Name == "this" {
			a.resolveType(p.First(syntax.RoleType), e)

			continue
		}

		typ := a.resolveType(p.First(syntax.RoleType), e)
		if typ == nil && class.Kind == KindRecord {
			if component := class.field(p.Name); component != nil {
				typ = component.Type
			}
		}

		if typ == nil && class.IsAnonymous() {
			if params := a.anonParams[class.Decl]; i < len(params) {
				typ = params[i]
			}
		}

		param := newVar(p.Name, KindParameter, m, typ, p)
		if p.Flags.Has(syntax.FlagVarArgs) {
			m.Flags |= syntax.FlagVarArgs
		}

		a.record(p, param, typ)
		m.Params = append(m.Params, param)
		mt.Params = append(mt.Params, typ)
	}

	if t.Flags.Has(syntax.FlagCompact) {
		for _, component := range class.Fields() {
			if component.Decl != nil && component.Decl.Flags.Has(syntax.FlagRecordComponent) {
				param := newVar(component.Name, KindParameter, m, component.Type, nil)
				m.Params = append(m.Params, param)
				mt.Params = append(mt.Params, component.Type)
			}
		}
	}

	for _, th := range t.All(syntax.RoleThrows) {
		if typ := a.resolveType(th, e); typ != nil {
			mt.Throws = append(mt.Throws, typ)
		}
	}

	m.Type = mt
	a.methodEnvs[m] = e
	a.record(t, m, mt)
	class.addMember(m)
}

// addImplicitMembers declares the members the language generates for
// enums and records.
func (a *analyzer) addImplicitMembers(class *Symbol) {
	switch class.Kind { //nolint:exhaustive // Only enums and records have implicit members.
	case KindEnum:
		if !class.hasMethod("values", 0) {
			values := &Symbol{Name: "values", Kind: KindMethod, Owner: class, Flags: syntax.FlagPublic | syntax.FlagStatic}
			values.Type = &MethodType{Result: &ArrayType{Elem: class.Type}}
			class.addMember(values)
		}

		if !class.hasMethod("valueOf", 1) {
			str := a.stringType()
			valueOf := &Symbol{Name: "valueOf", Kind: KindMethod, Owner: class, Flags: syntax.FlagPublic | syntax.FlagStatic}
			valueOf.Params = []*Symbol{{Name: "name", Kind: KindParameter, Owner: valueOf, Type: str}}
			valueOf.Type = &MethodType{Result: class.Type, Params: []Type{str}}
			class.addMember(valueOf)
		}
	case KindRecord:
		for _, f := range class.Fields() {
			if f.Decl == nil || !f.Decl.Flags.Has(syntax.FlagRecordComponent) || class.hasMethod(f.Name, 0) {
				continue
			}

			accessor := &Symbol{Name: f.Name, Kind: KindMethod, Owner: class, Flags: syntax.FlagPublic}
			accessor.Type = &MethodType{Result: f.Type}
			class.addMember(accessor)
		}
	}
}

func (a *analyzer) objectType() Type {
	return a.lib.class(objectName).Type
}

func (a *analyzer) stringType() Type {
	return a.lib.class(stringName).Type
}

// thisSym returns the implicit "this" variable of class.
func (a *analyzer) thisSym(class *Symbol) *Symbol {
	if sym, ok := a.thisSyms[class]; ok {
		return sym
	}

	sym := &Symbol{Name: "this", Kind: KindField, Owner: class, Type: class.Type, Flags: syntax.FlagFinal}
	a.thisSyms[class] = sym

	return sym
}
