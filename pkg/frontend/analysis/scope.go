package analysis

// scope is one lexical level. A scope opened for a class body resolves
// names through the class members, inherited ones included.
type scope struct {
	parent *scope
	class  *Symbol
	vars   map[string]*Symbol
	types  map[string]*Symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent}
}

func classScope(parent *scope, class *Symbol) *scope {
	s := newScope(parent)
	s.class = class

	for _, tp := range class.TypeParams {
		s.declareType(tp)
	}

	return s
}

func (s *scope) declare(sym *Symbol) {
	if sym == nil || sym.Name == "" {
		return
	}

	if s.vars == nil {
		s.vars = make(map[string]*Symbol)
	}

	s.vars[sym.Name] = sym
}

func (s *scope) declareType(sym *Symbol) {
	if sym == nil || sym.Name == "" {
		return
	}

	if s.types == nil {
		s.types = make(map[string]*Symbol)
	}

	s.types[sym.Name] = sym
}

// env is the attribution context of one tree.
type env struct {
	scope *scope
	// class is the innermost enclosing class.
	class *Symbol
	// method is the enclosing method or constructor, nil in initializers.
	method *Symbol
	// result is the expected type of return statements.
	result Type
	// yield is the expected type of yield statements in a switch expression.
	yield Type
	// returned and yielded collect the first value type returned from a
	// lambda body or yielded from a switch expression case.
	returned *Type
	yielded  *Type
}

func (e *env) nested() *env {
	inner := *e
	inner.scope = newScope(e.scope)

	return &inner
}

func (e *env) forClass(class *Symbol) *env {
	return &env{scope: classScope(e.scope, class), class: class}
}

// lookupVar finds a local, a parameter, or a field of an enclosing class.
func (a *analyzer) lookupVar(e *env, name string) *Symbol {
	for s := e.scope; s != nil; s = s.parent {
		if sym, ok := s.vars[name]; ok {
			return sym
		}

		if s.class != nil {
			if f := a.findField(s.class, name); f != nil {
				return f
			}
		}
	}

	return a.staticImport(name)
}

// lookupType finds a type parameter, a local or member class, or a type
// visible at file level.
func (a *analyzer) lookupType(e *env, name string) *Symbol {
	for s := e.scope; s != nil; s = s.parent {
		if sym, ok := s.types[name]; ok {
			return sym
		}

		if s.class != nil {
			if c := a.findMemberClass(s.class, name); c != nil {
				return c
			}
		}
	}

	return a.fileType(name)
}

// methodSite returns the innermost enclosing class declaring or
// inheriting a method called name.
func (a *analyzer) methodSite(e *env, name string) *Symbol {
	for s := e.scope; s != nil; s = s.parent {
		if s.class != nil && len(a.methodsNamed(s.class, name)) > 0 {
			return s.class
		}
	}

	return nil
}
