package analysis

import "strings"

// Type is a resolved Java type.
type Type interface {
	String() string
	isType()
}

// Primitive is one of the eight primitive types.
type Primitive struct {
	name string
	rank int
}

func (*Primitive) isType()          {}
func (p *Primitive) String() string { return p.name }

// IsNumeric reports whether p takes part in numeric promotion.
func (p *Primitive) IsNumeric() bool { return p.rank > 0 }

// Primitive types. Rank orders the numeric types for promotion.
//
//nolint:gochecknoglobals // Immutable singletons compared by identity.
var (
	Boolean = &Primitive{name: "boolean"}
	Byte    = &Primitive{name: "byte", rank: 1}
	Short   = &Primitive{name: "short", rank: 2}
	Char    = &Primitive{name: "char", rank: 2}
	Int     = &Primitive{name: "int", rank: 3}
	Long    = &Primitive{name: "long", rank: 4}
	Float   = &Primitive{name: "float", rank: 5}
	Double  = &Primitive{name: "double", rank: 6}
)

//nolint:gochecknoglobals // Keyword lookup for primitive types.
var primitives = map[string]*Primitive{
	"boolean": Boolean, "byte": Byte, "short": Short, "char": Char,
	"int": Int, "long": Long, "float": Float, "double": Double,
}

// VoidType is the result type of methods that return nothing.
type VoidType struct{}

func (VoidType) isType()          {}
func (VoidType) String() string { return "void" }

// NullType is the type of the null literal.
type NullType struct{}

func (NullType) isType()          {}
func (NullType) String() string { return "<nulltype>" }

// ClassType is a class or interface type with optional type arguments.
type ClassType struct {
	Sym  *Symbol
	Args []Type
}

func (*ClassType) isType() {}

func (c *ClassType) String() string {
	name := c.Sym.QualifiedName()
	if len(c.Args) == 0 {
		return name
	}

	return name + "<" + joinTypes(c.Args, ",") + ">"
}

// ArrayType is an array of Elem.
type ArrayType struct {
	Elem Type
}

func (*ArrayType) isType()          {}
func (a *ArrayType) String() string { return a.Elem.String() + "[]" }

// TypeVar is a reference to a declared type parameter.
type TypeVar struct {
	Sym *Symbol
}

func (*TypeVar) isType()          {}
func (t *TypeVar) String() string { return t.Sym.Name }

// MethodType is the signature of a method or constructor.
type MethodType struct {
	Result Type
	Params []Type
	Throws []Type
}

func (*MethodType) isType() {}

func (m *MethodType) String() string {
	result := "void"
	if m.Result != nil {
		result = m.Result.String()
	}

	return "(" + joinTypes(m.Params, ",") + ")" + result
}

// PackageType is the type javac assigns to package names.
type PackageType struct {
	Sym *Symbol
}

func (*PackageType) isType()          {}
func (p *PackageType) String() string { return p.Sym.QualifiedName() }

// WildcardType is a "?" type argument.
type WildcardType struct {
	Bound Type
	Super bool
}

func (*WildcardType) isType() {}

func (w *WildcardType) String() string {
	switch {
	case w.Bound == nil:
		return "?"
	case w.Super:
		return "? super " + w.Bound.String()
	default:
		return "? extends " + w.Bound.String()
	}
}

// UnionType is the type of a multi-catch parameter.
type UnionType struct {
	Alternatives []Type
}

func (*UnionType) isType()          {}
func (u *UnionType) String() string { return joinTypes(u.Alternatives, "|") }

// IntersectionType is the target of an intersection cast.
type IntersectionType struct {
	Bounds []Type
}

func (*IntersectionType) isType()          {}
func (i *IntersectionType) String() string { return joinTypes(i.Bounds, "&") }

func joinTypes(types []Type, sep string) string {
	parts := make([]string, 0, len(types))

	for _, t := range types {
		if t == nil {
			parts = append(parts, "?")

			continue
		}

		parts = append(parts, t.String())
	}

	return strings.Join(parts, sep)
}

// SameType compares two types structurally.
func SameType(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return a.String() == b.String()
}

// classOf returns the class symbol behind a class type or type variable bound.
func classOf(t Type) *Symbol {
	switch typ := t.(type) {
	case *ClassType:
		return typ.Sym
	case *TypeVar:
		if len(typ.Sym.Bounds) > 0 {
			return classOf(typ.Sym.Bounds[0])
		}
	}

	return nil
}
