package analysis

import (
	"strings"

	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// ConstructorName is the simple name of every constructor symbol.
const ConstructorName = "<init>"

// SymbolKind classifies declared entities.
type SymbolKind uint8

// Symbol kinds.
const (
	KindPackage SymbolKind = iota
	KindClass
	KindInterface
	KindEnum
	KindRecord
	KindAnnotationType
	KindConstructor
	KindMethod
	KindField
	KindEnumConstant
	KindParameter
	KindLocalVariable
	KindExceptionParameter
	KindResourceVariable
	KindBindingVariable
	KindTypeParameter
)

//nolint:gochecknoglobals // Static name table indexed by SymbolKind.
var symbolKindNames = [...]string{
	KindPackage:            "PACKAGE",
	KindClass:              "CLASS",
	KindInterface:          "INTERFACE",
	KindEnum:               "ENUM",
	KindRecord:             "RECORD",
	KindAnnotationType:     "ANNOTATION_TYPE",
	KindConstructor:        "CONSTRUCTOR",
	KindMethod:             "METHOD",
	KindField:              "FIELD",
	KindEnumConstant:       "ENUM_CONSTANT",
	KindParameter:          "PARAMETER",
	KindLocalVariable:      "LOCAL_VARIABLE",
	KindExceptionParameter: "EXCEPTION_PARAMETER",
	KindResourceVariable:   "RESOURCE_VARIABLE",
	KindBindingVariable:    "BINDING_VARIABLE",
	KindTypeParameter:      "TYPE_PARAMETER",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}

	return "UNKNOWN"
}

// IsClassLike reports class, interface, enum, record and annotation kinds.
func (k SymbolKind) IsClassLike() bool {
	return k >= KindClass && k <= KindAnnotationType
}

// IsVariable reports every kind of variable symbol.
func (k SymbolKind) IsVariable() bool {
	return k >= KindField && k <= KindBindingVariable
}

// Symbol is a declared or referenced program entity.
type Symbol struct {
	// Owner is the enclosing package, class or method.
	Owner *Symbol
	// Type is the class type, method signature or variable type.
	Type Type
	// Decl is the declaring tree, nil for library and implicit symbols.
	Decl *syntax.Tree
	// Super and Interfaces are the direct supertypes of a class.
	Super      Type
	Interfaces []Type
	// Bounds of a type parameter.
	Bounds     []Type
	TypeParams []*Symbol
	Params     []*Symbol

	fields  []*Symbol
	methods []*Symbol
	classes []*Symbol

	Name string
	// flatName names anonymous classes, for example "Outer$1".
	flatName string
	Flags    syntax.Flag
	Kind     SymbolKind
	// External marks symbols of the built-in library table.
	External bool
	// local marks classes declared in a method body.
	local bool
}

// SimpleName is the declared name; constructors answer "<init>" and
// anonymous classes the empty string.
func (s *Symbol) SimpleName() string {
	if s.Kind == KindPackage {
		if i := strings.LastIndexByte(s.Name, '.'); i >= 0 {
			return s.Name[i+1:]
		}
	}

	return s.Name
}

// QualifiedName returns the canonical dotted name of packages and classes.
// Local and anonymous classes have no canonical name beyond their own.
func (s *Symbol) QualifiedName() string {
	switch {
	case s.Kind == KindPackage:
		return s.Name
	case s.Kind.IsClassLike() || s.Kind == KindTypeParameter:
		if s.Name == "" {
			return s.flatName
		}

		if s.Owner == nil || s.local || s.Kind == KindTypeParameter {
			return s.Name
		}

		switch {
		case s.Owner.Kind == KindPackage:
			if s.Owner.Name == "" {
				return s.Name
			}

			return s.Owner.Name + "." + s.Name
		case s.Owner.Kind.IsClassLike():
			return s.Owner.QualifiedName() + "." + s.Name
		default:
			return s.Name
		}
	default:
		return s.Name
	}
}

// FlatName is the binary name of a class, such as "p.Outer$Inner" or "p.Outer$1".
func (s *Symbol) FlatName() string {
	if s.flatName != "" {
		return s.flatName
	}

	if s.Owner != nil && s.Owner.Kind.IsClassLike() {
		return s.Owner.FlatName() + "$" + s.Name
	}

	return s.QualifiedName()
}

// IsAnonymous reports an anonymous class.
func (s *Symbol) IsAnonymous() bool {
	return s.Kind.IsClassLike() && s.Name == ""
}

// IsStatic reports the static modifier, explicit or implied.
func (s *Symbol) IsStatic() bool { return s.Flags.Has(syntax.FlagStatic) }

// IsAbstract reports the abstract modifier, explicit or implied.
func (s *Symbol) IsAbstract() bool { return s.Flags.Has(syntax.FlagAbstract) }

// String renders the symbol the way the compiler prints elements.
func (s *Symbol) String() string {
	switch {
	case s.Kind == KindPackage:
		if s.Name == "" {
			return "unnamed package"
		}

		return s.Name
	case s.IsAnonymous():
		return "<anonymous " + s.flatName + ">"
	case s.Kind.IsClassLike():
		return s.QualifiedName()
	case s.Kind == KindConstructor || s.Kind == KindMethod:
		name := s.Name
		if s.Kind == KindConstructor && s.Owner != nil {
			name = s.Owner.Name
			if s.Owner.IsAnonymous() {
				name = s.Owner.flatName
			}
		}

		return name + "(" + s.paramList() + ")"
	default:
		return s.Name
	}
}

func (s *Symbol) paramList() string {
	mt, ok := s.Type.(*MethodType)
	if !ok {
		return ""
	}

	parts := make([]string, 0, len(mt.Params))

	for i, p := range mt.Params {
		text := "?"
		if p != nil {
			text = p.String()
		}

		if i == len(mt.Params)-1 && s.Flags.Has(syntax.FlagVarArgs) {
			text = strings.TrimSuffix(text, "[]") + "..."
		}

		parts = append(parts, text)
	}

	return strings.Join(parts, ",")
}

// Fields returns the declared fields and enum constants in order.
func (s *Symbol) Fields() []*Symbol { return s.fields }

// Methods returns the declared methods and constructors in order.
func (s *Symbol) Methods() []*Symbol { return s.methods }

// Classes returns the member classes in order.
func (s *Symbol) Classes() []*Symbol { return s.classes }

func (s *Symbol) addMember(m *Symbol) {
	switch {
	case m.Kind.IsClassLike():
		s.classes = append(s.classes, m)
	case m.Kind == KindMethod || m.Kind == KindConstructor:
		s.methods = append(s.methods, m)
	default:
		s.fields = append(s.fields, m)
	}
}

// field returns the declared field name, not searching supertypes.
func (s *Symbol) field(name string) *Symbol {
	for _, f := range s.fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// memberClass returns the declared member class name.
func (s *Symbol) memberClass(name string) *Symbol {
	for _, c := range s.classes {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// hasMethod reports a declared method name and arity.
func (s *Symbol) hasMethod(name string, arity int) bool {
	for _, m := range s.methods {
		if m.Name == name && len(m.Params) == arity {
			return true
		}
	}

	return false
}

// classType returns the generic self type of a class symbol.
func (s *Symbol) classType() *ClassType {
	if ct, ok := s.Type.(*ClassType); ok {
		return ct
	}

	return &ClassType{Sym: s}
}

func newVar(name string, kind SymbolKind, owner *Symbol, typ Type, decl *syntax.Tree) *Symbol {
	sym := &Symbol{Name: name, Kind: kind, Owner: owner, Type: typ, Decl: decl}
	if decl != nil {
		sym.Flags = declFlags(decl)
	}

	return sym
}

// declFlags merges the tree's own flags with its modifiers.
func declFlags(decl *syntax.Tree) syntax.Flag {
	flags := decl.Flags
	if mods := decl.First(syntax.RoleModifiers); mods != nil {
		flags |= mods.Flags
	}

	return flags
}
