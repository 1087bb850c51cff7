package syntax

import (
	"iter"
	"strings"
)

// NoPos marks a compiler-generated tree with no source position.
const NoPos = -1

// Role tags a child with the slot it fills in its parent.
type Role uint8

// Child roles.
const (
	RoleNone Role = iota
	RoleModifiers
	RoleTypeParam
	RoleType
	RoleExtends
	RoleImplements
	RolePermits
	RoleMember
	RoleParam
	RoleThrows
	RoleBody
	RoleDefault
	RoleInit
	RoleCond
	RoleThen
	RoleElse
	RoleUpdate
	RoleExpr
	RoleLeft
	RoleRight
	RoleArg
	RoleTypeArg
	RoleQualifier
	RoleIndex
	RoleDim
	RoleElem
	RoleCase
	RoleLabel
	RoleGuard
	RoleResource
	RoleCatch
	RoleFinally
	RoleBound
	RoleComponent
	RoleDetail
	RoleEnclosing
	RoleAnnotation
	RoleDirective
	RolePackage
	RoleImport
)

// Flag is a bit set of modifiers and shape details.
type Flag uint32

// Modifier and shape flags.
const (
	FlagPublic Flag = 1 << iota
	FlagProtected
	FlagPrivate
	FlagAbstract
	FlagStatic
	FlagFinal
	FlagSynchronized
	FlagNative
	FlagTransient
	FlagVolatile
	FlagStrictfp
	FlagDefault
	FlagSealed
	FlagNonSealed
	FlagPostfix
	FlagOnDemand
	FlagVarArgs
	FlagImplicitType
	FlagEnumConstant
	FlagRecordComponent
	FlagSuperBound
	FlagExtendsBound
	FlagCompact
	FlagArrow
	FlagConstructorRef
)

//nolint:gochecknoglobals // Keyword table for modifier flags.
var modifierKeywords = []struct {
	flag Flag
	word string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagAbstract, "abstract"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagSynchronized, "synchronized"},
	{FlagNative, "native"},
	{FlagTransient, "transient"},
	{FlagVolatile, "volatile"},
	{FlagStrictfp, "strictfp"},
	{FlagDefault, "default"},
	{FlagSealed, "sealed"},
	{FlagNonSealed, "non-sealed"},
}

// ModifierFlag returns the flag for a modifier keyword.
func ModifierFlag(word string) (Flag, bool) {
	for _, entry := range modifierKeywords {
		if entry.word == word {
			return entry.flag, true
		}
	}

	return 0, false
}

// Has reports whether every bit of other is set.
func (f Flag) Has(other Flag) bool { return f&other == other }

// Modifiers renders the modifier keywords in canonical order.
func (f Flag) Modifiers() string {
	words := make([]string, 0, len(modifierKeywords))
	for _, entry := range modifierKeywords {
		if f.Has(entry.flag) {
			words = append(words, entry.word)
		}
	}

	return strings.Join(words, " ")
}

// LiteralKind distinguishes literal forms.
type LiteralKind uint8

// Literal kinds.
const (
	LitNone LiteralKind = iota
	LitInt
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitTextBlock
	LitBoolean
	LitNull
)

type child struct {
	tree *Tree
	role Role
}

// Tree is one node of a resolved Java syntax tree.
type Tree struct {
	// Name is the declared or referenced simple name, a statement label,
	// the primitive keyword, or the literal text.
	Name string
	// Op is the operator token of unary, binary and assignment trees.
	Op       string
	children []child
	// Pos and End are byte offsets into the unit's source, or NoPos.
	Pos   int
	End   int
	Flags Flag
	Lit   LiteralKind
	Kind  Kind
}

// New returns a positioned tree.
func New(kind Kind, pos, end int) *Tree {
	return &Tree{Kind: kind, Pos: pos, End: end}
}

// Synthetic returns a tree that has no source position.
func Synthetic(kind Kind) *Tree {
	return &Tree{Kind: kind, Pos: NoPos, End: NoPos}
}

// IsSynthetic reports whether the tree was generated rather than parsed.
func (t *Tree) IsSynthetic() bool { return t.Pos == NoPos }

// Add appends child in the given role and returns t. Nil children are ignored.
func (t *Tree) Add(role Role, c *Tree) *Tree {
	if c != nil {
		t.children = append(t.children, child{tree: c, role: role})
	}

	return t
}

// Prepend inserts child in front of the existing children.
func (t *Tree) Prepend(role Role, c *Tree) *Tree {
	if c != nil {
		t.children = append([]child{{tree: c, role: role}}, t.children...)
	}

	return t
}

// Len returns the number of children.
func (t *Tree) Len() int { return len(t.children) }

// Children yields the children in source order.
func (t *Tree) Children() iter.Seq[*Tree] {
	return func(yield func(*Tree) bool) {
		for _, c := range t.children {
			if !yield(c.tree) {
				return
			}
		}
	}
}

// Slots yields each child together with its role.
func (t *Tree) Slots() iter.Seq2[Role, *Tree] {
	return func(yield func(Role, *Tree) bool) {
		for _, c := range t.children {
			if !yield(c.role, c.tree) {
				return
			}
		}
	}
}

// First returns the first child in role, or nil.
func (t *Tree) First(role Role) *Tree {
	for _, c := range t.children {
		if c.role == role {
			return c.tree
		}
	}

	return nil
}

// All returns every child in role, in order.
func (t *Tree) All(role Role) []*Tree {
	var out []*Tree

	for _, c := range t.children {
		if c.role == role {
			out = append(out, c.tree)
		}
	}

	return out
}

// Text returns the source covered by t, or "" for synthetic trees.
func (t *Tree) Text(src []byte) string {
	if t.IsSynthetic() || t.End > len(src) || t.Pos > t.End {
		return ""
	}

	return string(src[t.Pos:t.End])
}

func (t *Tree) String() string {
	if t.Name == "" {
		return t.Kind.String()
	}

	return t.Kind.String() + "(" + t.Name + ")"
}
