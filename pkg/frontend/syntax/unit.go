package syntax

import (
	"fmt"
	"iter"
)

// Diagnostic is a problem the parser recovered from.
type Diagnostic struct {
	Message string
	Pos     int
	End     int
	Line    int
	Column  int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Unit is one parsed source file.
type Unit struct {
	Filename    string
	Source      []byte
	Root        *Tree
	Diagnostics []Diagnostic
}

// Walk yields every tree of the unit with its path, parents first.
func (u *Unit) Walk() iter.Seq[*Path] {
	return func(yield func(*Path) bool) {
		if u == nil || u.Root == nil {
			return
		}

		walkPath(NewPath(u.Root), yield)
	}
}

func walkPath(p *Path, yield func(*Path) bool) bool {
	if !yield(p) {
		return false
	}

	for c := range p.leaf.Children() {
		if !walkPath(p.Child(c), yield) {
			return false
		}
	}

	return true
}

// PathTo returns the path from the unit root to target.
func (u *Unit) PathTo(target *Tree) (*Path, bool) {
	for p := range u.Walk() {
		if p.leaf == target {
			return p, true
		}
	}

	return nil, false
}

// Package returns the declared package name, or "" for the unnamed package.
func (u *Unit) Package() string {
	if u == nil || u.Root == nil {
		return ""
	}

	pkg := u.Root.First(RolePackage)
	if pkg == nil {
		return ""
	}

	return QualifiedName(pkg.First(RoleQualifier))
}

// QualifiedName flattens an identifier or member-select chain into a
// dotted name.
func QualifiedName(t *Tree) string {
	if t == nil {
		return ""
	}

	switch t.Kind { //nolint:exhaustive // Only name trees are flattened.
	case Identifier:
		return t.Name
	case MemberSelect:
		prefix := QualifiedName(t.First(RoleQualifier))
		if prefix == "" {
			return t.Name
		}

		return prefix + "." + t.Name
	default:
		return ""
	}
}
