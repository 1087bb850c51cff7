// Package node provides the immutable tree node produced by the astview
// builder, together with read-only traversal helpers.
package node

import (
	"iter"
	"slices"
)

// Symbol is a resolved declaration or entity as reported by the front end.
type Symbol interface {
	// SimpleName is the unqualified name; empty for anonymous entities.
	SimpleName() string
	String() string
}

// Type is a resolved type as reported by the front end.
type Type interface {
	String() string
}

// Node is one syntax construct of a compilation unit.
//
// A Node never changes after Build returns it: there are no setters and the
// children slice is owned by the node.
type Node struct {
	symbol   Symbol
	typ      Type
	children []*Node
	span     Span
	kind     Kind
}

// Builder assembles a single Node.
type Builder struct {
	node *Node
}

// NewBuilder starts a node of the given kind with no symbol, no type,
// NoSpan and no children.
func NewBuilder(kind Kind) *Builder {
	return &Builder{node: &Node{kind: kind, span: NoSpan}}
}

// WithSymbol sets the resolved symbol. A nil symbol means absent.
func (builder *Builder) WithSymbol(symbol Symbol) *Builder {
	builder.node.symbol = symbol

	return builder
}

// WithType sets the resolved type. A nil type means absent.
func (builder *Builder) WithType(typ Type) *Builder {
	builder.node.typ = typ

	return builder
}

// WithSpan sets the source span.
func (builder *Builder) WithSpan(span Span) *Builder {
	builder.node.span = span

	return builder
}

// WithChildren sets the ordered children. The builder takes ownership of the slice.
func (builder *Builder) WithChildren(children []*Node) *Builder {
	builder.node.children = children

	return builder
}

// Build returns the finished node. The builder must not be reused.
func (builder *Builder) Build() *Node {
	built := builder.node
	builder.node = nil

	return built
}

// Kind returns the syntactic category.
func (n *Node) Kind() Kind { return n.kind }

// Symbol returns the resolved symbol, if the front end supplied one.
func (n *Node) Symbol() (Symbol, bool) {
	return n.symbol, n.symbol != nil
}

// Type returns the resolved type, if the front end supplied one.
func (n *Node) Type() (Type, bool) {
	return n.typ, n.typ != nil
}

// Span returns the source span, possibly NoSpan.
func (n *Node) Span() Span { return n.span }

// Children yields the children in source order.
func (n *Node) Children() iter.Seq[*Node] {
	return slices.Values(n.children)
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}

	return n.children[i]
}

// Name returns the symbol's simple name, or "" when there is none.
func (n *Node) Name() string {
	if n.symbol == nil {
		return ""
	}

	return n.symbol.SimpleName()
}

// String renders the node as "KIND" or "KIND (name)".
func (n *Node) String() string {
	name := n.Name()
	if name == "" {
		return n.kind.String()
	}

	return n.kind.String() + " (" + name + ")"
}
