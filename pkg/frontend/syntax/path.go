package syntax

import "iter"

// Path locates a tree by the chain of its ancestors up to the unit root.
// Paths are immutable; extending one shares the parent chain.
type Path struct {
	parent *Path
	leaf   *Tree
	depth  int
}

// NewPath returns the path consisting of root alone.
func NewPath(root *Tree) *Path {
	return &Path{leaf: root}
}

// Child extends p with t.
func (p *Path) Child(t *Tree) *Path {
	return &Path{parent: p, leaf: t, depth: p.depth + 1}
}

// Leaf returns the tree the path points at.
func (p *Path) Leaf() *Tree { return p.leaf }

// Parent returns the enclosing path, or nil at the root.
func (p *Path) Parent() *Path { return p.parent }

// Depth is zero at the root.
func (p *Path) Depth() int { return p.depth }

// Root returns the tree at the top of the path.
func (p *Path) Root() *Tree {
	current := p
	for current.parent != nil {
		current = current.parent
	}

	return current.leaf
}

// Ancestors yields the leaf first, then each enclosing tree up to the root.
func (p *Path) Ancestors() iter.Seq[*Tree] {
	return func(yield func(*Tree) bool) {
		for current := p; current != nil; current = current.parent {
			if !yield(current.leaf) {
				return
			}
		}
	}
}

// Enclosing returns the nearest tree on the path, the leaf included, whose
// kind satisfies match.
func (p *Path) Enclosing(match func(Kind) bool) (*Tree, bool) {
	for t := range p.Ancestors() {
		if match(t.Kind) {
			return t, true
		}
	}

	return nil, false
}
