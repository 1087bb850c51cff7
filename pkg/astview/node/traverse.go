package node

import "iter"

// PreOrder yields n and its descendants, parents before children.
func (n *Node) PreOrder() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil {
			return
		}

		stack := []*Node{n}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(current) {
				return
			}

			for i := len(current.children) - 1; i >= 0; i-- {
				stack = append(stack, current.children[i])
			}
		}
	}
}

// Walk yields every node with its depth, the root being depth zero.
func (n *Node) Walk() iter.Seq2[int, *Node] {
	type frame struct {
		node  *Node
		depth int
	}

	return func(yield func(int, *Node) bool) {
		if n == nil {
			return
		}

		stack := []frame{{node: n}}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(current.depth, current.node) {
				return
			}

			for i := len(current.node.children) - 1; i >= 0; i-- {
				stack = append(stack, frame{node: current.node.children[i], depth: current.depth + 1})
			}
		}
	}
}

// Find returns all nodes, in pre-order, for which predicate is true.
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	var found []*Node

	for candidate := range n.PreOrder() {
		if predicate(candidate) {
			found = append(found, candidate)
		}
	}

	return found
}

// FindFirst returns the first pre-order node for which predicate is true.
func (n *Node) FindFirst(predicate func(*Node) bool) (*Node, bool) {
	for candidate := range n.PreOrder() {
		if predicate(candidate) {
			return candidate, true
		}
	}

	return nil, false
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	for range n.PreOrder() {
		total++
	}

	return total
}

// Innermost returns the deepest node whose span contains offset.
// Spans do not necessarily nest, so every node is inspected.
func (n *Node) Innermost(offset int) (*Node, bool) {
	var (
		best      *Node
		bestDepth = -1
	)

	for depth, candidate := range n.Walk() {
		if candidate.span.Contains(offset) && depth >= bestDepth {
			best, bestDepth = candidate, depth
		}
	}

	return best, best != nil
}
