package astview

import (
	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// Oracle answers semantic and position queries about an analyzed unit.
// Implementations are expected to be pure in-memory lookups.
type Oracle interface {
	// SymbolAt returns the symbol the path's leaf declares or refers to.
	SymbolAt(path *syntax.Path) (node.Symbol, bool)
	// TypeAt returns the type assigned to the path's leaf.
	TypeAt(path *syntax.Path) (node.Type, bool)
	// StartOffset returns the start of tree, or node.NoPos for a tree with
	// no source position. It fails for a tree outside unit.
	StartOffset(unit *syntax.Unit, tree *syntax.Tree) (int, error)
	// EndOffset is StartOffset for the exclusive end.
	EndOffset(unit *syntax.Unit, tree *syntax.Tree) (int, error)
}
