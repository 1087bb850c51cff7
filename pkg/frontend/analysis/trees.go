package analysis

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// ErrForeignTree is returned for a tree that does not belong to the unit.
var ErrForeignTree = errors.New("tree does not belong to the compilation unit")

// Trees answers symbol, type and position queries about one analyzed unit.
type Trees struct {
	unit    *syntax.Unit
	info    *Info
	members map[*syntax.Tree]struct{}
}

// NewTrees indexes the trees of unit for queries against info.
func NewTrees(unit *syntax.Unit, info *Info) *Trees {
	trees := &Trees{unit: unit, info: info, members: make(map[*syntax.Tree]struct{})}

	for p := range unit.Walk() {
		trees.members[p.Leaf()] = struct{}{}
	}

	return trees
}

// Info returns the analysis result behind the queries.
func (t *Trees) Info() *Info { return t.info }

// SymbolAt returns the symbol of the path's leaf.
func (t *Trees) SymbolAt(path *syntax.Path) (node.Symbol, bool) {
	if path == nil || t.info == nil {
		return nil, false
	}

	sym, ok := t.info.Symbols[path.Leaf()]
	if !ok || sym == nil {
		return nil, false
	}

	return sym, true
}

// TypeAt returns the type of the path's leaf.
func (t *Trees) TypeAt(path *syntax.Path) (node.Type, bool) {
	if path == nil || t.info == nil {
		return nil, false
	}

	typ, ok := t.info.Types[path.Leaf()]
	if !ok || typ == nil {
		return nil, false
	}

	return typ, true
}

// StartOffset returns the start of tree, or NoPos for a synthetic tree.
func (t *Trees) StartOffset(unit *syntax.Unit, tree *syntax.Tree) (int, error) {
	if err := t.check(unit, tree); err != nil {
		return node.NoPos, err
	}

	if tree.IsSynthetic() {
		return node.NoPos, nil
	}

	return tree.Pos, nil
}

// EndOffset returns the end of tree, or NoPos for a synthetic tree.
func (t *Trees) EndOffset(unit *syntax.Unit, tree *syntax.Tree) (int, error) {
	if err := t.check(unit, tree); err != nil {
		return node.NoPos, err
	}

	if tree.IsSynthetic() || tree.End == syntax.NoPos {
		return node.NoPos, nil
	}

	return tree.End, nil
}

func (t *Trees) check(unit *syntax.Unit, tree *syntax.Tree) error {
	if unit != t.unit {
		return fmt.Errorf("%w: unit %q is not the analyzed one", ErrForeignTree, unitName(unit))
	}

	if tree == nil {
		return fmt.Errorf("%w: nil tree", ErrForeignTree)
	}

	if _, ok := t.members[tree]; !ok {
		return fmt.Errorf("%w: %s", ErrForeignTree, tree)
	}

	return nil
}

func unitName(unit *syntax.Unit) string {
	if unit == nil {
		return "<nil>"
	}

	return unit.Filename
}
