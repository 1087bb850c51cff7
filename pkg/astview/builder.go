// Package astview converts a resolved Java syntax tree into an immutable
// node tree that carries, per construct, its kind, resolved symbol,
// resolved type and source span.
package astview

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

// Sentinel errors for Build.
var (
	ErrNilUnit           = errors.New("nil compilation unit")
	ErrNilOracle         = errors.New("nil oracle")
	ErrNoCompilationUnit = errors.New("unit root is not a compilation unit")
	ErrContractViolation = errors.New("oracle contract violation")
	errSpanPastEnd       = errors.New("span ends past the source")
	errSpanInconsistent  = errors.New("span rejected")
)

// Report summarizes one build.
type Report struct {
	// Nodes is the number of nodes created.
	Nodes int
	// Elided counts syntax trees without a node kind; their children were
	// attached to the nearest created ancestor.
	Elided int
	// Synthetic counts nodes without a source span.
	Synthetic int
	// Collapsed counts spans with exactly one sentinel end, replaced by NoSpan.
	Collapsed int
}

// Builder converts units into node trees. The zero value is ready to use.
type Builder struct {
	// Logger receives a debug record per elided tree. When nil, nothing is logged.
	Logger *slog.Logger
}

// Build converts unit using oracle with a zero Builder.
func Build(unit *syntax.Unit, oracle Oracle) (*node.Node, error) {
	root, _, err := (&Builder{}).Build(unit, oracle)

	return root, err
}

// Build walks unit once, depth first, and returns the root node. Absent
// symbols and types are recorded as absent; only a unit the oracle does not
// agree with fails the build.
func (b *Builder) Build(unit *syntax.Unit, oracle Oracle) (*node.Node, Report, error) {
	switch {
	case unit == nil:
		return nil, Report{}, ErrNilUnit
	case oracle == nil:
		return nil, Report{}, ErrNilOracle
	case unit.Root == nil || unit.Root.Kind != syntax.CompilationUnit:
		return nil, Report{}, fmt.Errorf("%w: %s", ErrNoCompilationUnit, unit.Filename)
	}

	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	run := &build{unit: unit, oracle: oracle, logger: logger}

	rootPath := syntax.NewPath(unit.Root)

	root, err := run.construct(rootPath, node.KindCompilationUnit)
	if err != nil {
		return nil, Report{}, err
	}

	return root, run.report, nil
}

// build is the state of one traversal.
type build struct {
	unit   *syntax.Unit
	oracle Oracle
	logger *slog.Logger
	report Report
}

// construct creates the node for path. Its children are accumulated from
// the subtree before the node is frozen.
func (r *build) construct(path *syntax.Path, kind node.Kind) (*node.Node, error) {
	tree := path.Leaf()

	builder := node.NewBuilder(kind)

	if sym, ok := r.oracle.SymbolAt(path); ok && sym != nil {
		builder.WithSymbol(sym)
	}

	if typ, ok := r.oracle.TypeAt(path); ok && typ != nil {
		builder.WithType(typ)
	}

	span, err := r.span(tree)
	if err != nil {
		return nil, err
	}

	builder.WithSpan(span)

	children, err := r.children(path, nil)
	if err != nil {
		return nil, err
	}

	r.report.Nodes++

	if !span.IsValid() {
		r.report.Synthetic++
	}

	return builder.WithChildren(children).Build(), nil
}

// children appends the nodes of path's subtrees to acc, in source order.
func (r *build) children(path *syntax.Path, acc []*node.Node) ([]*node.Node, error) {
	for c := range path.Leaf().Children() {
		var err error

		acc, err = r.visit(path.Child(c), acc)
		if err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (r *build) visit(path *syntax.Path, acc []*node.Node) ([]*node.Node, error) {
	tree := path.Leaf()

	kind, ok := Recognize(tree.Kind)
	if !ok {
		r.report.Elided++
		r.logger.Debug("elided tree", "kind", tree.Kind.String(), "depth", path.Depth())

		return r.children(path, acc)
	}

	n, err := r.construct(path, kind)
	if err != nil {
		return nil, err
	}

	return append(acc, n), nil
}

func (r *build) span(tree *syntax.Tree) (node.Span, error) {
	start, err := r.oracle.StartOffset(r.unit, tree)
	if err != nil {
		return node.NoSpan, fmt.Errorf("%w: start of %s: %w", ErrContractViolation, tree, err)
	}

	end, err := r.oracle.EndOffset(r.unit, tree)
	if err != nil {
		return node.NoSpan, fmt.Errorf("%w: end of %s: %w", ErrContractViolation, tree, err)
	}

	if (start == node.NoPos) != (end == node.NoPos) {
		r.report.Collapsed++

		return node.NoSpan, nil
	}

	span, err := node.NewSpan(start, end)
	if err != nil {
		return node.NoSpan, fmt.Errorf("%w: %s: %w: %w", ErrContractViolation, tree, errSpanInconsistent, err)
	}

	if span.IsValid() && span.End() > len(r.unit.Source) {
		return node.NoSpan, fmt.Errorf("%w: %s %s: %w (%d bytes)",
			ErrContractViolation, tree, span, errSpanPastEnd, len(r.unit.Source))
	}

	return span, nil
}
