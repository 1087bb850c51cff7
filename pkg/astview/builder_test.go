package astview_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview"
	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/frontend/syntax"
)

type fakeSymbol string

func (s fakeSymbol) SimpleName() string { return string(s) }
func (s fakeSymbol) String() string     { return string(s) }

type fakeType string

func (t fakeType) String() string { return string(t) }

var errOutside = errors.New("outside")

// fakeOracle reads positions straight from the trees and semantics from maps.
type fakeOracle struct {
	symbols map[*syntax.Tree]node.Symbol
	types   map[*syntax.Tree]node.Type
	foreign map[*syntax.Tree]bool
	ends    map[*syntax.Tree]int
	queried []*syntax.Tree
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		symbols: make(map[*syntax.Tree]node.Symbol),
		types:   make(map[*syntax.Tree]node.Type),
		foreign: make(map[*syntax.Tree]bool),
		ends:    make(map[*syntax.Tree]int),
	}
}

func (o *fakeOracle) SymbolAt(path *syntax.Path) (node.Symbol, bool) {
	o.queried = append(o.queried, path.Leaf())
	sym, ok := o.symbols[path.Leaf()]

	return sym, ok
}

func (o *fakeOracle) TypeAt(path *syntax.Path) (node.Type, bool) {
	typ, ok := o.types[path.Leaf()]

	return typ, ok
}

func (o *fakeOracle) StartOffset(_ *syntax.Unit, tree *syntax.Tree) (int, error) {
	if o.foreign[tree] {
		return node.NoPos, errOutside
	}

	return tree.Pos, nil
}

func (o *fakeOracle) EndOffset(_ *syntax.Unit, tree *syntax.Tree) (int, error) {
	if o.foreign[tree] {
		return node.NoPos, errOutside
	}

	if end, ok := o.ends[tree]; ok {
		return end, nil
	}

	return tree.End, nil
}

func unitOf(root *syntax.Tree, size int) *syntax.Unit {
	return &syntax.Unit{Filename: "A.java", Source: make([]byte, size), Root: root}
}

func kinds(root *node.Node) []node.Kind {
	var out []node.Kind
	for n := range root.PreOrder() {
		out = append(out, n.Kind())
	}

	return out
}

func TestBuildRejectsMissingInput(t *testing.T) {
	t.Parallel()

	_, err := astview.Build(nil, newFakeOracle())
	require.ErrorIs(t, err, astview.ErrNilUnit)

	_, err = astview.Build(unitOf(syntax.New(syntax.CompilationUnit, 0, 1), 1), nil)
	require.ErrorIs(t, err, astview.ErrNilOracle)

	_, err = astview.Build(&syntax.Unit{Filename: "A.java"}, newFakeOracle())
	require.ErrorIs(t, err, astview.ErrNoCompilationUnit)

	_, err = astview.Build(unitOf(syntax.New(syntax.Class, 0, 1), 1), newFakeOracle())
	require.ErrorIs(t, err, astview.ErrNoCompilationUnit)
}

func TestBuildCopiesOracleAnswers(t *testing.T) {
	t.Parallel()

	class := syntax.New(syntax.Class, 0, 10)
	mods := syntax.Synthetic(syntax.Modifiers)
	class.Add(syntax.RoleModifiers, mods)

	root := syntax.New(syntax.CompilationUnit, 0, 12).Add(syntax.RoleMember, class)

	oracle := newFakeOracle()
	oracle.symbols[class] = fakeSymbol("A")
	oracle.types[class] = fakeType("A")

	built, report, err := (&astview.Builder{}).Build(unitOf(root, 12), oracle)
	require.NoError(t, err)

	assert.Equal(t, node.KindCompilationUnit, built.Kind())
	assert.Equal(t, []node.Kind{node.KindCompilationUnit, node.KindClass, node.KindModifiers}, kinds(built))

	classNode := built.Child(0)
	sym, ok := classNode.Symbol()
	require.True(t, ok)
	assert.Equal(t, "A", sym.SimpleName())
	assert.Equal(t, "CLASS (A)", classNode.String())
	assert.Equal(t, node.MustSpan(0, 10), classNode.Span())

	modsNode := classNode.Child(0)
	_, ok = modsNode.Symbol()
	assert.False(t, ok)
	_, ok = modsNode.Type()
	assert.False(t, ok)
	assert.Equal(t, node.NoSpan, modsNode.Span())

	assert.Equal(t, astview.Report{Nodes: 3, Synthetic: 1}, report)
	assert.Equal(t, []*syntax.Tree{root, class, mods}, oracle.queried)
}

func TestBuildPassesThroughUnknownKinds(t *testing.T) {
	t.Parallel()

	// VARIABLE
	//   SWITCH_EXPRESSION      elided
	//     IDENTIFIER
	//     CASE
	//       CONSTANT_CASE_LABEL  elided
	//         LITERAL
	//       LITERAL
	ident := syntax.New(syntax.Identifier, 10, 11)
	label := syntax.New(syntax.ConstantCaseLabel, 20, 21).Add(syntax.RoleLabel, syntax.New(syntax.Literal, 20, 21))
	cs := syntax.New(syntax.Case, 15, 30).Add(syntax.RoleLabel, label).Add(syntax.RoleBody, syntax.New(syntax.Literal, 25, 26))
	sw := syntax.New(syntax.SwitchExpression, 8, 32).Add(syntax.RoleExpr, ident).Add(syntax.RoleCase, cs)
	variable := syntax.New(syntax.Variable, 0, 33).Add(syntax.RoleInit, sw)
	root := syntax.New(syntax.CompilationUnit, 0, 34).Add(syntax.RoleMember, variable)

	built, report, err := (&astview.Builder{}).Build(unitOf(root, 34), newFakeOracle())
	require.NoError(t, err)

	assert.Equal(t, []node.Kind{
		node.KindCompilationUnit,
		node.KindVariable,
		node.KindIdentifier,
		node.KindCase,
		node.KindLiteral,
		node.KindLiteral,
	}, kinds(built))

	variableNode := built.Child(0)
	require.Equal(t, 2, variableNode.ChildCount())
	assert.Equal(t, node.KindIdentifier, variableNode.Child(0).Kind())
	assert.Equal(t, node.KindCase, variableNode.Child(1).Kind())
	assert.Equal(t, node.MustSpan(20, 21), variableNode.Child(1).Child(0).Span())
	assert.Equal(t, 2, report.Elided)
}

func TestBuildKeepsErroneousAndOther(t *testing.T) {
	t.Parallel()

	bad := syntax.Synthetic(syntax.Erroneous)
	other := syntax.New(syntax.Other, 2, 4).Add(syntax.RoleNone, syntax.New(syntax.Identifier, 2, 3))
	root := syntax.New(syntax.CompilationUnit, 0, 5).Add(syntax.RoleMember, bad).Add(syntax.RoleMember, other)

	built, err := astview.Build(unitOf(root, 5), newFakeOracle())
	require.NoError(t, err)

	assert.Equal(t, []node.Kind{
		node.KindCompilationUnit, node.KindErroneous, node.KindOther, node.KindIdentifier,
	}, kinds(built))
	assert.False(t, built.Child(0).Span().IsValid())
}

func TestBuildCollapsesHalfSpans(t *testing.T) {
	t.Parallel()

	lit := syntax.New(syntax.Literal, 3, 4)
	root := syntax.New(syntax.CompilationUnit, 0, 5).Add(syntax.RoleMember, lit)

	oracle := newFakeOracle()
	oracle.ends[lit] = node.NoPos

	built, report, err := (&astview.Builder{}).Build(unitOf(root, 5), oracle)
	require.NoError(t, err)

	assert.Equal(t, node.NoSpan, built.Child(0).Span())
	assert.Equal(t, 1, report.Collapsed)
}

func TestBuildContractViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		setup func(lit *syntax.Tree, oracle *fakeOracle)
		name  string
		cause error
	}{
		{
			name:  "foreign tree",
			setup: func(lit *syntax.Tree, oracle *fakeOracle) { oracle.foreign[lit] = true },
			cause: errOutside,
		},
		{
			name:  "inverted span",
			setup: func(lit *syntax.Tree, oracle *fakeOracle) { oracle.ends[lit] = 1 },
			cause: node.ErrInvertedSpan,
		},
		{
			name:  "negative offset",
			setup: func(lit *syntax.Tree, _ *fakeOracle) { lit.Pos = -5 },
			cause: node.ErrNegativeSpan,
		},
		{
			name:  "past the end",
			setup: func(lit *syntax.Tree, oracle *fakeOracle) { oracle.ends[lit] = 99 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lit := syntax.New(syntax.Literal, 3, 4)
			root := syntax.New(syntax.CompilationUnit, 0, 5).Add(syntax.RoleMember, lit)
			oracle := newFakeOracle()
			tt.setup(lit, oracle)

			built, err := astview.Build(unitOf(root, 5), oracle)
			require.ErrorIs(t, err, astview.ErrContractViolation)
			assert.Nil(t, built)

			if tt.cause != nil {
				require.ErrorIs(t, err, tt.cause)
			}
		})
	}
}

func TestRecognize(t *testing.T) {
	t.Parallel()

	kind, ok := astview.Recognize(syntax.Lambda)
	require.True(t, ok)
	assert.Equal(t, node.KindLambdaExpression, kind)

	kind, ok = astview.Recognize(syntax.Conditional)
	require.True(t, ok)
	assert.Equal(t, node.KindConditionalExpression, kind)

	for _, k := range []syntax.Kind{
		syntax.Package, syntax.Module, syntax.Exports, syntax.SwitchExpression, syntax.Yield,
		syntax.BindingPattern, syntax.RecordPattern, syntax.DefaultCaseLabel, syntax.Guard, syntax.Invalid,
	} {
		_, ok := astview.Recognize(k)
		assert.False(t, ok, k.String())
	}
}
