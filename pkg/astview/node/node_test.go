package node_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

type fakeSymbol string

func (s fakeSymbol) SimpleName() string { return string(s) }
func (s fakeSymbol) String() string     { return "pkg." + string(s) }

type fakeType string

func (t fakeType) String() string { return string(t) }

func leaf(kind node.Kind, name string, start, end int) *node.Node {
	b := node.NewBuilder(kind).WithSpan(node.MustSpan(start, end))
	if name != "" {
		b.WithSymbol(fakeSymbol(name))
	}

	return b.Build()
}

func sampleTree() *node.Node {
	// COMPILATION_UNIT
	//   CLASS (A)
	//     METHOD (m)
	//       BLOCK
	//   IMPORT
	method := node.NewBuilder(node.KindMethod).
		WithSymbol(fakeSymbol("m")).
		WithType(fakeType("()void")).
		WithSpan(node.MustSpan(10, 30)).
		WithChildren([]*node.Node{leaf(node.KindBlock, "", 20, 30)}).
		Build()
	class := node.NewBuilder(node.KindClass).
		WithSymbol(fakeSymbol("A")).
		WithSpan(node.MustSpan(0, 32)).
		WithChildren([]*node.Node{method}).
		Build()

	return node.NewBuilder(node.KindCompilationUnit).
		WithSpan(node.MustSpan(0, 40)).
		WithChildren([]*node.Node{class, leaf(node.KindImport, "", 33, 40)}).
		Build()
}

func TestNewSpan(t *testing.T) {
	t.Parallel()

	span, err := node.NewSpan(3, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, span.Start())
	assert.Equal(t, 7, span.End())
	assert.Equal(t, 4, span.Len())
	assert.True(t, span.IsValid())

	empty, err := node.NewSpan(5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	none, err := node.NewSpan(node.NoPos, node.NoPos)
	require.NoError(t, err)
	assert.Equal(t, node.NoSpan, none)
	assert.False(t, none.IsValid())
}

func TestNewSpanRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end int
		want       error
	}{
		{name: "start only", start: 4, end: node.NoPos, want: node.ErrPartialSpan},
		{name: "end only", start: node.NoPos, end: 4, want: node.ErrPartialSpan},
		{name: "inverted", start: 9, end: 2, want: node.ErrInvertedSpan},
		{name: "negative", start: -5, end: 2, want: node.ErrNegativeSpan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			span, err := node.NewSpan(tt.start, tt.end)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, node.NoSpan, span)
		})
	}
}

func TestSpanText(t *testing.T) {
	t.Parallel()

	src := []byte("class A {}")

	text, ok := node.MustSpan(6, 7).Text(src)
	require.True(t, ok)
	assert.Equal(t, "A", text)

	_, ok = node.NoSpan.Text(src)
	assert.False(t, ok)

	_, ok = node.MustSpan(6, 99).Text(src)
	assert.False(t, ok)
}

func TestNodeString(t *testing.T) {
	t.Parallel()

	root := sampleTree()
	assert.Equal(t, "COMPILATION_UNIT", root.String())
	assert.Equal(t, "CLASS (A)", root.Child(0).String())
	assert.Equal(t, "METHOD (m)", root.Child(0).Child(0).String())

	anonymous := node.NewBuilder(node.KindClass).WithSymbol(fakeSymbol("")).Build()
	assert.Equal(t, "CLASS", anonymous.String())
}

func TestNodeOptionals(t *testing.T) {
	t.Parallel()

	root := sampleTree()

	_, ok := root.Symbol()
	assert.False(t, ok)

	_, ok = root.Type()
	assert.False(t, ok)

	method := root.Child(0).Child(0)

	sym, ok := method.Symbol()
	require.True(t, ok)
	assert.Equal(t, "m", sym.SimpleName())

	typ, ok := method.Type()
	require.True(t, ok)
	assert.Equal(t, "()void", typ.String())
}

func TestNodeDefaults(t *testing.T) {
	t.Parallel()

	n := node.NewBuilder(node.KindModifiers).Build()
	assert.Equal(t, node.NoSpan, n.Span())
	assert.Zero(t, n.ChildCount())
	assert.Nil(t, n.Child(0))
	assert.Empty(t, slices.Collect(n.Children()))
}

func TestChildrenIsRestartable(t *testing.T) {
	t.Parallel()

	root := sampleTree()
	first := slices.Collect(root.Children())
	second := slices.Collect(root.Children())

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, node.KindClass, first[0].Kind())
	assert.Equal(t, node.KindImport, first[1].Kind())
}

func TestPreOrderAndWalk(t *testing.T) {
	t.Parallel()

	root := sampleTree()

	var kinds []node.Kind
	for n := range root.PreOrder() {
		kinds = append(kinds, n.Kind())
	}

	assert.Equal(t, []node.Kind{
		node.KindCompilationUnit, node.KindClass, node.KindMethod, node.KindBlock, node.KindImport,
	}, kinds)

	var depths []int
	for depth := range root.Walk() {
		depths = append(depths, depth)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 1}, depths)
	assert.Equal(t, 5, root.Count())
}

func TestPreOrderStopsEarly(t *testing.T) {
	t.Parallel()

	seen := 0
	for range sampleTree().PreOrder() {
		seen++
		if seen == 2 {
			break
		}
	}

	assert.Equal(t, 2, seen)
}

func TestFindAndInnermost(t *testing.T) {
	t.Parallel()

	root := sampleTree()

	named := root.Find(func(n *node.Node) bool { return n.Name() != "" })
	require.Len(t, named, 2)

	found, ok := root.FindFirst(func(n *node.Node) bool { return n.Kind() == node.KindBlock })
	require.True(t, ok)
	assert.Equal(t, 20, found.Span().Start())

	inner, ok := root.Innermost(25)
	require.True(t, ok)
	assert.Equal(t, node.KindBlock, inner.Kind())

	inner, ok = root.Innermost(35)
	require.True(t, ok)
	assert.Equal(t, node.KindImport, inner.Kind())
}

func TestToMap(t *testing.T) {
	t.Parallel()

	m := sampleTree().ToMap()
	assert.Equal(t, "COMPILATION_UNIT", m[node.KeyKind])
	assert.Nil(t, m[node.KeySymbol])

	children, ok := m[node.KeyChildren].([]any)
	require.True(t, ok)
	require.Len(t, children, 2)

	class, ok := children[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{node.KeyName: "A", "text": "pkg.A"}, class[node.KeySymbol])
	assert.Equal(t, map[string]any{node.KeyStart: 0, node.KeyEnd: 32}, class[node.KeySpan])
}

func TestKindNames(t *testing.T) {
	t.Parallel()

	for _, kind := range node.Kinds() {
		parsed, ok := node.ParseKind(kind.String())
		require.True(t, ok, kind.String())
		assert.Equal(t, kind, parsed)
	}

	_, ok := node.ParseKind("PACKAGE")
	assert.False(t, ok)
	assert.True(t, node.KindVariable.IsDeclaration())
	assert.False(t, node.KindBlock.IsDeclaration())
}
