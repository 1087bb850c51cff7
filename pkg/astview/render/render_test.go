package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
)

type name string

func (n name) SimpleName() string { return string(n) }
func (n name) String() string     { return "p." + string(n) }

type typ string

func (t typ) String() string { return string(t) }

// sample builds COMPILATION_UNIT > CLASS (A) > MODIFIERS, plus extra members.
func sample(members ...*node.Node) *node.Node {
	children := []*node.Node{node.NewBuilder(node.KindModifiers).Build()}
	children = append(children, members...)

	class := node.NewBuilder(node.KindClass).
		WithSymbol(name("A")).
		WithType(typ("p.A")).
		WithSpan(node.MustSpan(0, 10)).
		WithChildren(children).
		Build()

	return node.NewBuilder(node.KindCompilationUnit).
		WithSpan(node.MustSpan(0, 10)).
		WithChildren([]*node.Node{class}).
		Build()
}

func method() *node.Node {
	return node.NewBuilder(node.KindMethod).WithSymbol(name("m")).WithSpan(node.MustSpan(2, 8)).Build()
}

func TestOutline(t *testing.T) {
	t.Parallel()

	out, err := render.OutlineString(sample(), render.OutlineOptions{})
	require.NoError(t, err)
	assert.Equal(t, "COMPILATION_UNIT\n  CLASS (A)\n    MODIFIERS\n", out)

	out, err = render.OutlineString(sample(), render.OutlineOptions{Types: true, Spans: true})
	require.NoError(t, err)
	assert.Equal(t, "COMPILATION_UNIT [0, 10)\n  CLASS (A): p.A [0, 10)\n    MODIFIERS [nopos]\n", out)
}

func TestOutlineColor(t *testing.T) {
	t.Parallel()

	out, err := render.OutlineString(sample(), render.OutlineOptions{Color: true})
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")

	plain := render.OutlineLine(sample().Child(0), render.OutlineOptions{})
	assert.Equal(t, "CLASS (A)", plain)
}

func TestOutlineNilRoot(t *testing.T) {
	t.Parallel()

	err := render.Outline(&bytes.Buffer{}, nil, render.OutlineOptions{})
	require.ErrorIs(t, err, render.ErrNilRoot)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.JSON(&buf, "A.java", sample()))

	var doc struct {
		Root map[string]any `json:"root"`
		File string         `json:"file"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "A.java", doc.File)
	assert.Equal(t, "COMPILATION_UNIT", doc.Root["kind"])
	assert.Nil(t, doc.Root["symbol"])

	children, ok := doc.Root["children"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)

	class, ok := children[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p.A", class["type"])
	assert.Equal(t, map[string]any{"name": "A", "text": "p.A"}, class["symbol"])
	assert.Equal(t, map[string]any{"start": float64(0), "end": float64(10)}, class["span"])

	mods, ok := class["children"].([]any)[0].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, mods["span"])
}

func TestYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.YAML(&buf, "A.java", sample()))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "A.java", doc["file"])

	root, ok := doc["root"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "COMPILATION_UNIT", root["kind"])
}

func TestWriteFormats(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "tree", "JSON", " yaml "} {
		format, err := render.ParseFormat(in)
		require.NoError(t, err, in)

		var buf bytes.Buffer
		require.NoError(t, render.Write(&buf, format, "A.java", sample(), render.OutlineOptions{}), in)
		assert.Contains(t, buf.String(), "COMPILATION_UNIT", in)
	}

	_, err := render.ParseFormat("xml")
	require.ErrorIs(t, err, render.ErrUnknownFormat)

	err = render.Write(&bytes.Buffer{}, render.Format("xml"), "A.java", sample(), render.OutlineOptions{})
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}

func TestCollect(t *testing.T) {
	t.Parallel()

	st := render.Collect("A.java", sample(method(), method()))

	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 3, st.WithSymbol)
	assert.Equal(t, 1, st.WithType)
	assert.Equal(t, 1, st.Synthetic)
	assert.Equal(t, 2, st.MaxDepth)
	assert.Equal(t, []node.Kind{
		node.KindMethod, node.KindCompilationUnit, node.KindClass, node.KindModifiers,
	}, st.Kinds())
	assert.InDelta(t, 60.0, st.SymbolCoverage(), 0.001)
	assert.InDelta(t, 20.0, st.TypeCoverage(), 0.001)

	empty := render.Collect("", nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.SymbolCoverage())
}

func TestStatsMerge(t *testing.T) {
	t.Parallel()

	a := render.Collect("a", sample())
	b := render.Collect("b", sample(method()))

	merged := a.Merge(b)
	assert.Equal(t, "a", merged.File)
	assert.Equal(t, 7, merged.Total)
	assert.Equal(t, 2, merged.ByKind[node.KindClass])
	assert.Equal(t, 1, merged.ByKind[node.KindMethod])
	assert.Equal(t, 1, a.ByKind[node.KindClass])
}

func TestStatsTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, render.StatsTable(&buf, render.Collect("A.java", sample())))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "A.java\n"))
	assert.Contains(t, out, "CLASS")
	assert.Contains(t, out, "33.3%")
	assert.Contains(t, out, "With symbol")
}

func TestDiffOutlines(t *testing.T) {
	t.Parallel()

	lines, summary, err := render.DiffOutlines(sample(), sample(method()), render.OutlineOptions{Color: true})
	require.NoError(t, err)

	assert.Equal(t, render.DiffSummary{Inserted: 1, Equal: 3}, summary)
	assert.True(t, summary.Changed())
	require.Len(t, lines, 4)
	assert.Equal(t, render.DiffLine{Op: diffmatchpatch.DiffInsert, Text: "    METHOD (m)"}, lines[3])

	var buf bytes.Buffer
	require.NoError(t, render.WriteDiff(&buf, lines, false))
	assert.Equal(t, "  COMPILATION_UNIT\n    CLASS (A)\n      MODIFIERS\n+     METHOD (m)\n", buf.String())

	_, summary, err = render.DiffOutlines(sample(), sample(), render.OutlineOptions{})
	require.NoError(t, err)
	assert.False(t, summary.Changed())
}
