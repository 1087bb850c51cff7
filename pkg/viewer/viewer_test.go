package viewer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

type testSymbol string

func (s testSymbol) SimpleName() string { return string(s) }
func (s testSymbol) String() string     { return "p." + string(s) }

type testType string

func (t testType) String() string { return string(t) }

const testSource = "class A {\n  void m() {}\n}"

// testDoc is COMPILATION_UNIT > CLASS (A) > METHOD (m).
func testDoc() Document {
	method := node.NewBuilder(node.KindMethod).
		WithSymbol(testSymbol("m")).
		WithType(testType("()void")).
		WithSpan(node.MustSpan(12, 23)).
		Build()

	class := node.NewBuilder(node.KindClass).
		WithSymbol(testSymbol("A")).
		WithSpan(node.MustSpan(0, len(testSource))).
		WithChildren([]*node.Node{method}).
		Build()

	root := node.NewBuilder(node.KindCompilationUnit).
		WithSpan(node.MustSpan(0, len(testSource))).
		WithChildren([]*node.Node{class}).
		Build()

	return Document{Root: root, File: "A.java", Source: []byte(testSource)}
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()

	for _, msg := range msgs {
		next, _ := m.Update(msg)

		var ok bool

		m, ok = next.(Model)
		require.True(t, ok)
	}

	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEnd   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
	keyStart = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}
)

func selectedKind(t *testing.T, m Model) node.Kind {
	t.Helper()

	n, ok := m.Selected()
	require.True(t, ok)

	return n.Kind()
}

func TestNewHasNoSelection(t *testing.T) {
	t.Parallel()

	m := New(testDoc(), Options{})

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Len(t, m.rows, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{m.rows[0].depth, m.rows[1].depth, m.rows[2].depth})
}

func TestCursorMovement(t *testing.T) {
	t.Parallel()

	m := New(testDoc(), Options{})

	m = press(t, m, keyDown)
	assert.Equal(t, node.KindCompilationUnit, selectedKind(t, m))

	m = press(t, m, keyDown, keyDown, keyDown)
	assert.Equal(t, node.KindMethod, selectedKind(t, m), "cursor stops at the last row")

	m = press(t, m, keyLeft)
	assert.Equal(t, node.KindClass, selectedKind(t, m))

	m = press(t, m, keyStart)
	assert.Equal(t, node.KindCompilationUnit, selectedKind(t, m))

	m = press(t, m, keyEnd)
	assert.Equal(t, node.KindMethod, selectedKind(t, m))

	m = press(t, m, keyEsc)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestUpWithoutSelectionPicksLastRow(t *testing.T) {
	t.Parallel()

	m := press(t, New(testDoc(), Options{}), keyUp)
	assert.Equal(t, node.KindMethod, selectedKind(t, m))
}

func TestSourceFocusLeavesCursor(t *testing.T) {
	t.Parallel()

	m := press(t, New(testDoc(), Options{}), keyDown, keyTab, keyDown, keyDown)
	assert.Equal(t, node.KindCompilationUnit, selectedKind(t, m))

	m = press(t, m, keyTab, keyDown)
	assert.Equal(t, node.KindClass, selectedKind(t, m))
}

func TestQuit(t *testing.T) {
	t.Parallel()

	_, cmd := New(testDoc(), Options{}).Update(keyQuit)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDocumentMsgClampsCursor(t *testing.T) {
	t.Parallel()

	m := press(t, New(testDoc(), Options{}), keyEnd)
	require.Equal(t, node.KindMethod, selectedKind(t, m))

	small := node.NewBuilder(node.KindCompilationUnit).WithSpan(node.MustSpan(0, 0)).Build()

	next, _ := m.Update(DocumentMsg{Root: small, File: "A.java", Status: "rebuilt"})
	m, ok := next.(Model)
	require.True(t, ok)

	assert.Equal(t, node.KindCompilationUnit, selectedKind(t, m))
	assert.Equal(t, "rebuilt", m.doc.Status)
}

func TestView(t *testing.T) {
	t.Parallel()

	m := New(testDoc(), Options{Types: true})
	assert.Equal(t, "loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m, ok := next.(Model)
	require.True(t, ok)

	m = press(t, m, keyEnd)

	view := m.View()
	assert.Contains(t, view, "astviewer")
	assert.Contains(t, view, "A.java")
	assert.Contains(t, view, "CLASS (A)")
	assert.Contains(t, view, "METHOD (m): ()void")
	assert.Contains(t, view, "[12, 23)")
}

func TestInfoWithoutSelection(t *testing.T) {
	t.Parallel()

	m := New(testDoc(), Options{})
	info := m.infoText(nil, false)

	assert.Contains(t, info, "A.java")
	assert.Contains(t, info, "3")
	assert.Contains(t, info, "25")
}

func TestHighlightSource(t *testing.T) {
	t.Parallel()

	mark := lipgloss.NewStyle().Transform(func(s string) string { return "<" + s + ">" })
	src := []byte(testSource)

	assert.Equal(t, testSource, highlightSource(src, node.MustSpan(12, 23), false, mark))
	assert.Equal(t, testSource, highlightSource(src, node.NoSpan, true, mark))
	assert.Equal(t, testSource, highlightSource(src, node.MustSpan(0, 99), true, mark))

	assert.Equal(t, "class A {\n  <void m() {}>\n}", highlightSource(src, node.MustSpan(12, 23), true, mark))

	whole := highlightSource(src, node.MustSpan(0, len(src)), true, mark)
	assert.Equal(t, 3, strings.Count(whole, "<"), "each line is styled on its own")
}

func TestLineOf(t *testing.T) {
	t.Parallel()

	src := []byte(testSource)

	assert.Equal(t, 0, lineOf(src, 0))
	assert.Equal(t, 1, lineOf(src, 12))
	assert.Equal(t, 2, lineOf(src, len(src)))
	assert.Equal(t, 2, lineOf(src, len(src)+10))
}
