// Package viewer is the interactive terminal browser for node trees. It
// shows three panes: the tree with every node expanded, the source with the
// selected node's span highlighted, and the selected node's details.
package viewer

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

// noSelection is the cursor value before any row is selected.
const noSelection = -1

// Options configures the viewer.
type Options struct {
	// Highlight is the background of the selected span, as a lipgloss color.
	Highlight string
	// Accent colors the focused pane border and the selected row.
	Accent string
	// Types shows resolved types next to tree rows.
	Types bool
}

// Document is what the viewer displays.
type Document struct {
	Root   *node.Node
	File   string
	Source []byte
	// Status is shown in the header, e.g. the last rebuild time or error.
	Status string
}

// DocumentMsg replaces the displayed document, keeping the cursor row when
// it still exists.
type DocumentMsg Document

type row struct {
	node  *node.Node
	depth int
}

type pane int

const (
	paneTree pane = iota
	paneSource
)

// Model is the bubbletea model of the viewer.
type Model struct {
	doc    Document
	rows   []row
	styles styles
	keys   keyMap
	help   help.Model
	source viewport.Model
	info   viewport.Model
	opts   Options

	cursor int
	offset int
	focus  pane

	width      int
	height     int
	treeWidth  int
	treeHeight int
}

// New creates a model showing doc with nothing selected.
func New(doc Document, opts Options) Model {
	m := Model{
		styles: newStyles(opts),
		keys:   defaultKeys(),
		help:   help.New(),
		source: viewport.New(0, 0),
		info:   viewport.New(0, 0),
		opts:   opts,
		cursor: noSelection,
	}

	m.setDocument(doc)

	return m
}

func (m *Model) setDocument(doc Document) {
	m.doc = doc
	m.rows = nil

	if doc.Root != nil {
		for depth, n := range doc.Root.Walk() {
			m.rows = append(m.rows, row{node: n, depth: depth})
		}
	}

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}

	m.refresh()
}

// Selected returns the node under the cursor.
func (m Model) Selected() (*node.Node, bool) {
	if m.cursor == noSelection || m.cursor >= len(m.rows) {
		return nil, false
	}

	return m.rows[m.cursor].node, true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil

	case DocumentMsg:
		m.setDocument(Document(msg))

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focus == paneTree {
			m.focus = paneSource
		} else {
			m.focus = paneTree
		}

		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.cursor = noSelection
		m.refresh()

		return m, nil
	}

	if m.focus == paneSource {
		var cmd tea.Cmd

		m.source, cmd = m.source.Update(msg)

		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.move(-max(m.treeHeight, 1))
	case key.Matches(msg, m.keys.PageDown):
		m.move(max(m.treeHeight, 1))
	case key.Matches(msg, m.keys.Top):
		m.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveTo(len(m.rows) - 1)
	case key.Matches(msg, m.keys.Parent):
		m.moveTo(m.parentRow())
	}

	return m, nil
}

func (m *Model) move(delta int) {
	if m.cursor == noSelection {
		if delta < 0 {
			m.moveTo(len(m.rows) - 1)
		} else {
			m.moveTo(0)
		}

		return
	}

	m.moveTo(m.cursor + delta)
}

func (m *Model) moveTo(index int) {
	if len(m.rows) == 0 {
		return
	}

	m.cursor = min(max(index, 0), len(m.rows)-1)
	m.refresh()
}

// parentRow is the closest row above the cursor with a smaller depth.
func (m Model) parentRow() int {
	if m.cursor <= 0 {
		return m.cursor
	}

	depth := m.rows[m.cursor].depth
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < depth {
			return i
		}
	}

	return m.cursor
}

// refresh keeps the cursor visible and rebuilds the source and info panes.
func (m *Model) refresh() {
	if m.cursor != noSelection {
		if m.cursor < m.offset {
			m.offset = m.cursor
		}

		if m.treeHeight > 0 && m.cursor >= m.offset+m.treeHeight {
			m.offset = m.cursor - m.treeHeight + 1
		}
	}

	m.offset = min(m.offset, max(len(m.rows)-m.treeHeight, 0))

	selected, ok := m.Selected()

	var span node.Span
	if ok {
		span = selected.Span()
	} else {
		span = node.NoSpan
	}

	m.source.SetContent(highlightSource(m.doc.Source, span, ok, m.styles.highlight))

	if ok && span.IsValid() {
		line := lineOf(m.doc.Source, span.Start())
		m.source.SetYOffset(max(line-m.source.Height/3, 0))
	} else if !ok {
		m.source.GotoTop()
	}

	m.info.SetContent(m.infoText(selected, ok))
}
