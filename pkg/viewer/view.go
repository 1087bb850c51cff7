package viewer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
)

const (
	defaultHighlight = "#FFD75F"
	defaultAccent    = "#5FAFFF"

	// chromeLines is the header plus the help line.
	chromeLines = 2
	// borderSize is the frame a bordered pane adds on each axis.
	borderSize = 2
	// treeShare is the part of the width given to the tree pane, in percent.
	treeShare = 45
	// infoLines is the height of the info pane content.
	infoLines = 6
	percent   = 100
)

type styles struct {
	title     lipgloss.Style
	status    lipgloss.Style
	pane      lipgloss.Style
	focused   lipgloss.Style
	cursor    lipgloss.Style
	highlight lipgloss.Style
	label     lipgloss.Style
	absent    lipgloss.Style
}

func newStyles(opts Options) styles {
	highlight := opts.Highlight
	if highlight == "" {
		highlight = defaultHighlight
	}

	accent := opts.Accent
	if accent == "" {
		accent = defaultAccent
	}

	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

	return styles{
		title:     lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true),
		pane:      pane,
		focused:   pane.BorderForeground(lipgloss.Color(accent)),
		cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color(accent)).Bold(true).Reverse(true),
		highlight: lipgloss.NewStyle().Background(lipgloss.Color(highlight)).Foreground(lipgloss.Color("0")),
		label:     lipgloss.NewStyle().Bold(true).Width(10),
		absent:    lipgloss.NewStyle().Faint(true),
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height

	bodyHeight := max(height-chromeLines, borderSize*2+2)

	m.treeWidth = max(width*treeShare/percent-borderSize, 1)
	m.treeHeight = max(bodyHeight-borderSize, 1)

	rightWidth := max(width-m.treeWidth-borderSize*2, 1)
	infoHeight := infoLines
	sourceHeight := max(bodyHeight-infoHeight-borderSize*2, 1)

	m.source.Width, m.source.Height = rightWidth, sourceHeight
	m.info.Width, m.info.Height = rightWidth, infoHeight
	m.help.Width = width

	m.refresh()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := m.styles.title.Render("astviewer") + " " + m.doc.File
	if m.doc.Status != "" {
		header += "  " + m.styles.status.Render(m.doc.Status)
	}

	treeStyle, sourceStyle := m.styles.focused, m.styles.pane
	if m.focus == paneSource {
		treeStyle, sourceStyle = m.styles.pane, m.styles.focused
	}

	tree := treeStyle.Width(m.treeWidth).Height(m.treeHeight).Render(m.treeView())
	source := sourceStyle.Render(m.source.View())
	info := m.styles.pane.Render(m.info.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, tree, lipgloss.JoinVertical(lipgloss.Left, source, info))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m Model) treeView() string {
	end := min(m.offset+m.treeHeight, len(m.rows))
	lines := make([]string, 0, max(end-m.offset, 0))
	clip := lipgloss.NewStyle().MaxWidth(m.treeWidth)

	for i := m.offset; i < end; i++ {
		r := m.rows[i]
		line := strings.Repeat("  ", r.depth) + render.OutlineLine(r.node, render.OutlineOptions{Types: m.opts.Types})

		if i == m.cursor {
			line = m.styles.cursor.Render(line)
		}

		lines = append(lines, clip.Render(line))
	}

	return strings.Join(lines, "\n")
}

func (m Model) infoText(n *node.Node, ok bool) string {
	if !ok {
		return strings.Join([]string{
			m.field("File", m.doc.File),
			m.field("Nodes", fmt.Sprint(len(m.rows))),
			m.field("Bytes", fmt.Sprint(len(m.doc.Source))),
		}, "\n")
	}

	lines := []string{m.field("Kind", n.Kind().String())}

	if typ, has := n.Type(); has {
		lines = append(lines, m.field("Type", typ.String()))
	} else {
		lines = append(lines, m.field("Type", m.styles.absent.Render("none")))
	}

	if sym, has := n.Symbol(); has {
		lines = append(lines, m.field("Symbol", sym.String()))
	} else {
		lines = append(lines, m.field("Symbol", m.styles.absent.Render("none")))
	}

	lines = append(lines,
		m.field("Span", n.Span().String()),
		m.field("Children", fmt.Sprint(n.ChildCount())),
	)

	return strings.Join(lines, "\n")
}

func (m Model) field(label, value string) string {
	return m.styles.label.Render(label) + value
}

// highlightSource renders src with span highlighted. Without a selection the
// whole source is returned as is; a selected node without a span highlights
// nothing.
func highlightSource(src []byte, span node.Span, selected bool, style lipgloss.Style) string {
	if !selected || !span.IsValid() || span.End() > len(src) {
		return string(src)
	}

	var sb strings.Builder

	sb.Write(src[:span.Start()])

	for i, part := range strings.Split(string(src[span.Start():span.End()]), "\n") {
		if i > 0 {
			sb.WriteByte('\n')
		}

		if part != "" {
			sb.WriteString(style.Render(part))
		}
	}

	sb.Write(src[span.End():])

	return sb.String()
}

// lineOf returns the zero-based line containing offset.
func lineOf(src []byte, offset int) int {
	return bytes.Count(src[:min(offset, len(src))], []byte{'\n'})
}
