// Package render turns node trees into text: an indented outline, JSON and
// YAML documents, per-kind statistics and outline diffs.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

const indentUnit = "  "

// OutlineOptions controls what the outline prints next to each node.
type OutlineOptions struct {
	// Color enables ANSI colors. It is applied per call and never touches
	// color.NoColor.
	Color bool
	// Types appends the resolved type after a colon.
	Types bool
	// Spans appends the source span.
	Spans bool
}

// palette holds one color per outline field.
type palette struct {
	kind *color.Color
	name *color.Color
	typ  *color.Color
	span *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		kind: color.New(color.FgCyan, color.Bold),
		name: color.New(color.FgGreen),
		typ:  color.New(color.FgYellow),
		span: color.New(color.FgHiBlack),
	}

	for _, c := range []*color.Color{p.kind, p.name, p.typ, p.span} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return p
}

// OutlineLine renders a single node the way Outline does, without indentation.
func OutlineLine(n *node.Node, opts OutlineOptions) string {
	return newPalette(opts.Color).line(n, opts)
}

func (p palette) line(n *node.Node, opts OutlineOptions) string {
	var sb strings.Builder

	sb.WriteString(p.kind.Sprint(n.Kind().String()))

	if name := n.Name(); name != "" {
		sb.WriteString(" (")
		sb.WriteString(p.name.Sprint(name))
		sb.WriteString(")")
	}

	if opts.Types {
		if typ, ok := n.Type(); ok {
			sb.WriteString(": ")
			sb.WriteString(p.typ.Sprint(typ.String()))
		}
	}

	if opts.Spans {
		sb.WriteString(" ")
		sb.WriteString(p.span.Sprint(n.Span().String()))
	}

	return sb.String()
}

// Outline writes one line per node in pre-order, indented by depth.
func Outline(w io.Writer, root *node.Node, opts OutlineOptions) error {
	if root == nil {
		return ErrNilRoot
	}

	p := newPalette(opts.Color)
	bw := bufio.NewWriter(w)

	for depth, n := range root.Walk() {
		_, err := fmt.Fprintf(bw, "%s%s\n", strings.Repeat(indentUnit, depth), p.line(n, opts))
		if err != nil {
			return fmt.Errorf("write outline: %w", err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("flush outline: %w", err)
	}

	return nil
}

// OutlineString is Outline into a string.
func OutlineString(root *node.Node, opts OutlineOptions) (string, error) {
	var sb strings.Builder

	err := Outline(&sb, root, opts)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}
