package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

const percent = 100

// Stats summarizes one tree.
type Stats struct {
	ByKind     map[node.Kind]int
	File       string
	Total      int
	WithSymbol int
	WithType   int
	Synthetic  int
	MaxDepth   int
}

// Collect counts the nodes of root.
func Collect(file string, root *node.Node) Stats {
	st := Stats{File: file, ByKind: make(map[node.Kind]int)}
	if root == nil {
		return st
	}

	for depth, n := range root.Walk() {
		st.Total++
		st.ByKind[n.Kind()]++
		st.MaxDepth = max(st.MaxDepth, depth)

		if _, ok := n.Symbol(); ok {
			st.WithSymbol++
		}

		if _, ok := n.Type(); ok {
			st.WithType++
		}

		if !n.Span().IsValid() {
			st.Synthetic++
		}
	}

	return st
}

// SymbolCoverage is the share of nodes carrying a symbol, in percent.
func (s Stats) SymbolCoverage() float64 { return ratio(s.WithSymbol, s.Total) }

// TypeCoverage is the share of nodes carrying a type, in percent.
func (s Stats) TypeCoverage() float64 { return ratio(s.WithType, s.Total) }

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}

	return float64(part) * percent / float64(whole)
}

// Kinds returns the kinds present, most frequent first, ties by kind order.
func (s Stats) Kinds() []node.Kind {
	kinds := make([]node.Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}

	slices.SortFunc(kinds, func(a, b node.Kind) int {
		if d := s.ByKind[b] - s.ByKind[a]; d != 0 {
			return d
		}

		return int(a) - int(b)
	})

	return kinds
}

// Merge adds other's counts to s. The file name is kept.
func (s Stats) Merge(other Stats) Stats {
	out := Stats{
		File:       s.File,
		ByKind:     make(map[node.Kind]int, len(s.ByKind)),
		Total:      s.Total + other.Total,
		WithSymbol: s.WithSymbol + other.WithSymbol,
		WithType:   s.WithType + other.WithType,
		Synthetic:  s.Synthetic + other.Synthetic,
		MaxDepth:   max(s.MaxDepth, other.MaxDepth),
	}

	for k, v := range s.ByKind {
		out.ByKind[k] += v
	}

	for k, v := range other.ByKind {
		out.ByKind[k] += v
	}

	return out
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = true

	return tbl
}

// StatsTable writes the per-kind table followed by a summary table.
func StatsTable(w io.Writer, st Stats) error {
	kinds := newTable()
	kinds.AppendHeader(table.Row{"Kind", "Count", "Share"})

	for _, k := range st.Kinds() {
		n := st.ByKind[k]
		kinds.AppendRow(table.Row{k.String(), humanize.Comma(int64(n)), fmt.Sprintf("%.1f%%", ratio(n, st.Total))})
	}

	kinds.AppendFooter(table.Row{"Total", humanize.Comma(int64(st.Total)), ""})

	summary := newTable()
	summary.AppendRows([]table.Row{
		{"Nodes", humanize.Comma(int64(st.Total))},
		{"With symbol", fmt.Sprintf("%s (%.1f%%)", humanize.Comma(int64(st.WithSymbol)), st.SymbolCoverage())},
		{"With type", fmt.Sprintf("%s (%.1f%%)", humanize.Comma(int64(st.WithType)), st.TypeCoverage())},
		{"Synthetic", humanize.Comma(int64(st.Synthetic))},
		{"Max depth", humanize.Comma(int64(st.MaxDepth))},
	})

	header := st.File
	if header == "" {
		header = "<input>"
	}

	_, err := fmt.Fprintf(w, "%s\n%s\n\n%s\n", header, kinds.Render(), summary.Render())
	if err != nil {
		return fmt.Errorf("write stats: %w", err)
	}

	return nil
}
