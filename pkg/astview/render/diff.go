package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/node"
)

// DiffSummary counts changed outline lines.
type DiffSummary struct {
	Inserted int
	Deleted  int
	Equal    int
}

// Changed reports whether any line differs.
func (s DiffSummary) Changed() bool { return s.Inserted+s.Deleted > 0 }

// DiffLine is one line of an outline diff.
type DiffLine struct {
	Text string
	Op   diffmatchpatch.Operation
}

// DiffOutlines compares the outlines of two trees line by line.
func DiffOutlines(before, after *node.Node, opts OutlineOptions) ([]DiffLine, DiffSummary, error) {
	opts.Color = false

	left, err := OutlineString(before, opts)
	if err != nil {
		return nil, DiffSummary{}, err
	}

	right, err := OutlineString(after, opts)
	if err != nil {
		return nil, DiffSummary{}, err
	}

	lines, summary := diffText(left, right)

	return lines, summary, nil
}

func diffText(left, right string) ([]DiffLine, DiffSummary) {
	dmp := diffmatchpatch.New()

	leftChars, rightChars, table := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(leftChars, rightChars, false), table)

	var (
		out     []DiffLine
		summary DiffSummary
	)

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			out = append(out, DiffLine{Op: d.Type, Text: strings.TrimSuffix(line, "\n")})

			switch d.Type {
			case diffmatchpatch.DiffInsert:
				summary.Inserted++
			case diffmatchpatch.DiffDelete:
				summary.Deleted++
			case diffmatchpatch.DiffEqual:
				summary.Equal++
			}
		}
	}

	return out, summary
}

// WriteDiff prints lines with "+", "-" or " " prefixes, colored when asked.
func WriteDiff(w io.Writer, lines []DiffLine, colored bool) error {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)

	if colored {
		add.EnableColor()
		del.EnableColor()
	} else {
		add.DisableColor()
		del.DisableColor()
	}

	for _, l := range lines {
		var text string

		switch l.Op {
		case diffmatchpatch.DiffInsert:
			text = add.Sprint("+ " + l.Text)
		case diffmatchpatch.DiffDelete:
			text = del.Sprint("- " + l.Text)
		case diffmatchpatch.DiffEqual:
			text = "  " + l.Text
		}

		_, err := fmt.Fprintln(w, text)
		if err != nil {
			return fmt.Errorf("write diff: %w", err)
		}
	}

	return nil
}
