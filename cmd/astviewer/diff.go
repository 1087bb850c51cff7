package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
)

func diffCmd(a *app) *cobra.Command {
	var flags outlineFlags

	cmd := &cobra.Command{
		Use:   "diff <before.java> <after.java>",
		Short: "Compare the outlines of two files",
		Long: `Build both files and print a line diff of their outlines. Lines only in
the first file start with "-", lines only in the second with "+".

Examples:
  astviewer diff Old.java New.java
  astviewer diff --types Old.java New.java`,
		Args: cobra.ExactArgs(2), //nolint:mnd // before and after.
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.inspectAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			opts := flags.options(cmd, a, w)

			lines, summary, err := render.DiffOutlines(results[0].Root, results[1].Root, opts)
			if err != nil {
				return err
			}

			if !summary.Changed() {
				fmt.Fprintln(w, "outlines are identical")

				return nil
			}

			err = render.WriteDiff(w, lines, opts.Color)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "\n%s inserted, %s deleted, %s unchanged\n",
				humanize.Comma(int64(summary.Inserted)),
				humanize.Comma(int64(summary.Deleted)),
				humanize.Comma(int64(summary.Equal)))

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
