package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
	"github.com/Sumatoshi-tech/astviewer/pkg/observability"
)

const outputFileMode = 0o644

// outlineFlags are the outline switches shared by dump, diff and watch.
type outlineFlags struct {
	noColor bool
	types   bool
	spans   bool
}

func (f *outlineFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&f.types, "types", false, "show resolved types (default from output.show_types)")
	cmd.Flags().BoolVar(&f.spans, "spans", false, "show source spans (default from output.show_spans)")
}

// options resolves the flags against the config; flags given explicitly win.
func (f *outlineFlags) options(cmd *cobra.Command, a *app, w io.Writer) render.OutlineOptions {
	opts := render.OutlineOptions{
		Color: a.useColor(w, f.noColor),
		Types: a.cfg.Output.ShowTypes,
		Spans: a.cfg.Output.ShowSpans,
	}

	if cmd.Flags().Changed("types") {
		opts.Types = f.types
	}

	if cmd.Flags().Changed("spans") {
		opts.Spans = f.spans
	}

	return opts
}

func dumpCmd(a *app) *cobra.Command {
	var format, output string

	var flags outlineFlags

	cmd := &cobra.Command{
		Use:   "dump <file.java|->",
		Short: "Print the tree of a Java file",
		Long: `Print the tree of a Java file as an indented outline, JSON or YAML.

Examples:
  astviewer dump Main.java                  # Outline
  astviewer dump --types --spans Main.java  # Outline with types and spans
  astviewer dump -f json -o tree.json Main.java
  cat Main.java | astviewer dump -          # Read from stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}

			parsed, err := render.ParseFormat(format)
			if err != nil {
				return err
			}

			return a.runDump(cmd, args[0], parsed, output, &flags)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format (tree, json, yaml; default from output.format)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	flags.register(cmd)

	return cmd
}

func (a *app) runDump(cmd *cobra.Command, path string, format render.Format, output string, flags *outlineFlags) (err error) {
	res, err := a.inspectFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	if output != "" {
		f, createErr := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFileMode)
		if createErr != nil {
			return fmt.Errorf("create %s: %w", output, createErr)
		}

		defer func() {
			err = errors.Join(err, f.Close())
		}()

		w = f
	}

	return render.Write(w, format, res.File, res.Root, flags.options(cmd, a, w))
}

// inspectFile builds path and warns about the syntax errors it recovered from.
func (a *app) inspectFile(ctx context.Context, path string) (*inspect.Result, error) {
	ctx = observability.WithSourceFile(ctx, path)

	res, err := a.inspector.File(ctx, path)
	if err != nil {
		return nil, err
	}

	if n := len(res.Diagnostics()); n > 0 {
		a.logger.WarnContext(ctx, "source has syntax errors",
			"frontend.diagnostics", n, "first", res.Diagnostics()[0].String())
	}

	return res, nil
}
