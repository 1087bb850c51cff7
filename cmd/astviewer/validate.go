package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/schema"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
)

// ErrInvalidDump is returned when a dump does not match the schema.
var ErrInvalidDump = errors.New("dump does not match the schema")

func validateCmd(a *app) *cobra.Command {
	var schemaPath string

	var noColor bool

	cmd := &cobra.Command{
		Use:   "validate <dump.json|->",
		Short: "Check a JSON dump against the tree schema",
		Long: `Validate a JSON dump produced by "astviewer dump -f json" against the
embedded tree schema, or against a custom schema file.

Examples:
  astviewer validate tree.json
  astviewer dump -f json Main.java | astviewer validate -
  astviewer validate --schema custom-schema.json tree.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args[0], schemaPath, noColor)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to a JSON schema (default: embedded schema)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}

func (a *app) runValidate(cmd *cobra.Command, path, schemaPath string, noColor bool) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	res, err := schema.Validate(data, schemaPath)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	w := cmd.OutOrStdout()

	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed, color.Bold)

	if a.useColor(w, noColor) {
		green.EnableColor()
		red.EnableColor()
	} else {
		green.DisableColor()
		red.DisableColor()
	}

	if res.Valid() {
		fmt.Fprintf(w, "%s %s (%d nodes)\n", green.Sprint("valid"), path, res.Nodes)

		return nil
	}

	fmt.Fprintf(w, "%s %s\n", red.Sprint("invalid"), path)

	for _, issue := range res.Issues {
		fmt.Fprintf(w, "  %s %s\n", red.Sprint("-"), issue)
	}

	return fmt.Errorf("%w: %s has %d issue(s)", ErrInvalidDump, path, len(res.Issues))
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	if path == inspect.StdinName {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", inspect.ErrRead, path, err)
	}

	return data, nil
}
