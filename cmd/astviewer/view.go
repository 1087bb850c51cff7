package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
	"github.com/Sumatoshi-tech/astviewer/pkg/viewer"
)

const statusTimeFormat = "15:04:05"

func viewCmd(a *app) *cobra.Command {
	var follow bool

	var types bool

	cmd := &cobra.Command{
		Use:   "view <file.java>",
		Short: "Browse the tree interactively",
		Long: `Open a three-pane terminal viewer: the tree, the source with the selected
node highlighted, and the selected node's kind, type, symbol and span.

Examples:
  astviewer view Main.java
  astviewer view --watch Main.java   # Reload on every save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == inspect.StdinName {
				return fmt.Errorf("%w: the viewer reads keys from the terminal", ErrStdinNotWatchable)
			}

			opts := viewer.Options{
				Highlight: a.cfg.Viewer.Highlight,
				Accent:    a.cfg.Viewer.Accent,
				Types:     a.cfg.Output.ShowTypes,
			}

			if cmd.Flags().Changed("types") {
				opts.Types = types
			}

			return a.runView(cmd.Context(), args[0], opts, follow)
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "reload the tree when the file changes")
	cmd.Flags().BoolVar(&types, "types", false, "show resolved types in the tree (default from output.show_types)")

	return cmd
}

func (a *app) runView(ctx context.Context, path string, opts viewer.Options, follow bool) error {
	doc, err := a.document(ctx, path)
	if err != nil {
		return err
	}

	program := viewer.NewProgram(doc, opts)

	if !follow {
		return viewer.Run(ctx, program)
	}

	watcher, err := a.newWatcher([]string{path})
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		runErr := watcher.Run(ctx, func(ctx context.Context, changed string) {
			next, rebuildErr := a.document(ctx, changed)
			if rebuildErr != nil {
				doc.Status = "rebuild failed: " + rebuildErr.Error()
				program.Send(viewer.DocumentMsg(doc))

				return
			}

			doc = next
			program.Send(viewer.DocumentMsg(doc))
		})
		if runErr != nil {
			a.logger.ErrorContext(ctx, "watch stopped", "error", runErr)
		}
	}()

	return viewer.Run(ctx, program)
}

// document inspects path into what the viewer shows.
func (a *app) document(ctx context.Context, path string) (viewer.Document, error) {
	res, err := a.inspectFile(ctx, path)
	if err != nil {
		return viewer.Document{}, err
	}

	status := fmt.Sprintf("%d nodes, built %s", res.Report.Nodes, time.Now().Format(statusTimeFormat))
	if n := len(res.Diagnostics()); n > 0 {
		status += fmt.Sprintf(", %d syntax errors", n)
	}

	return viewer.Document{Root: res.Root, File: res.File, Source: res.Source(), Status: status}, nil
}
