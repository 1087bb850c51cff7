package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
	"github.com/Sumatoshi-tech/astviewer/pkg/observability"
	"github.com/Sumatoshi-tech/astviewer/pkg/watch"
)

// ErrStdinNotWatchable is returned when a command that follows files is given stdin.
var ErrStdinNotWatchable = errors.New("stdin cannot be watched")

func watchCmd(a *app) *cobra.Command {
	var flags outlineFlags

	cmd := &cobra.Command{
		Use:   "watch <file.java>...",
		Short: "Rebuild and print the tree on every save",
		Long: `Print the outline of each file, then rebuild and print it again every
time the file is written. Stop with Ctrl+C.

Examples:
  astviewer watch Main.java
  astviewer watch --types Main.java Other.java`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, args, &flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, paths []string, flags *outlineFlags) error {
	for _, path := range paths {
		if path == inspect.StdinName {
			return ErrStdinNotWatchable
		}
	}

	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	opts := flags.options(cmd, a, w)

	for _, path := range paths {
		err := a.printOutline(ctx, w, path, opts)
		if err != nil {
			return err
		}
	}

	watcher, err := a.newWatcher(paths)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return watcher.Run(ctx, func(ctx context.Context, path string) {
		ctx = observability.WithSourceFile(ctx, path)
		start := time.Now()

		rebuildErr := a.printOutline(ctx, w, path, opts)
		if rebuildErr != nil {
			a.logger.ErrorContext(ctx, "rebuild failed", "error", rebuildErr)

			return
		}

		a.logger.InfoContext(ctx, "rebuilt", "duration", time.Since(start))
	})
}

func (a *app) printOutline(ctx context.Context, w io.Writer, path string, opts render.OutlineOptions) error {
	res, err := a.inspectFile(ctx, path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "== %s (%d nodes) ==\n", res.File, res.Report.Nodes)

	return render.Outline(w, res.Root, opts)
}

func (a *app) newWatcher(paths []string) (*watch.Watcher, error) {
	watcher, err := watch.New(paths)
	if err != nil {
		return nil, err
	}

	watcher.Logger = a.logger

	if a.cfg.Watch.Debounce > 0 {
		watcher.Debounce = a.cfg.Watch.Debounce
	}

	return watcher, nil
}
