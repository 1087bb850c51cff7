package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
)

const totalLabel = "total"

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file.java>...",
		Short: "Summarize node kinds and coverage",
		Long: `Count the nodes of each kind and report how many carry a symbol or a
resolved type. With several files a merged total follows the per-file tables.

Examples:
  astviewer stats Main.java
  astviewer stats src/*.java`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.inspectAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			var total render.Stats

			for i, res := range results {
				st := render.Collect(res.File, res.Root)

				if i == 0 {
					total = st
					total.File = totalLabel
				} else {
					total = total.Merge(st)
				}

				tableErr := render.StatsTable(w, st)
				if tableErr != nil {
					return tableErr
				}
			}

			if len(results) > 1 {
				return render.StatsTable(w, total)
			}

			return nil
		},
	}
}

// inspectAll builds every path concurrently, one goroutine per file. The
// results keep the order of paths.
func (a *app) inspectAll(ctx context.Context, paths []string) ([]*inspect.Result, error) {
	results := make([]*inspect.Result, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup

	for i, path := range paths {
		if path == inspect.StdinName && len(paths) > 1 {
			errs[i] = fmt.Errorf("%w: stdin cannot be combined with other files", inspect.ErrRead)

			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], errs[i] = a.inspectFile(ctx, path)
		}()
	}

	wg.Wait()

	err := errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return results, nil
}
