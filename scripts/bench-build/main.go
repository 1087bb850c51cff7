// bench-build measures build time and heap growth while building the trees
// of every Java file under a directory.
//
// Usage:
//
//	go run ./scripts/bench-build --dir ~/sources/guava --limit 2000 \
//	  --rounds 3 --profile-dir docs/profiles/build
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
)

func main() {
	dir := flag.String("dir", "", "Directory to scan for .java files")
	limit := flag.Int("limit", 0, "Maximum number of files (0 = all)")
	rounds := flag.Int("rounds", 1, "How many times to build every file")
	profileDir := flag.String("profile-dir", "", "Directory to write CPU and heap profiles")

	flag.Parse()

	if *dir == "" {
		log.Fatal("--dir is required")
	}

	files := collectFiles(*dir, *limit)
	if len(files) == 0 {
		log.Fatalf("no .java files under %s", *dir)
	}

	log.Printf("found %d files", len(files))

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	in := inspect.New(nil, nil)
	ctx := context.Background()

	before := heapInUse()

	var (
		durations []time.Duration
		nodes     int
		failed    int
	)

	for round := range *rounds {
		start := time.Now()

		for _, path := range files {
			fileStart := time.Now()

			res, err := in.File(ctx, path)
			if err != nil {
				failed++

				log.Printf("  skip %s: %v", path, err)

				continue
			}

			durations = append(durations, time.Since(fileStart))
			nodes += res.Report.Nodes
		}

		log.Printf("round %d/%d: %s", round+1, *rounds, time.Since(start).Round(time.Millisecond))
	}

	after := heapInUse()

	if *profileDir != "" {
		writeHeapProfile(filepath.Join(*profileDir, "heap.prof"))
	}

	slices.Sort(durations)

	fmt.Println()
	fmt.Println("=== Build Summary ===")
	fmt.Printf("%-12s %d (%d failed)\n", "Builds", len(durations), failed)
	fmt.Printf("%-12s %s\n", "Nodes", humanize.Comma(int64(nodes)))

	if len(durations) > 0 {
		fmt.Printf("%-12s %s\n", "p50", percentile(durations, 50))
		fmt.Printf("%-12s %s\n", "p90", percentile(durations, 90))
		fmt.Printf("%-12s %s\n", "max", durations[len(durations)-1])
	}

	fmt.Printf("%-12s %s -> %s\n", "Heap in use", humanize.Bytes(before), humanize.Bytes(after))
}

func collectFiles(root string, limit int) []string {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".java") {
			return nil
		}

		if limit > 0 && len(files) >= limit {
			return filepath.SkipAll
		}

		files = append(files, path)

		return nil
	})
	if err != nil {
		log.Fatalf("walk %s: %v", root, err)
	}

	return files
}

func percentile(sorted []time.Duration, p int) time.Duration {
	idx := min(len(sorted)*p/100, len(sorted)-1)

	return sorted[idx]
}

func heapInUse() uint64 {
	runtime.GC()
	runtime.GC()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return m.HeapInuse
}

func writeHeapProfile(path string) {
	runtime.GC()

	f, err := os.Create(path)
	if err != nil {
		log.Printf("warning: create heap profile %s: %v", path, err)

		return
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("warning: write heap profile %s: %v", path, err)
	}
}
