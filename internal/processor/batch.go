// Package processor runs the analyzer over files and writes the results.
package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/geotext/internal/geo"
)

// StdinName is the result name used for text read from standard input.
const StdinName = "-"

// Analyzer extracts a coordinate set from text.
type Analyzer interface {
	Analyze(text string) geo.Set
}

// Result is the outcome of analysing one input.
type Result struct {
	Err  error
	Name string
	Set  geo.Set
}

type job struct {
	Path  string
	Index int
}

// ProcessReader analyses everything readable from r.
func ProcessReader(a Analyzer, name string, r io.Reader) Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{Name: name, Err: fmt.Errorf("read %s: %w", name, err)}
	}
	return Result{Name: name, Set: a.Analyze(string(data))}
}

// ProcessFiles analyses files with a bounded worker pool. Results keep the
// order of paths. Files not started before ctx is done report ctx.Err().
func ProcessFiles(ctx context.Context, a Analyzer, paths []string, concurrency int) []Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	jobs := make(chan job, len(paths))
	results := make([]Result, len(paths))

	go func() {
		defer close(jobs)
		for i, p := range paths {
			select {
			case <-ctx.Done():
				for j := i; j < len(paths); j++ {
					results[j] = Result{Name: paths[j], Err: ctx.Err()}
				}
				return
			case jobs <- job{Path: p, Index: i}:
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.Index] = processFile(a, j.Path)
			}
		}()
	}
	wg.Wait()

	return results
}

func processFile(a Analyzer, path string) Result {
	f, err := os.Open(path)
	if err != nil {
		log.Trace().Err(err).Str("path", path).Msg("Failed to open input")
		return Result{Name: path, Err: err}
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = f.Close() }()

	res := ProcessReader(a, path, f)
	if res.Err == nil {
		log.Debug().
			Str("path", path).
			Int("found", len(res.Set.Records)).
			Str("set_type", res.Set.Type.String()).
			Msg("File analyzed")
	}
	return res
}
