package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/fileutil"
)

// Sentinel errors for batch operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadContent  = errors.New("failed to read content file")
	ErrReadScope    = errors.New("failed to read scope file")
	ErrWriteOutput  = errors.New("failed to write output file")
	ErrEncodeOutput = errors.New("failed to encode descriptor")
)

// Renderer is the interface for the content pipeline.
type Renderer interface {
	Render(ctx context.Context, doc mdcontent.Document) (*mdcontent.Result, error)
}

// Compile-time interface implementation check.
var _ Renderer = (*mdcontent.Pipeline)(nil)

// renderParams groups parameters shared across batch/file rendering.
type renderParams struct {
	scope   mdcontent.Scope
	workers int
}

// RenderResult holds the outcome of a single render.
type RenderResult struct {
	InputPath      string
	OutputPath     string
	DescriptorPath string
	Result         *mdcontent.Result
	Err            error
	Duration       time.Duration
}

// renderBatch processes files concurrently. The renderer is shared: the
// pipeline holds no per-document state.
func renderBatch(ctx context.Context, r Renderer, files []FileToRender, params *renderParams) []RenderResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := max(params.workers, 1)
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]RenderResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = RenderResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = renderFile(ctx, r, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderFile processes a single file and returns the result.
func renderFile(ctx context.Context, r Renderer, f FileToRender, params *renderParams) RenderResult {
	start := time.Now()
	result := RenderResult{
		InputPath:      f.InputPath,
		OutputPath:     f.OutputPath,
		DescriptorPath: f.DescriptorPath,
	}
	fail := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	if f.Err != nil {
		return fail(f.Err)
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadContent, err))
	}

	doc := mdcontent.Document{
		Source:  f.InputPath,
		Content: string(content),
		Dialect: f.Dialect,
	}
	if f.Dialect == mdcontent.DialectMDX {
		doc.Scope = params.scope
	}

	res, err := r.Render(ctx, doc)
	if err != nil {
		return fail(err)
	}
	result.Result = res

	if res.Descriptor != nil && f.DescriptorPath != "" {
		data, err := json.MarshalIndent(res.Descriptor, "", "  ")
		if err != nil {
			return fail(fmt.Errorf("%w: %v", ErrEncodeOutput, err))
		}
		if err := fileutil.WriteFileAtomic(f.DescriptorPath, append(data, '\n')); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
		}
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, []byte(res.HTML)); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	result.Duration = time.Since(start)
	return result
}

// ResultSummary holds the count of succeeded and failed renders.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed renders.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// batchError reports the failed documents of a batch. It unwraps to every
// failure so exit codes can match the underlying causes.
type batchError struct {
	failed int
	errs   []error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d document(s) failed", e.failed)
}

func (e *batchError) Unwrap() []error {
	return e.errs
}

// batchErr returns a *batchError for the failed results, or nil.
func batchErr(results []RenderResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &batchError{failed: len(errs), errs: errs}
}

// printResultsWithWriter outputs render results using the provided writers.
func printResultsWithWriter(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
			if r.DescriptorPath != "" {
				fmt.Fprintf(env.Stdout, "%s -> %s\n", r.InputPath, r.DescriptorPath)
			}
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
			if r.DescriptorPath != "" {
				fmt.Fprintf(env.Stdout, "Created %s\n", r.DescriptorPath)
			}
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
