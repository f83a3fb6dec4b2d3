package generate

import (
	"context"

	"github.com/fwojciec/dustdoc"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of files documented at once when Batch
// has no explicit limit.
const DefaultConcurrency = 4

// Batch documents many source files. Every file is an independent task: a
// failing file is reported and never stops the others.
type Batch struct {
	Sources     dustdoc.SourceReader
	Generator   dustdoc.Generator
	Outputs     dustdoc.OutputWriter
	Concurrency int
}

// Task pairs a source path with the path its document is written to.
type Task struct {
	Source string
	Output string
}

// FileResult is the outcome of one task.
type FileResult struct {
	Source  string
	Output  string
	Changed bool
	Err     error
}

// Result holds the outcome of a batch run. Files are in task order.
type Result struct {
	Files     []FileResult
	Changed   int
	Unchanged int
	Failed    int
}

// Err returns the error of the first failed file, in task order, or nil.
func (r *Result) Err() error {
	for _, f := range r.Files {
		if f.Err != nil {
			return f.Err
		}
	}
	return nil
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress. It is called
// from the goroutine that runs Run, never concurrently.
type ProgressFunc func(event ProgressEvent)

type taskResult struct {
	position int
	FileResult
}

// Run documents every task in the given format.
func (b *Batch) Run(ctx context.Context, tasks []Task, format dustdoc.Format, progress ProgressFunc) *Result {
	concurrency := b.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(tasks)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan taskResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, task := range tasks {
			g.Go(func() error {
				resultCh <- taskResult{position: i, FileResult: b.runTask(ctx, task, format)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in order
	result := &Result{Files: make([]FileResult, len(tasks))}
	completed := 0
	for r := range resultCh {
		completed++
		result.Files[r.position] = r.FileResult

		switch {
		case r.Err != nil:
			result.Failed++
		case r.Changed:
			result.Changed++
		default:
			result.Unchanged++
		}

		if progress == nil {
			continue
		}
		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			Source:    r.Source,
		}
		if r.Err != nil {
			event.Type = ProgressFailed
			event.Error = r.Err
		}
		progress(event)
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}
	return result
}

// runTask reads, generates and writes one file.
func (b *Batch) runTask(ctx context.Context, task Task, format dustdoc.Format) FileResult {
	result := FileResult{Source: task.Source, Output: task.Output}

	src, err := b.Sources.ReadSource(ctx, task.Source)
	if err != nil {
		result.Err = err
		return result
	}

	doc, err := b.Generator.Generate(ctx, src, format)
	if err != nil {
		result.Err = err
		return result
	}

	result.Changed, result.Err = b.Outputs.WriteOutput(ctx, task.Output, []byte(doc.Output))
	return result
}
