package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fwojciec/dustdoc"
	"github.com/fwojciec/dustdoc/fs"
	"github.com/fwojciec/dustdoc/generate"
)

// Run executes the generate command.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	info, err := os.Stat(c.Source)
	if errors.Is(err, os.ErrNotExist) {
		err = dustdoc.Errorf(dustdoc.ENOTFOUND, "source %q not found", c.Source)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if info.IsDir() {
		return c.runDir(deps)
	}
	return c.runFile(deps)
}

func (c *GenerateCmd) runFile(deps *Dependencies) error {
	src, err := deps.Sources.ReadSource(deps.Ctx, c.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	doc, err := deps.Generator.Generate(deps.Ctx, src, c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s: %s\n", c.Source, errorText(err))
		return err
	}

	if c.Output == "" {
		fmt.Fprint(deps.Stdout, doc.Output)
		return nil
	}

	changed, err := deps.Outputs.WriteOutput(deps.Ctx, c.Output, []byte(doc.Output))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	if c.Check && changed {
		err := dustdoc.Errorf(dustdoc.ESTALE, "%s is out of date", c.Output)
		fmt.Fprintf(deps.Stderr, "error: %s\n", dustdoc.ErrorMessage(err))
		return err
	}
	return nil
}

func (c *GenerateCmd) runDir(deps *Dependencies) error {
	if c.Output == "" {
		err := dustdoc.Errorf(dustdoc.EINVALID, "an output directory is required when the source is a directory")
		fmt.Fprintf(deps.Stderr, "error: %s\n", dustdoc.ErrorMessage(err))
		return err
	}

	paths, err := fs.FindSources(deps.Ctx, c.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
		return err
	}

	tasks := make([]generate.Task, 0, len(paths))
	for _, path := range paths {
		out, err := fs.OutputPath(c.Source, path, c.Output, c.Format)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", errorText(err))
			return err
		}
		tasks = append(tasks, generate.Task{Source: path, Output: out})
	}

	batch := &generate.Batch{
		Sources:     deps.Sources,
		Generator:   deps.Generator,
		Outputs:     deps.Outputs,
		Concurrency: c.Concurrency,
	}

	progress := func(e generate.ProgressEvent) {
		if e.Type == generate.ProgressFailed {
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", e.Source, errorText(e.Error))
		}
	}

	result := batch.Run(deps.Ctx, tasks, c.Format, progress)

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed: %w", result.Failed, len(tasks), result.Err())
	}

	if c.Check {
		if result.Changed > 0 {
			err := dustdoc.Errorf(dustdoc.ESTALE, "%d of %d outputs are out of date", result.Changed, len(tasks))
			fmt.Fprintf(deps.Stderr, "error: %s\n", dustdoc.ErrorMessage(err))
			return err
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documented %d files (%d updated, %d unchanged)\n", len(tasks), result.Changed, result.Unchanged)
	return nil
}

// errorText returns the message of application errors and the full text of
// any other error.
func errorText(err error) string {
	if dustdoc.ErrorCode(err) == dustdoc.EINTERNAL {
		return err.Error()
	}
	return dustdoc.ErrorMessage(err)
}
