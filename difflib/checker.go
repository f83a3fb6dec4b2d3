// Package difflib reports stale generated outputs as unified diffs using
// go-difflib.
package difflib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fwojciec/dustdoc"
	"github.com/pmezard/go-difflib/difflib"
)

// Ensure Checker implements dustdoc.OutputWriter at compile time.
var _ dustdoc.OutputWriter = (*Checker)(nil)

// Checker compares generated documents with the files on disk without
// writing anything. Every stale output is reported on the writer as a
// unified diff from the current file to the generated content. It is safe
// for concurrent use.
type Checker struct {
	mu  sync.Mutex
	out io.Writer
}

// NewChecker creates a Checker that prints diffs to w.
func NewChecker(w io.Writer) *Checker {
	return &Checker{out: w}
}

// WriteOutput reports whether the file at path differs from content and
// prints the diff when it does. A missing file counts as empty.
func (c *Checker) WriteOutput(ctx context.Context, path string, content []byte) (bool, error) {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("read existing output %s: %w", path, err)
	}

	text, err := Diff(path, string(current), string(content))
	if err != nil {
		return false, err
	}
	if text == "" {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.out, text); err != nil {
		return true, fmt.Errorf("write diff for %s: %w", path, err)
	}
	return true, nil
}

// Diff returns the unified diff between the current and generated content
// of path, or "" when they are equal.
func Diff(path, current, generated string) (string, error) {
	if current == generated {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(generated),
		FromFile: path,
		ToFile:   path + " (generated)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return text, nil
}
