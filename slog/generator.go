package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dustdoc"
)

// Ensure LoggingGenerator implements dustdoc.Generator.
var _ dustdoc.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with debug logging.
type LoggingGenerator struct {
	next   dustdoc.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next dustdoc.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate delegates to the wrapped generator and logs the operation with
// the number of documented items and the output size.
func (g *LoggingGenerator) Generate(ctx context.Context, src *dustdoc.SourceFile, format dustdoc.Format) (doc *dustdoc.Document, err error) {
	defer func(begin time.Time) {
		items, size := 0, 0
		if doc != nil {
			items = countItems(doc.Root)
			size = len(doc.Output)
		}
		g.logger.Info("generate",
			"path", src.Path,
			"format", string(format),
			"items", items,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, src, format)
}

// countItems returns the number of declarations in the tree.
func countItems(root *dustdoc.DocNode) int {
	if root == nil {
		return 0
	}
	n := 0
	root.Walk(func(node *dustdoc.DocNode, _ int) bool {
		if node.Decl != nil {
			n++
		}
		return true
	})
	return n
}
