package mock

import (
	"context"

	"github.com/fwojciec/dustdoc"
)

var _ dustdoc.Generator = (*Generator)(nil)

// Generator is a mock implementation of dustdoc.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, src *dustdoc.SourceFile, format dustdoc.Format) (*dustdoc.Document, error)
}

func (g *Generator) Generate(ctx context.Context, src *dustdoc.SourceFile, format dustdoc.Format) (*dustdoc.Document, error) {
	return g.GenerateFn(ctx, src, format)
}

var _ dustdoc.SourceReader = (*SourceReader)(nil)

// SourceReader is a mock implementation of dustdoc.SourceReader.
type SourceReader struct {
	ReadSourceFn func(ctx context.Context, path string) (*dustdoc.SourceFile, error)
}

func (r *SourceReader) ReadSource(ctx context.Context, path string) (*dustdoc.SourceFile, error) {
	return r.ReadSourceFn(ctx, path)
}
