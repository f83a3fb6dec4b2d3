package mock

import (
	"context"

	"github.com/fwojciec/dustdoc"
)

var _ dustdoc.OutputWriter = (*OutputWriter)(nil)

// OutputWriter is a mock implementation of dustdoc.OutputWriter.
type OutputWriter struct {
	WriteOutputFn func(ctx context.Context, path string, content []byte) (bool, error)
}

func (w *OutputWriter) WriteOutput(ctx context.Context, path string, content []byte) (bool, error) {
	return w.WriteOutputFn(ctx, path, content)
}
