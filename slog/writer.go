package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dustdoc"
)

// Ensure LoggingOutputWriter implements dustdoc.OutputWriter.
var _ dustdoc.OutputWriter = (*LoggingOutputWriter)(nil)

// LoggingOutputWriter wraps an OutputWriter with debug logging.
type LoggingOutputWriter struct {
	next   dustdoc.OutputWriter
	logger *slog.Logger
}

// NewLoggingOutputWriter creates a new LoggingOutputWriter.
func NewLoggingOutputWriter(next dustdoc.OutputWriter, logger *slog.Logger) *LoggingOutputWriter {
	return &LoggingOutputWriter{next: next, logger: logger}
}

// WriteOutput delegates to the wrapped writer and logs the operation.
func (w *LoggingOutputWriter) WriteOutput(ctx context.Context, path string, content []byte) (changed bool, err error) {
	defer func(begin time.Time) {
		w.logger.Info("write output",
			"path", path,
			"bytes", len(content),
			"changed", changed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteOutput(ctx, path, content)
}

// Ensure LoggingSourceReader implements dustdoc.SourceReader.
var _ dustdoc.SourceReader = (*LoggingSourceReader)(nil)

// LoggingSourceReader wraps a SourceReader with debug logging.
type LoggingSourceReader struct {
	next   dustdoc.SourceReader
	logger *slog.Logger
}

// NewLoggingSourceReader creates a new LoggingSourceReader.
func NewLoggingSourceReader(next dustdoc.SourceReader, logger *slog.Logger) *LoggingSourceReader {
	return &LoggingSourceReader{next: next, logger: logger}
}

// ReadSource delegates to the wrapped reader and logs the operation.
func (r *LoggingSourceReader) ReadSource(ctx context.Context, path string) (src *dustdoc.SourceFile, err error) {
	defer func(begin time.Time) {
		size := 0
		if src != nil {
			size = len(src.Content)
		}
		r.logger.Info("read source",
			"path", path,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ReadSource(ctx, path)
}
