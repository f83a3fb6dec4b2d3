package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/dustdoc"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Sources   dustdoc.SourceReader
	Generator dustdoc.Generator
	Outputs   dustdoc.OutputWriter
}

// GenerateCmd documents a source file or a directory of sources.
type GenerateCmd struct {
	Source      string
	Output      string
	Format      dustdoc.Format
	Check       bool
	Concurrency int
}
