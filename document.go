package dustdoc

import (
	"context"
	"path/filepath"
	"strings"
)

// Format is the output format of a generated document.
type Format string

// Format constants.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Ext returns the file extension used for outputs of this format.
func (f Format) Ext() string {
	if f == FormatHTML {
		return ".html"
	}
	return ".md"
}

// SourceExts lists the extensions of Dust source files.
var SourceExts = []string{".dust", ".dpaper"}

// IsSource reports whether path names a Dust source file.
func IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range SourceExts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// SourceFile is the content of one source file.
type SourceFile struct {
	Path    string `json:"path"`
	Content []byte `json:"-"`
}

// Name returns the file name shown in the document title.
func (f *SourceFile) Name() string {
	return filepath.Base(f.Path)
}

// Document is the documentation generated from one source file.
type Document struct {
	Source   string   `json:"source"`
	Format   Format   `json:"format"`
	Root     *DocNode `json:"-"`
	Markdown string   `json:"markdown"`

	// Output is the final content: the Markdown itself, or the HTML page.
	Output string `json:"output"`
}

// Generator produces documentation for one source file.
type Generator interface {
	// Generate parses the source and renders it in the requested format.
	// Parse errors carry the offending source line.
	Generate(ctx context.Context, src *SourceFile, format Format) (*Document, error)
}

// SourceReader reads source files.
type SourceReader interface {
	// ReadSource returns the content of the source at path.
	// Returns ENOTFOUND if the source does not exist.
	ReadSource(ctx context.Context, path string) (*SourceFile, error)
}

// OutputWriter stores generated documents.
type OutputWriter interface {
	// WriteOutput stores content at path and reports whether the stored
	// content changed.
	WriteOutput(ctx context.Context, path string, content []byte) (bool, error)
}
