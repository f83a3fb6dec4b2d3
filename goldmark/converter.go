// Package goldmark converts generated Markdown to HTML using goldmark.
package goldmark

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fwojciec/dustdoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Ensure Converter implements dustdoc.Converter at compile time.
var _ dustdoc.Converter = (*Converter)(nil)

// Converter renders Markdown as an HTML5 fragment with GFM tables,
// strikethrough, task lists and footnotes. Heading ids are left to the page
// builder. Raw HTML in doc comments is omitted.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
		),
	)
	return &Converter{md: md}
}

// Convert transforms Markdown content into an HTML fragment.
func (c *Converter) Convert(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", dustdoc.Errorf(dustdoc.EINVALID, "empty Markdown input")
	}

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
