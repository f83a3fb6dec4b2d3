// Package generate runs the documentation pipeline for one or many source
// files. It coordinates source reading, parsing, rendering, optional HTML
// conversion and output storage.
package generate

import (
	"context"
	"fmt"

	"github.com/fwojciec/dustdoc"
)

// Ensure Generator implements dustdoc.Generator at compile time.
var _ dustdoc.Generator = (*Generator)(nil)

// Generator produces the document of one source file. Converter and Pages
// are only used for HTML output; a nil Pages yields the bare fragment.
type Generator struct {
	Converter dustdoc.Converter
	Pages     dustdoc.PageBuilder
}

// Generate parses src, renders its Markdown and, for HTML, converts it and
// wraps it into a page. Parse errors are returned unchanged so that their
// code and line survive.
func (g *Generator) Generate(ctx context.Context, src *dustdoc.SourceFile, format dustdoc.Format) (*dustdoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case dustdoc.FormatMarkdown, dustdoc.FormatHTML:
	default:
		return nil, dustdoc.Errorf(dustdoc.EINVALID, "unsupported output format %q", format)
	}

	root, err := dustdoc.Parse(src.Content)
	if err != nil {
		return nil, err
	}

	markdown := dustdoc.RenderMarkdown(root, src.Name())
	doc := &dustdoc.Document{
		Source:   src.Path,
		Format:   format,
		Root:     root,
		Markdown: markdown,
		Output:   markdown,
	}
	if format == dustdoc.FormatMarkdown {
		return doc, nil
	}

	if g.Converter == nil {
		return nil, dustdoc.Errorf(dustdoc.EINTERNAL, "no HTML converter configured")
	}
	fragment, err := g.Converter.Convert(markdown)
	if err != nil {
		return nil, fmt.Errorf("convert %s to html: %w", src.Path, err)
	}
	doc.Output = fragment

	if g.Pages != nil {
		page, err := g.Pages.Build("Documentation for "+src.Name(), fragment)
		if err != nil {
			return nil, fmt.Errorf("build page for %s: %w", src.Path, err)
		}
		doc.Output = page
	}
	return doc, nil
}
