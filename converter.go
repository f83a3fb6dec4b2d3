package dustdoc

// Converter converts Markdown to HTML.
type Converter interface {
	// Convert transforms canonical Markdown into an HTML5 fragment.
	Convert(markdown string) (string, error)
}

// PageBuilder wraps an HTML fragment into a standalone page.
type PageBuilder interface {
	// Build returns a complete HTML document with the given title whose
	// headings carry unique anchors and are listed in a navigation panel.
	Build(title, fragment string) (string, error)
}
