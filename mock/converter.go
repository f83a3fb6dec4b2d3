package mock

import "github.com/fwojciec/dustdoc"

var _ dustdoc.Converter = (*Converter)(nil)

// Converter is a mock implementation of dustdoc.Converter.
type Converter struct {
	ConvertFn func(markdown string) (string, error)
}

func (c *Converter) Convert(markdown string) (string, error) {
	return c.ConvertFn(markdown)
}

var _ dustdoc.PageBuilder = (*PageBuilder)(nil)

// PageBuilder is a mock implementation of dustdoc.PageBuilder.
type PageBuilder struct {
	BuildFn func(title, fragment string) (string, error)
}

func (b *PageBuilder) Build(title, fragment string) (string, error) {
	return b.BuildFn(title, fragment)
}
