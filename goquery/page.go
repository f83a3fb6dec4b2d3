// Package goquery turns generated HTML fragments into standalone pages using
// goquery to assign heading anchors and collect navigation.
package goquery

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dustdoc"
)

// Ensure PageBuilder implements dustdoc.PageBuilder at compile time.
var _ dustdoc.PageBuilder = (*PageBuilder)(nil)

// PageBuilder wraps HTML fragments into a page with a stylesheet, a
// navigation panel listing every heading and a search box that filters it.
type PageBuilder struct {
	tmpl *template.Template
}

// NewPageBuilder creates a new PageBuilder.
func NewPageBuilder() *PageBuilder {
	tmpl := template.Must(template.New("page").Parse(pageTemplate))
	return &PageBuilder{tmpl: tmpl}
}

// Build returns a complete HTML document. Every heading of the fragment
// gets a unique id, and the navigation links to those ids in document
// order.
func (b *PageBuilder) Build(title, fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", dustdoc.Errorf(dustdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	sections := Anchor(doc.Selection)

	content, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("serialize page content: %w", err)
	}

	data := struct {
		Title    string
		Sections []dustdoc.Section
		Content  template.HTML
	}{
		Title:    title,
		Sections: sections,
		Content:  template.HTML(content),
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// Anchor assigns a unique id to every h1-h6 heading within sel and returns
// the headings as sections in document order. Existing ids are replaced so
// that anchors are stable for identical input.
func Anchor(sel *goquery.Selection) []dustdoc.Section {
	var anchors dustdoc.AnchorSet
	var sections []dustdoc.Section

	sel.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		title := strings.Join(strings.Fields(h.Text()), " ")
		anchor := anchors.Anchor(title)
		h.SetAttr("id", anchor)
		sections = append(sections, dustdoc.Section{
			Level:  int(goquery.NodeName(h)[1] - '0'),
			Title:  title,
			Anchor: anchor,
		})
	})

	return sections
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ .Title }}</title>
    <style>
        * {
            box-sizing: border-box;
        }
        body {
            margin: 0;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            line-height: 1.6;
            color: #24292f;
            display: flex;
        }
        nav {
            position: sticky;
            top: 0;
            height: 100vh;
            overflow-y: auto;
            width: 280px;
            flex-shrink: 0;
            padding: 20px;
            background: #f6f8fa;
            border-right: 1px solid #d0d7de;
        }
        nav ul {
            list-style: none;
            margin: 0;
            padding: 0;
        }
        nav a {
            color: #0969da;
            text-decoration: none;
        }
        nav a:hover {
            text-decoration: underline;
        }
        .level-3 { padding-left: 12px; }
        .level-4 { padding-left: 24px; }
        .level-5 { padding-left: 36px; }
        .level-6 { padding-left: 48px; }
        .search-box {
            width: 100%;
            padding: 6px 8px;
            margin-bottom: 12px;
            border: 1px solid #d0d7de;
            border-radius: 6px;
        }
        main {
            flex-grow: 1;
            max-width: 960px;
            padding: 20px 40px;
        }
        pre {
            background: #f6f8fa;
            padding: 12px;
            border-radius: 6px;
            overflow-x: auto;
        }
        code {
            font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace;
        }
        table {
            border-collapse: collapse;
        }
        th, td {
            border: 1px solid #d0d7de;
            padding: 4px 10px;
        }
    </style>
</head>
<body>
    <nav>
        <input type="text" class="search-box" placeholder="Search documentation..." id="search">
        <ul>
            {{- range .Sections }}
            <li class="level-{{ .Level }}"><a href="#{{ .Anchor }}">{{ .Title }}</a></li>
            {{- end }}
        </ul>
    </nav>
    <main>
{{ .Content }}
    </main>
    <script>
        document.getElementById('search').addEventListener('input', function(e) {
            const term = e.target.value.toLowerCase();
            document.querySelectorAll('nav li').forEach(function(item) {
                const text = item.textContent.toLowerCase();
                item.style.display = (term === '' || text.includes(term)) ? '' : 'none';
            });
        });
    </script>
</body>
</html>
`
