// Package extract reduces HTML documents to the plain prose sent to the
// generation service
package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/relcorpus/internal/extract/adapters"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t\f\r]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// Extractor picks the main content of a page with the matching site adapter
// and returns its visible text
type Extractor struct {
	registry *adapters.Registry
}

// NewExtractor creates an extractor with the built-in adapters
func NewExtractor() *Extractor {
	return &Extractor{registry: adapters.NewRegistry()}
}

// Extract returns the visible text of the page's main content and the name
// of the adapter that chose it. When the adapter finds no main content, or
// the content is empty, the whole document is used.
func (e *Extractor) Extract(doc, pageURL, contentType string) (string, string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", "", err
	}

	adapter := e.registry.FindAdapter(pageURL, contentType)
	if main := adapter.MainContent(root); main != nil {
		if text := visibleText(main, adapter.Skip); text != "" {
			return text, adapter.Name(), nil
		}
	}
	return visibleText(root, nil), adapter.Name(), nil
}

// VisibleText extracts the human-readable text of an HTML document. Scripts,
// styles and navigation chrome are skipped; block elements end a line so
// sentences from different paragraphs never run together.
func VisibleText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}
	return visibleText(root, nil), nil
}

func visibleText(root *html.Node, skip func(*html.Node) bool) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Iframe, atom.Template,
				atom.Nav, atom.Header, atom.Footer, atom.Aside, atom.Head:
				return
			case atom.Br:
				buf.WriteString("\n")
			}
			if skip != nil && skip(n) {
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && isBlock(n.DataAtom) {
			buf.WriteString("\n")
		}
	}

	walk(root)
	return normalizeText(buf.String())
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Table, atom.Tr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Section, atom.Article, atom.Main, atom.Dd, atom.Dt:
		return true
	}
	return false
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	out := strings.Join(lines, "\n")
	out = newlineRun.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
