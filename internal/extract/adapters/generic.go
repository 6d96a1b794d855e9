package adapters

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GenericAdapter is the fallback adapter for unknown sites
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(rawURL string, contentType string) bool {
	return true
}

// MainContent prefers <main>, then role=main, then the first <article>,
// then <body>
func (a *GenericAdapter) MainContent(doc *html.Node) *html.Node {
	predicates := []func(*html.Node) bool{
		func(n *html.Node) bool { return IsElement(n, atom.Main) },
		func(n *html.Node) bool { return n.Type == html.ElementNode && a.GetAttribute(n, "role") == "main" },
		func(n *html.Node) bool { return IsElement(n, atom.Article) },
		func(n *html.Node) bool { return IsElement(n, atom.Body) },
	}
	for _, match := range predicates {
		if n := a.FindFirst(doc, match); n != nil {
			return n
		}
	}
	return nil
}

// Skip drops landmark regions that are not page content and hidden nodes
func (a *GenericAdapter) Skip(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch a.GetAttribute(n, "role") {
	case "navigation", "banner", "contentinfo", "complementary", "search":
		return true
	}
	if a.GetAttribute(n, "aria-hidden") == "true" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "hidden" {
			return true
		}
	}
	return false
}
