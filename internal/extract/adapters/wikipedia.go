package adapters

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WikipediaAdapter keeps the article prose of Wikipedia pages
type WikipediaAdapter struct {
	BaseAdapter
	skipClasses []string
	skipIDs     map[string]bool
}

// NewWikipediaAdapter creates a new Wikipedia adapter
func NewWikipediaAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{
		skipClasses: []string{
			"reference", "mw-editsection", "navbox", "reflist", "references",
			"mw-references-wrap", "hatnote", "infobox", "thumb", "metadata",
			"sistersitebox", "catlinks", "mw-jump-link",
		},
		skipIDs: map[string]bool{
			"toc":         true,
			"coordinates": true,
			"siteSub":     true,
		},
	}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

// CanHandle checks if this is a Wikipedia URL
func (a *WikipediaAdapter) CanHandle(rawURL string, contentType string) bool {
	return hostMatches(rawURL, "wikipedia.org")
}

// MainContent returns the parser output div of the article
func (a *WikipediaAdapter) MainContent(doc *html.Node) *html.Node {
	if n := a.FindFirst(doc, func(n *html.Node) bool {
		return IsElement(n, atom.Div) && a.HasClass(n, "mw-parser-output")
	}); n != nil {
		return n
	}
	return a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && a.GetAttribute(n, "id") == "mw-content-text"
	})
}

// Skip drops citations, edit links, infoboxes and navigation boxes
func (a *WikipediaAdapter) Skip(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if a.skipIDs[a.GetAttribute(n, "id")] {
		return true
	}
	for _, class := range a.skipClasses {
		if a.HasClass(n, class) {
			return true
		}
	}
	return false
}
