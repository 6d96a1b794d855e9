package adapters

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Adapter picks the article body of pages from one kind of site
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL/content
	CanHandle(rawURL string, contentType string) bool

	// MainContent returns the node holding the page's prose, or nil when the
	// page does not have the expected layout
	MainContent(doc *html.Node) *html.Node

	// Skip reports whether a subtree inside the main content is chrome
	// (references, edit links, navigation boxes) rather than prose
	Skip(n *html.Node) bool
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewWikipediaAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter; later registrations are tried last
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL and content type
func (r *Registry) FindAdapter(rawURL string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(rawURL, contentType) {
			return adapter
		}
	}
	return r.generic
}

// BaseAdapter provides common node helpers for adapters
type BaseAdapter struct{}

// HasClass checks if a node has a specific CSS class
func (b *BaseAdapter) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, class := range strings.Fields(b.GetAttribute(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// FindFirst finds the first node matching a predicate in document order
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}

// IsElement reports whether n is an element of the given type
func IsElement(n *html.Node, a atom.Atom) bool {
	return n.Type == html.ElementNode && n.DataAtom == a
}

// hostMatches reports whether rawURL's host is domain or a subdomain of it
func hostMatches(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
