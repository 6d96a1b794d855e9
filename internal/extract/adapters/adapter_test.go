package adapters

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestRegistry_FindAdapter(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		url  string
		want string
	}{
		{"https://en.wikipedia.org/wiki/Laksa", "wikipedia"},
		{"https://wikipedia.org/wiki/Laksa", "wikipedia"},
		{"https://notwikipedia.org.example.com/", "generic"},
		{"https://example.com/wikipedia.org", "generic"},
		{"::bad url", "generic"},
	}

	for _, tt := range tests {
		if got := registry.FindAdapter(tt.url, "text/html").Name(); got != tt.want {
			t.Errorf("FindAdapter(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestBaseAdapter_HasClass(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<p class="lead  mw-reference">x</p>`))
	if err != nil {
		t.Fatal(err)
	}

	var b BaseAdapter
	p := b.FindFirst(doc, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "p" })
	if p == nil {
		t.Fatal("Expected to find <p>")
	}
	if !b.HasClass(p, "mw-reference") {
		t.Error("Expected class mw-reference")
	}
	if b.HasClass(p, "reference") {
		t.Error("Expected no partial class match")
	}
}

func TestGenericAdapter_MainContentOrder(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<body><article>a</article><div role="main">m</div></body>`))
	if err != nil {
		t.Fatal(err)
	}

	main := NewGenericAdapter().MainContent(doc)
	if main == nil || main.Data != "div" {
		t.Fatalf("Expected role=main div before article, got %v", main)
	}
}
