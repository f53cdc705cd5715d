package testutils // import "dmitryfrank.com/highlighter/server/testutils"

import (
	"fmt"
	"strings"
	"testing"

	"dmitryfrank.com/highlighter/server/dom"
	"github.com/juju/errors"
	"golang.org/x/net/html"
)

// MustParseFragment parses src as body content and fails the test on error.
func MustParseFragment(t *testing.T, src string) *dom.Document {
	doc, err := dom.ParseFragment(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parsing %q: %s", src, errors.ErrorStack(err))
	}
	return doc
}

// MustParse parses a whole document and fails the test on error.
func MustParse(t *testing.T, src string) *dom.Document {
	doc, err := dom.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parsing %q: %s", src, errors.ErrorStack(err))
	}
	return doc
}

// Children describes the children of n, one string per child: text nodes as
// their quoted data, elements as "<tag>" followed by their text content.
func Children(n *html.Node) []string {
	res := []string{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			res = append(res, fmt.Sprintf("%q", c.Data))
		case html.ElementNode:
			res = append(res, fmt.Sprintf("<%s>%s", c.Data, dom.TextContent(c)))
		default:
			res = append(res, fmt.Sprintf("?%d", c.Type))
		}
	}
	return res
}

// ElementsWithAttr returns all elements under n (n included) having the
// attribute key, in document order.
func ElementsWithAttr(n *html.Node, key string) []*html.Node {
	var res []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := dom.Attr(n, key); ok {
				res = append(res, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return res
}

// TextNodes returns all text nodes under n in document order.
func TextNodes(n *html.Node) []*html.Node {
	var res []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			res = append(res, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return res
}

// Render renders the children of n, failing the test on error.
func Render(t *testing.T, doc *dom.Document, n *html.Node) string {
	var sb strings.Builder
	if err := doc.RenderInner(&sb, n); err != nil {
		t.Fatalf("rendering: %s", errors.ErrorStack(err))
	}
	return sb.String()
}
