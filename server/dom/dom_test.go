// +build all_tests unit_tests

package dom_test

import (
	"reflect"
	"strings"
	"testing"

	"dmitryfrank.com/highlighter/server/dom"
	"dmitryfrank.com/highlighter/server/testutils"
	"golang.org/x/net/html"
)

func collectTexts(it *dom.Iterator) []string {
	res := []string{}
	for n := it.Next(); n != nil; n = it.Next() {
		res = append(res, n.Data)
	}
	return res
}

func TestTextIteratorOrder(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p>a<b>b<i>c</i></b>d</p><p>e</p>`)

	it := doc.TextIterator(doc.Root())
	defer it.Detach()

	got := collectTexts(it)
	exp := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("expected %q, got %q", exp, got)
	}

	if n := it.Next(); n != nil {
		t.Errorf("exhausted iterator returned %q", n.Data)
	}
}

func TestTextIteratorStaysInRoot(t *testing.T) {
	doc := testutils.MustParseFragment(t, `x<p id="c">a<b>b</b></p>y`)
	root := doc.Resolve("#c")

	it := doc.TextIterator(root)
	defer it.Detach()

	got := collectTexts(it)
	exp := []string{"a", "b"}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("expected %q, got %q", exp, got)
	}
}

func TestIteratorSeesInsertions(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p>a</p>`)
	p := doc.Resolve("p")

	it := doc.TextIterator(p)
	defer it.Detach()

	if n := it.Next(); n == nil || n.Data != "a" {
		t.Fatalf("expected the existing node, got %v", n)
	}

	doc.InsertBefore(p, dom.NewText("b"), nil)

	if n := it.Next(); n == nil || n.Data != "b" {
		t.Fatalf("expected the inserted node, got %v", n)
	}
}

func TestIteratorSurvivesRemovalOfCurrent(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p>a<b>b</b>c</p>`)
	p := doc.Resolve("p")

	it := doc.ElementIterator(p, nil)
	defer it.Detach()

	if n := it.Next(); n != p {
		t.Fatalf("expected root first, got %v", n)
	}
	b := it.Next()
	if b == nil || b.Data != "b" {
		t.Fatalf("expected <b>, got %v", b)
	}

	doc.Remove(b)
	doc.InsertBefore(p, dom.NewElement("i"), nil)

	n := it.Next()
	if n == nil || n.Data != "i" {
		t.Fatalf("expected <i> after removing the current node, got %v", n)
	}
	if n := it.Next(); n != nil {
		t.Errorf("expected the end, got %v", n)
	}
}

func TestIteratorRemovalBeforeStart(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p><b>b</b><i>i</i></p>`)
	p := doc.Resolve("p")
	b := doc.Resolve("b")

	it := doc.ElementIterator(p, func(n *html.Node) dom.FilterResult {
		if n == p {
			return dom.FilterSkip
		}
		return dom.FilterAccept
	})
	defer it.Detach()

	// The iterator hasn't returned anything yet; removing a node must not
	// make it skip what follows.
	doc.Remove(b)

	n := it.Next()
	if n == nil || n.Data != "i" {
		t.Fatalf("expected <i>, got %v", n)
	}
}

func TestElementIteratorFilterDescends(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<div><p><em>x</em></p><em>y</em></div>`)

	it := doc.ElementIterator(doc.Root(), func(n *html.Node) dom.FilterResult {
		if n.Data == "em" {
			return dom.FilterAccept
		}
		return dom.FilterReject
	})
	defer it.Detach()

	got := []string{}
	for n := it.Next(); n != nil; n = it.Next() {
		got = append(got, dom.TextContent(n))
	}

	exp := []string{"x", "y"}
	if !reflect.DeepEqual(got, exp) {
		t.Errorf("expected %q, got %q", exp, got)
	}
}

func TestReplaceText(t *testing.T) {
	tests := []struct {
		text       string
		start, end int
		exp        []string
	}{
		{"the cat sat", 4, 7, []string{`"the "`, "<b>X", `" sat"`}},
		{"cat", 0, 3, []string{"<b>X"}},
		{"cat sat", 0, 3, []string{"<b>X", `" sat"`}},
		{"the cat", 4, 7, []string{`"the "`, "<b>X"}},
	}

	for _, tt := range tests {
		doc := testutils.MustParseFragment(t, "<p>"+tt.text+"</p>")
		p := doc.Resolve("p")

		repl := dom.NewElement("b")
		dom.SetText(repl, "X")
		doc.ReplaceText(p.FirstChild, tt.start, tt.end, repl)

		if got := testutils.Children(p); !reflect.DeepEqual(got, tt.exp) {
			t.Errorf("ReplaceText(%q, %d, %d): expected %q, got %q",
				tt.text, tt.start, tt.end, tt.exp, got)
		}
	}
}

func TestReplaceTextKeepsLeadingIdentity(t *testing.T) {
	doc := testutils.MustParseFragment(t, "<p>ab</p>")
	p := doc.Resolve("p")
	orig := p.FirstChild

	doc.ReplaceText(orig, 1, 2, dom.NewElement("b"))

	if p.FirstChild != orig || orig.Data != "a" {
		t.Errorf("leading text should stay in the original node, got %q", testutils.Children(p))
	}
}

func TestReplaceTextBadRange(t *testing.T) {
	doc := testutils.MustParseFragment(t, "<p>ab</p>")
	p := doc.Resolve("p")

	doc.ReplaceText(p.FirstChild, 1, 5, dom.NewElement("b"))

	exp := []string{`"ab"`}
	if got := testutils.Children(p); !reflect.DeepEqual(got, exp) {
		t.Errorf("out of range replacement should be ignored, got %q", got)
	}
}

func TestResolve(t *testing.T) {
	doc := testutils.MustParse(t, `<html><body><div id="c" class="x">a</div><p>b</p></body></html>`)

	if n := doc.Resolve("#c"); n == nil || n.Data != "div" {
		t.Errorf("#c: expected the div, got %v", n)
	}
	if n := doc.Resolve("p"); n == nil || n.Data != "p" {
		t.Errorf("p: expected the paragraph, got %v", n)
	}

	p := doc.Resolve("p")
	if n := doc.Resolve(p); n != p {
		t.Errorf("node: expected the same node back, got %v", n)
	}

	body := doc.Body()
	for _, c := range []interface{}{
		"", "#missing", "[[invalid", nil, dom.NewElement("div"), 42,
	} {
		if n := doc.Resolve(c); n != body {
			t.Errorf("Resolve(%v): expected fallback to body, got %v", c, n)
		}
	}
}

func TestResolveRejectsNonElements(t *testing.T) {
	doc := testutils.MustParse(t, `<html><body><p>a<!--c--></p></body></html>`)
	p := doc.Resolve("p")

	for _, n := range []*html.Node{p.FirstChild, p.LastChild} {
		if got := doc.Resolve(n); got != doc.Body() {
			t.Errorf("Resolve(%v): expected fallback to body, got %v", n, got)
		}
	}

	if got := doc.Resolve(doc.Root()); got != doc.Root() {
		t.Errorf("the document node should be accepted, got %v", got)
	}
}

func TestResolveFragmentFallback(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p>a</p>`)
	if n := doc.Resolve("#nope"); n != doc.Root() {
		t.Errorf("expected fallback to the fragment root, got %v", n)
	}
}

func TestCompileSelector(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p>a</p><div class="x">b</div>`)

	// The second round is served from the cache.
	for i := 0; i < 2; i++ {
		sel, err := dom.CompileSelector("div.x")
		if err != nil {
			t.Fatalf("%s", err)
		}
		if n := sel.MatchFirst(doc.Root()); n == nil || dom.TextContent(n) != "b" {
			t.Errorf("round %d: expected the div, got %v", i, n)
		}
	}

	if _, err := dom.CompileSelector("div["); err == nil {
		t.Errorf("expected an error for an invalid selector")
	}
}

func TestRenderFragment(t *testing.T) {
	src := `<p class="a">x &amp; y</p>text`
	doc := testutils.MustParseFragment(t, src)

	if got := doc.String(); got != src {
		t.Errorf("expected %q, got %q", src, got)
	}
}

func TestRenderDocument(t *testing.T) {
	doc := testutils.MustParse(t, `<p>hi</p>`)

	got := doc.String()
	if !strings.Contains(got, "<body><p>hi</p></body>") {
		t.Errorf("unexpected render: %q", got)
	}
}

func TestAttrs(t *testing.T) {
	n := dom.NewElement("SPAN")
	if n.Data != "span" {
		t.Errorf("tag should be lowercased, got %q", n.Data)
	}

	dom.SetAttr(n, "k", "1")
	dom.SetAttr(n, "k", "2")
	if len(n.Attr) != 1 {
		t.Errorf("expected one attribute, got %v", n.Attr)
	}
	if v, ok := dom.Attr(n, "k"); !ok || v != "2" {
		t.Errorf("expected k=2, got %q, %v", v, ok)
	}
	if _, ok := dom.Attr(n, "missing"); ok {
		t.Errorf("missing attribute reported as present")
	}
}

func TestRemoveDetachedIsNoop(t *testing.T) {
	doc := testutils.MustParseFragment(t, `<p>a</p>`)
	doc.Remove(dom.NewText("x"))
	doc.Remove(nil)

	if got := doc.String(); got != `<p>a</p>` {
		t.Errorf("tree changed: %q", got)
	}
}
