// Copyright 2017 Dmitry Frank <mail@dmitryfrank.com>
// Licensed under the BSD, see LICENCE file for details.

// Package dom owns a parsed HTML tree and provides everything the highlighter
// needs from it: container resolution, live iterators and editing primitives.
//
// A Document is not safe for concurrent use. Iterators created from a
// document stay valid while the tree is edited, as long as all removals go
// through the document (see Remove).
package dom // import "dmitryfrank.com/highlighter/server/dom"

import (
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/juju/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Document struct {
	root     *html.Node
	fragment bool

	iters []*Iterator
}

// NewDocument wraps an already built tree. root is normally an
// html.DocumentNode, but any node works.
func NewDocument(root *html.Node) *Document {
	return &Document{root: root}
}

// Parse parses a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing html")
	}

	return NewDocument(root), nil
}

// ParseFragment parses an HTML fragment in the context of a <body> element.
// The resulting nodes are hung under a synthetic document node, which is
// what Root returns; Render writes the fragment back without any wrapping.
func ParseFragment(r io.Reader) (*Document, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}

	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, errors.Annotatef(err, "parsing html fragment")
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	d := NewDocument(root)
	d.fragment = true
	return d, nil
}

func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element, or nil if the tree has none (which is
// always the case for fragments).
func (d *Document) Body() *html.Node {
	if d.fragment {
		return nil
	}
	return findElement(d.root, atom.Body)
}

// Render writes the whole tree as HTML.
func (d *Document) Render(w io.Writer) error {
	if d.fragment {
		return errors.Trace(d.RenderInner(w, d.root))
	}

	if err := html.Render(w, d.root); err != nil {
		return errors.Annotatef(err, "rendering document")
	}

	return nil
}

// RenderInner writes the children of n, like innerHTML.
func (d *Document) RenderInner(w io.Writer, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return errors.Annotatef(err, "rendering node")
		}
	}

	return nil
}

// String renders the document, logging (and dropping) any render error.
func (d *Document) String() string {
	var sb strings.Builder
	if err := d.Render(&sb); err != nil {
		glog.Errorf("rendering document: %s", errors.ErrorStack(err))
	}
	return sb.String()
}

// Contains reports whether n is d's root or one of its descendants.
func (d *Document) Contains(n *html.Node) bool {
	return IsInclusiveAncestor(d.root, n)
}

// IsInclusiveAncestor reports whether a is n or one of n's ancestors.
func IsInclusiveAncestor(a, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
