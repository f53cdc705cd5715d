package highlight

import (
	"strings"

	"dmitryfrank.com/highlighter/server/dom"
	"github.com/golang/glog"
	"golang.org/x/net/html"
)

// Unhighlighter removes markers and glues the surrounding text back
// together.
type Unhighlighter struct {
	cfg *Config
}

func NewUnhighlighter(cfg *Config) *Unhighlighter {
	return &Unhighlighter{cfg: cfg}
}

// ClearHighlight removes every marker under scope (the configured root if
// scope is nil) and returns how many were removed. Each marker is replaced,
// together with the text nodes right before and after it, by a single text
// node, so the visible text stays the same.
func (u *Unhighlighter) ClearHighlight(scope *html.Node) int {
	if scope == nil {
		scope = u.cfg.Root
	}
	if scope == nil || u.cfg.Doc == nil {
		glog.Warningf("highlight: container node is empty, nothing to clear")
		return 0
	}

	it := u.cfg.Doc.ElementIterator(scope, markerFilter)
	defer it.Detach()

	removed := 0
	for node := it.Next(); node != nil; node = it.Next() {
		if u.deleteMarker(node) {
			removed++
		}
	}

	glog.V(2).Infof("highlight: %d markers removed", removed)

	return removed
}

func markerFilter(n *html.Node) dom.FilterResult {
	if IsMarker(n) {
		return dom.FilterAccept
	}
	return dom.FilterReject
}

// deleteMarker replaces the marker, along with all the text siblings
// adjacent to it, with one text node.
func (u *Unhighlighter) deleteMarker(marker *html.Node) bool {
	if marker == nil || marker.Parent == nil {
		glog.Warningf("highlight: deleteMarker: no node to operate on")
		return false
	}

	text := dom.TextContent(marker)
	if text == "" {
		glog.Warningf("highlight: marker <%s> has no text, leaving it alone", marker.Data)
		return false
	}

	var prevNodes, nextNodes []*html.Node
	var prevParts []string
	var nextText strings.Builder

	prev := marker.PrevSibling
	for dom.IsText(prev) {
		prevNodes = append(prevNodes, prev)
		prevParts = append(prevParts, prev.Data)
		prev = prev.PrevSibling
	}

	next := marker.NextSibling
	for dom.IsText(next) {
		nextNodes = append(nextNodes, next)
		nextText.WriteString(next.Data)
		next = next.NextSibling
	}

	// prevParts were collected right to left.
	var merged strings.Builder
	for i := len(prevParts) - 1; i >= 0; i-- {
		merged.WriteString(prevParts[i])
	}
	merged.WriteString(text)
	merged.WriteString(nextText.String())

	parent := marker.Parent
	doc := u.cfg.Doc

	doc.Remove(marker)
	for _, n := range prevNodes {
		doc.Remove(n)
	}
	for _, n := range nextNodes {
		doc.Remove(n)
	}

	// next is the first non-text sibling after the run, or nil.
	doc.InsertBefore(parent, dom.NewText(merged.String()), next)

	return true
}
