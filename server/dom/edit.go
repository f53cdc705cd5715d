package dom

import (
	"strings"

	"github.com/golang/glog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NewElement creates a detached element with the given tag name.
func NewElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// NewText creates a detached text node.
func NewText(s string) *html.Node {
	return &html.Node{
		Type: html.TextNode,
		Data: s,
	}
}

// SetAttr sets attribute key on n, replacing an existing value.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetText replaces all children of the detached node n with a single text
// node. Use it only on nodes which are not yet in a document: it bypasses
// iterator bookkeeping.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// TextContent returns the concatenated data of all text nodes under n.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			} else {
				walk(c)
			}
		}
	}
	walk(n)

	return sb.String()
}

// IsText reports whether n is a non-nil text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// Remove detaches n (with its whole subtree) from the tree. Live iterators
// of d are updated before the node goes away. Removing a node which has no
// parent is a no-op.
func (d *Document) Remove(n *html.Node) {
	if n == nil || n.Parent == nil {
		glog.V(3).Infof("dom: ignoring removal of a detached node")
		return
	}

	for _, it := range d.iters {
		it.preRemove(n)
	}

	n.Parent.RemoveChild(n)
}

// InsertBefore inserts the detached node n as a child of parent, before
// ref; a nil ref appends.
func (d *Document) InsertBefore(parent, n, ref *html.Node) {
	parent.InsertBefore(n, ref)
}

// ReplaceText replaces bytes [start, end) of the text node t with repl.
// Afterwards the place t occupied holds, in order: the leading text (t
// itself, truncated) if it is not empty, repl, and a new text node with the
// trailing text if that is not empty. No empty text nodes are left behind.
//
// Offsets are byte offsets into t.Data.
func (d *Document) ReplaceText(t *html.Node, start, end int, repl *html.Node) {
	if !IsText(t) || t.Parent == nil {
		glog.Warningf("dom: ReplaceText called on a node which is not an attached text node")
		return
	}
	if start < 0 || end < start || end > len(t.Data) {
		glog.Warningf("dom: ReplaceText range [%d, %d) out of bounds (len %d)", start, end, len(t.Data))
		return
	}

	parent := t.Parent
	lead, trail := t.Data[:start], t.Data[end:]

	parent.InsertBefore(repl, t.NextSibling)
	if trail != "" {
		parent.InsertBefore(NewText(trail), repl.NextSibling)
	}

	if lead != "" {
		t.Data = lead
	} else {
		d.Remove(t)
	}
}
