package dom

import "golang.org/x/net/html"

type FilterResult int

const (
	FilterAccept FilterResult = iota
	// FilterReject and FilterSkip both hide the node but still descend into
	// its children; they are kept apart only to mirror what callers mean.
	FilterReject
	FilterSkip
)

type Filter func(n *html.Node) FilterResult

type whatToShow int

const (
	showText whatToShow = iota
	showElement
)

// Iterator walks the nodes of a subtree in document order. It does not
// snapshot anything: each call to Next derives the following node from the
// current tree linkage, starting at the last returned node (the reference).
//
// When a removal goes through Document.Remove, the reference is moved off
// the removed subtree before it is detached, so iteration continues from the
// position the removed node occupied.
type Iterator struct {
	doc    *Document
	root   *html.Node
	show   whatToShow
	filter Filter

	ref       *html.Node
	beforeRef bool
}

// TextIterator returns a live iterator over the text nodes under root.
func (d *Document) TextIterator(root *html.Node) *Iterator {
	return d.newIterator(root, showText, nil)
}

// ElementIterator returns a live iterator over the elements under root
// (root included) for which filter returns FilterAccept. A nil filter
// accepts every element.
func (d *Document) ElementIterator(root *html.Node, filter Filter) *Iterator {
	return d.newIterator(root, showElement, filter)
}

func (d *Document) newIterator(root *html.Node, show whatToShow, filter Filter) *Iterator {
	it := &Iterator{
		doc:       d,
		root:      root,
		show:      show,
		filter:    filter,
		ref:       root,
		beforeRef: true,
	}
	d.iters = append(d.iters, it)
	return it
}

// Next returns the next accepted node, or nil once the subtree is exhausted.
func (it *Iterator) Next() *html.Node {
	node := it.ref
	before := it.beforeRef

	for {
		if before {
			before = false
		} else {
			node = following(node, it.root)
			if node == nil {
				return nil
			}
		}

		if it.accept(node) == FilterAccept {
			it.ref = node
			it.beforeRef = false
			return node
		}
	}
}

// Detach unregisters the iterator from its document. Next keeps working
// after Detach, but removals are no longer tracked.
func (it *Iterator) Detach() {
	iters := it.doc.iters
	for i, cur := range iters {
		if cur == it {
			it.doc.iters = append(iters[:i], iters[i+1:]...)
			return
		}
	}
}

func (it *Iterator) accept(n *html.Node) FilterResult {
	switch it.show {
	case showText:
		if n.Type != html.TextNode {
			return FilterSkip
		}
	case showElement:
		if n.Type != html.ElementNode {
			return FilterSkip
		}
	}

	if it.filter == nil {
		return FilterAccept
	}
	return it.filter(n)
}

// preRemove moves the reference out of the subtree about to be removed.
func (it *Iterator) preRemove(removed *html.Node) {
	if removed == it.root || !IsInclusiveAncestor(removed, it.ref) {
		return
	}

	if it.beforeRef {
		if next := followingSkipChildren(removed, it.root); next != nil {
			it.ref = next
			return
		}
		it.beforeRef = false
	}

	if prev := removed.PrevSibling; prev != nil {
		it.ref = lastInclusiveDescendant(prev)
	} else {
		it.ref = removed.Parent
	}
}

// following returns the node after n in document order, staying within
// root.
func following(n, root *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	return followingSkipChildren(n, root)
}

// followingSkipChildren is like following, but does not descend into n.
func followingSkipChildren(n, root *html.Node) *html.Node {
	for ; n != nil && n != root; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func lastInclusiveDescendant(n *html.Node) *html.Node {
	for n.LastChild != nil {
		n = n.LastChild
	}
	return n
}
