package highlight

import (
	"strings"

	"github.com/golang/glog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Highlighter struct {
	cfg   *Config
	unhlt *Unhighlighter
}

func New(cfg *Config) *Highlighter {
	return &Highlighter{
		cfg:   cfg,
		unhlt: NewUnhighlighter(cfg),
	}
}

func (h *Highlighter) Config() *Config {
	return h.cfg
}

func (h *Highlighter) Unhighlighter() *Unhighlighter {
	return h.unhlt
}

// SetKeyword is a shortcut for Config().SetKeyword.
func (h *Highlighter) SetKeyword(keyword string) {
	h.cfg.SetKeyword(keyword)
}

// ClearHighlight is a shortcut for Unhighlighter().ClearHighlight.
func (h *Highlighter) ClearHighlight(scope *html.Node) int {
	return h.unhlt.ClearHighlight(scope)
}

// Highlight wraps every occurrence of the keyword in the text under the
// configured root into a marker element, and returns the number of markers
// inserted. If clearBeforehand is true, existing markers are removed first,
// so that matching happens against plain text only.
//
// Matching is literal and case-sensitive. Within one text node, occurrences
// are the non-overlapping ones found left to right, so "aa" occurs twice in
// "aaaa". Text split across elements is never matched.
func (h *Highlighter) Highlight(clearBeforehand bool) int {
	if err := h.cfg.Validate(); err != nil {
		glog.Warningf("highlight: not highlighting: %s", err)
		return 0
	}

	if clearBeforehand {
		h.unhlt.ClearHighlight(nil)
	}

	if root := h.cfg.Root; root.Parent == nil && root != h.cfg.Doc.Root() {
		// Happens when the root was a marker itself and got cleared.
		glog.Warningf("highlight: root <%s> is detached from the document, not highlighting", root.Data)
		return 0
	}

	keyword := h.cfg.keyword
	doc := h.cfg.Doc

	it := doc.TextIterator(h.cfg.Root)
	defer it.Detach()

	total := 0

	textNode := it.Next()
	for textNode != nil {
		if inRawText(textNode) {
			textNode = it.Next()
			continue
		}

		keywordNum := strings.Count(textNode.Data, keyword)
		for i := 1; i <= keywordNum; i++ {
			if !h.wrapFirst(textNode) {
				break
			}
			total++

			// Step over the text inside the marker we've just inserted.
			it.Next()

			// Remaining occurrences are in the trailing text. After the last
			// one, the outer loop moves on.
			if i != keywordNum {
				textNode = it.Next()
				if textNode == nil {
					break
				}
			}
		}
		textNode = it.Next()
	}

	glog.V(2).Infof("highlight: %d markers for %q", total, keyword)

	return total
}

// wrapFirst replaces the first occurrence of the keyword in textNode with a
// marker. It returns false if there was nothing to replace.
func (h *Highlighter) wrapFirst(textNode *html.Node) bool {
	keyword := h.cfg.keyword

	start := strings.Index(textNode.Data, keyword)
	if start < 0 {
		glog.Warningf("highlight: keyword %q vanished from text node %q", keyword, textNode.Data)
		return false
	}
	end := start + len(keyword)

	h.cfg.Doc.ReplaceText(textNode, start, end, h.cfg.newMarker(keyword))
	return true
}

// inRawText reports whether n is the content of an element the parser reads
// as raw text or RCDATA. Markers put there would be serialized as literal
// text and could never be found again.
func inRawText(n *html.Node) bool {
	p := n.Parent
	if p == nil || p.Type != html.ElementNode || p.Namespace != "" {
		return false
	}

	switch p.DataAtom {
	case atom.Script, atom.Style, atom.Textarea, atom.Title,
		atom.Xmp, atom.Iframe, atom.Noembed, atom.Noframes, atom.Noscript,
		atom.Plaintext:
		return true
	}
	return false
}
