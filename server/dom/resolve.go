package dom

import (
	"time"

	"github.com/andybalholm/cascadia"
	"github.com/golang/glog"
	"github.com/juju/errors"
	"github.com/patrickmn/go-cache"
	"golang.org/x/net/html"
)

const (
	defSelectorTTL = 10 * time.Minute
)

// Compiled selectors are shared by all documents.
var selectors = cache.New(defSelectorTTL, 2*defSelectorTTL)

// SetSelectorCacheTTL replaces the selector cache with an empty one using the
// given expiration. Not safe to call while documents are being resolved.
func SetSelectorCacheTTL(ttl time.Duration) {
	selectors = cache.New(ttl, 2*ttl)
}

// CompileSelector compiles a CSS selector, reusing a cached result when
// possible.
func CompileSelector(sel string) (cascadia.Selector, error) {
	if v, ok := selectors.Get(sel); ok {
		return v.(cascadia.Selector), nil
	}

	compiled, err := cascadia.Compile(sel)
	if err != nil {
		return nil, errors.Annotatef(err, "compiling selector %q", sel)
	}

	selectors.Set(sel, compiled, cache.DefaultExpiration)
	return compiled, nil
}

// Resolve finds the container node. container can be:
//
//   - *html.Node: used as is if it's an element (or the document node) of d;
//   - string: a CSS selector, the first match in document order is used.
//
// If nothing can be resolved, the <body> element is returned, or the root
// when the document has no body.
func (d *Document) Resolve(container interface{}) *html.Node {
	if n := d.resolve(container); n != nil {
		return n
	}

	if body := d.Body(); body != nil {
		return body
	}
	return d.root
}

func (d *Document) resolve(container interface{}) *html.Node {
	switch c := container.(type) {
	case *html.Node:
		if c == nil || !d.Contains(c) {
			glog.V(2).Infof("dom: container node does not belong to the document")
			return nil
		}
		if c.Type != html.ElementNode && c.Type != html.DocumentNode {
			glog.V(2).Infof("dom: container node is not an element")
			return nil
		}
		return c

	case string:
		if c == "" {
			return nil
		}
		sel, err := CompileSelector(c)
		if err != nil {
			glog.Warningf("dom: %s", err)
			return nil
		}
		if n := sel.MatchFirst(d.root); n != nil {
			return n
		}
		glog.V(2).Infof("dom: selector %q matched nothing", c)

	case nil:
		// Use the default.

	default:
		glog.Warningf("dom: unsupported container type %T", container)
	}

	return nil
}
