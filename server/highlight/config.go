// Copyright 2017 Dmitry Frank <mail@dmitryfrank.com>
// Licensed under the BSD, see LICENCE file for details.

package highlight // import "dmitryfrank.com/highlighter/server/highlight"

import (
	"sort"
	"strings"

	"dmitryfrank.com/highlighter/server/dom"
	"github.com/golang/glog"
	"github.com/juju/errors"
	"golang.org/x/net/html"
)

const (
	// MarkerAttr identifies marker elements. It is not configurable: clearing
	// must find markers regardless of the tag and class they were made with.
	MarkerAttr = "is-keyword"
	markerVal  = "1"

	DefTag   = "span"
	DefClass = "highlight"
)

var (
	ErrEmptyKeyword = errors.New("keyword is empty")
)

// Markers hold text, so they can't be void elements.
var voidTags = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "param": {},
	"source": {}, "track": {}, "wbr": {},
}

// Config is shared by a Highlighter and its Unhighlighter. Only the keyword
// is expected to change after construction, via SetKeyword.
type Config struct {
	Doc  *dom.Document
	Root *html.Node

	keyword string

	Tag        string
	Class      string
	Attributes map[string]string
}

type Option func(c *Config)

func WithTag(tag string) Option {
	return func(c *Config) {
		c.Tag = tag
	}
}

func WithClass(class string) Option {
	return func(c *Config) {
		c.Class = class
	}
}

// WithAttributes adds extra attributes to every marker. They are applied
// after the class, so a "class" key here wins over WithClass.
func WithAttributes(attrs map[string]string) Option {
	return func(c *Config) {
		if c.Attributes == nil {
			c.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			c.Attributes[k] = v
		}
	}
}

// NewConfig resolves container within doc (see dom.Document.Resolve) and
// returns a config for it. An empty keyword is accepted here, but
// highlighting with it is refused; see Validate.
func NewConfig(
	doc *dom.Document, container interface{}, keyword string, opts ...Option,
) *Config {
	c := &Config{
		Doc:     doc,
		keyword: keyword,
		Tag:     DefTag,
		Class:   DefClass,
	}
	if doc != nil {
		c.Root = doc.Resolve(container)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.Tag == "" {
		c.Tag = DefTag
	}
	if c.Class == "" {
		c.Class = DefClass
	}
	if _, ok := c.Attributes[MarkerAttr]; ok {
		glog.Warningf("highlight: attribute %q is reserved, ignoring it", MarkerAttr)
		delete(c.Attributes, MarkerAttr)
	}

	return c
}

func (c *Config) Keyword() string {
	return c.keyword
}

// SetKeyword changes the keyword for subsequent passes. Markers already in
// the tree keep the text they were created with.
func (c *Config) SetKeyword(keyword string) {
	c.keyword = keyword
}

func (c *Config) Validate() error {
	if c.keyword == "" {
		return errors.Trace(ErrEmptyKeyword)
	}
	if c.Doc == nil || c.Root == nil {
		return errors.Errorf("no root node")
	}
	if _, ok := voidTags[strings.ToLower(c.Tag)]; ok {
		return errors.Errorf("marker tag <%s> can't hold text", c.Tag)
	}
	return nil
}

// newMarker builds a detached marker element holding text.
func (c *Config) newMarker(text string) *html.Node {
	m := dom.NewElement(c.Tag)
	dom.SetAttr(m, MarkerAttr, markerVal)
	dom.SetAttr(m, "class", c.Class)

	keys := make([]string, 0, len(c.Attributes))
	for k := range c.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		dom.SetAttr(m, k, c.Attributes[k])
	}

	dom.SetText(m, text)
	return m
}

// IsMarker reports whether n is a marker element.
func IsMarker(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v, ok := dom.Attr(n, MarkerAttr)
	return ok && (v == markerVal || v == "true")
}
