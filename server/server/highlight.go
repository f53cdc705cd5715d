package server

import (
	"dmitryfrank.com/highlighter/server/highlight"
	"github.com/golang/glog"
	"github.com/juju/errors"
)

func (hs *HLServer) highlightPost(body []byte) (resp interface{}, err error) {
	var req highlightReq
	if err := decodeReq(body, &req); err != nil {
		return nil, errors.Trace(err)
	}

	doc, err := req.loadDocument()
	if err != nil {
		return nil, errors.Trace(err)
	}

	cfg := highlight.NewConfig(doc, req.Container, req.Keyword, hs.markerOpts(&req)...)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	clearBeforehand := true
	if req.ClearBeforehand != nil {
		clearBeforehand = *req.ClearBeforehand
	}

	n := highlight.New(cfg).Highlight(clearBeforehand)
	glog.V(2).Infof("highlighted %d occurrences of %q", n, req.Keyword)

	html, err := renderDocument(doc)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return highlightResp{
		HTML:    html,
		Markers: n,
	}, nil
}

// markerOpts merges marker presentation from the request with the server
// defaults; the request wins field by field.
func (hs *HLServer) markerOpts(req *highlightReq) []highlight.Option {
	def := hs.cfg.Marker

	tag := req.Tag
	if tag == "" {
		tag = def.Tag
	}
	class := req.Class
	if class == "" {
		class = def.Class
	}

	return []highlight.Option{
		highlight.WithTag(tag),
		highlight.WithClass(class),
		highlight.WithAttributes(def.Attributes),
		highlight.WithAttributes(req.Attributes),
	}
}

func (hs *HLServer) clearPost(body []byte) (resp interface{}, err error) {
	var req clearReq
	if err := decodeReq(body, &req); err != nil {
		return nil, errors.Trace(err)
	}

	doc, err := req.loadDocument()
	if err != nil {
		return nil, errors.Trace(err)
	}

	// The keyword is irrelevant for clearing: markers keep their own text.
	cfg := highlight.NewConfig(doc, req.Container, "")
	n := highlight.NewUnhighlighter(cfg).ClearHighlight(nil)

	html, err := renderDocument(doc)
	if err != nil {
		return nil, errors.Trace(err)
	}

	return clearResp{
		HTML:    html,
		Removed: n,
	}, nil
}
