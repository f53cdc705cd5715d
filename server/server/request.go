package server

import (
	"encoding/json"
	stderrors "errors"
	"io/ioutil"
	"net/http"
	"strings"

	"dmitryfrank.com/highlighter/server/dom"
	hh "dmitryfrank.com/highlighter/server/httphelper"
	"github.com/juju/errors"
)

// docReq is the part common to all requests: the document to work on.
type docReq struct {
	HTML string `json:"html"`
	// Fragment means HTML is a piece of body content rather than a whole
	// document; the response is then a fragment as well.
	Fragment bool `json:"fragment"`
	// Container is a CSS selector; the body (or the whole fragment) is used
	// if it's empty or matches nothing.
	Container string `json:"container"`
}

type highlightReq struct {
	docReq

	Keyword    string            `json:"keyword"`
	Tag        string            `json:"tag"`
	Class      string            `json:"class"`
	Attributes map[string]string `json:"attributes"`
	// ClearBeforehand defaults to true.
	ClearBeforehand *bool `json:"clear_beforehand"`
}

type highlightResp struct {
	HTML    string `json:"html"`
	Markers int    `json:"markers"`
}

type clearReq struct {
	docReq
}

type clearResp struct {
	HTML    string `json:"html"`
	Removed int    `json:"removed"`
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		var mbErr *http.MaxBytesError
		if stderrors.As(err, &mbErr) {
			return nil, hh.MakeTooLargeError(limit)
		}
		return nil, errors.Annotatef(err, "reading request body")
	}
	return body, nil
}

func decodeReq(body []byte, req interface{}) error {
	if len(body) == 0 {
		return errors.Errorf("request body is empty")
	}
	if err := json.Unmarshal(body, req); err != nil {
		return errors.Annotatef(err, "invalid request body")
	}
	return nil
}

func (r *docReq) loadDocument() (*dom.Document, error) {
	parse := dom.Parse
	if r.Fragment {
		parse = dom.ParseFragment
	}

	doc, err := parse(strings.NewReader(r.HTML))
	if err != nil {
		return nil, errors.Trace(err)
	}

	return doc, nil
}

func renderDocument(doc *dom.Document) (string, error) {
	var sb strings.Builder
	if err := doc.Render(&sb); err != nil {
		return "", hh.MakeInternalServerError(errors.Trace(err))
	}
	return sb.String(), nil
}
