// Copyright 2017 Dmitry Frank <mail@dmitryfrank.com>
// Licensed under the BSD, see LICENCE file for details.

package server // import "dmitryfrank.com/highlighter/server/server"

import (
	"net/http"

	goji "goji.io"
	"goji.io/pat"

	"dmitryfrank.com/highlighter/server/config"
	"dmitryfrank.com/highlighter/server/dom"
	hh "dmitryfrank.com/highlighter/server/httphelper"
	"dmitryfrank.com/highlighter/server/middleware"
	"github.com/gorilla/websocket"
	"github.com/juju/errors"
)

const (
	methodHighlight = "highlight"
	methodClear     = "clear"
)

// HLHandler handles one API call given its raw JSON body. The same handlers
// serve both plain HTTP requests and websocket messages.
type HLHandler func(body []byte) (resp interface{}, err error)

type HLServer struct {
	cfg      *config.Config
	upgrader websocket.Upgrader

	// handlers maps websocket method names to handlers.
	handlers map[string]HLHandler
}

func New(cfg *config.Config) (*HLServer, error) {
	if cfg == nil {
		return nil, errors.Errorf("config is nil")
	}

	dom.SetSelectorCacheTTL(cfg.SelectorTTL())

	hs := &HLServer{
		cfg: cfg,
	}

	hs.handlers = map[string]HLHandler{
		methodHighlight: hs.highlightPost,
		methodClear:     hs.clearPost,
	}

	return hs, nil
}

func (hs *HLServer) CreateHandler() (http.Handler, error) {
	rRoot := goji.NewMux()
	rRoot.Use(middleware.MakeLogger())

	rAPI := goji.SubMux()
	rRoot.Handle(pat.New("/api/*"), rAPI)
	{
		rAPI.Use(middleware.MakeBodyLimit(hs.cfg.MaxBodyBytes))

		rAPI.HandleFunc(pat.Post("/highlight"), hs.makeAPIHandler(hs.highlightPost))
		rAPI.HandleFunc(pat.Post("/clear"), hs.makeAPIHandler(hs.clearPost))

		rAPI.HandleFunc(
			pat.Get("/wsconnect"), hh.MakeAPIHandlerWWriter(hs.webSocketConnect),
		)
	}

	return rRoot, nil
}

func (hs *HLServer) makeAPIHandler(h HLHandler) func(w http.ResponseWriter, r *http.Request) {
	return hh.MakeAPIHandler(func(r *http.Request) (interface{}, error) {
		body, err := readBody(r, hs.cfg.MaxBodyBytes)
		if err != nil {
			return nil, errors.Trace(err)
		}

		return h(body)
	})
}
