package server

import (
	"encoding/json"
	"net/http"

	hh "dmitryfrank.com/highlighter/server/httphelper"
	"dmitryfrank.com/highlighter/server/middleware"
	"github.com/golang/glog"
	"github.com/juju/errors"
)

type WebSocketRequest struct {
	ID     int             `json:"id"`
	Method string          `json:"method"`
	Body   json.RawMessage `json:"body"`
}

type WebSocketResponse struct {
	ID     int         `json:"id"`
	Method string      `json:"method"`
	Status int         `json:"status"`
	Body   interface{} `json:"body"`
}

func (hs *HLServer) webSocketConnect(w http.ResponseWriter, r *http.Request) error {
	reqID := middleware.RequestID(r.Context())

	conn, err := hs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		glog.Warningf("ws %s: upgrade failed: %s", reqID, err)
		return nil
	}

	glog.V(1).Infof("ws %s: connected", reqID)

	go func() {
		defer conn.Close()

		for {
			var wsReq WebSocketRequest
			if err := conn.ReadJSON(&wsReq); err != nil {
				glog.V(1).Infof("ws %s: closing: %s", reqID, err)
				return
			}

			if len(wsReq.Body) > 0 && int64(len(wsReq.Body)) > hs.cfg.MaxBodyBytes {
				hs.writeWSResp(conn, reqID, &wsReq, nil, hh.MakeTooLargeError(hs.cfg.MaxBodyBytes))
				continue
			}

			resp, err := hs.handleWebSocketRequest(&wsReq)
			if !hs.writeWSResp(conn, reqID, &wsReq, resp, err) {
				return
			}
		}
	}()

	return nil
}

func (hs *HLServer) handleWebSocketRequest(wsReq *WebSocketRequest) (interface{}, error) {
	h, ok := hs.handlers[wsReq.Method]
	if !ok {
		return nil, errors.Errorf("unknown method %q", wsReq.Method)
	}

	resp, err := h([]byte(wsReq.Body))
	if err != nil {
		return nil, errors.Trace(err)
	}

	return resp, nil
}

type jsonWriter interface {
	WriteJSON(v interface{}) error
}

// writeWSResp returns false if the connection should be dropped.
func (hs *HLServer) writeWSResp(
	conn jsonWriter, reqID string, wsReq *WebSocketRequest, resp interface{}, respErr error,
) bool {
	wsResp := WebSocketResponse{
		ID:     wsReq.ID,
		Method: wsReq.Method,
		Status: http.StatusOK,
		Body:   resp,
	}

	if respErr != nil {
		hh.LogError(respErr)
		errStruct := hh.GetErrorStruct(respErr)
		wsResp.Status = errStruct.Status
		wsResp.Body = errStruct
	}

	if err := conn.WriteJSON(wsResp); err != nil {
		glog.Warningf("ws %s: writing response: %s", reqID, err)
		return false
	}

	return true
}
