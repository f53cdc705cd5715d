// Copyright 2017 Dmitry Frank <mail@dmitryfrank.com>
// Licensed under the BSD, see LICENCE file for details.

package httphelper // import "dmitryfrank.com/highlighter/server/httphelper"

import (
	"encoding/json"
	"net/http"

	"github.com/golang/glog"
	"github.com/juju/errors"
)

var (
	internalServerError = errors.New("internal server error")
	tooLargeError       = errors.New("request body is too large")
)

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func GetErrorStruct(errResp error) *ErrorResponse {
	return &ErrorResponse{
		Status:  GetHTTPErrorCode(errResp),
		Message: errResp.Error(),
	}
}

// LogError logs errResp: internal errors with the full stack (including the
// hidden internal part), others only at a verbose level.
func LogError(errResp error) {
	if errors.Cause(errResp) == internalServerError {
		glog.Errorf("INTERNAL SERVER ERROR:\n%s", ErrorStack(errResp))
	} else {
		glog.V(2).Infof("%s", errors.ErrorStack(errResp))
	}
}

func RespondWithError(w http.ResponseWriter, r *http.Request, errResp error) {
	LogError(errResp)

	errStruct := GetErrorStruct(errResp)
	d, err := json.MarshalIndent(errStruct, "", "  ")
	if err != nil {
		panic(err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(errStruct.Status)
	if _, err := w.Write(d); err != nil {
		glog.Errorf("writing error response: %s", err)
	}
}

func MakeAPIHandler(
	f func(r *http.Request) (resp interface{}, err error),
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := f(r)
		if err != nil {
			RespondWithError(w, r, errors.Trace(err))
			return
		}

		d, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			RespondWithError(w, r, MakeInternalServerError(
				errors.Annotatef(err, "marshalling resp"),
			))
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if _, err := w.Write(d); err != nil {
			glog.Errorf("writing response: %s", err)
		}
	}
}

func MakeAPIHandlerWWriter(
	f func(w http.ResponseWriter, r *http.Request) (err error),
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err != nil {
			RespondWithError(w, r, errors.Trace(err))
			return
		}
	}
}

// MakeInternalServerError returns internalServerError which does NOT expose
// the original error to clients; the original one is only logged.
func MakeInternalServerError(intError error) error {
	if errors.Cause(intError) != internalServerError {
		return wrapInternalError(intError, internalServerError)
	}
	return errors.Trace(intError)
}

func MakeInternalServerErrorf(
	intError error, format string, args ...interface{},
) error {
	return wrapInternalError(
		intError,
		errors.Annotatef(internalServerError, format, args...),
	)
}

func MakeTooLargeError(limit int64) error {
	return errors.Annotatef(tooLargeError, "limit is %d bytes", limit)
}

func GetHTTPErrorCode(err error) int {
	status := http.StatusBadRequest

	switch errors.Cause(err) {
	case internalServerError:
		status = http.StatusInternalServerError
	case tooLargeError:
		status = http.StatusRequestEntityTooLarge
	}

	return status
}
