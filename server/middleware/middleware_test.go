// +build all_tests unit_tests

package middleware

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerRequestID(t *testing.T) {
	var gotID string
	h := MakeLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/foo?bar=1", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: want %d, got %d", http.StatusTeapot, rec.Code)
	}
	if len(gotID) != requestIDLen {
		t.Errorf("request id: want %d chars, got %q", requestIDLen, gotID)
	}
	if hdr := rec.Header().Get(RequestIDHeader); hdr != gotID {
		t.Errorf("header: want %q, got %q", gotID, hdr)
	}
}

func TestLoggerKeepsClientRequestID(t *testing.T) {
	var gotID string
	h := MakeLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = RequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "abc" {
		t.Errorf("request id: want %q, got %q", "abc", gotID)
	}
}

func TestBodyLimit(t *testing.T) {
	var readErr error
	h := MakeBodyLimit(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = ioutil.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader("12345678")))
	if readErr == nil {
		t.Errorf("expected an error reading past the limit")
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", strings.NewReader("123")))
	if readErr != nil {
		t.Errorf("unexpected error: %s", readErr)
	}
}
