package middleware // import "dmitryfrank.com/highlighter/server/middleware"

import "net/http"

type genericMiddleware struct {
	f func(w http.ResponseWriter, r *http.Request)
}

func (h *genericMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.f(w, r)
}

func MkMiddleware(f func(w http.ResponseWriter, r *http.Request)) http.Handler {
	return &genericMiddleware{
		f: f,
	}
}

// MakeBodyLimit caps request bodies at limit bytes; reading past it fails.
func MakeBodyLimit(limit int64) func(inner http.Handler) http.Handler {
	return func(inner http.Handler) http.Handler {
		mw := func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			inner.ServeHTTP(w, r)
		}
		return MkMiddleware(mw)
	}
}
