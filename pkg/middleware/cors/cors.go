// Package cors sets permissive CORS headers on every response and answers
// pre-flight requests itself.
package cors

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vadimbarashkov/shortlink/pkg/middleware"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	allowOrigin  = "*"
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type"
)

// New returns middleware that adds the CORS headers unconditionally and
// replies 200 with an empty body to OPTIONS requests without calling next.
func New() middleware.Middleware {
	headers := chi.Chain(
		chimw.SetHeader("Access-Control-Allow-Origin", allowOrigin),
		chimw.SetHeader("Access-Control-Allow-Methods", allowMethods),
		chimw.SetHeader("Access-Control-Allow-Headers", allowHeaders),
	)

	return func(next http.Handler) http.Handler {
		return headers.Handler(preflight(next))
	}
}

func preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
