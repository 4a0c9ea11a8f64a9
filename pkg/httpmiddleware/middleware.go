// Package httpmiddleware provides the HTTP middleware chain used by the
// development stub server.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares to h so that the first listed middleware is the
// outermost.
func Wrap(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
