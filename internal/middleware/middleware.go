package middleware

import (
	"net/http"
)

// Func is a standard http middleware, compatible with chi.Router.Use.
type Func func(http.Handler) http.Handler

// Chain chains multiple middleware together
func Chain(mws ...Func) Func {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next) // apply in reverse to get the intuitive LIFO order
		}
		return next
	}
}

// Apply applies middlewares to HandlerFunc
func Apply(mw Func, handler http.HandlerFunc) http.Handler {
	return mw(handler)
}
