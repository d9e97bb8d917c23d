package ip

import (
	"context"
	"net/http"
)

type ctxKey int

const remoteIPContextKey ctxKey = iota

// FromRequest retrieves remote user IP from http.Request that went through our middleware.
// Without the middleware the address is computed from the request itself.
func FromRequest(r *http.Request) string {
	v, ok := r.Context().Value(remoteIPContextKey).(string)
	if !ok {
		return ForRequest(r)
	}
	return v
}

// Middleware will attach remote user IP to every request
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteIP := ForRequest(r)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), remoteIPContextKey, remoteIP)))
	})
}
