// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"net"
	"net/http"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// ClientKeyKey is the context key for the client state key.
	ClientKeyKey ContextKey = "client_key"
)

// ClientKeyHeader carries an explicit client identity. Without it, state
// is keyed per remote IP.
const ClientKeyHeader = "X-Client-ID"

// ClientKey resolves which per-client app state a request addresses and
// stores it on the context.
func ClientKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(ClientKeyHeader)
		if key == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			key = "ip:" + host
		}
		ctx := context.WithValue(r.Context(), ClientKeyKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetClientKey gets the client state key from context.
func GetClientKey(ctx context.Context) string {
	if v := ctx.Value(ClientKeyKey); v != nil {
		return v.(string)
	}
	return ""
}
