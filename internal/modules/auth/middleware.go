package auth

import (
	"context"
	"net/http"
	"strings"
)

// SessionHeader carries the client session for anonymous shoppers.
const SessionHeader = "X-Session-ID"

type principalKey struct{}

// Middleware attaches the Principal of a valid bearer token to the request
// context. Requests without a token pass through anonymously; a malformed
// or expired token is rejected.
func Middleware(svc Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := svc.ParseToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			p := Principal{UserID: claims.Subject, Roles: claims.Roles}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Require rejects requests that carry no Principal.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// SessionKey identifies the cart and mode session of a request: the
// authenticated user if any, else the X-Session-ID header.
func SessionKey(r *http.Request) (string, bool) {
	if p, ok := PrincipalFrom(r.Context()); ok && p.UserID != "" {
		return "user:" + p.UserID, true
	}
	return AnonymousKey(r)
}

// AnonymousKey is the session key the X-Session-ID header maps to, whether
// or not the request is authenticated.
func AnonymousKey(r *http.Request) (string, bool) {
	if sid := strings.TrimSpace(r.Header.Get(SessionHeader)); sid != "" {
		return "anon:" + sid, true
	}
	return "", false
}
