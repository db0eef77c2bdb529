package account

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"healthbridge/internal/platform/httpx"
)

type ctxKey struct{}

var (
	errNoToken          = errors.New("no token provided")
	errMalformedAuthHdr = errors.New("invalid authorization format")
	errBadToken         = errors.New("invalid or expired token")
)

func unauthorized(w http.ResponseWriter, err error) {
	msg := "Invalid or expired token"
	switch {
	case errors.Is(err, errNoToken):
		msg = "No token provided"
	case errors.Is(err, errMalformedAuthHdr):
		msg = "Invalid authorization format"
	}
	httpx.WriteError(w, http.StatusUnauthorized, msg)
}

// ClaimsFromContext returns the claims RequireAuth stored on the request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func bearerClaims(tokens *TokenManager, r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errNoToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errMalformedAuthHdr
	}
	claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, errBadToken
	}
	return claims, nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(tokens, r)
			if err != nil {
				unauthorized(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid.
func OptionalAuth(tokens *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := bearerClaims(tokens, r)
			switch {
			case errors.Is(err, errNoToken):
				next.ServeHTTP(w, r)
			case err != nil:
				unauthorized(w, err)
			default:
				next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
			}
		})
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				unauthorized(w, errNoToken)
				return
			}
			if claims.Role != role {
				httpx.WriteError(w, http.StatusForbidden, "Insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
