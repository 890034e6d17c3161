package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/pkg/httpx"
)

// SessionResolver maps a bearer token to its user. *service.AuthService
// satisfies this.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.User, error)
}

type identityCtxKey struct{}

// IdentityFrom returns the authenticated identity, or nil for anonymous
// requests.
func IdentityFrom(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*domain.Identity)
	return id
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

func withIdentity(r *http.Request, user domain.User) *http.Request {
	ident := &domain.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}
	ctx := context.WithValue(r.Context(), identityCtxKey{}, ident)
	// Feed the per-user rate limiter key.
	ctx = context.WithValue(ctx, httpx.CtxKeyUserID, strconv.FormatInt(user.ID, 10))
	return r.WithContext(ctx)
}

// RequireSession rejects requests without a valid session token.
func RequireSession(resolver SessionResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing session token")
				return
			}
			user, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid session")
				return
			}
			next.ServeHTTP(w, withIdentity(r, user))
		})
	}
}

// OptionalSession attaches an identity when a valid token is present and
// passes the request through anonymously otherwise. An invalid token is not
// an error here; the handler simply sees an anonymous viewer.
func OptionalSession(resolver SessionResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if user, err := resolver.Resolve(r.Context(), token); err == nil {
					r = withIdentity(r, user)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := IdentityFrom(r.Context())
			if ident == nil || !ident.IsAdmin {
				writeError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
