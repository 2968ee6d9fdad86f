package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type contextKey string

const memberKey contextKey = "member"

// SessionAuth resolves the caller's session token (cookie or bearer header)
// and stores the member in the request context. Unresolvable tokens leave
// the request anonymous; route guards decide whether that is acceptable.
func SessionAuth(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token != "" {
				if member, err := auth.ResolveSession(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), memberKey, member))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireMember rejects anonymous requests.
func RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := MemberFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous and non-admin requests.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member, ok := MemberFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !member.Admin {
			writeError(w, http.StatusForbidden, "administrator privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MemberFromContext returns the resolved caller, if any.
func MemberFromContext(ctx context.Context) (*domain.Member, bool) {
	member, ok := ctx.Value(memberKey).(*domain.Member)
	return member, ok && member != nil
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// CORS allows the frontend origin list; "*" allows any.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAny := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
		}
		allowed[origin] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
