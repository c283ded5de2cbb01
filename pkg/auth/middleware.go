package auth

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/content-lab/pkg/handlers"
)

// Middleware attaches the principal described by the configured headers to each request.
// Requests without a user header run as Anonymous with no authorities.
func Middleware(cfg *Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login := strings.TrimSpace(r.Header.Get(cfg.UserHeader))
			if login == "" {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{Login: Anonymous})))
				return
			}

			p := Principal{
				Login:       login,
				Authorities: parseAuthorities(r.Header.Get(cfg.AuthoritiesHeader)),
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireAuthority rejects requests whose principal lacks authority with 403.
func RequireAuthority(authority string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !FromContext(r.Context()).HasAuthority(authority) {
			handlers.RespondJSON(w, http.StatusForbidden, handlers.ErrorBody{
				Error: "missing authority " + authority,
				Key:   "forbidden",
			})
			return
		}
		next(w, r)
	}
}

func parseAuthorities(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if a := strings.TrimSpace(p); a != "" {
			out = append(out, a)
		}
	}
	return out
}
