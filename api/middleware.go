package api

import (
	"net/http"
	"strings"
)

// RequireBearer rejects requests without a token issued by Login.
func (b *Backend) RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			b.writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if !b.tokens.valid(token) {
			w.Header().Set("WWW-Authenticate", "Bearer")
			b.writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r)
	})
}
