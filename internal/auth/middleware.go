package auth

import (
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/pkg/httpx"
)

// RequireAdmin rejects requests without a valid admin token. The token is
// read from the Authorization header, or from the access_token query
// parameter for clients that cannot set headers (websocket upgrades).
func RequireAdmin(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				httpx.Error(w, r, http.StatusUnauthorized, "error.unauthorized", nil)
				return
			}
			claims, err := s.ParseToken(raw)
			if err != nil {
				httpx.Error(w, r, http.StatusUnauthorized, "error.unauthorized", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}
