package entitlement

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/epreen/zimapp-web-sub001/pkg/logger"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Middleware verifies the bearer token, resolves the actor and stores it in
// the request context. Requests without a valid token get 401.
func Middleware(parser *TokenParser, resolver *Resolver, log *slog.Logger) func(http.Handler) http.Handler {
	log = logger.OrDiscard(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := parser.Parse(BearerToken(r))
			if err != nil {
				log.DebugContext(r.Context(), "rejecting request", logger.Error(err))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{"code": "unauthorized"},
				})
				return
			}

			ent := resolver.Resolve(claims)
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), ent.Actor)))
		})
	}
}
