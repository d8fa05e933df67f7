package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/policy"
)

// TokenVerifier checks an access token and returns the subject user id.
type TokenVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

// Authenticate resolves the bearer token into an actor on the request
// context. Requests without an Authorization header proceed anonymously;
// requests presenting a token that fails verification are rejected so a
// stale token never silently downgrades to anonymous access.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				rejectUnauthorized(w, "malformed authorization header")
				return
			}

			userID, err := verifier.VerifyAccessToken(strings.TrimSpace(token))
			if err != nil {
				logging.FromContext(r.Context()).Warn("access token rejected", "error", err)
				rejectUnauthorized(w, "invalid or expired access token")
				return
			}

			ctx := policy.WithActor(r.Context(), policy.Actor{ID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
