package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/war-planner/internal/logger"
	"github.com/dom/war-planner/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
)

// TokenValidator parses access tokens. *service.AuthService satisfies it.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// Auth requires a valid access token, taken from the Authorization header
// or, for websocket upgrades, the token query parameter.
func Auth(auth TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				logger.ForRequest(r.Context()).Debug().Msg("missing or malformed authorization")
				writeJSONError(w, http.StatusUnauthorized, "Authorization required")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				logger.ForRequest(r.Context()).Debug().Err(err).Msg("token validation failed")
				writeJSONError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Officer rejects requests whose token lacks the officer claim. It must run
// after Auth.
func Officer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok || !claims.IsOfficer {
			writeJSONError(w, http.StatusForbidden, "Officer role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		token := r.URL.Query().Get("token")
		return token, token != ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], parts[1] != ""
}

func GetClaims(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*service.Claims)
	return claims, ok
}

func GetPlayerID(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return claims.PlayerID, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
