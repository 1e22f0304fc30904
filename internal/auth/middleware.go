package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// Verifier resolves a bearer token to its user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Middleware rejects requests without a valid token before the handler runs.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := v.Verify(r.Context(), BearerToken(r))
			if err != nil {
				kind := apperr.KindOf(err)
				if kind == apperr.KindInternal {
					log.Printf("auth: verify failed: %v", err)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(kind.Status())
				_ = json.NewEncoder(w).Encode(map[string]string{"message": apperr.PublicMessage(err)})
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
