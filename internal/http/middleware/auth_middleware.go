package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/healthpredict/healthpredict-backend/internal/domain"
	"github.com/healthpredict/healthpredict-backend/internal/http/response"
	"github.com/healthpredict/healthpredict-backend/internal/observability"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

type contextKey string

const accountContextKey contextKey = "account"

// AuthMiddleware verifies the bearer session token and resolves the subject
// to its account. Token validity is stateless; the account lookup guards
// against subjects whose account no longer exists.
func AuthMiddleware(auth service.AuthServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				observability.RecordSessionValidation(r.Context(), "missing")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token", nil)
				return
			}
			subject, err := auth.VerifySession(raw)
			if err != nil {
				observability.RecordSessionValidation(r.Context(), "invalid")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", nil)
				return
			}
			acct, err := auth.AccountBySubject(subject)
			if err != nil {
				observability.RecordSessionValidation(r.Context(), "unknown_subject")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token", nil)
				return
			}
			observability.RecordSessionValidation(r.Context(), "valid")
			ctx := context.WithValue(r.Context(), accountContextKey, acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	acct, ok := ctx.Value(accountContextKey).(*domain.Account)
	return acct, ok
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
