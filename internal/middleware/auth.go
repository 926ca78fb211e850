package middleware

import (
	"context"
	"net/http"

	"kantin-be/internal/auth"
	"kantin-be/internal/logger"
	"kantin-be/internal/user"
	"kantin-be/internal/utils"

	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*user.Session, error)
}

// AuthMiddleware attaches the admin to the request context when a valid token
// is present. Requests without one pass through anonymously; RequireAdmin
// decides what needs a session.
func AuthMiddleware(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := a.Authenticate(r.Context(), tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("token rejected", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetAdminContext(r.Context(), sess.User.ID, sess.User.Email)
			ctx = context.WithValue(ctx, sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests that carry no valid session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetAdminIDFromContext(r.Context()); !ok {
			utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFrom returns the session attached by AuthMiddleware.
func SessionFrom(ctx context.Context) (*user.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*user.Session)
	return sess, ok
}
